// Package interval parses rotation interval descriptors such as "15m" or "1d"
// and computes the calendar-aligned boundaries around a point in time.
//
// Month, day and hour boundaries are computed by mutating local calendar
// fields with time.Date, so a day is whatever length the location says it
// is on that date. Minute and second boundaries are computed by flooring the
// Unix time to a multiple of the period.
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Unit is the calendar unit of an Interval.
type Unit byte

// These are the units an Interval may be expressed in.
const (
	Second Unit = 's'
	Minute Unit = 'm'
	Hour   Unit = 'h'
	Day    Unit = 'd'
	Month  Unit = 'M'
)

// Errors returned while parsing descriptors.
var (
	ErrInvalid     = errors.New("invalid interval")
	ErrInvalidSize = errors.New("invalid size")
)

// Interval is a rotation period like "3h". The zero value means no interval.
type Interval struct {
	Count int
	Unit  Unit
}

// Parse converts a descriptor like "15m" into an Interval. Minute and second
// counts must divide 60 and hour counts must divide 24, so boundaries always
// land on the same clock-face values.
func Parse(value string) (Interval, error) {
	num, unit, err := measure(value)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	ret := Interval{Count: num, Unit: Unit(unit)}

	switch ret.Unit {
	case Hour:
		err = ret.divides("hours", 24) //nolint:mnd
	case Minute:
		err = ret.divides("minutes", 60) //nolint:mnd
	case Second:
		err = ret.divides("seconds", 60) //nolint:mnd
	case Day, Month:
	default:
		return Interval{}, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalid, unit, value)
	}

	if err != nil {
		return Interval{}, err
	}

	return ret, nil
}

// MustParse is Parse, but panics on error. Useful for package-level values and tests.
func MustParse(value string) Interval {
	i, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return i
}

func (i Interval) divides(unit string, amount int) error {
	if amount%i.Count != 0 {
		return fmt.Errorf("%w: an integer divider of %d is expected as %s, got %d", ErrInvalid, amount, unit, i.Count)
	}

	return nil
}

// IsZero returns true when no interval is configured.
func (i Interval) IsZero() bool {
	return i.Count == 0
}

// String returns the descriptor, like "3h".
func (i Interval) String() string {
	if i.IsZero() {
		return ""
	}

	return strconv.Itoa(i.Count) + string(i.Unit)
}

// Bounds returns the boundary at or before now and the one after it.
// A zero Interval returns now for both.
func (i Interval) Bounds(now time.Time) (prev, next time.Time) {
	if i.Count <= 0 {
		return now, now
	}

	switch i.Unit {
	case Month, Day, Hour:
		return i.calendar(now)
	case Minute, Second:
	}

	period := int64(i.Count) * time.Second.Milliseconds()
	if i.Unit == Minute {
		period *= 60
	}

	floor := now.UnixMilli() / period * period
	prev = time.UnixMilli(floor).In(now.Location())

	return prev, prev.Add(time.Duration(period) * time.Millisecond)
}

func (i Interval) calendar(now time.Time) (time.Time, time.Time) {
	var (
		loc              = now.Location()
		year, month, day = now.Date()
		hour             = now.Hour()
	)

	switch i.Unit {
	case Month:
		day, hour = 1, 0
	case Day:
		hour = 0
	default:
		hour = hour / i.Count * i.Count
	}

	prev := time.Date(year, month, day, hour, 0, 0, 0, loc)

	switch i.Unit {
	case Month:
		month += time.Month(i.Count)
	case Day:
		day += i.Count
	default:
		hour += i.Count
	}

	return prev, time.Date(year, month, day, hour, 0, 0, 0, loc)
}

// UnmarshalText allows an Interval to be decoded from a string; used by flag and config parsers.
func (i *Interval) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*i = Interval{}
		return nil
	}

	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// MarshalText is the reverse of UnmarshalText.
func (i Interval) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalYAML decodes "1h" style strings out of YAML config files.
func (i *Interval) UnmarshalYAML(value *yaml.Node) error {
	return i.UnmarshalText([]byte(value.Value))
}

// measure splits "10M" into 10 and "M". Leading spaces and zeros are ignored.
func measure(value string) (int, byte, error) {
	value = strings.TrimLeft(value, " 0")

	end := strings.IndexFunc(value, func(r rune) bool { return r < '0' || r > '9' })
	if end == 0 {
		return 0, 0, fmt.Errorf("a positive integer number is expected: %q", value)
	} else if end < 0 {
		return 0, 0, fmt.Errorf("missing unit: %q", value)
	}

	num, err := strconv.Atoi(value[:end])
	if err != nil || num <= 0 {
		return 0, 0, fmt.Errorf("a positive integer number is expected: %q", value)
	}

	if rest := strings.TrimSpace(value[end:]); len(rest) != 1 {
		return 0, 0, fmt.Errorf("unknown format: %q", value)
	}

	return num, value[end], nil
}
