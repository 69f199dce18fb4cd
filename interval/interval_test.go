package interval_test

import (
	"testing"
	"time"
	_ "time/tzdata" // Europe/Rome must load on hosts without a zoneinfo database.

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/logrotatorr/interval"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	for value, expect := range map[string]interval.Interval{
		"15m": {Count: 15, Unit: interval.Minute},
		"3h":  {Count: 3, Unit: interval.Hour},
		"1d":  {Count: 1, Unit: interval.Day},
		"2M":  {Count: 2, Unit: interval.Month},
		"30s": {Count: 30, Unit: interval.Second},
		"05m": {Count: 5, Unit: interval.Minute},
	} {
		i, err := interval.Parse(value)
		assert.NoError(err, value)
		assert.Equal(expect, i, value)
	}

	for _, value := range []string{"7m", "23h", "45s", "0s", "1x", "h", "10", "", "10mm"} {
		_, err := interval.Parse(value)
		assert.ErrorIs(err, interval.ErrInvalid, value)
	}

	assert.Equal("3h", interval.MustParse("3h").String())
	assert.Empty(interval.Interval{}.String())
	assert.True(interval.Interval{}.IsZero())
	assert.Panics(func() { interval.MustParse("7m") })
}

func TestParseSize(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	for value, expect := range map[string]interval.Size{
		"10B": 10,
		"2K":  2048,
		"10M": 10 * 1024 * 1024,
		"1G":  1024 * 1024 * 1024,
	} {
		size, err := interval.ParseSize(value)
		assert.NoError(err, value)
		assert.Equal(expect, size, value)
	}

	for _, value := range []string{"10", "10T", "-1M", "M"} {
		_, err := interval.ParseSize(value)
		assert.ErrorIs(err, interval.ErrInvalidSize, value)
	}
}

func TestBoundsHoursDaylightSaving(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	hours := interval.MustParse("3h")

	prev, next := hours.Bounds(time.Date(2015, 3, 29, 1, 29, 23, 123e6, time.UTC))
	assert.Equal(3*time.Hour, next.Sub(prev), "no daylight saving in UTC")
	assert.Equal(time.Date(2015, 3, 29, 0, 0, 0, 0, time.UTC), prev)

	// Clocks jump from 02:00 to 03:00 on this date, so the 00:00-03:00 bucket is two hours long.
	prev, next = hours.Bounds(time.Date(2015, 3, 29, 1, 29, 23, 123e6, rome))
	assert.Equal(2*time.Hour, next.Sub(prev))
	assert.Equal(time.Date(2015, 3, 29, 0, 0, 0, 0, rome), prev)
	assert.Equal(time.Date(2015, 3, 29, 3, 0, 0, 0, rome), next)

	prev, next = interval.MustParse("3d").Bounds(time.Date(2015, 3, 29, 1, 29, 23, 123e6, rome))
	assert.Equal(71*time.Hour, next.Sub(prev))
}

func TestBoundsCalendar(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	now := time.Date(2015, 3, 29, 1, 29, 23, 123e6, time.UTC)

	prev, next := interval.MustParse("1M").Bounds(now)
	assert.Equal(time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), prev)
	assert.Equal(time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC), next)

	prev, next = interval.MustParse("2M").Bounds(time.Date(1976, 1, 23, 0, 0, 0, 0, time.UTC))
	assert.Equal(time.Date(1976, 1, 1, 0, 0, 0, 0, time.UTC), prev)
	assert.Equal(time.Date(1976, 3, 1, 0, 0, 0, 0, time.UTC), next)

	prev, next = interval.MustParse("1d").Bounds(now)
	assert.Equal(time.Date(2015, 3, 29, 0, 0, 0, 0, time.UTC), prev)
	assert.Equal(time.Date(2015, 3, 30, 0, 0, 0, 0, time.UTC), next)

	prev, next = interval.MustParse("6h").Bounds(time.Date(2015, 3, 29, 23, 59, 0, 0, time.UTC))
	assert.Equal(time.Date(2015, 3, 29, 18, 0, 0, 0, time.UTC), prev)
	assert.Equal(time.Date(2015, 3, 30, 0, 0, 0, 0, time.UTC), next)
}

func TestBoundsClock(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	now := time.Date(2015, 3, 29, 1, 29, 23, 123e6, time.UTC)

	prev, next := interval.MustParse("15m").Bounds(now)
	assert.Equal(time.Date(2015, 3, 29, 1, 15, 0, 0, time.UTC), prev.UTC())
	assert.Equal(time.Date(2015, 3, 29, 1, 30, 0, 0, time.UTC), next.UTC())

	prev, next = interval.MustParse("10s").Bounds(now)
	assert.Equal(time.Date(2015, 3, 29, 1, 29, 20, 0, time.UTC), prev.UTC())
	assert.Equal(10*time.Second, next.Sub(prev))

	prev, next = interval.Interval{}.Bounds(now)
	assert.Equal(now, prev)
	assert.Equal(now, next)
}

func TestYAML(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var config struct {
		Every interval.Interval `yaml:"every"`
		Size  interval.Size     `yaml:"size"`
		Raw   interval.Size     `yaml:"raw"`
	}

	err := yaml.Unmarshal([]byte("every: 1h\nsize: 10M\nraw: 512\n"), &config)
	assert.NoError(err)
	assert.Equal(interval.MustParse("1h"), config.Every)
	assert.Equal(10*interval.Megabyte, config.Size)
	assert.Equal(interval.Size(512), config.Raw)

	err = yaml.Unmarshal([]byte("every: 7m\n"), &config)
	assert.ErrorIs(err, interval.ErrInvalid)
}
