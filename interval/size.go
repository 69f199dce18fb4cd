package interval

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Size is a byte count that decodes from strings like "10M".
type Size int64

// Size units accepted by ParseSize.
const (
	Byte     Size = 1
	Kilobyte      = 1024 * Byte
	Megabyte      = 1024 * Kilobyte
	Gigabyte      = 1024 * Megabyte
)

// ParseSize converts "10B", "64K", "10M" or "1G" into a number of bytes.
func ParseSize(value string) (Size, error) {
	num, unit, err := measure(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	switch unit {
	case 'B':
		return Size(num), nil
	case 'K':
		return Size(num) * Kilobyte, nil
	case 'M':
		return Size(num) * Megabyte, nil
	case 'G':
		return Size(num) * Gigabyte, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalidSize, unit, value)
	}
}

// UnmarshalText accepts a unit string or a bare number of bytes.
func (s *Size) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = 0
		return nil
	}

	if n, err := strconv.ParseInt(string(text), 10, 64); err == nil && n >= 0 {
		*s = Size(n)
		return nil
	}

	parsed, err := ParseSize(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// UnmarshalYAML decodes "10M" style strings out of YAML config files.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	return s.UnmarshalText([]byte(value.Value))
}
