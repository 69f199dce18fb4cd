// Package timerotator provides the timestamp naming strategy for rotated log
// files. By default a file rotated at 2015-03-29 01:29 for the first time that
// minute is named: 20150329-0129-01-service.log.
// Control the time format with the Layout.Format parameter, or replace the
// naming entirely with Layout.Custom.
//
// The same Layout drives logrotatorr's immutable mode, where every file,
// including the first one, gets a stamped name.
package timerotator

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Layout defines how time-stamped log files have their names decided.
type Layout struct {
	Dir      string // Location of the log files. Prepended to every name.
	Filename string // Base file name. It may contain directories.
	Format   string // Format for Go Time. Default: FormatDefault.
	Joiner   string // The string between the time stamp, the index and the base name. Default: -
	UseUTC   bool   // Sets the time zone to UTC when writing Time Formats (rotated files).
	// Custom replaces the built-in naming. A zero marker asks for the name
	// of the file being written to before any rotation.
	Custom func(marker time.Time, index int) (string, error)
}

// Some Formats you may use in your app.
const (
	FormatDefault = "20060102-1504"           // Default: Used if Format = ""
	FormatSeconds = "20060102-150405"         // Example: Same thing, plus seconds.
	FormatISO     = "2006-01-02T15-04-05.000" // Example: lumberjack-like.
)

// DefaultJoiner separates the parts of a generated name.
const DefaultJoiner = "-"

// ErrNoFilename is returned when neither a Filename nor a Custom function is provided.
var ErrNoFilename = errors.New("timerotator: a Filename or Custom namer is required")

// Name returns the path for a rotation marker and index.
// A zero marker returns the base file name.
func (l *Layout) Name(marker time.Time, index int) (string, error) {
	if l.Custom != nil {
		name, err := l.Custom(marker, index)
		if err != nil {
			return "", fmt.Errorf("custom namer: %w", err)
		}

		return filepath.Join(l.Dir, name), nil
	}

	if l.Filename == "" {
		return "", ErrNoFilename
	}

	if marker.IsZero() {
		return filepath.Join(l.Dir, l.Filename), nil
	}

	if l.UseUTC {
		marker = marker.UTC()
	}

	format, joiner := l.Format, l.Joiner
	if format == "" {
		format = FormatDefault
	}

	if joiner == "" {
		joiner = DefaultJoiner
	}

	dir, base := filepath.Split(l.Filename)

	return filepath.Join(l.Dir, dir, fmt.Sprintf("%s%s%02d%s%s", marker.Format(format), joiner, index, joiner, base)), nil
}
