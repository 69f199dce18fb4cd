// Package introtator provides the classical numbering strategy for rotated
// log files: service.log is shifted to service.log.1, service.log.1 to
// service.log.2 and so on, keeping at most Layout.Count rotated files.
//
// The current file is always rotated to `.1`, and all the files in the way
// are rotated first, highest integer first. Anything shifted past Count is
// overwritten.
package introtator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golift.io/logrotatorr/filer"
)

// Layout defines how integer-stamped rotated logs have their file names decided.
// This also sets how many files are kept.
type Layout struct {
	Dir      string      // Location of the log files. Prepended to every name.
	Filename string      // Base file name. It may contain directories.
	Count    int         // Maximum number of rotated log files.
	DirMode  os.FileMode // POSIX mode for created folders.
	// Custom replaces the built-in naming. Index 0 is the active file.
	Custom func(index int) (string, error)
	filer.Filer
}

// Some constants this package uses.
const (
	Joiner              = "."   // joins the file name with the integer.
	DirMode os.FileMode = 0o750 // used when Layout.DirMode is zero.
)

// ErrNoFilename is returned when neither a Filename nor a Custom function is provided.
var ErrNoFilename = errors.New("introtator: a Filename or Custom namer is required")

// Name returns the path for a rotated file index. Index 0 is the active file.
func (l *Layout) Name(index int) (string, error) {
	if l.Custom != nil {
		name, err := l.Custom(index)
		if err != nil {
			return "", fmt.Errorf("custom namer: %w", err)
		}

		return filepath.Join(l.Dir, name), nil
	}

	if l.Filename == "" {
		return "", ErrNoFilename
	}

	if index == 0 {
		return filepath.Join(l.Dir, l.Filename), nil
	}

	return filepath.Join(l.Dir, l.Filename+Joiner+strconv.Itoa(index)), nil
}
