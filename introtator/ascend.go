package introtator

import (
	"fmt"
	"path/filepath"

	"golift.io/logrotatorr/filer"
)

// Shift rotates the active file to `.1` after moving every existing rotated
// file one integer up, starting at Count. Missing files in the chain are
// skipped. When final is not nil it replaces the rename of the active file;
// use it to compress the active file into `.1`. The returned name is the
// highest integer that received a file.
func (l *Layout) Shift(final func(src, dst string) error) (string, error) {
	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	if l.DirMode == 0 {
		l.DirMode = DirMode
	}

	var rotated string

	for count := l.Count; count > 0; count-- {
		prevName, err := l.Name(count - 1)
		if err != nil {
			return "", err
		}

		thisName, err := l.Name(count)
		if err != nil {
			return "", err
		}

		if _, err := l.Stat(prevName); filer.IsNotExist(err) {
			continue // nothing to shift at this level.
		} else if err != nil {
			return "", fmt.Errorf("stating rotated file: %w", err)
		}

		if rotated == "" {
			rotated = thisName
		}

		if count == 1 && final != nil {
			if err := final(prevName, thisName); err != nil {
				return "", err
			}

			continue
		}

		if err := l.rename(prevName, thisName); err != nil {
			return "", err
		}
	}

	return rotated, nil
}

// rename creates the destination folder and tries once more if it is missing.
func (l *Layout) rename(prevName, thisName string) error {
	err := l.Rename(prevName, thisName)
	if filer.IsNotExist(err) {
		if err = l.MkdirAll(filepath.Dir(thisName), l.DirMode); err != nil {
			return fmt.Errorf("making directories for rotated file: %w", err)
		}

		err = l.Rename(prevName, thisName)
	}

	if err != nil {
		return fmt.Errorf("error rotating file: %w", err)
	}

	return nil
}
