// Package history keeps the ledger of rotated log files and deletes the
// oldest ones when there are too many, or when they take too much space.
//
// The ledger is persisted as a plain text file with one path per line.
// Every load re-stats the listed files, so the file sizes and times are
// always those on disk.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golift.io/logrotatorr/filer"
)

// ErrNotRegular is wrapped by the warning emitted for a listed path that is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// Entry is one rotated file.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Entries are sorted oldest first.
type Entries []Entry

// Ledger tracks rotated files in a text file at Path. MaxFiles and MaxSize
// limit how many files, and how many bytes, are kept. Zero means no limit.
type Ledger struct {
	Path     string
	MaxFiles int
	MaxSize  int64
	FileMode os.FileMode
	DirMode  os.FileMode
	// OnRemoved is called after a file is deleted. count is true when the
	// file was deleted because of MaxFiles, false because of MaxSize.
	OnRemoved func(fileName string, count bool)
	// OnWarning receives non-fatal problems found while loading.
	OnWarning func(err error)
	filer.Filer
}

// Load reads the ledger and stats every file in it. Missing files are
// dropped silently. Anything that is not a regular file produces a warning
// and is dropped. A missing ledger is an empty ledger.
func (l *Ledger) Load() (Entries, error) {
	l.setDefaults()

	lines, err := l.read()
	if err != nil {
		return nil, err
	}

	return l.gather(lines)
}

// Record adds a file to the ledger, deletes the files over the limits and
// writes the ledger back. The remaining entries are returned.
func (l *Ledger) Record(fileName string) (Entries, error) {
	l.setDefaults()

	lines, err := l.read()
	if err != nil {
		return nil, err
	}

	found := false

	for _, line := range lines {
		if found = line == fileName; found {
			break
		}
	}

	if !found {
		lines = append(lines, fileName)
	}

	entries, err := l.gather(lines)
	if err != nil {
		return nil, err
	}

	if entries, err = l.Evict(entries); err != nil {
		return nil, err
	}

	return entries, l.Save(entries)
}

// Evict deletes the oldest entries until MaxFiles then MaxSize are satisfied.
// The entries must be sorted.
func (l *Ledger) Evict(entries Entries) (Entries, error) {
	l.setDefaults()

	for l.MaxFiles > 0 && len(entries) > l.MaxFiles {
		if err := l.remove(entries[0], true); err != nil {
			return entries, err
		}

		entries = entries[1:]
	}

	for l.MaxSize > 0 && len(entries) > 0 && entries.Size() > l.MaxSize {
		if err := l.remove(entries[0], false); err != nil {
			return entries, err
		}

		entries = entries[1:]
	}

	return entries, nil
}

// Save writes the entry paths to a temporary file and renames it over the ledger.
func (l *Ledger) Save(entries Entries) error {
	l.setDefaults()

	var data string
	if len(entries) > 0 {
		data = strings.Join(entries.Paths(), "\n") + "\n"
	}

	tmp := l.Path + ".tmp"

	err := l.WriteFile(tmp, []byte(data), l.FileMode)
	if filer.IsNotExist(err) {
		if err = l.MkdirAll(filepath.Dir(tmp), l.DirMode); err != nil {
			return fmt.Errorf("making directories for history: %w", err)
		}

		err = l.WriteFile(tmp, []byte(data), l.FileMode)
	}

	if err != nil {
		return fmt.Errorf("writing history: %w", err)
	}

	if err = l.Rename(tmp, l.Path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}

	return nil
}

func (l *Ledger) setDefaults() {
	if l.Filer == nil {
		l.Filer = filer.Default()
	}

	if l.FileMode == 0 {
		l.FileMode = 0o600
	}

	if l.DirMode == 0 {
		l.DirMode = 0o750
	}
}

func (l *Ledger) read() ([]string, error) {
	data, err := l.ReadFile(l.Path)
	if filer.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	lines := []string{}

	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSuffix(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

func (l *Ledger) gather(lines []string) (Entries, error) {
	entries := Entries{}

	for _, line := range lines {
		info, err := l.Stat(line)

		switch {
		case filer.IsNotExist(err):
			continue
		case err != nil:
			return nil, fmt.Errorf("stating history file: %w", err)
		case !info.Mode().IsRegular():
			l.warn(fmt.Errorf("file '%s' contained in history: %w", line, ErrNotRegular))
			continue
		}

		entries = append(entries, Entry{Path: line, Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Stable(entries)

	return entries, nil
}

func (l *Ledger) remove(entry Entry, count bool) error {
	if err := l.Remove(entry.Path); err != nil && !filer.IsNotExist(err) {
		return fmt.Errorf("removing old file: %w", err)
	}

	if l.OnRemoved != nil {
		l.OnRemoved(entry.Path, count)
	}

	return nil
}

func (l *Ledger) warn(err error) {
	if l.OnWarning != nil {
		l.OnWarning(err)
	}
}
