package logrotatorr

import (
	"fmt"
	"path/filepath"
	"time"

	"golift.io/logrotatorr/compressor"
	"golift.io/logrotatorr/filer"
	"golift.io/logrotatorr/introtator"
	"golift.io/logrotatorr/timerotator"
)

// finisher retires the closed active file. It returns the retired file's
// name, or an empty string if there was nothing to retire. The active file's
// name, and in immutable mode its size, are updated on the Logger.
type finisher interface {
	base() (string, error)
	finish(l *Logger) (string, error)
}

// generator renames the active file to a new time-stamped name.
type generator struct {
	layout *timerotator.Layout
}

// classical shifts numbered files up by one.
type classical struct {
	layout *introtator.Layout
}

// immutable never renames. It finds the next time-stamped file to write.
type immutable struct {
	layout *timerotator.Layout
}

// Our finishers must satify a finisher.
var (
	_ finisher = (*generator)(nil)
	_ finisher = (*classical)(nil)
	_ finisher = (*immutable)(nil)
)

// forceRotate rotates on request - from a channel message.
func (l *Logger) forceRotate() (int64, error) {
	if l.err != nil {
		return 0, l.err
	}

	size := l.size

	return size, l.rotate()
}

// rotate closes the active file, retires it, records it in the history
// ledger and opens the next one. Any error here is fatal.
func (l *Logger) rotate() error {
	if l.err != nil {
		return l.err
	}

	l.rotation = l.config.Clock.Now()
	l.size = 0
	l.cancelTimer()
	l.config.Observer.Rotation()

	if err := l.close(); err != nil {
		return l.fail(err)
	}

	retired, err := l.finish.finish(l)
	if err != nil {
		return l.fail(err)
	}

	if retired != "" {
		if err := l.record(retired); err != nil {
			return l.fail(err)
		}

		l.config.Observer.Rotated(retired)
	}

	return l.fail(l.open())
}

// record adds a retired file to the history ledger, if there is one.
func (l *Logger) record(fileName string) error {
	if l.ledger == nil {
		return nil
	}

	if _, err := l.ledger.Record(fileName); err != nil {
		return fmt.Errorf("updating history: %w", err)
	}

	l.config.Observer.History()

	return nil
}

// rename moves src to dst. Missing folders are created and the rename tried once more.
func (l *Logger) rename(src, dst string) error {
	err := l.Rename(src, dst)
	if filer.IsNotExist(err) {
		if err = l.MkdirAll(filepath.Dir(dst), l.config.DirMode); err != nil {
			return fmt.Errorf("making directories for rotated file: %w", err)
		}

		err = l.Rename(src, dst)
	}

	if err != nil {
		return fmt.Errorf("error rotating file: %w", err)
	}

	return nil
}

// compress claims dst, compresses src into it, then removes src.
// A src that cannot be removed is only a warning.
func (l *Logger) compress(src, dst string) error {
	warning, err := compressor.Claim(l.Filer, dst, l.config.DirMode)
	if err != nil {
		return err
	}

	if warning != nil {
		l.config.Observer.Warning(warning)
	}

	report, err := l.config.Compress.Compress(l.ctx, src, dst)
	if report != nil {
		for _, warning := range report.Warnings {
			l.config.Observer.Warning(warning)
		}
	}

	if err != nil {
		return fmt.Errorf("compressing %s: %w", src, err)
	}

	if err := l.Remove(src); err != nil {
		l.config.Observer.Warning(fmt.Errorf("removing compressed log file: %w", err))
	}

	return nil
}

func (g *generator) base() (string, error) {
	return g.layout.Name(time.Time{}, 0)
}

// finish finds the first free name for the rotation and moves the active file there.
func (g *generator) finish(l *Logger) (string, error) {
	marker := l.rotation
	if l.config.IntervalBoundary {
		marker = l.prev
	}

	probe := &TooManyAttemptsError{}

	for index := 1; index <= MaxAttempts; index++ {
		name, err := g.layout.Name(marker, index)
		if err != nil {
			return "", err
		}

		probe.Name, probe.Attempts = name, index

		if _, err := l.Stat(name); !filer.IsNotExist(err) {
			probe.Existing++
			continue // taken, or not usable.
		}

		if l.config.Compress != nil {
			return name, l.compress(l.name, name)
		}

		return name, l.rename(l.name, name)
	}

	return "", probe
}

func (c *classical) base() (string, error) {
	return c.layout.Name(0)
}

func (c *classical) finish(l *Logger) (string, error) {
	var final func(src, dst string) error
	if l.config.Compress != nil {
		final = l.compress
	}

	return c.layout.Shift(final)
}

func (i *immutable) base() (string, error) {
	return i.layout.Name(time.Time{}, 0)
}

// finish probes names for the rotation time until it finds a file that is
// missing or still has room. That file becomes the active file. The
// previously active file is retired.
func (i *immutable) finish(l *Logger) (string, error) {
	probe := &TooManyAttemptsError{}

	for index := 1; index <= MaxAttempts; index++ {
		name, err := i.layout.Name(l.rotation, index)
		if err != nil {
			return "", err
		}

		probe.Name, probe.Attempts = name, index

		info, err := l.Stat(name)
		if filer.IsNotExist(err) {
			return i.adopt(l, name, 0), nil
		} else if err != nil {
			return "", fmt.Errorf("stating log file: %w", err)
		}

		if !info.Mode().IsRegular() {
			return "", fmt.Errorf("%w: %s", ErrNotFile, name)
		}

		if l.config.FileSize == 0 || info.Size() < l.config.FileSize {
			return i.adopt(l, name, info.Size()), nil
		}

		probe.Full++
	}

	return "", probe
}

// adopt makes name the active file. The previous file is retired,
// unless the probe landed on the file that was already active.
func (i *immutable) adopt(l *Logger, name string, size int64) string {
	retired := l.name
	l.name, l.size = name, size

	if retired == name {
		return ""
	}

	return retired
}
