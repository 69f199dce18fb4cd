package logrotatorr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golift.io/logrotatorr/clock"
	"golift.io/logrotatorr/compressor"
	"golift.io/logrotatorr/filer"
	"golift.io/logrotatorr/history"
	"golift.io/logrotatorr/interval"
	"golift.io/logrotatorr/introtator"
	"golift.io/logrotatorr/timerotator"
)

// These are the default directory and log file POSIX modes.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o750
)

// DefaultMaxSize is only used when Every and FileSize Config
// struct members are omitted.
const DefaultMaxSize = 10 * 1024 * 1024

// MaxTimer is the longest single timer the engine arms. Longer intervals
// re-arm until the boundary is reached.
const MaxTimer = 2147483640 * time.Millisecond

// HistorySuffix is appended to the active file name to name the history ledger.
const HistorySuffix = ".txt"

// Config is the data needed to create a new Logger.
type Config struct {
	Dir      string // Folder prepended to every file name, including History.
	Filename string // Name of the active log file. Set this, or a custom layout.
	// TimeLayout overrides the naming of timestamp and immutable files.
	TimeLayout *timerotator.Layout
	// IntLayout overrides the naming of classical files. Implies classical rotation.
	IntLayout *introtator.Layout

	FileSize int64             // Rotate when the active file reaches this many bytes.
	Every    interval.Interval // Rotate on calendar boundaries: "1h", "1d", "1M".
	// IntervalBoundary names timestamp files after the interval they cover instead
	// of the time they were rotated. Requires Every.
	IntervalBoundary bool
	// InitialRotation rotates an existing file on start up if it was last
	// written during an earlier interval. Requires IntervalBoundary.
	InitialRotation bool
	// Immutable never renames files; see the package documentation. Requires Every.
	Immutable bool
	// Rotate enables classical numbering, keeping this many rotated files.
	Rotate int

	Compress compressor.Compressor // Compress rotated files. Ignored by Immutable.

	History  string // Ledger file name. Default: the active file name + ".txt".
	MaxFiles int    // Keep this many rotated files. Requires the ledger; not classical.
	MaxSize  int64  // Keep this many bytes of rotated files. Same as MaxFiles.

	FileMode os.FileMode   // POSIX mode for new files.
	DirMode  os.FileMode   // POSIX mode for new folders.
	MaxTimer time.Duration // Longest single timer. Default and maximum: MaxTimer.

	// ReopenMissing checks the active file before every write, and re-creates
	// it if something deleted or moved it.
	ReopenMissing bool
	Tee           io.Writer // Receives a copy of every write. Errors are warnings.

	Observer Observer    // Receives events. Default: NopObserver.
	Filer    filer.Filer // Overridable file system procedures.
	Clock    clock.Clock // Overridable time source.
}

// setConfigDefaults does exactly what it says. Sets missing values, and drops
// options that do nothing with the others selected.
func (c *Config) setConfigDefaults() {
	if c.Every.IsZero() && c.FileSize == 0 {
		c.FileSize = DefaultMaxSize
	}

	if c.DirMode == 0 {
		c.DirMode = DirMode
	}

	if c.FileMode == 0 {
		c.FileMode = FileMode
	}

	if c.MaxTimer <= 0 || c.MaxTimer > MaxTimer {
		c.MaxTimer = MaxTimer
	}

	if c.Observer == nil {
		c.Observer = NopObserver{}
	}

	if c.Filer == nil {
		c.Filer = filer.Default()
	}

	if c.Clock == nil {
		c.Clock = clock.Real()
	}

	if c.IntLayout != nil && c.Rotate == 0 {
		c.Rotate = c.IntLayout.Count
	}

	if c.Every.IsZero() {
		c.Immutable, c.InitialRotation, c.IntervalBoundary = false, false, false
	}

	if c.Rotate > 0 {
		c.History, c.Immutable, c.MaxFiles, c.MaxSize, c.IntervalBoundary = "", false, 0, 0, false
	}

	if c.Immutable {
		c.Compress = nil
	}

	// Compressed files get the configured file mode, unless the Gzip has its own.
	if gz, ok := c.Compress.(*compressor.Gzip); ok && gz.Mode == 0 {
		withMode := *gz
		withMode.Mode = c.FileMode
		c.Compress = &withMode
	}

	if !c.IntervalBoundary {
		c.InitialRotation = false
	}
}

// strategy validates the naming configuration and returns the finisher
// that runs every rotation of this Logger.
func (c *Config) strategy() (finisher, error) {
	if c.IntLayout != nil && c.TimeLayout != nil {
		return nil, fmt.Errorf("%w: IntLayout and TimeLayout are mutually exclusive", ErrConflict)
	}

	if c.IntLayout != nil || c.Rotate > 0 {
		if c.Rotate < 1 {
			return nil, fmt.Errorf("%w: IntLayout requires a Rotate count", ErrConflict)
		}

		layout := &introtator.Layout{Filename: c.Filename}
		if c.IntLayout != nil {
			copied := *c.IntLayout
			layout = &copied
		}

		if layout.Dir == "" {
			layout.Dir = c.Dir
		}

		layout.Count, layout.DirMode, layout.Filer = c.Rotate, c.DirMode, c.Filer

		return &classical{layout: layout}, checkName(layout.Name(0))
	}

	layout := &timerotator.Layout{Filename: c.Filename}
	if c.TimeLayout != nil {
		copied := *c.TimeLayout
		layout = &copied
	}

	if layout.Dir == "" {
		layout.Dir = c.Dir
	}

	if c.Immutable {
		return &immutable{layout: layout}, checkName(layout.Name(time.Time{}, 0))
	}

	return &generator{layout: layout}, checkName(layout.Name(time.Time{}, 0))
}

func checkName(name string, err error) error {
	switch {
	case errors.Is(err, timerotator.ErrNoFilename), errors.Is(err, introtator.ErrNoFilename):
		return ErrNoFilename
	case err != nil:
		return err
	case name == "" || name == ".":
		return ErrNoFilename
	default:
		return nil
	}
}

// ledger returns the history ledger, or nil if no limits are configured.
func (c *Config) ledger(base string) *history.Ledger {
	if c.MaxFiles == 0 && c.MaxSize == 0 {
		return nil
	}

	path := base + HistorySuffix
	if c.History != "" {
		path = filepath.Join(c.Dir, c.History)
	}

	return &history.Ledger{
		Path:      path,
		MaxFiles:  c.MaxFiles,
		MaxSize:   c.MaxSize,
		FileMode:  c.FileMode,
		DirMode:   c.DirMode,
		Filer:     c.Filer,
		OnRemoved: c.Observer.Removed,
		OnWarning: c.Observer.Warning,
	}
}
