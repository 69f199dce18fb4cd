package compressor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golift.io/logrotatorr/filer"
)

//go:generate mockgen -destination=../mocks/runner.go -package=mocks golift.io/logrotatorr/compressor Runner

// DefaultShell runs Command strings.
const DefaultShell = "sh"

// Runner runs an external program to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run starts a program and waits for it. Output is attached to a failure.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(out))
	}

	return nil
}

// Command compresses files with an external program run through a shell.
type Command struct {
	// Build returns the shell command that compresses src into dst.
	// Default: DefaultCommand.
	Build   func(src, dst string) string
	Shell   string      // Default: sh
	DirMode os.FileMode // POSIX mode for created folders.
	Runner  Runner      // Default: ExecRunner.
	filer.Filer
}

// DefaultCommand pipes src through `gzip -c9` into dst.
func DefaultCommand(src, dst string) string {
	return "cat " + Quote(src) + " | gzip -c9 > " + Quote(dst)
}

// Quote wraps a path in single quotes for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Compress claims dst, then runs the external command. A non-zero exit or a
// failure to start the program is returned as an error.
func (c *Command) Compress(ctx context.Context, src, dst string) (*Report, error) {
	c.setDefaults()

	report := &Report{OldFile: src, NewFile: dst}

	warning, err := Claim(c.Filer, dst, c.DirMode)
	if warning != nil {
		report.Warnings = append(report.Warnings, warning)
	}

	if report.Error = err; err != nil {
		return report, err
	}

	if info, err := c.Stat(src); err == nil {
		report.OldSize = info.Size()
	}

	start := time.Now()
	report.Error = c.Runner.Run(ctx, c.Shell, "-c", c.Build(src, dst))
	report.Elapsed = time.Since(start)

	if report.Error != nil {
		return report, fmt.Errorf("compress command: %w", report.Error)
	}

	if info, err := c.Stat(dst); err == nil {
		report.NewSize = info.Size()
	}

	return report, nil
}

func (c *Command) setDefaults() {
	if c.Build == nil {
		c.Build = DefaultCommand
	}

	if c.Shell == "" {
		c.Shell = DefaultShell
	}

	if c.Runner == nil {
		c.Runner = ExecRunner{}
	}

	if c.Filer == nil {
		c.Filer = filer.Default()
	}

	if c.DirMode == 0 {
		c.DirMode = 0o750
	}
}

// Claim verifies fileName can be created by creating and removing it.
// Missing folders are created, then the create is tried once more.
// Failing to remove the claimed file is only a warning.
func Claim(files filer.Filer, fileName string, dirMode os.FileMode) (warning, err error) {
	touch, err := files.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666) //nolint:gosec
	if filer.IsNotExist(err) {
		if err = files.MkdirAll(filepath.Dir(fileName), dirMode); err != nil {
			return nil, fmt.Errorf("making directories for %s: %w", fileName, err)
		}

		touch, err = files.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666) //nolint:gosec
	}

	if err != nil {
		return nil, fmt.Errorf("claiming %s: %w", fileName, err)
	}

	if err = touch.Close(); err != nil {
		return nil, fmt.Errorf("closing claim on %s: %w", fileName, err)
	}

	if err = files.Remove(fileName); err != nil {
		return fmt.Errorf("releasing claim on %s: %w", fileName, err), nil
	}

	return nil, nil
}
