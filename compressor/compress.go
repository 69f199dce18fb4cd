// Package compressor provides the compression strategies logrotatorr runs on
// rotated files: Gzip compresses in-process, Command runs an external program.
// Both write a new file and leave the source file in place; the caller owns
// its removal.
package compressor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"time"

	"github.com/klauspost/compress/gzip"
	"golift.io/logrotatorr/filer"
)

// SuffixGZ may be appended to a file name to make a compressed file name.
const SuffixGZ = ".gz"

// Compressor turns src into a compressed dst. Implementations must not remove src.
type Compressor interface {
	Compress(ctx context.Context, src, dst string) (*Report, error)
}

// Report contains a report of the compression operation.
// Always check for Error to make sure the New* data is valid.
type Report struct {
	OldFile  string
	NewFile  string
	OldSize  int64
	NewSize  int64
	Elapsed  time.Duration
	Error    error
	Warnings []error // Non-fatal problems, like a claim file that could not be removed.
}

// Gzip compresses files in-process.
type Gzip struct {
	Level int         // gzip level. Default: gzip.DefaultCompression.
	Mode  os.FileMode // POSIX mode for the new file. Default: the source file's mode.
	filer.Filer
}

// Compress gzips src into dst and returns a report. Blocks until finished.
// A partially written dst is removed on failure.
func (g *Gzip) Compress(_ context.Context, src, dst string) (*Report, error) {
	if g.Filer == nil {
		g.Filer = filer.Default()
	}

	report := &Report{OldFile: src, NewFile: dst}

	level := g.Level
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	oldFile, err := g.Stat(src)
	if report.Error = err; report.Error != nil {
		return report, fmt.Errorf("stating old file: %w", report.Error)
	}

	mode := g.Mode
	if mode == 0 {
		mode = oldFile.Mode().Perm()
	}

	report.OldSize = oldFile.Size()
	start := time.Now()
	report.NewSize, report.Error = g.compress(src, dst, mode, level)
	report.Elapsed = time.Since(start)

	if report.Error != nil {
		if err := g.Remove(dst); err != nil && !filer.IsNotExist(err) {
			report.Warnings = append(report.Warnings, fmt.Errorf("removing partial file: %w", err))
		}

		return report, fmt.Errorf("compressor error: %w", report.Error)
	}

	return report, nil
}

// compress does the "hard" work: Open the old file, open the new file, create a gzip writer,
// copy the old file through the writer and close all open file handles.
func (g *Gzip) compress(oldFile, newFile string, mode os.FileMode, level int) (int64, error) {
	ncf, err := g.OpenFile(oldFile, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer ncf.Close()

	gzf, err := g.OpenFile(newFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, fmt.Errorf("opening gz file: %w", err)
	}
	defer gzf.Close()

	gzw, err := gzip.NewWriterLevel(gzf, level)
	if err != nil {
		return 0, fmt.Errorf("creating gzip writer: %w", err)
	}

	gzw.Comment = reflect.TypeFor[Report]().PkgPath()

	if _, err = io.Copy(gzw, ncf); err != nil {
		return 0, fmt.Errorf("%s -> %s: %w", oldFile, newFile, err)
	}

	if err = gzw.Close(); err != nil {
		return 0, fmt.Errorf("flushing gzip stream: %w", err)
	}

	if err = gzf.Sync(); err != nil {
		return 0, fmt.Errorf("syncing gz file: %w", err)
	}

	info, err := gzf.Stat()
	if err != nil {
		return 0, fmt.Errorf("stating gz file: %w", err)
	}

	return info.Size(), nil
}

// Log sends a report to a custom procedure.
func Log(report *Report, printf func(msg string, fmt ...any)) {
	if printf == nil {
		printf = log.Printf
	}

	const kilobyte = 1024

	if report.Error != nil {
		printf("Compression Error after %v: %v", report.Elapsed.Round(time.Millisecond), report.Error)
	} else {
		printf("Compression Finished in %v: %s/%dkB -> %s/%dkB", report.Elapsed.Round(time.Millisecond),
			report.OldFile, report.OldSize/kilobyte, report.NewFile, report.NewSize/kilobyte)
	}
}

// Our types must satisfy a Compressor.
var (
	_ Compressor = (*Gzip)(nil)
	_ Compressor = (*Command)(nil)
)
