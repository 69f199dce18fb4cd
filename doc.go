// Package logrotatorr is a log rotation module designed to plug directly into a
// standard go logger. New() returns an io.WriteCloser that writes to a file and
// rotates it when it reaches a size, when a calendar interval ends, or both.
//
// Rotated files are named with one of three strategies, chosen once by Config:
//
//   - timestamp (default): service.log is renamed to 20150329-0129-01-service.log.
//   - classical (Config.Rotate > 0): service.log -> service.log.1 -> service.log.2 ...
//   - immutable (Config.Immutable): files are never renamed; every file gets a
//     stamped name and the next free one is found by probing.
//
// Rotated files may be compressed in-process or by an external command, and
// a history ledger can delete old rotated files by count or total size.
// All writes are applied in order by a single go routine, across any number
// of rotations. Events are delivered to an Observer.
//
// The naming, compression and history pieces live in subpackages:
//
//	https://pkg.go.dev/golift.io/logrotatorr/timerotator
//	https://pkg.go.dev/golift.io/logrotatorr/introtator
//	https://pkg.go.dev/golift.io/logrotatorr/compressor
//	https://pkg.go.dev/golift.io/logrotatorr/history
package logrotatorr
