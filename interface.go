package logrotatorr

import (
	"log/slog"
)

// Observer receives the engine's events. Every method is called from the
// engine's go routine while it holds the file, so it must return quickly and
// it must not write to the Logger.
type Observer interface {
	// Open is called every time a file is opened for writing.
	Open(fileName string)
	// Rotation is called when a rotation starts.
	Rotation()
	// Rotated is called when a rotation finishes with the retired file's name.
	Rotated(fileName string)
	// History is called after the history ledger is written.
	History()
	// Removed is called when the history ledger deletes a file. count is
	// true if it was deleted for MaxFiles, false if for MaxSize.
	Removed(fileName string, count bool)
	// Warning reports a problem that did not stop the logger.
	Warning(err error)
	// Error reports the error that stopped the logger. Called at most once.
	Error(err error)
}

// NopObserver ignores every event. Embed it to implement only a few methods.
type NopObserver struct{}

func (NopObserver) Open(string)          {}
func (NopObserver) Rotation()            {}
func (NopObserver) Rotated(string)       {}
func (NopObserver) History()             {}
func (NopObserver) Removed(string, bool) {}
func (NopObserver) Warning(error)        {}
func (NopObserver) Error(error)          {}

// MultiObserver sends every event to each observer, in order.
func MultiObserver(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) Open(fileName string) {
	for _, o := range m {
		o.Open(fileName)
	}
}

func (m multiObserver) Rotation() {
	for _, o := range m {
		o.Rotation()
	}
}

func (m multiObserver) Rotated(fileName string) {
	for _, o := range m {
		o.Rotated(fileName)
	}
}

func (m multiObserver) History() {
	for _, o := range m {
		o.History()
	}
}

func (m multiObserver) Removed(fileName string, count bool) {
	for _, o := range m {
		o.Removed(fileName, count)
	}
}

func (m multiObserver) Warning(err error) {
	for _, o := range m {
		o.Warning(err)
	}
}

func (m multiObserver) Error(err error) {
	for _, o := range m {
		o.Error(err)
	}
}

// SlogObserver writes events to a structured logger. Do not point that
// logger at the Logger being observed.
type SlogObserver struct {
	Logger *slog.Logger
}

func (s *SlogObserver) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}

	return s.Logger
}

func (s *SlogObserver) Open(fileName string) {
	s.logger().Debug("log file opened", "path", fileName)
}

func (s *SlogObserver) Rotation() {
	s.logger().Debug("log rotation started")
}

func (s *SlogObserver) Rotated(fileName string) {
	s.logger().Info("log file rotated", "path", fileName)
}

func (s *SlogObserver) History() {
	s.logger().Debug("log history written")
}

func (s *SlogObserver) Removed(fileName string, count bool) {
	reason := "size"
	if count {
		reason = "count"
	}

	s.logger().Info("old log file removed", "path", fileName, "reason", reason)
}

func (s *SlogObserver) Warning(err error) {
	s.logger().Warn("log rotation warning", "error", err)
}

func (s *SlogObserver) Error(err error) {
	s.logger().Error("log rotation failed", "error", err)
}

// Our types must satify an Observer.
var (
	_ Observer = NopObserver{}
	_ Observer = multiObserver(nil)
	_ Observer = (*SlogObserver)(nil)
)
