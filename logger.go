package logrotatorr

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golift.io/logrotatorr/clock"
	"golift.io/logrotatorr/filer"
	"golift.io/logrotatorr/history"
)

// Logger is what you get in return for providing a Config. Use this to set log output.
// You must obtain a Logger by calling one of the New() procedures.
type Logger struct {
	config      *Config            // incoming configuration, with defaults applied.
	log         chan []byte        // incoming log messages passed across go routines.
	resp        chan *resp         // response sent back across go routines.
	signal      chan struct{}      // used for Rotate ops.
	closing     chan struct{}      // closed by Close.
	tick        chan uint64        // timer generations, sent by armed timers.
	done        chan struct{}      // closed when the go routine exits.
	once        sync.Once          // protects closing.
	ctx         context.Context    // cancelled on close; passed to compressors.
	cancel      context.CancelFunc // cancels ctx.
	finish      finisher           // the naming strategy, chosen once.
	ledger      *history.Ledger    // nil without MaxFiles or MaxSize.
	filer.Filer                    // overridable file system procedures.

	// Everything below belongs to the processLogChannel go routine.
	file     *os.File    // the active open file.
	name     string      // the active file's name.
	size     int64       // the size of the active open file.
	rotation time.Time   // when the last rotation started.
	prev     time.Time   // start of the interval being written.
	next     time.Time   // end of the interval being written.
	timer    clock.Timer // the armed interval timer.
	gen      uint64      // current timer generation. Older ticks are ignored.
	err      error       // the fatal error. Once set, the logger is dead.
	closeErr error       // returned by Close.
}

// resp is used to send responses back across our go routines.
type resp struct {
	size int64
	err  error
}

// New takes in your configuration and returns a Logger you can use with
// log.SetOutput(). Configuration problems and the first file open are
// reported here; the Logger is not returned if they fail.
func New(config *Config) (*Logger, error) {
	logger, err := newLogger(config)
	if err != nil {
		return nil, err
	}

	if err := logger.start(); err != nil {
		logger.cancel()

		return nil, err
	}

	go logger.processLogChannel()

	return logger, nil
}

// NewMust is New without the error. A configuration error panics.
// Errors opening or rotating the first file are returned by every Write.
func NewMust(config *Config) *Logger {
	logger, err := newLogger(config)
	if err != nil {
		panic(err)
	}

	_ = logger.start() // stored in logger.err.

	go logger.processLogChannel()

	return logger
}

func newLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = &Config{}
	}

	copied := *config
	copied.setConfigDefaults()

	finish, err := copied.strategy()
	if err != nil {
		return nil, err
	}

	base, err := finish.base()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Logger{
		config:  &copied,
		log:     make(chan []byte),
		resp:    make(chan *resp),
		signal:  make(chan struct{}),
		closing: make(chan struct{}),
		tick:    make(chan uint64),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		finish:  finish,
		ledger:  copied.ledger(base),
		Filer:   copied.Filer,
		name:    base,
	}, nil
}

// processLogChannel runs in a go routine and reads the incoming logs channel.
// Received logs are dispatched to the write method. Replies are then sent to the
// response channel. This also handles log rotation, the interval timer and routine
// shutdown. Every file operation happens in this one go routine.
func (l *Logger) processLogChannel() {
	defer close(l.done)

	for {
		select {
		case b := <-l.log:
			size, err := l.write(b)
			l.resp <- &resp{int64(size), err}
		case <-l.signal:
			size, err := l.forceRotate()
			l.resp <- &resp{size, err}
		case gen := <-l.tick:
			l.alarm(gen)
		case <-l.closing:
			l.drain()
			l.closeErr = l.stop()

			return
		}
	}
}

// drain writes the messages that were already waiting when Close was called.
func (l *Logger) drain() {
	for {
		select {
		case b := <-l.log:
			size, err := l.write(b)
			l.resp <- &resp{int64(size), err}
		default:
			return
		}
	}
}

// Write sends data to the active file. This satisfies the io.Writer interface.
// The data is on its way to disk, in order, when Write returns.
// Writes after Close return ErrClosed.
func (l *Logger) Write(b []byte) (int, error) {
	select {
	case l.log <- b:
	case <-l.done:
		return 0, ErrClosed
	}

	resp := <-l.resp

	return int(resp.size), resp.err
}

// End writes b, if it's not empty, then closes the logger.
func (l *Logger) End(b []byte) error {
	var err error

	if len(b) > 0 {
		_, err = l.Write(b)
	}

	if cerr := l.Close(); err == nil {
		err = cerr
	}

	return err
}

// Rotate forces the log to rotate immediately. Returns the size of the rotated log.
func (l *Logger) Rotate() (int64, error) {
	select {
	case l.signal <- struct{}{}:
	case <-l.done:
		return 0, ErrClosed
	}

	resp := <-l.resp

	return resp.size, resp.err
}

// Close writes anything still queued, closes the active log file and stops
// the timer and the go routine. It returns the error that stopped the logger,
// if one did. Calling Close more than once is safe.
func (l *Logger) Close() error {
	l.once.Do(func() { close(l.closing) })
	<-l.done

	return l.closeErr
}

// start opens the first file, rotating it first if it's already too big
// or too old. Runs before the go routine starts.
func (l *Logger) start() error {
	if _, ok := l.finish.(*immutable); ok {
		l.rotation, l.name = l.config.Clock.Now(), ""

		if _, err := l.finish.finish(l); err != nil {
			return l.fail(err)
		}

		return l.fail(l.open())
	}

	info, err := l.Stat(l.name)
	if filer.IsNotExist(err) {
		return l.fail(l.open())
	} else if err != nil {
		return l.fail(fmt.Errorf("stating log file: %w", err))
	}

	if !info.Mode().IsRegular() {
		return l.fail(fmt.Errorf("%w: %s", ErrNotFile, l.name))
	}

	if l.config.InitialRotation {
		current, _ := l.config.Every.Bounds(l.config.Clock.Now())
		if l.prev, l.next = l.config.Every.Bounds(info.ModTime()); !current.Equal(l.prev) {
			return l.rotate()
		}
	}

	if l.config.FileSize == 0 || info.Size() < l.config.FileSize {
		l.size = info.Size()

		return l.fail(l.open())
	}

	if !l.config.Every.IsZero() {
		l.prev, l.next = l.config.Every.Bounds(l.config.Clock.Now())
	}

	return l.rotate()
}

// open opens the active log file for appending. It's created if it does not
// exist, and so are any missing folders. Arms the interval timer.
func (l *Logger) open() error {
	const flags = os.O_WRONLY | os.O_APPEND | os.O_CREATE

	file, err := l.OpenFile(l.name, flags, l.config.FileMode)
	if filer.IsNotExist(err) {
		if err = l.MkdirAll(filepath.Dir(l.name), l.config.DirMode); err != nil {
			return fmt.Errorf("making directories for logfiles: %w", err)
		}

		file, err = l.OpenFile(l.name, flags, l.config.FileMode)
	}

	if err != nil {
		return fmt.Errorf("error with new logfile: %w", err)
	}

	l.file = file
	l.config.Observer.Open(l.name)
	l.arm()

	return nil
}

// write sends a message into the log file after everyhing checks out - from a channel message.
func (l *Logger) write(b []byte) (int, error) {
	if l.err != nil {
		return 0, l.err
	}

	if l.config.ReopenMissing {
		if err := l.reopen(); err != nil {
			return 0, l.fail(err)
		}
	}

	size, err := l.file.Write(b)
	l.size += int64(size)

	if err != nil {
		return size, l.fail(fmt.Errorf("error writing log msg: %w", err))
	}

	if l.config.Tee != nil {
		if _, err := l.config.Tee.Write(b); err != nil {
			l.config.Observer.Warning(fmt.Errorf("writing log msg copy: %w", err))
		}
	}

	if l.config.FileSize > 0 && l.size >= l.config.FileSize {
		if err := l.rotate(); err != nil {
			// The message is on disk, the rotation after it failed.
			return size, err
		}
	}

	return size, nil
}

// reopen creates the active file again if something removed it.
func (l *Logger) reopen() error {
	if _, err := l.Stat(l.name); !filer.IsNotExist(err) {
		return nil //nolint:nilerr // other stat errors show up on write.
	}

	if err := l.close(); err != nil {
		l.config.Observer.Warning(err)
	}

	l.cancelTimer()
	l.size = 0

	return l.open()
}

// fail records the first fatal error, reports it and closes the file.
// Every later write returns the same error. Returns the stored error.
func (l *Logger) fail(err error) error {
	if err == nil || l.err != nil {
		return l.err
	}

	l.err = err
	l.config.Observer.Error(err)
	l.cancelTimer()

	if cerr := l.close(); cerr != nil {
		l.config.Observer.Warning(cerr)
	}

	return err
}

// close closes the active log file.
func (l *Logger) close() error {
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("closing log file %s: %w", l.name, err)
	}

	return nil
}

// stop closes everything down.
func (l *Logger) stop() error {
	l.cancelTimer()
	l.cancel()

	if err := l.close(); err != nil && l.err == nil {
		return err
	}

	return l.err
}

// Our interface must satify an io.WriteCloser.
var _ io.WriteCloser = (*Logger)(nil)
