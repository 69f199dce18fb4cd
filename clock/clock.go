// Package clock provides the time source and delayed-callback primitive used
// by logrotatorr. Real() is backed by the time package. Fake is a manually
// advanced clock for tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock supplies the current time and cancellable timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the subset of *time.Timer the engine needs.
type Timer interface {
	Stop() bool
}

// Real returns a Clock that uses the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake is a Clock that only moves when told to. Timers fire synchronously,
// on the goroutine that calls Advance or Set, in deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	armed   []time.Duration
	autoInc time.Duration
}

type fakeTimer struct {
	clock   *Fake
	when    time.Time
	fn      func()
	stopped bool
}

// NewFake returns a Fake clock set to now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake time. If AutoIncrement was set, the clock moves
// forward by that amount after every call.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now
	f.now = f.now.Add(f.autoInc)

	return now
}

// AutoIncrement makes every Now() call advance the clock by d.
func (f *Fake) AutoIncrement(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoInc = d
}

// AfterFunc registers f to run once the fake time reaches now+d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{clock: f, when: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	f.armed = append(f.armed, d)

	return t
}

// Armed returns every duration passed to AfterFunc, in order.
func (f *Fake) Armed() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Duration(nil), f.armed...)
}

// Pending returns the number of timers that are neither fired nor stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0

	for _, t := range f.timers {
		if !t.stopped {
			count++
		}
	}

	return count
}

// Advance moves the clock forward by d and fires every due timer.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	now := f.now.Add(d)
	f.mu.Unlock()

	f.Set(now)
}

// Set moves the clock to now and fires every due timer.
func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	f.now = now

	var due []*fakeTimer

	keep := f.timers[:0]

	for _, t := range f.timers {
		switch {
		case t.stopped:
		case !t.when.After(now):
			t.stopped = true
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}

	f.timers = keep
	f.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].when.Before(due[j].when) })

	for _, t := range due {
		t.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped {
		return false
	}

	t.stopped = true

	return true
}

// Our types must satisfy a Clock.
var (
	_ Clock = realClock{}
	_ Clock = (*Fake)(nil)
)
