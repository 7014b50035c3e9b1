// Package scheduler provides the cancellable delayed task used by the
// autosave debounce and the presence heartbeat.
//
// Production code uses Real. Tests use Manual and advance virtual time, so no
// test ever sleeps.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Task is a scheduled callback. Stop reports whether it prevented the call.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
	Now() time.Time
}

// Real schedules on the runtime timer wheel.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Task { return time.AfterFunc(d, f) }

func (Real) Now() time.Time { return time.Now() }

// Manual is a virtual clock. Callbacks run synchronously inside Advance, in
// due-time order, on the goroutine calling Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m       *Manual
	at      time.Time
	seq     int
	f       func()
	done    bool
	stopped bool
}

// NewManual returns a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, at: m.now.Add(d), seq: m.seq, f: f}
	m.tasks = append(m.tasks, t)
	return t
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing every task that falls due.
// Tasks scheduled by a firing callback also fire if they are due before the target.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.compactLocked()
			m.mu.Unlock()
			return
		}
		m.now = next.at
		next.done = true
		m.mu.Unlock()

		next.f()
	}
}

// Pending returns how many tasks are still waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.done && !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDueLocked(target time.Time) *manualTask {
	var due []*manualTask
	for _, t := range m.tasks {
		if !t.done && !t.stopped && !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (m *Manual) compactLocked() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.done && !t.stopped {
			live = append(live, t)
		}
	}
	m.tasks = live
}

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
