// Package scheduler runs keyed, cancellable background tasks. Scheduling a
// task under a key that is already pending cancels the earlier one, so each
// key has at most one live timer.
package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is the work run when a timer fires.
type Task func()

// Scheduler holds one pending task per key.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]*entry
	seq     uint64
	stopped bool
	logger  zerolog.Logger
}

type entry struct {
	timer *time.Timer
	// seq tells a firing timer whether it is still the current entry for its key.
	seq uint64
}

// New creates an empty scheduler.
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		tasks:  make(map[string]*entry),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

// Schedule runs fn once after delay. Any task pending under key is cancelled first.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn().Str("key", key).Msg("scheduler stopped, task dropped")
		return
	}

	s.cancelLocked(key)

	s.seq++
	e := &entry{seq: s.seq}
	e.timer = time.AfterFunc(delay, func() {
		if !s.release(key, e.seq) {
			return
		}
		s.run(key, fn)
	})
	s.tasks[key] = e

	s.logger.Debug().Str("key", key).Dur("delay", delay).Msg("task scheduled")
}

// Every runs fn every interval until the key is cancelled or the scheduler stops.
// Any task pending under key is cancelled first.
func (s *Scheduler) Every(key string, interval time.Duration, fn Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn().Str("key", key).Msg("scheduler stopped, task dropped")
		return
	}

	s.cancelLocked(key)

	s.seq++
	e := &entry{seq: s.seq}
	var tick func()
	tick = func() {
		if !s.current(key, e.seq) {
			return
		}
		s.run(key, fn)

		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.tasks[key]; ok && cur.seq == e.seq && !s.stopped {
			e.timer.Reset(interval)
		}
	}
	e.timer = time.AfterFunc(interval, tick)
	s.tasks[key] = e

	s.logger.Debug().Str("key", key).Dur("interval", interval).Msg("periodic task scheduled")
}

// Cancel stops the task pending under key. It reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

// Pending reports whether a task is scheduled under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Stop cancels every pending task. Later calls to Schedule and Every are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.tasks {
		s.cancelLocked(key)
	}
	s.stopped = true

	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) cancelLocked(key string) bool {
	e, ok := s.tasks[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.tasks, key)
	return true
}

// release removes a one-shot entry if it is still the current one for key.
func (s *Scheduler) release(key string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[key]
	if !ok || e.seq != id {
		return false
	}
	delete(s.tasks, key)
	return true
}

func (s *Scheduler) current(key string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[key]
	return ok && e.seq == id
}

func (s *Scheduler) run(key string, fn Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("key", key).Interface("panic", r).Msg("scheduled task panicked")
		}
	}()
	fn()
}
