package playback

import (
	"sync"
	"time"
)

// Tick advances playback by delta frames. A delta of 1 is one nominal frame.
type Tick func(delta float64)

// Scheduler runs a tick at some later point. The returned cancel function must
// prevent a tick that has not started yet from running.
type Scheduler interface {
	Schedule(tick Tick) (cancel func())
}

// maxFrameDelta caps catch-up after a stall so one late frame cannot skip a whole segment.
const maxFrameDelta = 4.0

// FrameScheduler schedules ticks on wall-clock frames of a fixed interval.
// The delta passed to each tick is the elapsed time measured in frames.
type FrameScheduler struct {
	interval time.Duration
	now      func() time.Time
}

// NewFrameScheduler creates a scheduler with the given frame interval.
// A non-positive interval falls back to roughly 60 frames per second.
func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &FrameScheduler{interval: interval, now: time.Now}
}

// Interval returns the frame interval.
func (s *FrameScheduler) Interval() time.Duration { return s.interval }

// Schedule runs tick after one frame interval.
func (s *FrameScheduler) Schedule(tick Tick) func() {
	scheduledAt := s.now()
	timer := time.AfterFunc(s.interval, func() {
		delta := float64(s.now().Sub(scheduledAt)) / float64(s.interval)
		if delta > maxFrameDelta {
			delta = maxFrameDelta
		}
		tick(delta)
	})
	return func() { timer.Stop() }
}

type manualTask struct {
	tick      Tick
	cancelled bool
}

// ManualScheduler queues ticks until Step is called. Every step passes a delta of
// one frame unless StepDelta is used. It is safe for concurrent use, and ticks
// run without the scheduler's lock held so they may schedule again.
type ManualScheduler struct {
	mu         sync.Mutex
	queue      []*manualTask
	scheduled  int
	cancelled  int
	maxPending int
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues tick.
func (s *ManualScheduler) Schedule(tick Tick) func() {
	task := &manualTask{tick: tick}
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.scheduled++
	if p := s.pendingLocked(); p > s.maxPending {
		s.maxPending = p
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !task.cancelled {
			task.cancelled = true
			s.cancelled++
		}
	}
}

func (s *ManualScheduler) pendingLocked() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Pending returns the number of queued ticks that have not been cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked()
}

// Scheduled returns how many ticks have ever been scheduled.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Cancelled returns how many scheduled ticks were cancelled before running.
func (s *ManualScheduler) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// MaxPending returns the largest number of ticks that were ever pending at once.
func (s *ManualScheduler) MaxPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxPending
}

// Step runs the oldest pending tick with a delta of one frame.
// It returns false when nothing was pending.
func (s *ManualScheduler) Step() bool {
	return s.StepDelta(1)
}

// StepDelta runs the oldest pending tick with the given delta.
func (s *ManualScheduler) StepDelta(delta float64) bool {
	s.mu.Lock()
	var next *manualTask
	for len(s.queue) > 0 {
		t := s.queue[0]
		s.queue = s.queue[1:]
		if !t.cancelled {
			next = t
			break
		}
	}
	s.mu.Unlock()
	if next == nil {
		return false
	}
	next.tick(delta)
	return true
}

// Drain steps until nothing is pending or limit ticks have run, and returns the
// number of ticks run.
func (s *ManualScheduler) Drain(limit int) int {
	n := 0
	for n < limit && s.Step() {
		n++
	}
	return n
}
