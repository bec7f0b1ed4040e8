package tracking

import "sync"

// Log is an ordered, append-only sequence of samples for one agent.
// Insertion order is chronological order; equal timestamps are allowed.
type Log struct {
	mu      sync.RWMutex
	samples []Sample
}

// NewLog creates a log seeded with history. The slice is copied.
func NewLog(history []Sample) *Log {
	samples := make([]Sample, len(history))
	copy(samples, history)
	return &Log{samples: samples}
}

// Append adds a sample at the end of the log.
func (l *Log) Append(s Sample) {
	l.mu.Lock()
	l.samples = append(l.samples, s)
	l.mu.Unlock()
}

// Snapshot returns the samples recorded so far. The result is capped at its
// length so appends made afterwards can never show through it.
func (l *Log) Snapshot() []Sample {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.samples)
	return l.samples[:n:n]
}

// Len returns the number of samples.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.samples)
}

// Last returns the most recent sample.
func (l *Log) Last() (Sample, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.samples) == 0 {
		return Sample{}, false
	}
	return l.samples[len(l.samples)-1], true
}
