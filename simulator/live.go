package simulator

import (
	"context"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
)

// Live appends a new position for every agent on each tick.
type Live struct {
	store    *tracking.Store
	gen      *Generator
	interval time.Duration
	now      func() time.Time
}

// NewLive creates a live producer that shares the generator's random source.
func NewLive(store *tracking.Store, gen *Generator) *Live {
	interval := time.Duration(gen.cfg.IntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Live{store: store, gen: gen, interval: interval, now: time.Now}
}

// Step appends one sample per agent stamped with now. Each agent moves with the
// configured probability and otherwise reports its last position again.
func (l *Live) Step(now time.Time) int {
	appended := 0
	for _, a := range l.store.Agents() {
		last, ok := a.Current()
		if !ok {
			continue
		}
		next := tracking.Sample{Lat: last.Lat, Lng: last.Lng, Time: now}

		l.gen.mu.Lock()
		if l.gen.rng.Float64() < l.gen.cfg.MoveProbability {
			next.Lat += l.gen.jitter()
			next.Lng += l.gen.jitter()
		}
		l.gen.mu.Unlock()

		if err := l.store.Append(a.ID, next); err != nil {
			log.Printf("[simulator] append agent %d: %v", a.ID, err)
			continue
		}
		appended++
	}
	return appended
}

// Run ticks until ctx is cancelled and returns ctx.Err().
func (l *Live) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	log.Printf("[simulator] live updates every %s", l.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[simulator] stopped")
			return ctx.Err()
		case <-ticker.C:
			l.Step(l.now())
		}
	}
}
