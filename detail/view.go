// Package detail drives the history view of a single agent: it keeps the
// selected time window, filters the agent's log into a path, hands the path to
// a playback engine and draws everything on a render adapter.
package detail

import (
	"fmt"
	"log"
	"sync"

	"github.com/theoremus-urban-solutions/salestrack/playback"
	"github.com/theoremus-urban-solutions/salestrack/render"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

// View is the history view of one agent. It is safe for concurrent use.
//
// Until SetWindow is called the window follows the log bounds, so live appends
// extend the path. After SetWindow the window stays fixed and appends only show
// up if they fall inside it.
type View struct {
	mu       sync.Mutex
	agent    tracking.Agent
	log      *tracking.Log
	adapter  render.Adapter
	engine   *playback.Engine
	window   window.Window
	explicit bool
	pathLen  int
	closed   bool

	unsubscribe func()
}

// Open creates the view for agent id and draws its initial path. The engine
// sends marker positions straight to adapter. It returns
// tracking.ErrUnknownAgent if the store has no such agent.
func Open(store *tracking.Store, id int, sched playback.Scheduler, adapter render.Adapter, opts ...playback.Option) (*View, error) {
	a, ok := store.Agent(id)
	if !ok {
		return nil, fmt.Errorf("open detail view for agent %d: %w", id, tracking.ErrUnknownAgent)
	}
	if adapter == nil {
		adapter = render.Nop{}
	}
	v := &View{
		agent:   a.Agent,
		log:     a.Log,
		adapter: adapter,
		engine:  playback.NewEngine(sched, adapter, opts...),
	}
	v.refresh(true)
	v.unsubscribe = store.Subscribe(id, func(tracking.Sample) { v.refresh(false) })
	return v, nil
}

// Agent returns the agent this view shows.
func (v *View) Agent() tracking.Agent { return v.agent }

// Engine returns the playback engine.
func (v *View) Engine() *playback.Engine { return v.engine }

// Window returns the window currently applied, clamped to the log.
func (v *View) Window() window.Window {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentWindowLocked(v.log.Snapshot())
}

// Path returns the filtered path the engine is playing.
func (v *View) Path() []tracking.Sample {
	return v.engine.Path()
}

// SetWindow selects a new time window and redraws. It returns the number of
// samples in the new path.
func (v *View) SetWindow(start, end window.Clock) int {
	v.mu.Lock()
	v.window = window.Window{Start: start, End: end}
	v.explicit = true
	v.mu.Unlock()
	return v.refresh(true)
}

// ResetWindow returns to the full-log window that follows live appends.
func (v *View) ResetWindow() int {
	v.mu.Lock()
	v.explicit = false
	v.mu.Unlock()
	return v.refresh(true)
}

// Play starts playback in the given direction.
func (v *View) Play(dir playback.Direction) bool { return v.engine.Play(dir) }

// Pause pauses playback.
func (v *View) Pause() { v.engine.Pause() }

// Toggle pauses or resumes playback.
func (v *View) Toggle() bool { return v.engine.Toggle() }

// SetSpeed changes the playback speed multiplier.
func (v *View) SetSpeed(speed float64) error { return v.engine.SetSpeed(speed) }

// Close stops listening to the log and disposes the engine.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.unsubscribe()
	v.engine.Dispose()
}

func (v *View) currentWindowLocked(snapshot []tracking.Sample) window.Window {
	if !v.explicit {
		return window.Default(snapshot)
	}
	return v.window.Clamp(snapshot)
}

// refresh recomputes the path from a fresh snapshot. Unless force is set it
// skips the redraw when the path did not change; the log is append-only, so a
// path of the same length under the same window is the same path.
func (v *View) refresh(force bool) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return v.pathLen
	}

	snapshot := v.log.Snapshot()
	path := v.currentWindowLocked(snapshot).Apply(snapshot)
	if !force && len(path) == v.pathLen {
		return v.pathLen
	}
	v.pathLen = len(path)

	v.engine.SetPath(path)
	v.adapter.DrawPath(path)
	v.adapter.DrawPoints(render.Labels(path))
	if !v.engine.State().Playing {
		if pos, ok := v.engine.Position(); ok {
			v.adapter.SetMarkerPosition(pos.Lat, pos.Lng)
		}
	}
	if !force {
		log.Printf("[detail] agent %d path now %d samples", v.agent.ID, len(path))
	}
	return len(path)
}
