package playback

import (
	"errors"
	"log"
	"math"
	"sync"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
)

// DefaultBaseSteps is the number of ticks needed to cross one segment at 1x speed.
const DefaultBaseSteps = 60

// completionTolerance absorbs float drift when summing per-tick progress.
const completionTolerance = 1e-9

// ErrInvalidSpeed is returned by SetSpeed for a speed that is not a finite positive number.
var ErrInvalidSpeed = errors.New("playback: speed must be a finite positive number")

// Sink receives every interpolated marker position. It must not pause, reset
// or replace the path of the engine that calls it.
type Sink interface {
	SetMarkerPosition(lat, lng float64)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(lat, lng float64)

// SetMarkerPosition calls f.
func (f SinkFunc) SetMarkerPosition(lat, lng float64) { f(lat, lng) }

// Option configures an Engine.
type Option func(*Engine)

// WithBaseSteps sets ticks per segment at 1x speed.
func WithBaseSteps(steps float64) Option {
	return func(e *Engine) {
		if steps > 0 {
			e.baseSteps = steps
		}
	}
}

// WithSpeed sets the initial speed multiplier. Invalid values are ignored.
func WithSpeed(speed float64) Option {
	return func(e *Engine) {
		if validSpeed(speed) {
			e.speed = speed
		}
	}
}

// WithStopListener registers a function called whenever playback goes idle.
// It runs outside the engine lock and may call back into the engine.
func WithStopListener(fn func(StopReason)) Option {
	return func(e *Engine) { e.onStop = fn }
}

// Engine advances a cursor along a path snapshot. All methods are safe for
// concurrent use; ticks are strictly ordered and at most one is ever pending.
type Engine struct {
	mu        sync.Mutex
	emitMu    sync.Mutex // held across a sink call; stop notifications wait on it
	sched     Scheduler
	sink      Sink
	onStop    func(StopReason)
	baseSteps float64

	path     []tracking.Sample
	cursor   Cursor
	playing  bool
	speed    float64
	cancel   func()
	gen      uint64
	disposed bool
}

// NewEngine creates an idle engine with an empty path. A nil sink discards positions.
func NewEngine(sched Scheduler, sink Sink, opts ...Option) *Engine {
	if sink == nil {
		sink = SinkFunc(func(float64, float64) {})
	}
	e := &Engine{
		sched:     sched,
		sink:      sink,
		baseSteps: DefaultBaseSteps,
		speed:     1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPath replaces the path the engine plays. If the current index does not fit
// the new path, the cursor resets to the start and playback goes idle; otherwise
// the cursor is kept, snapped onto its sample when the segment ahead no longer exists.
func (e *Engine) SetPath(path []tracking.Sample) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.path = append([]tracking.Sample(nil), path...)
	if e.cursor.Index < len(e.path) {
		if !e.inPathLocked(e.cursor.Index + e.cursor.Direction.step()) {
			e.cursor.Progress = 0
		}
		e.mu.Unlock()
		return
	}
	wasPlaying := e.resetLocked()
	e.mu.Unlock()

	if wasPlaying {
		e.notify(StopReset)
	}
}

// Play starts or continues playback in the given direction. Paths with fewer
// than two samples cannot be interpolated and Play is a no-op for them.
// It reports whether the engine is playing afterwards.
func (e *Engine) Play(dir Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed || len(e.path) < 2 {
		return false
	}
	if dir != e.cursor.Direction {
		e.reverseLocked(dir)
	}
	if !e.playing {
		e.playing = true
		e.scheduleLocked()
	}
	return true
}

// reverseLocked turns the cursor around without moving the marker: a segment
// part-way done in one direction is the same segment from the other end.
func (e *Engine) reverseLocked(dir Direction) {
	if next := e.cursor.Index + e.cursor.Direction.step(); e.cursor.Progress > 0 && e.inPathLocked(next) {
		e.cursor.Index = next
		e.cursor.Progress = 1 - e.cursor.Progress
	}
	e.cursor.Direction = dir
}

// Pause stops playback, keeping the cursor exactly where it is.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.cancelLocked()
	e.mu.Unlock()

	e.notify(StopPaused)
}

// Toggle pauses a playing engine or resumes an idle one in its current
// direction. It reports whether the engine is playing afterwards.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	playing := e.playing
	dir := e.cursor.Direction
	e.mu.Unlock()

	if playing {
		e.Pause()
		return false
	}
	return e.Play(dir)
}

// SetSpeed changes the speed multiplier. It takes effect on the next tick and
// never schedules an extra one.
func (e *Engine) SetSpeed(speed float64) error {
	if !validSpeed(speed) {
		return ErrInvalidSpeed
	}
	e.mu.Lock()
	e.speed = speed
	e.mu.Unlock()
	return nil
}

// Reset moves the cursor back to the first sample, heading forward, and goes idle.
func (e *Engine) Reset() {
	e.mu.Lock()
	wasPlaying := e.resetLocked()
	e.mu.Unlock()

	if wasPlaying {
		e.notify(StopReset)
	}
}

// Seek parks an idle cursor on sample index with no progress, keeping its
// direction. It reports false while playing or when index is out of range.
func (e *Engine) Seek(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed || e.playing || index < 0 || index >= len(e.path) {
		return false
	}
	e.cursor.Index = index
	e.cursor.Progress = 0
	return true
}

// Dispose cancels any pending tick and makes every later call a no-op.
// Stop listeners are not notified.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
	e.cancelLocked()
	e.disposed = true
}

// Cursor returns a copy of the cursor.
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// State returns a copy of the playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Playing: e.playing, Speed: e.speed}
}

// Path returns the path snapshot being played.
func (e *Engine) Path() []tracking.Sample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]tracking.Sample(nil), e.path...)
}

// Position returns the marker's current interpolated position.
func (e *Engine) Position() (tracking.Coordinate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.path)
	if n == 0 || e.cursor.Index < 0 || e.cursor.Index >= n {
		return tracking.Coordinate{}, false
	}
	from := e.path[e.cursor.Index]
	to := e.cursor.Index + e.cursor.Direction.step()
	if e.cursor.Progress == 0 || to < 0 || to >= n {
		return from.Coordinate(), true
	}
	return interpolate(from, e.path[to], e.cursor.Progress), true
}

func (e *Engine) inPathLocked(index int) bool {
	return index >= 0 && index < len(e.path)
}

func (e *Engine) resetLocked() bool {
	wasPlaying := e.playing
	e.playing = false
	e.cancelLocked()
	e.cursor = Cursor{Index: 0, Progress: 0, Direction: Forward}
	return wasPlaying
}

func (e *Engine) scheduleLocked() {
	e.gen++
	gen := e.gen
	e.cancel = e.sched.Schedule(func(delta float64) { e.tick(gen, delta) })
}

func (e *Engine) cancelLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
}

func (e *Engine) live(gen uint64) bool {
	return gen == e.gen && e.playing && !e.disposed
}

func (e *Engine) tick(gen uint64, delta float64) {
	e.mu.Lock()
	if !e.live(gen) {
		e.mu.Unlock()
		return
	}
	e.cancel = nil
	coord, emit, stopped := e.advanceLocked(delta)
	e.emitMu.Lock()
	e.mu.Unlock()

	if emit {
		e.sink.SetMarkerPosition(coord.Lat, coord.Lng)
	}
	e.emitMu.Unlock()
	if stopped {
		e.notify(StopBoundary)
		return
	}

	e.mu.Lock()
	if e.live(gen) {
		e.scheduleLocked()
	}
	e.mu.Unlock()
}

// advanceLocked moves the cursor by one tick. It returns the coordinate to emit,
// whether there is one, and whether playback stopped at a boundary.
func (e *Engine) advanceLocked(delta float64) (tracking.Coordinate, bool, bool) {
	n := len(e.path)
	step := e.cursor.Direction.step()
	to := e.cursor.Index + step
	if n < 2 || e.cursor.Index < 0 || e.cursor.Index >= n || to < 0 || to >= n {
		e.playing = false
		return tracking.Coordinate{}, false, true
	}

	e.cursor.Progress += delta * e.speed / e.baseSteps
	if e.cursor.Progress >= 1-completionTolerance {
		e.cursor.Progress = 1
	}
	coord := interpolate(e.path[e.cursor.Index], e.path[to], e.cursor.Progress)

	if e.cursor.Progress < 1 {
		return coord, true, false
	}
	e.cursor.Index = to
	e.cursor.Progress = 0
	if next := to + step; next < 0 || next >= n {
		e.playing = false
		return coord, true, true
	}
	return coord, true, false
}

// notify reports an idle transition after any position emitted before it.
func (e *Engine) notify(reason StopReason) {
	e.emitMu.Lock()
	onStop := e.onStop
	e.emitMu.Unlock()

	log.Printf("[playback] idle: %s", reason)
	if onStop != nil {
		onStop(reason)
	}
}

func interpolate(from, to tracking.Sample, progress float64) tracking.Coordinate {
	return tracking.Coordinate{
		Lat: from.Lat + (to.Lat-from.Lat)*progress,
		Lng: from.Lng + (to.Lng-from.Lng)*progress,
	}
}

func validSpeed(speed float64) bool {
	return speed > 0 && !math.IsInf(speed, 0) && !math.IsNaN(speed)
}
