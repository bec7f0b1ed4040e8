package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

type recordingSink struct {
	mu     sync.Mutex
	coords []tracking.Coordinate
}

func (r *recordingSink) SetMarkerPosition(lat, lng float64) {
	r.mu.Lock()
	r.coords = append(r.coords, tracking.Coordinate{Lat: lat, Lng: lng})
	r.mu.Unlock()
}

func (r *recordingSink) all() []tracking.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tracking.Coordinate(nil), r.coords...)
}

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

// straightPath returns n samples one degree apart in both axes, five minutes apart.
func straightPath(n int) []tracking.Sample {
	out := make([]tracking.Sample, n)
	for i := range out {
		out[i] = tracking.Sample{Lat: float64(i), Lng: float64(10 * i), Time: at(9, 5*i)}
	}
	return out
}

func newTestEngine(opts ...Option) (*Engine, *ManualScheduler, *recordingSink) {
	sched := NewManualScheduler()
	sink := &recordingSink{}
	return NewEngine(sched, sink, opts...), sched, sink
}

func TestEngine_PlayIsNoOpOnShortPaths(t *testing.T) {
	for _, n := range []int{0, 1} {
		eng, sched, sink := newTestEngine()
		eng.SetPath(straightPath(n))

		assert.False(t, eng.Play(Forward))
		assert.False(t, eng.Play(Backward))
		assert.False(t, eng.Toggle())
		assert.False(t, eng.State().Playing, "path of %d samples must not play", n)
		assert.Zero(t, sched.Pending())
		assert.Empty(t, sink.all())
	}
}

func TestEngine_StopsAtForwardBoundary(t *testing.T) {
	var reasons []StopReason
	eng, sched, sink := newTestEngine(WithStopListener(func(r StopReason) { reasons = append(reasons, r) }))
	eng.SetPath(straightPath(3))

	require.True(t, eng.Play(Forward))
	ran := sched.Drain(1000)
	assert.Equal(t, 2*DefaultBaseSteps, ran)

	assert.False(t, eng.State().Playing)
	assert.Equal(t, Cursor{Index: 2, Progress: 0, Direction: Forward}, eng.Cursor())
	assert.Equal(t, []StopReason{StopBoundary}, reasons)
	assert.Zero(t, sched.Pending())

	coords := sink.all()
	require.NotEmpty(t, coords)
	assert.Equal(t, tracking.Coordinate{Lat: 2, Lng: 20}, coords[len(coords)-1])

	// Forward again from the last sample goes idle within one tick and stays put.
	require.True(t, eng.Play(Forward))
	assert.Equal(t, 1, sched.Drain(1000))
	assert.False(t, eng.State().Playing)
	assert.Equal(t, 2, eng.Cursor().Index)
	assert.Len(t, sink.all(), len(coords), "a boundary tick emits nothing")
}

func TestEngine_StopsAtBackwardBoundary(t *testing.T) {
	eng, sched, _ := newTestEngine()
	eng.SetPath(straightPath(4))

	require.True(t, eng.Play(Backward))
	assert.Equal(t, 1, sched.Drain(1000))
	assert.False(t, eng.State().Playing)
	assert.Equal(t, Cursor{Index: 0, Progress: 0, Direction: Backward}, eng.Cursor())
}

func TestEngine_PlaysBackwardToStart(t *testing.T) {
	eng, sched, sink := newTestEngine()
	eng.SetPath(straightPath(3))
	require.True(t, eng.Play(Forward))
	sched.Drain(1000)
	require.Equal(t, 2, eng.Cursor().Index)

	require.True(t, eng.Play(Backward))
	sched.Drain(1000)

	assert.Equal(t, Cursor{Index: 0, Progress: 0, Direction: Backward}, eng.Cursor())
	coords := sink.all()
	assert.Equal(t, tracking.Coordinate{Lat: 0, Lng: 0}, coords[len(coords)-1])
}

func TestEngine_ResumeContinuity(t *testing.T) {
	eng, sched, sink := newTestEngine()
	eng.SetPath(straightPath(3))
	require.True(t, eng.Play(Forward))

	for i := 0; i < 30; i++ {
		require.True(t, sched.Step())
	}
	eng.Pause()
	before := eng.Cursor()
	assert.Equal(t, 0, before.Index)
	assert.InDelta(t, 0.5, before.Progress, 1e-9)
	assert.Zero(t, sched.Pending(), "pause must cancel the pending tick")

	pos, ok := eng.Position()
	require.True(t, ok)
	assert.InDelta(t, 0.5, pos.Lat, 1e-9)

	assert.False(t, sched.Step(), "nothing may run while paused")
	assert.Equal(t, before, eng.Cursor())

	require.True(t, eng.Play(Forward))
	require.True(t, sched.Step())
	after := eng.Cursor()
	assert.Equal(t, 0, after.Index)
	assert.InDelta(t, before.Progress+1.0/DefaultBaseSteps, after.Progress, 1e-9)

	coords := sink.all()
	assert.InDelta(t, 0.5+1.0/DefaultBaseSteps, coords[len(coords)-1].Lat, 1e-9)
}

func TestEngine_InterpolationStaysOnSegment(t *testing.T) {
	path := []tracking.Sample{
		{Lat: 23.0225, Lng: 72.5714, Time: at(9, 0)},
		{Lat: 23.0301, Lng: 72.5650, Time: at(9, 5)},
		{Lat: 23.0199, Lng: 72.5801, Time: at(9, 10)},
	}
	eng, sched, sink := newTestEngine(WithSpeed(3))
	eng.SetPath(path)
	require.True(t, eng.Play(Forward))
	sched.Drain(1000)

	coords := sink.all()
	require.Len(t, coords, 2*DefaultBaseSteps/3)
	perSegment := len(coords) / 2
	for i, c := range coords {
		from, to := path[i/perSegment], path[i/perSegment+1]
		tLat := (c.Lat - from.Lat) / (to.Lat - from.Lat)
		tLng := (c.Lng - from.Lng) / (to.Lng - from.Lng)
		assert.GreaterOrEqual(t, tLat, -1e-9, "tick %d", i)
		assert.LessOrEqual(t, tLat, 1+1e-9, "tick %d", i)
		assert.InDelta(t, tLat, tLng, 1e-6, "tick %d must lie on the straight segment", i)
	}
}

func TestEngine_SpeedChangesTicksPerSegment(t *testing.T) {
	tests := []struct {
		speed float64
		ticks int
	}{
		{speed: 0.5, ticks: 120},
		{speed: 1, ticks: 60},
		{speed: 2, ticks: 30},
		{speed: 3, ticks: 20},
	}
	for _, tt := range tests {
		eng, sched, _ := newTestEngine()
		require.NoError(t, eng.SetSpeed(tt.speed))
		eng.SetPath(straightPath(2))
		require.True(t, eng.Play(Forward))
		assert.Equal(t, tt.ticks, sched.Drain(1000), "speed %v", tt.speed)
	}
}

func TestEngine_SetSpeedRejectsNonPositive(t *testing.T) {
	eng, _, _ := newTestEngine()
	assert.ErrorIs(t, eng.SetSpeed(0), ErrInvalidSpeed)
	assert.ErrorIs(t, eng.SetSpeed(-1), ErrInvalidSpeed)
	assert.Equal(t, 1.0, eng.State().Speed)
	require.NoError(t, eng.SetSpeed(1.5))
	assert.Equal(t, 1.5, eng.State().Speed)
}

func TestEngine_SetSpeedWhilePlayingKeepsSinglePendingTick(t *testing.T) {
	eng, sched, _ := newTestEngine()
	eng.SetPath(straightPath(5))
	require.True(t, eng.Play(Forward))
	require.True(t, sched.Step())

	for _, speed := range []float64{2, 0.5, 3, 1, 2} {
		require.NoError(t, eng.SetSpeed(speed))
		assert.Equal(t, 1, sched.Pending())
	}
	for i := 0; i < 10; i++ {
		require.True(t, sched.Step())
		assert.Equal(t, 1, sched.Pending())
	}
	assert.Equal(t, 1, sched.MaxPending())
}

func TestEngine_RepeatedPlayDoesNotStackLoops(t *testing.T) {
	eng, sched, _ := newTestEngine()
	eng.SetPath(straightPath(5))
	for i := 0; i < 5; i++ {
		require.True(t, eng.Play(Forward))
	}
	assert.Equal(t, 1, sched.Pending())

	eng.Pause()
	require.True(t, eng.Play(Forward))
	eng.Pause()
	require.True(t, eng.Play(Forward))
	assert.Equal(t, 1, sched.Pending())
	assert.Equal(t, 1, sched.MaxPending())
}

func TestEngine_StaleTickCannotMutateState(t *testing.T) {
	var captured []Tick
	sched := schedulerFunc(func(tick Tick) func() {
		captured = append(captured, tick)
		return func() {}
	})
	sink := &recordingSink{}
	eng := NewEngine(sched, sink)
	eng.SetPath(straightPath(3))

	require.True(t, eng.Play(Forward))
	require.Len(t, captured, 1)
	eng.Pause()

	captured[0](1)
	assert.Equal(t, Cursor{}, eng.Cursor())
	assert.Empty(t, sink.all())

	require.True(t, eng.Play(Forward))
	require.Len(t, captured, 2)
	captured[0](1)
	assert.Empty(t, sink.all(), "tick from a previous session must be dropped")
	captured[1](1)
	assert.Len(t, sink.all(), 1)
}

func TestEngine_ReverseMidSegmentKeepsMarker(t *testing.T) {
	eng, sched, sink := newTestEngine()
	eng.SetPath(straightPath(3))
	require.True(t, eng.Play(Forward))
	for i := 0; i < 15; i++ {
		sched.Step()
	}
	before, _ := eng.Position()

	require.True(t, eng.Play(Backward))
	c := eng.Cursor()
	assert.Equal(t, 1, c.Index)
	assert.InDelta(t, 0.75, c.Progress, 1e-9)
	assert.Equal(t, Backward, c.Direction)

	after, _ := eng.Position()
	assert.InDelta(t, before.Lat, after.Lat, 1e-9)
	assert.InDelta(t, before.Lng, after.Lng, 1e-9)

	sched.Drain(1000)
	assert.Equal(t, Cursor{Index: 0, Progress: 0, Direction: Backward}, eng.Cursor())
	coords := sink.all()
	assert.Less(t, coords[len(coords)-1].Lat, before.Lat)
}

func TestEngine_SetPathResetsOnlyWhenIndexFallsOutside(t *testing.T) {
	var reasons []StopReason
	eng, sched, _ := newTestEngine(WithStopListener(func(r StopReason) { reasons = append(reasons, r) }))
	eng.SetPath(straightPath(6))
	require.True(t, eng.Play(Forward))
	sched.Drain(3*DefaultBaseSteps + 10)
	require.Equal(t, 3, eng.Cursor().Index)
	require.True(t, eng.State().Playing)

	eng.SetPath(straightPath(5))
	assert.Equal(t, 3, eng.Cursor().Index, "index still fits, cursor kept")
	assert.True(t, eng.State().Playing)

	eng.SetPath(straightPath(3))
	assert.Equal(t, Cursor{Index: 0, Progress: 0, Direction: Forward}, eng.Cursor())
	assert.False(t, eng.State().Playing)
	assert.Zero(t, sched.Pending())
	assert.Equal(t, []StopReason{StopReset}, reasons)
}

func TestEngine_ShrunkPathSnapsCursorAndBackwardStillPlays(t *testing.T) {
	var reasons []StopReason
	eng, sched, sink := newTestEngine(WithStopListener(func(r StopReason) { reasons = append(reasons, r) }))
	eng.SetPath(straightPath(6))
	require.True(t, eng.Play(Forward))
	sched.Drain(3*DefaultBaseSteps + DefaultBaseSteps/2)
	require.Equal(t, 3, eng.Cursor().Index)
	require.InDelta(t, 0.5, eng.Cursor().Progress, 1e-9)

	eng.SetPath(straightPath(4))
	assert.Equal(t, Cursor{Index: 3, Progress: 0, Direction: Forward}, eng.Cursor())
	pos, ok := eng.Position()
	require.True(t, ok)
	assert.Equal(t, tracking.Coordinate{Lat: 3, Lng: 30}, pos)

	sched.Drain(10)
	assert.False(t, eng.State().Playing)
	assert.Equal(t, []StopReason{StopBoundary}, reasons)

	emitted := len(sink.all())
	require.True(t, eng.Play(Backward))
	assert.Equal(t, Cursor{Index: 3, Progress: 0, Direction: Backward}, eng.Cursor())
	assert.Equal(t, 3*DefaultBaseSteps, sched.Drain(1000))

	assert.Equal(t, Cursor{Index: 0, Progress: 0, Direction: Backward}, eng.Cursor())
	coords := sink.all()
	assert.Len(t, coords, emitted+3*DefaultBaseSteps)
	for _, c := range coords[emitted:] {
		assert.LessOrEqual(t, c.Lat, 3.0)
		assert.GreaterOrEqual(t, c.Lat, 0.0)
	}
}

func TestEngine_PauseReportedAfterInFlightPosition(t *testing.T) {
	var captured []Tick
	sched := schedulerFunc(func(tick Tick) func() {
		captured = append(captured, tick)
		return func() {}
	})

	var mu sync.Mutex
	var events []string
	record := func(ev string) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	sink := SinkFunc(func(float64, float64) {
		close(entered)
		<-release
		record("position")
	})
	eng := NewEngine(sched, sink, WithStopListener(func(r StopReason) { record(r.String()) }))
	eng.SetPath(straightPath(3))
	require.True(t, eng.Play(Forward))
	require.Len(t, captured, 1)

	ticked := make(chan struct{})
	go func() {
		captured[0](1)
		close(ticked)
	}()
	<-entered

	paused := make(chan struct{})
	go func() {
		eng.Pause()
		close(paused)
	}()
	require.Eventually(t, func() bool { return !eng.State().Playing }, time.Second, time.Millisecond)
	assert.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) > 0
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	<-ticked
	<-paused
	assert.Equal(t, []string{"position", "paused"}, events)
	assert.Len(t, captured, 1, "paused tick must not reschedule")
}

func TestManualScheduler_CountsScheduledAndCancelled(t *testing.T) {
	eng, sched, _ := newTestEngine()
	eng.SetPath(straightPath(3))

	require.True(t, eng.Play(Forward))
	sched.Step()
	assert.Equal(t, 2, sched.Scheduled())
	assert.Zero(t, sched.Cancelled())

	eng.Pause()
	assert.Equal(t, 1, sched.Cancelled())
	assert.Zero(t, sched.Pending())
	assert.False(t, sched.Step(), "cancelled tick must not run")

	require.True(t, eng.Play(eng.Cursor().Direction.Reverse()))
	assert.Equal(t, Backward, eng.Cursor().Direction)
	assert.Equal(t, 3, sched.Scheduled())
}

func TestFrameScheduler_Interval(t *testing.T) {
	assert.Equal(t, 5*time.Millisecond, NewFrameScheduler(5*time.Millisecond).Interval())
	assert.Equal(t, 16*time.Millisecond, NewFrameScheduler(0).Interval())
	assert.Equal(t, Forward, Backward.Reverse())
}

func TestEngine_PathSnapshotIsolatedFromCaller(t *testing.T) {
	eng, _, _ := newTestEngine()
	path := straightPath(3)
	eng.SetPath(path)
	path[0].Lat = 999
	assert.Equal(t, 0.0, eng.Path()[0].Lat)
}

func TestEngine_ToggleResumesInCurrentDirection(t *testing.T) {
	var reasons []StopReason
	eng, sched, _ := newTestEngine(WithStopListener(func(r StopReason) { reasons = append(reasons, r) }))
	eng.SetPath(straightPath(3))

	assert.True(t, eng.Toggle())
	sched.Step()
	assert.False(t, eng.Toggle())
	assert.Equal(t, []StopReason{StopPaused}, reasons)
	assert.True(t, eng.Toggle())
	assert.Equal(t, Forward, eng.Cursor().Direction)
	assert.Equal(t, 1, sched.Pending())
}

func TestEngine_ResetAndDispose(t *testing.T) {
	eng, sched, _ := newTestEngine()
	eng.SetPath(straightPath(3))
	require.True(t, eng.Play(Forward))
	sched.Drain(70)
	eng.Reset()
	assert.Equal(t, Cursor{}, eng.Cursor())
	assert.False(t, eng.State().Playing)
	assert.Zero(t, sched.Pending())

	require.True(t, eng.Play(Forward))
	eng.Dispose()
	assert.Zero(t, sched.Pending())
	assert.False(t, eng.Play(Forward))
	eng.SetPath(straightPath(10))
	assert.Len(t, eng.Path(), 3, "disposed engine ignores new paths")
}

func TestEngine_SeekThenPlayBackward(t *testing.T) {
	eng, sched, sink := newTestEngine(WithBaseSteps(2))
	eng.SetPath(straightPath(3))

	assert.False(t, eng.Seek(3), "out of range")
	require.True(t, eng.Seek(2))
	assert.Equal(t, Cursor{Index: 2, Direction: Forward}, eng.Cursor())

	require.True(t, eng.Play(Backward))
	assert.False(t, eng.Seek(0), "cannot seek while playing")
	sched.Drain(100)

	assert.Equal(t, 0, eng.Cursor().Index)
	coords := sink.all()
	require.Len(t, coords, 4)
	assert.Equal(t, tracking.Coordinate{Lat: 0, Lng: 0}, coords[3])
}

func TestEngine_EndToEndShiftWindow(t *testing.T) {
	log := []tracking.Sample{
		{Lat: 23.00, Lng: 72.00, Time: at(9, 0)},
		{Lat: 23.01, Lng: 72.02, Time: at(9, 5)},
		{Lat: 23.03, Lng: 72.01, Time: at(9, 10)},
		{Lat: 23.02, Lng: 72.05, Time: at(9, 15)},
		{Lat: 23.06, Lng: 72.04, Time: at(9, 20)},
	}
	path := window.Filter(log, window.MustClock(9, 5), window.MustClock(9, 15))
	require.Len(t, path, 3)

	stopped := 0
	eng, sched, _ := newTestEngine(WithStopListener(func(r StopReason) {
		if r == StopBoundary {
			stopped++
		}
	}))
	eng.SetPath(path)
	require.True(t, eng.Play(Forward))
	sched.Drain(2 * DefaultBaseSteps)

	assert.Equal(t, Cursor{Index: 2, Progress: 0, Direction: Forward}, eng.Cursor())
	assert.False(t, eng.State().Playing)
	assert.Equal(t, 1, stopped)
}

func TestEngine_FrameSchedulerRunsToBoundary(t *testing.T) {
	done := make(chan StopReason, 1)
	sink := &recordingSink{}
	eng := NewEngine(NewFrameScheduler(time.Millisecond), sink,
		WithBaseSteps(3),
		WithStopListener(func(r StopReason) { done <- r }),
	)
	eng.SetPath(straightPath(3))
	require.True(t, eng.Play(Forward))

	select {
	case r := <-done:
		assert.Equal(t, StopBoundary, r)
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not reach the boundary")
	}
	assert.Equal(t, 2, eng.Cursor().Index)
	assert.NotEmpty(t, sink.all())
	eng.Dispose()
}

type schedulerFunc func(Tick) func()

func (f schedulerFunc) Schedule(tick Tick) func() { return f(tick) }
