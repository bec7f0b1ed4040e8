// Package playback animates a marker along a recorded path.
//
// An Engine owns a Cursor (segment index plus fractional progress) and a State
// (playing flag plus speed multiplier). While playing it advances the cursor once
// per scheduled tick, linearly interpolating between consecutive samples, in
// either direction, and hands each interpolated coordinate to a Sink. It stops on
// its own when the cursor reaches either end of the path.
//
// Ticks come from a Scheduler. FrameScheduler drives the engine from wall-clock
// frames; ManualScheduler runs ticks only when asked, which makes playback fully
// deterministic in tests and headless runs. The engine keeps at most one tick
// pending at any time, and a cancelled tick can never touch engine state.
//
// Basic usage:
//
//	sched := playback.NewFrameScheduler(16 * time.Millisecond)
//	eng := playback.NewEngine(sched, sink, playback.WithStopListener(onStop))
//	eng.SetPath(filtered)
//	eng.Play(playback.Forward)
//	...
//	eng.Dispose()
package playback
