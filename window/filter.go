package window

import "github.com/theoremus-urban-solutions/salestrack/tracking"

// Window is an inclusive time-of-day range.
type Window struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

// Bounds returns the earliest and latest time of day present in log.
// An empty log spans the whole day.
func Bounds(log []tracking.Sample) (min, max Clock) {
	if len(log) == 0 {
		return Midnight, LastMinute
	}
	min, max = ClockOf(log[0].Time), ClockOf(log[0].Time)
	for _, s := range log[1:] {
		c := ClockOf(s.Time)
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

// Default is the window covering the whole log.
func Default(log []tracking.Sample) Window {
	min, max := Bounds(log)
	return Window{Start: min, End: max}
}

// Clamp pulls out-of-range bounds back to the log's range. Bounds are clamped
// independently; an inverted window stays inverted.
func (w Window) Clamp(log []tracking.Sample) Window {
	min, max := Bounds(log)
	if w.Start < min {
		w.Start = min
	}
	if w.End > max {
		w.End = max
	}
	return w
}

// Contains reports whether c lies within the window, inclusive.
func (w Window) Contains(c Clock) bool {
	return w.Start <= c && c <= w.End
}

// Filter returns the samples of log whose time of day lies in [start, end]
// after clamping both bounds to the log's range. Order is preserved and the
// result never aliases log.
func Filter(log []tracking.Sample, start, end Clock) []tracking.Sample {
	w := Window{Start: start, End: end}.Clamp(log)
	out := make([]tracking.Sample, 0, len(log))
	for _, s := range log {
		if w.Contains(ClockOf(s.Time)) {
			out = append(out, s)
		}
	}
	return out
}

// Apply is Filter with the window's own bounds.
func (w Window) Apply(log []tracking.Sample) []tracking.Sample {
	return Filter(log, w.Start, w.End)
}
