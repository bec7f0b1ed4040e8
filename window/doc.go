// Package window slices a position log by a clock-time range.
//
// Comparison is on time of day at minute granularity; the calendar date is
// ignored, so samples from different days at the same clock time fall into the
// same window. Tracking is per daily shift and the histories it serves never
// span more than one day.
package window
