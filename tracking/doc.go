// Package tracking keeps the position history of every tracked agent.
//
// This package handles:
// - Recording timestamped positions (Sample) in per-agent append-only logs
// - Handing out stable snapshots that later appends never modify
// - Notifying subscribers when a new position is appended
//
// A Log is written by a single producer (the simulator or any other feed) and read
// by many views at once. Snapshots share the log's backing array but are capped at
// their length, so they stay valid while the log keeps growing.
package tracking
