// Package render defines the surface playback draws on.
//
// An Adapter places the moving marker, draws the filtered path as a connected
// line, and shows per-point details (time, latitude, longitude). Playback works
// with any Adapter, including Nop, so nothing in the core needs a real map.
//
// Implementations:
//   - Nop: discards everything
//   - Recorder: keeps every call, for tests and headless runs
//   - FeedAdapter: publishes the marker as a GTFS-Realtime VehiclePosition feed
//   - Multi: fans calls out to several adapters
package render
