// Package geocode turns a coordinate into a human readable place name.
//
// Lookups go to a Nominatim-compatible reverse endpoint. They never fail loudly:
// any network, status or decoding problem yields an empty name and the caller
// shows raw coordinates instead.
package geocode
