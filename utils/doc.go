// Package utils provides small shared helpers for salestrack.
//
// It contains:
//   - Time formatting and conversion utilities
//   - Great-circle distance, bearing and path length
//   - Human readable distance formatting
package utils
