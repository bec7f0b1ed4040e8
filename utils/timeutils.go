package utils

import (
	"time"
)

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// ValidUntilFrom calculates the valid until timestamp: one producer interval after baseEpoch.
func ValidUntilFrom(baseEpoch int64, intervalMS int) string {
	if baseEpoch <= 0 || intervalMS <= 0 {
		return ""
	}
	return time.Unix(baseEpoch+int64(intervalMS/1000), 0).UTC().Format(time.RFC3339)
}

// SecondsAgo returns whole seconds elapsed between t and now, never negative.
func SecondsAgo(t, now time.Time) int64 {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// LocalTimestamp formats t as a human readable local date and time.
func LocalTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
