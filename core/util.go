package core

import (
	"strings"
	"time"
)

// NowFunc returns the current time. Tests swap it to pin the clock.
var NowFunc = time.Now // mockable

// Now returns NowFunc() in UTC, truncated to the microsecond (postgres precision).
func Now() time.Time {
	return NowFunc().UTC().Truncate(time.Microsecond)
}

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// IntPtr and StrPtr are small helpers for optional fields.
func IntPtr(i int) *int       { return &i }
func StrPtr(s string) *string { return &s }
