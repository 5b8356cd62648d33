package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsPlaceholderDSN reports whether a connection string still carries the
// sample credentials from the setup docs.
func IsPlaceholderDSN(dsn string) bool {
	return HasAny(dsn, "username:password")
}
