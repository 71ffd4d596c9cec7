// Package retention holds the pure time calculations behind scheduled
// deletion: when a record becomes due and when it is stale enough to prune.
package retention

import "time"

// DeleteDate computes the deletion deadline for a message registered at
// forwardDate. The result is fixed per record at insert time; later
// configuration changes do not move existing deadlines.
func DeleteDate(forwardDate time.Time, retention time.Duration) time.Time {
	return forwardDate.Add(retention)
}

// IsDue reports whether a record with the given delete date should be
// deleted at now. The deadline itself counts as due.
func IsDue(deleteDate, now time.Time) bool {
	return !deleteDate.After(now)
}

// IsStale reports whether a record created at createdAt has outlived the
// pruning grace period, regardless of its deletion status.
func IsStale(createdAt, now time.Time, grace time.Duration) bool {
	return now.Sub(createdAt) >= grace
}

// StaleCutoff returns the creation-time cutoff for a prune pass at now:
// records created before it are stale.
func StaleCutoff(now time.Time, grace time.Duration) time.Time {
	return now.Add(-grace)
}
