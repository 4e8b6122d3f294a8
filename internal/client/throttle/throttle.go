// Package throttle implements brute-force protection for sign-in: a count of
// consecutive failures and a timed lockout once the count reaches
// MaxAttempts. The transitions are pure functions of the record and the
// current time; Tracker persists the record between runs.
package throttle

import "time"

const (
	MaxAttempts     = 5
	LockoutDuration = 15 * time.Minute
)

// Record is the persisted attempt state. Timestamps are Unix milliseconds;
// BlockedUntil is zero when no lockout was ever set.
type Record struct {
	Attempts      int   `json:"attempts"`
	LastAttemptAt int64 `json:"lastAttemptAt"`
	BlockedUntil  int64 `json:"blockedUntil,omitempty"`
}

// RecordFailure counts one more failed attempt and starts the lockout when
// the count reaches MaxAttempts.
func RecordFailure(r Record, now time.Time) Record {
	r.Attempts++
	r.LastAttemptAt = now.UnixMilli()
	if r.Attempts >= MaxAttempts {
		r.BlockedUntil = now.Add(LockoutDuration).UnixMilli()
	}
	return r
}

// RecordSuccess returns the zero record.
func RecordSuccess() Record {
	return Record{}
}

// IsBlocked reports whether a lockout is set and still running at now. An
// expired BlockedUntil is left in place and simply reads as not blocked.
func IsBlocked(r Record, now time.Time) bool {
	return r.BlockedUntil != 0 && now.UnixMilli() < r.BlockedUntil
}

// RemainingMinutes is the lockout left at now, rounded up. It is meant for
// messages only.
func RemainingMinutes(r Record, now time.Time) int {
	left := r.BlockedUntil - now.UnixMilli()
	if r.BlockedUntil == 0 || left <= 0 {
		return 0
	}
	const minute = int64(time.Minute / time.Millisecond)
	return int((left + minute - 1) / minute)
}

// RemainingAttempts is how many failures are left before a lockout.
func RemainingAttempts(r Record) int {
	if n := MaxAttempts - r.Attempts; n > 0 {
		return n
	}
	return 0
}
