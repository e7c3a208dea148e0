package model

import "time"

// LockStatusProcessing marks a submission lock whose generation attempt has started.
const LockStatusProcessing = "processing"

// SubmissionLock is the short-lived marker that makes idea-generation
// submissions idempotent under retry or double-click. Its existence for a
// given request ID means an attempt has already started; a lock older than
// the configured TTL is stale and may be reclaimed by a new attempt.
type SubmissionLock struct {
	RequestID string    `firestore:"requestId" json:"requestId"`
	UserID    string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	Status    string    `firestore:"status" json:"status"`
}

// Stale reports whether the lock is older than ttl at now
func (l *SubmissionLock) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(l.CreatedAt) >= ttl
}
