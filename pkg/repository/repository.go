package repository

import (
	"context"
	"time"

	"github.com/daper-app/daper/pkg/model"
)

// Repository defines the persistence contract for users, ideas and submission
// locks. Update* methods run fn against a freshly read document inside the
// store's transaction primitive: fn mutates the document in place or returns
// an error to abort, and the whole read-modify-write commits atomically.
type Repository interface {
	// UpsertUser creates the user record on first login and updates only the
	// profile fields (email, display name, photo) on later logins. Role and
	// counters are never touched by an upsert after creation.
	UpsertUser(ctx context.Context, user *model.User) error

	// GetUser retrieves a user by UID
	GetUser(ctx context.Context, uid string) (*model.User, error)

	// UpdateUser applies fn to the user document transactionally
	UpdateUser(ctx context.Context, uid string, fn func(*model.User) error) error

	// CreateIdea inserts a new idea document; the ID must not already exist
	CreateIdea(ctx context.Context, idea *model.Idea) error

	// GetIdea retrieves an idea by ID
	GetIdea(ctx context.Context, id model.IdeaID) (*model.Idea, error)

	// ListIdeas retrieves the ideas owned by a user, newest first. With
	// favoritedOnly set, only favorited ideas are returned.
	ListIdeas(ctx context.Context, userID string, favoritedOnly bool) ([]*model.Idea, error)

	// UpdateIdea applies fn to the idea document transactionally
	UpdateIdea(ctx context.Context, id model.IdeaID, fn func(*model.Idea) error) error

	// DeleteIdea removes an idea owned by userID and decrements the owner's
	// idea counter (floored at zero) in the same transaction. A non-owner
	// request fails with model.ErrPermissionDenied and leaves the idea intact.
	DeleteIdea(ctx context.Context, id model.IdeaID, userID string) error

	// AcquireLock claims the submission lock for requestID. A live lock
	// (younger than ttl) fails with model.ErrDuplicateSubmission; an absent
	// or stale lock is (re)claimed. Read and conditional write happen in one
	// transaction.
	AcquireLock(ctx context.Context, requestID, userID string, now time.Time, ttl time.Duration) error

	// Close releases underlying connections
	Close() error
}
