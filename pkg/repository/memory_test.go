package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestMemoryUpsertUser(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	err := repo.UpsertUser(ctx, &model.User{
		UID:         "u1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	gt.NoError(t, err)

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.Role, model.RoleFree)
	gt.Equal(t, user.Email, "alice@example.com")
	gt.Equal(t, user.IdeaCount, 0)

	// Bump the counters, then upsert again with new profile fields: only the
	// profile may change.
	err = repo.UpdateUser(ctx, "u1", func(u *model.User) error {
		u.Role = model.RolePaid
		u.IdeaCount = 3
		return nil
	})
	gt.NoError(t, err)

	err = repo.UpsertUser(ctx, &model.User{
		UID:         "u1",
		Email:       "alice@new.example.com",
		DisplayName: "Alice B",
	})
	gt.NoError(t, err)

	user, err = repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.Email, "alice@new.example.com")
	gt.Equal(t, user.DisplayName, "Alice B")
	gt.Equal(t, user.Role, model.RolePaid)
	gt.Equal(t, user.IdeaCount, 3)
}

func TestMemoryGetUserNotFound(t *testing.T) {
	repo := repository.NewMemory()

	_, err := repo.GetUser(context.Background(), "nobody")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestMemoryUpdateUserAbort(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	gt.NoError(t, repo.UpsertUser(ctx, &model.User{UID: "u1"}))

	boom := errors.New("boom")
	err := repo.UpdateUser(ctx, "u1", func(u *model.User) error {
		u.IdeaCount = 99
		return boom
	})
	gt.True(t, errors.Is(err, boom))

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.IdeaCount, 0)
}

func newTestIdea(userID string, createdAt time.Time) *model.Idea {
	return &model.Idea{
		ID:        model.NewIdeaID(),
		Title:     "Test Idea",
		Summary:   "A test idea summary",
		Outline:   "1. One\n2. Two",
		Language:  model.LanguageEnglish,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryIdeaCRUD(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	idea := newTestIdea("u1", time.Now())
	gt.NoError(t, repo.CreateIdea(ctx, idea))

	// Duplicate ID must be rejected
	gt.Error(t, repo.CreateIdea(ctx, idea))

	retrieved, err := repo.GetIdea(ctx, idea.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Title, "Test Idea")

	err = repo.UpdateIdea(ctx, idea.ID, func(x *model.Idea) error {
		x.Favorited = true
		return nil
	})
	gt.NoError(t, err)

	retrieved, err = repo.GetIdea(ctx, idea.ID)
	gt.NoError(t, err)
	gt.True(t, retrieved.Favorited)
}

func TestMemoryGetIdeaNotFound(t *testing.T) {
	repo := repository.NewMemory()

	_, err := repo.GetIdea(context.Background(), model.IdeaID("missing"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestMemoryListIdeas(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	now := time.Now()

	oldest := newTestIdea("u1", now.Add(-2*time.Hour))
	middle := newTestIdea("u1", now.Add(-time.Hour))
	newest := newTestIdea("u1", now)
	other := newTestIdea("u2", now)

	for _, idea := range []*model.Idea{oldest, middle, newest, other} {
		gt.NoError(t, repo.CreateIdea(ctx, idea))
	}
	gt.NoError(t, repo.UpdateIdea(ctx, middle.ID, func(x *model.Idea) error {
		x.Favorited = true
		return nil
	}))

	ideas, err := repo.ListIdeas(ctx, "u1", false)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(3)
	gt.Equal(t, ideas[0].ID, newest.ID)
	gt.Equal(t, ideas[2].ID, oldest.ID)

	favorited, err := repo.ListIdeas(ctx, "u1", true)
	gt.NoError(t, err)
	gt.A(t, favorited).Length(1)
	gt.Equal(t, favorited[0].ID, middle.ID)
}

func TestMemoryDeleteIdea(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	gt.NoError(t, repo.UpsertUser(ctx, &model.User{UID: "u1"}))
	gt.NoError(t, repo.UpdateUser(ctx, "u1", func(u *model.User) error {
		u.IdeaCount = 1
		return nil
	}))

	idea := newTestIdea("u1", time.Now())
	gt.NoError(t, repo.CreateIdea(ctx, idea))

	gt.NoError(t, repo.DeleteIdea(ctx, idea.ID, "u1"))

	_, err := repo.GetIdea(ctx, idea.ID)
	gt.True(t, errors.Is(err, model.ErrNotFound))

	user, err := repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.IdeaCount, 0)

	// Deleting another idea must not drive the counter negative
	second := newTestIdea("u1", time.Now())
	gt.NoError(t, repo.CreateIdea(ctx, second))
	gt.NoError(t, repo.DeleteIdea(ctx, second.ID, "u1"))

	user, err = repo.GetUser(ctx, "u1")
	gt.NoError(t, err)
	gt.Equal(t, user.IdeaCount, 0)
}

func TestMemoryDeleteIdeaNotOwner(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	idea := newTestIdea("u1", time.Now())
	gt.NoError(t, repo.CreateIdea(ctx, idea))

	err := repo.DeleteIdea(ctx, idea.ID, "u2")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrPermissionDenied))

	// The idea survives the rejected delete
	_, err = repo.GetIdea(ctx, idea.ID)
	gt.NoError(t, err)
}

func TestMemoryAcquireLock(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	now := time.Now()
	ttl := 10 * time.Minute

	gt.NoError(t, repo.AcquireLock(ctx, "req-1", "u1", now, ttl))

	// Same request ID within the TTL is a duplicate, regardless of user
	err := repo.AcquireLock(ctx, "req-1", "u1", now.Add(time.Minute), ttl)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDuplicateSubmission))

	err = repo.AcquireLock(ctx, "req-1", "u2", now.Add(time.Minute), ttl)
	gt.True(t, errors.Is(err, model.ErrDuplicateSubmission))

	// Other request IDs are unaffected
	gt.NoError(t, repo.AcquireLock(ctx, "req-2", "u1", now, ttl))
}

func TestMemoryAcquireLockStaleReclaim(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	now := time.Now()
	ttl := 10 * time.Minute

	gt.NoError(t, repo.AcquireLock(ctx, "req-1", "u1", now, ttl))

	// After the TTL the lock is stale and may be reclaimed
	gt.NoError(t, repo.AcquireLock(ctx, "req-1", "u2", now.Add(ttl+time.Second), ttl))

	// The reclaimed lock is live again
	err := repo.AcquireLock(ctx, "req-1", "u1", now.Add(ttl+2*time.Second), ttl)
	gt.True(t, errors.Is(err, model.ErrDuplicateSubmission))
}
