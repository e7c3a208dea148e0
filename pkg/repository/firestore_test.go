package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/repository"
	"github.com/m-mizutani/gt"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.NewFirestore(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	return repo
}

func testUID() string {
	return fmt.Sprintf("test-user-%d-%d", time.Now().UnixNano(), rand.Intn(10000))
}

func TestFirestoreUpsertAndGetUser(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	uid := testUID()
	err := repo.UpsertUser(ctx, &model.User{
		UID:         uid,
		Email:       "test@example.com",
		DisplayName: "Test User",
	})
	gt.NoError(t, err)

	user, err := repo.GetUser(ctx, uid)
	gt.NoError(t, err)
	gt.Equal(t, user.UID, uid)
	gt.Equal(t, user.Role, model.RoleFree)
	gt.Equal(t, user.Email, "test@example.com")
}

func TestFirestoreUpsertUserKeepsCounters(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	uid := testUID()
	gt.NoError(t, repo.UpsertUser(ctx, &model.User{UID: uid, Email: "a@example.com"}))
	gt.NoError(t, repo.UpdateUser(ctx, uid, func(u *model.User) error {
		u.IdeaCount = 2
		u.Role = model.RolePaid
		return nil
	}))

	gt.NoError(t, repo.UpsertUser(ctx, &model.User{UID: uid, Email: "b@example.com"}))

	user, err := repo.GetUser(ctx, uid)
	gt.NoError(t, err)
	gt.Equal(t, user.Email, "b@example.com")
	gt.Equal(t, user.IdeaCount, 2)
	gt.Equal(t, user.Role, model.RolePaid)
}

func TestFirestoreGetUserNotFound(t *testing.T) {
	repo := setupFirestore(t)

	_, err := repo.GetUser(context.Background(), "non-existent-user")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestFirestoreIdeaRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	uid := testUID()
	idea := &model.Idea{
		ID:       model.NewIdeaID(),
		Title:    "Firestore Test Idea",
		Summary:  "A summary",
		Outline:  "1. One\n2. Two",
		Language: model.LanguageEnglish,
		UserID:   uid,
		MindMap: &model.MindMapNode{
			Title:    "Root",
			Children: []*model.MindMapNode{{Title: "Child"}},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, repo.CreateIdea(ctx, idea))

	retrieved, err := repo.GetIdea(ctx, idea.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Title, idea.Title)
	gt.V(t, retrieved.MindMap).NotNil()
	gt.A(t, retrieved.MindMap.Children).Length(1)

	gt.NoError(t, repo.UpdateIdea(ctx, idea.ID, func(x *model.Idea) error {
		x.Favorited = true
		return nil
	}))

	retrieved, err = repo.GetIdea(ctx, idea.ID)
	gt.NoError(t, err)
	gt.True(t, retrieved.Favorited)

	gt.NoError(t, repo.DeleteIdea(ctx, idea.ID, uid))
	_, err = repo.GetIdea(ctx, idea.ID)
	gt.True(t, errors.Is(err, model.ErrNotFound))
}

func TestFirestoreListIdeas(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	uid := testUID()
	now := time.Now()
	for i := 0; i < 3; i++ {
		idea := &model.Idea{
			ID:        model.NewIdeaID(),
			Title:     fmt.Sprintf("List Idea %d", i),
			Language:  model.LanguageEnglish,
			UserID:    uid,
			Favorited: i == 1,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
			UpdatedAt: now,
		}
		gt.NoError(t, repo.CreateIdea(ctx, idea))
	}

	ideas, err := repo.ListIdeas(ctx, uid, false)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(3)
	gt.Equal(t, ideas[0].Title, "List Idea 2")

	favorited, err := repo.ListIdeas(ctx, uid, true)
	gt.NoError(t, err)
	gt.A(t, favorited).Length(1)
	gt.Equal(t, favorited[0].Title, "List Idea 1")
}

func TestFirestoreDeleteIdeaNotOwner(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	uid := testUID()
	idea := &model.Idea{
		ID:        model.NewIdeaID(),
		Title:     "Owned Idea",
		Language:  model.LanguageEnglish,
		UserID:    uid,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, repo.CreateIdea(ctx, idea))

	err := repo.DeleteIdea(ctx, idea.ID, "someone-else")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrPermissionDenied))

	_, err = repo.GetIdea(ctx, idea.ID)
	gt.NoError(t, err)

	gt.NoError(t, repo.DeleteIdea(ctx, idea.ID, uid))
}

func TestFirestoreAcquireLock(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	requestID := fmt.Sprintf("test-req-%d", time.Now().UnixNano())
	now := time.Now()
	ttl := 10 * time.Minute

	gt.NoError(t, repo.AcquireLock(ctx, requestID, "u1", now, ttl))

	err := repo.AcquireLock(ctx, requestID, "u1", now.Add(time.Minute), ttl)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDuplicateSubmission))

	// A stale lock is reclaimed
	gt.NoError(t, repo.AcquireLock(ctx, requestID, "u2", now.Add(ttl+time.Minute), ttl))
}
