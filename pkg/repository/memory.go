package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/daper-app/daper/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository in process memory. It backs unit tests and the
// local development mode of the server; all methods give the same atomicity
// guarantees as the Firestore implementation, via a single mutex.
type Memory struct {
	mu    sync.Mutex
	users map[string]*model.User
	ideas map[model.IdeaID]*model.Idea
	locks map[string]*model.SubmissionLock
}

var _ Repository = (*Memory)(nil)

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]*model.User),
		ideas: make(map[model.IdeaID]*model.Idea),
		locks: make(map[string]*model.SubmissionLock),
	}
}

func (r *Memory) Close() error {
	return nil
}

func (r *Memory) UpsertUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.UID]
	now := time.Now()
	if !ok {
		created := &model.User{
			UID:         user.UID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			PhotoURL:    user.PhotoURL,
			Role:        model.RoleFree,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.users[user.UID] = created
		return nil
	}

	existing.Email = user.Email
	existing.DisplayName = user.DisplayName
	existing.PhotoURL = user.PhotoURL
	existing.UpdatedAt = now
	return nil
}

func (r *Memory) GetUser(ctx context.Context, uid string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[uid]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("uid", uid))
	}
	return user.Clone(), nil
}

func (r *Memory) UpdateUser(ctx context.Context, uid string, fn func(*model.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[uid]
	if !ok {
		return goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("uid", uid))
	}

	updated := user.Clone()
	if err := fn(updated); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now()
	r.users[uid] = updated
	return nil
}

func (r *Memory) CreateIdea(ctx context.Context, idea *model.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ideas[idea.ID]; ok {
		return goerr.New("idea already exists", goerr.V("id", idea.ID))
	}
	r.ideas[idea.ID] = idea.Clone()
	return nil
}

func (r *Memory) GetIdea(ctx context.Context, id model.IdeaID) (*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "idea not found", goerr.V("id", id))
	}
	return idea.Clone(), nil
}

func (r *Memory) ListIdeas(ctx context.Context, userID string, favoritedOnly bool) ([]*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ideas []*model.Idea
	for _, idea := range r.ideas {
		if idea.UserID != userID {
			continue
		}
		if favoritedOnly && !idea.Favorited {
			continue
		}
		ideas = append(ideas, idea.Clone())
	}

	sort.Slice(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt.After(ideas[j].CreatedAt)
	})
	return ideas, nil
}

func (r *Memory) UpdateIdea(ctx context.Context, id model.IdeaID, fn func(*model.Idea) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return goerr.Wrap(model.ErrNotFound, "idea not found", goerr.V("id", id))
	}

	updated := idea.Clone()
	if err := fn(updated); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now()
	r.ideas[id] = updated
	return nil
}

func (r *Memory) DeleteIdea(ctx context.Context, id model.IdeaID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return goerr.Wrap(model.ErrNotFound, "idea not found", goerr.V("id", id))
	}
	if idea.UserID != userID {
		return goerr.Wrap(model.ErrPermissionDenied, "idea is owned by another user", goerr.V("id", id))
	}

	delete(r.ideas, id)

	if user, ok := r.users[userID]; ok && user.IdeaCount > 0 {
		user.IdeaCount--
		user.UpdatedAt = time.Now()
	}
	return nil
}

func (r *Memory) AcquireLock(ctx context.Context, requestID, userID string, now time.Time, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lock, ok := r.locks[requestID]; ok && !lock.Stale(now, ttl) {
		return goerr.Wrap(model.ErrDuplicateSubmission, "submission lock already held",
			goerr.V("requestId", requestID), goerr.V("holder", lock.UserID))
	}

	r.locks[requestID] = &model.SubmissionLock{
		RequestID: requestID,
		UserID:    userID,
		CreatedAt: now,
		Status:    model.LockStatusProcessing,
	}
	return nil
}
