package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/daper-app/daper/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionUsers = "users"
	collectionIdeas = "ideas"
	collectionLocks = "locks"
)

// Firestore implements Repository on Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

var _ Repository = (*Firestore)(nil)

// NewFirestore creates a Firestore-backed repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}
	return &Firestore{client: client}, nil
}

func (r *Firestore) Close() error {
	return r.client.Close()
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (r *Firestore) UpsertUser(ctx context.Context, user *model.User) error {
	ref := r.client.Collection(collectionUsers).Doc(user.UID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if !isNotFound(err) {
				return goerr.Wrap(err, "failed to read user", goerr.V("uid", user.UID))
			}

			// First login: create the record with the free role and zeroed counters
			now := time.Now()
			created := &model.User{
				UID:         user.UID,
				Email:       user.Email,
				DisplayName: user.DisplayName,
				PhotoURL:    user.PhotoURL,
				Role:        model.RoleFree,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			return tx.Set(ref, created)
		}

		var existing model.User
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode user", goerr.V("uid", user.UID))
		}

		existing.Email = user.Email
		existing.DisplayName = user.DisplayName
		existing.PhotoURL = user.PhotoURL
		existing.UpdatedAt = time.Now()
		return tx.Set(ref, &existing)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert user", goerr.V("uid", user.UID))
	}
	return nil
}

func (r *Firestore) GetUser(ctx context.Context, uid string) (*model.User, error) {
	snap, err := r.client.Collection(collectionUsers).Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("uid", uid))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("uid", uid))
	}

	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("uid", uid))
	}
	return &user, nil
}

func (r *Firestore) UpdateUser(ctx context.Context, uid string, fn func(*model.User) error) error {
	ref := r.client.Collection(collectionUsers).Doc(uid)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("uid", uid))
			}
			return goerr.Wrap(err, "failed to read user", goerr.V("uid", uid))
		}

		var user model.User
		if err := snap.DataTo(&user); err != nil {
			return goerr.Wrap(err, "failed to decode user", goerr.V("uid", uid))
		}

		if err := fn(&user); err != nil {
			return err
		}

		user.UpdatedAt = time.Now()
		return tx.Set(ref, &user)
	})
}

func (r *Firestore) CreateIdea(ctx context.Context, idea *model.Idea) error {
	ref := r.client.Collection(collectionIdeas).Doc(string(idea.ID))
	if _, err := ref.Create(ctx, idea); err != nil {
		return goerr.Wrap(err, "failed to create idea", goerr.V("id", idea.ID))
	}
	return nil
}

func (r *Firestore) GetIdea(ctx context.Context, id model.IdeaID) (*model.Idea, error) {
	snap, err := r.client.Collection(collectionIdeas).Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(model.ErrNotFound, "idea not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get idea", goerr.V("id", id))
	}

	var idea model.Idea
	if err := snap.DataTo(&idea); err != nil {
		return nil, goerr.Wrap(err, "failed to decode idea", goerr.V("id", id))
	}
	return &idea, nil
}

func (r *Firestore) ListIdeas(ctx context.Context, userID string, favoritedOnly bool) ([]*model.Idea, error) {
	query := r.client.Collection(collectionIdeas).
		Where("userId", "==", userID)
	if favoritedOnly {
		query = query.Where("favorited", "==", true)
	}

	iter := query.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var ideas []*model.Idea
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate ideas", goerr.V("userId", userID))
		}

		var idea model.Idea
		if err := snap.DataTo(&idea); err != nil {
			return nil, goerr.Wrap(err, "failed to decode idea", goerr.V("doc", snap.Ref.ID))
		}
		ideas = append(ideas, &idea)
	}

	return ideas, nil
}

func (r *Firestore) UpdateIdea(ctx context.Context, id model.IdeaID, fn func(*model.Idea) error) error {
	ref := r.client.Collection(collectionIdeas).Doc(string(id))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "idea not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to read idea", goerr.V("id", id))
		}

		var idea model.Idea
		if err := snap.DataTo(&idea); err != nil {
			return goerr.Wrap(err, "failed to decode idea", goerr.V("id", id))
		}

		if err := fn(&idea); err != nil {
			return err
		}

		idea.UpdatedAt = time.Now()
		return tx.Set(ref, &idea)
	})
}

func (r *Firestore) DeleteIdea(ctx context.Context, id model.IdeaID, userID string) error {
	ideaRef := r.client.Collection(collectionIdeas).Doc(string(id))
	userRef := r.client.Collection(collectionUsers).Doc(userID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Firestore requires all reads before any write within a transaction
		ideaSnap, err := tx.Get(ideaRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(model.ErrNotFound, "idea not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to read idea", goerr.V("id", id))
		}

		var idea model.Idea
		if err := ideaSnap.DataTo(&idea); err != nil {
			return goerr.Wrap(err, "failed to decode idea", goerr.V("id", id))
		}
		if idea.UserID != userID {
			return goerr.Wrap(model.ErrPermissionDenied, "idea is owned by another user", goerr.V("id", id))
		}

		userSnap, err := tx.Get(userRef)
		if err != nil && !isNotFound(err) {
			return goerr.Wrap(err, "failed to read user", goerr.V("uid", userID))
		}

		if err := tx.Delete(ideaRef); err != nil {
			return goerr.Wrap(err, "failed to delete idea", goerr.V("id", id))
		}

		if userSnap != nil && userSnap.Exists() {
			var user model.User
			if err := userSnap.DataTo(&user); err != nil {
				return goerr.Wrap(err, "failed to decode user", goerr.V("uid", userID))
			}
			if user.IdeaCount > 0 {
				user.IdeaCount--
			}
			user.UpdatedAt = time.Now()
			if err := tx.Set(userRef, &user); err != nil {
				return goerr.Wrap(err, "failed to update idea counter", goerr.V("uid", userID))
			}
		}

		return nil
	})
}

func (r *Firestore) AcquireLock(ctx context.Context, requestID, userID string, now time.Time, ttl time.Duration) error {
	ref := r.client.Collection(collectionLocks).Doc(requestID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && !isNotFound(err) {
			return goerr.Wrap(err, "failed to read submission lock", goerr.V("requestId", requestID))
		}

		if err == nil && snap.Exists() {
			var lock model.SubmissionLock
			if err := snap.DataTo(&lock); err != nil {
				return goerr.Wrap(err, "failed to decode submission lock", goerr.V("requestId", requestID))
			}
			if !lock.Stale(now, ttl) {
				return goerr.Wrap(model.ErrDuplicateSubmission, "submission lock already held",
					goerr.V("requestId", requestID), goerr.V("holder", lock.UserID))
			}
			// stale lock, reclaim it
		}

		return tx.Set(ref, &model.SubmissionLock{
			RequestID: requestID,
			UserID:    userID,
			CreatedAt: now,
			Status:    model.LockStatusProcessing,
		})
	})
}
