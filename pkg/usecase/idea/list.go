package idea

import (
	"context"

	"github.com/daper-app/daper/pkg/model"
)

// Get retrieves a single idea by ID
func (u *UseCase) Get(ctx context.Context, id model.IdeaID) (*model.Idea, error) {
	return u.repo.GetIdea(ctx, id)
}

// ListArchived returns all ideas owned by the user, newest first
func (u *UseCase) ListArchived(ctx context.Context, userID string) ([]*model.Idea, error) {
	return u.repo.ListIdeas(ctx, userID, false)
}

// ListFavorited returns the user's favorited ideas, newest first
func (u *UseCase) ListFavorited(ctx context.Context, userID string) ([]*model.Idea, error) {
	return u.repo.ListIdeas(ctx, userID, true)
}
