package idea

import (
	"context"
	"strings"

	"github.com/daper-app/daper/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// ToggleFavorite sets the favorited flag of an idea
func (u *UseCase) ToggleFavorite(ctx context.Context, id model.IdeaID, favorited bool) error {
	return u.repo.UpdateIdea(ctx, id, func(idea *model.Idea) error {
		idea.Favorited = favorited
		return nil
	})
}

// ContentUpdate carries manual edits to an idea's generated text. Nil fields
// are left untouched.
type ContentUpdate struct {
	Title   *string
	Summary *string
	Outline *string
}

// UpdateContent applies manual edits to the title, summary or outline
func (u *UseCase) UpdateContent(ctx context.Context, id model.IdeaID, update *ContentUpdate) (*model.Idea, error) {
	var updated *model.Idea
	err := u.repo.UpdateIdea(ctx, id, func(idea *model.Idea) error {
		if update.Title != nil {
			if strings.TrimSpace(*update.Title) == "" {
				return goerr.Wrap(model.ErrInvalidInput, "title cannot be empty")
			}
			idea.Title = *update.Title
		}
		if update.Summary != nil {
			idea.Summary = *update.Summary
		}
		if update.Outline != nil {
			idea.Outline = *update.Outline
		}
		updated = idea
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an idea after verifying ownership. The owner's idea counter
// is decremented in the same transaction, floored at zero.
func (u *UseCase) Delete(ctx context.Context, id model.IdeaID, userID string) error {
	if userID == "" {
		return goerr.Wrap(model.ErrInvalidInput, "user ID is required")
	}
	return u.repo.DeleteIdea(ctx, id, userID)
}
