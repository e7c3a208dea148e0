package idea

import (
	"context"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/model"
)

// Suggest produces a SWOT-style assessment for a saved idea. The result is
// returned to the caller and not persisted.
func (u *UseCase) Suggest(ctx context.Context, id model.IdeaID) (*flows.Suggestions, error) {
	idea, err := u.repo.GetIdea(ctx, id)
	if err != nil {
		return nil, err
	}

	return u.flows.GenerateSuggestions(ctx, &flows.SuggestionsInput{
		Title:    idea.Title,
		Summary:  idea.Summary,
		Language: idea.Language,
	})
}

// BusinessPlan drafts a business plan for a saved idea. Like Suggest, the
// result is ephemeral.
func (u *UseCase) BusinessPlan(ctx context.Context, id model.IdeaID) (*flows.BusinessPlan, error) {
	idea, err := u.repo.GetIdea(ctx, id)
	if err != nil {
		return nil, err
	}

	return u.flows.GenerateBusinessPlan(ctx, &flows.BusinessPlanInput{
		Title:    idea.Title,
		Summary:  idea.Summary,
		Outline:  idea.Outline,
		Language: idea.Language,
	})
}
