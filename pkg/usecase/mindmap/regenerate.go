package mindmap

import (
	"context"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/model"
)

// Regenerate builds a fresh tree from the idea summary and replaces the
// stored mind map entirely (full overwrite, not a merge). Regeneration is not
// quota-gated: quota governs ideas, not operations on ideas.
func (u *UseCase) Regenerate(ctx context.Context, id model.IdeaID, summary string, language model.Language) (*model.MindMapNode, error) {
	if err := language.Validate(); err != nil {
		return nil, err
	}

	root, err := u.flows.GenerateMindMap(ctx, &flows.MindMapInput{
		Summary:  summary,
		Language: language,
	})
	if err != nil {
		return nil, err
	}

	if err := u.repo.UpdateIdea(ctx, id, func(idea *model.Idea) error {
		idea.MindMap = root
		return nil
	}); err != nil {
		return nil, err
	}

	return root, nil
}
