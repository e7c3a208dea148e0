package mindmap

import (
	"context"
	"strings"

	"github.com/daper-app/daper/pkg/flows"
	"github.com/daper-app/daper/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// AddNode appends a manual leaf under the first node titled parentTitle
func (u *UseCase) AddNode(ctx context.Context, id model.IdeaID, parentTitle, newTitle string) error {
	if strings.TrimSpace(newTitle) == "" {
		return goerr.Wrap(model.ErrInvalidInput, "node title is required")
	}

	return u.repo.UpdateIdea(ctx, id, func(idea *model.Idea) error {
		parent, err := findParent(idea, parentTitle)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, &model.MindMapNode{Title: newTitle})
		return nil
	})
}

// ExpandInput carries an AI node expansion request
type ExpandInput struct {
	IdeaID         model.IdeaID
	IdeaContext    string
	ParentTitle    string
	ExistingTitles []string
	Language       model.Language
}

// ExpandNode asks the model for additional children of a node and appends
// them all at once. The AI call happens before the tree transaction; only the
// append is transactional.
func (u *UseCase) ExpandNode(ctx context.Context, input *ExpandInput) ([]*model.MindMapNode, error) {
	if err := input.Language.Validate(); err != nil {
		return nil, err
	}

	children, err := u.flows.ExpandMindMapNode(ctx, &flows.ExpandInput{
		IdeaContext:    input.IdeaContext,
		ParentTitle:    input.ParentTitle,
		ExistingTitles: input.ExistingTitles,
		Language:       input.Language,
	})
	if err != nil {
		return nil, err
	}

	if err := u.repo.UpdateIdea(ctx, input.IdeaID, func(idea *model.Idea) error {
		parent, err := findParent(idea, input.ParentTitle)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, children...)
		return nil
	}); err != nil {
		return nil, err
	}

	return children, nil
}

// EditNode retitles the node addressed by a root-to-node path, leaving its
// children untouched.
func (u *UseCase) EditNode(ctx context.Context, id model.IdeaID, rawPath, newTitle string) error {
	if strings.TrimSpace(newTitle) == "" {
		return goerr.Wrap(model.ErrInvalidInput, "node title is required")
	}
	path, err := model.ParseNodePath(rawPath)
	if err != nil {
		return err
	}

	return u.repo.UpdateIdea(ctx, id, func(idea *model.Idea) error {
		node, err := idea.MindMap.WalkPath(path)
		if err != nil {
			return err
		}
		node.Title = newTitle
		return nil
	})
}

// DeleteNode removes the node addressed by a root-to-node path from its
// parent. The root itself cannot be deleted.
func (u *UseCase) DeleteNode(ctx context.Context, id model.IdeaID, rawPath string) error {
	path, err := model.ParseNodePath(rawPath)
	if err != nil {
		return err
	}
	if len(path) < 2 {
		return goerr.Wrap(model.ErrCannotDeleteRoot, "path addresses the root node", goerr.V("path", rawPath))
	}

	return u.repo.UpdateIdea(ctx, id, func(idea *model.Idea) error {
		parent, err := idea.MindMap.WalkPath(path[:len(path)-1])
		if err != nil {
			return err
		}
		if !parent.RemoveChild(path[len(path)-1]) {
			return goerr.Wrap(model.ErrNotFound, "node not found under parent",
				goerr.V("path", rawPath))
		}
		return nil
	})
}

func findParent(idea *model.Idea, parentTitle string) (*model.MindMapNode, error) {
	if idea.MindMap == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "idea has no mind map", goerr.V("id", idea.ID))
	}
	parent := idea.MindMap.FindByTitle(parentTitle)
	if parent == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "parent node not found",
			goerr.V("parent", parentTitle))
	}
	return parent, nil
}
