package server

import (
	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/usecase/idea"
	"github.com/gofiber/fiber/v3"
	"github.com/m-mizutani/goerr/v2"
)

type generateIdeaRequest struct {
	IdeaText  string `json:"ideaText" validate:"required,min=10"`
	Language  string `json:"language" validate:"required,oneof=English Korean"`
	RequestID string `json:"requestId" validate:"required"`
}

func (s *Server) handleGenerateIdea(c fiber.Ctx) error {
	var req generateIdeaRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	created, err := s.ideas.Generate(c.Context(), &idea.GenerateInput{
		IdeaText:  req.IdeaText,
		UserID:    userID(c),
		Language:  model.Language(req.Language),
		RequestID: req.RequestID,
	})
	if err != nil {
		return err
	}

	c.Status(fiber.StatusCreated)
	return dataResponse(c, created)
}

func (s *Server) handleListIdeas(c fiber.Ctx) error {
	var (
		ideas []*model.Idea
		err   error
	)
	if c.Query("favorited") == "true" {
		ideas, err = s.ideas.ListFavorited(c.Context(), userID(c))
	} else {
		ideas, err = s.ideas.ListArchived(c.Context(), userID(c))
	}
	if err != nil {
		return err
	}

	if ideas == nil {
		ideas = []*model.Idea{}
	}
	return dataResponse(c, ideas)
}

func (s *Server) handleGetIdea(c fiber.Ctx) error {
	found, err := s.ideas.Get(c.Context(), model.IdeaID(c.Params("id")))
	if err != nil {
		return err
	}
	return dataResponse(c, found)
}

type updateIdeaRequest struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Outline *string `json:"outline"`
}

func (s *Server) handleUpdateIdea(c fiber.Ctx) error {
	var req updateIdeaRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if req.Title == nil && req.Summary == nil && req.Outline == nil {
		return goerr.Wrap(model.ErrInvalidInput, "nothing to update")
	}

	updated, err := s.ideas.UpdateContent(c.Context(), model.IdeaID(c.Params("id")), &idea.ContentUpdate{
		Title:   req.Title,
		Summary: req.Summary,
		Outline: req.Outline,
	})
	if err != nil {
		return err
	}
	return dataResponse(c, updated)
}

func (s *Server) handleDeleteIdea(c fiber.Ctx) error {
	if err := s.ideas.Delete(c.Context(), model.IdeaID(c.Params("id")), userID(c)); err != nil {
		return err
	}
	return dataResponse(c, fiber.Map{"deleted": true})
}

type toggleFavoriteRequest struct {
	Favorited bool `json:"favorited"`
}

func (s *Server) handleToggleFavorite(c fiber.Ctx) error {
	var req toggleFavoriteRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.ideas.ToggleFavorite(c.Context(), model.IdeaID(c.Params("id")), req.Favorited); err != nil {
		return err
	}
	return dataResponse(c, fiber.Map{"favorited": req.Favorited})
}

func (s *Server) handleSuggestions(c fiber.Ctx) error {
	suggestions, err := s.ideas.Suggest(c.Context(), model.IdeaID(c.Params("id")))
	if err != nil {
		return err
	}
	return dataResponse(c, suggestions)
}

func (s *Server) handleBusinessPlan(c fiber.Ctx) error {
	plan, err := s.ideas.BusinessPlan(c.Context(), model.IdeaID(c.Params("id")))
	if err != nil {
		return err
	}
	return dataResponse(c, plan)
}
