package server

import (
	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/usecase/mindmap"
	"github.com/gofiber/fiber/v3"
	"github.com/m-mizutani/goerr/v2"
)

type regenerateMindMapRequest struct {
	Summary  string `json:"summary" validate:"required"`
	Language string `json:"language" validate:"required,oneof=English Korean"`
}

func (s *Server) handleRegenerateMindMap(c fiber.Ctx) error {
	var req regenerateMindMapRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	root, err := s.mindmaps.Regenerate(c.Context(),
		model.IdeaID(c.Params("id")), req.Summary, model.Language(req.Language))
	if err != nil {
		return err
	}
	return dataResponse(c, root)
}

type addNodeRequest struct {
	ParentTitle string `json:"parentTitle" validate:"required"`
	Title       string `json:"title" validate:"required"`
}

func (s *Server) handleAddMindMapNode(c fiber.Ctx) error {
	var req addNodeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.mindmaps.AddNode(c.Context(),
		model.IdeaID(c.Params("id")), req.ParentTitle, req.Title); err != nil {
		return err
	}
	return dataResponse(c, fiber.Map{"added": req.Title})
}

type editNodeRequest struct {
	Path  string `json:"path" validate:"required"`
	Title string `json:"title" validate:"required"`
}

func (s *Server) handleEditMindMapNode(c fiber.Ctx) error {
	var req editNodeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.mindmaps.EditNode(c.Context(),
		model.IdeaID(c.Params("id")), req.Path, req.Title); err != nil {
		return err
	}
	return dataResponse(c, fiber.Map{"edited": req.Path})
}

func (s *Server) handleDeleteMindMapNode(c fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return goerr.Wrap(model.ErrInvalidInput, "path query parameter is required")
	}

	if err := s.mindmaps.DeleteNode(c.Context(), model.IdeaID(c.Params("id")), path); err != nil {
		return err
	}
	return dataResponse(c, fiber.Map{"deleted": path})
}

type expandNodeRequest struct {
	ParentTitle    string   `json:"parentTitle" validate:"required"`
	IdeaContext    string   `json:"ideaContext"`
	ExistingTitles []string `json:"existingTitles"`
	Language       string   `json:"language" validate:"required,oneof=English Korean"`
}

func (s *Server) handleExpandMindMapNode(c fiber.Ctx) error {
	var req expandNodeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	children, err := s.mindmaps.ExpandNode(c.Context(), &mindmap.ExpandInput{
		IdeaID:         model.IdeaID(c.Params("id")),
		IdeaContext:    req.IdeaContext,
		ParentTitle:    req.ParentTitle,
		ExistingTitles: req.ExistingTitles,
		Language:       model.Language(req.Language),
	})
	if err != nil {
		return err
	}
	return dataResponse(c, children)
}
