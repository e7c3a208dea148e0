package server

import (
	"github.com/daper-app/daper/pkg/model"
	"github.com/daper-app/daper/pkg/usecase/user"
	"github.com/gofiber/fiber/v3"
	"github.com/m-mizutani/goerr/v2"
)

type loginRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,url"`
}

func (s *Server) handleLogin(c fiber.Ctx) error {
	var req loginRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.users.Upsert(c.Context(), &user.Profile{
		UID:         userID(c),
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}); err != nil {
		return err
	}
	return dataResponse(c, fiber.Map{"uid": userID(c)})
}

func (s *Server) handleGetUsage(c fiber.Ctx) error {
	current, err := s.usage.Get(c.Context(), userID(c))
	if err != nil {
		return err
	}
	return dataResponse(c, current)
}

// bind decodes and validates a JSON request body
func (s *Server) bind(c fiber.Ctx, req any) error {
	if err := c.Bind().Body(req); err != nil {
		return goerr.Wrap(model.ErrInvalidInput, "malformed request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return goerr.Wrap(model.ErrInvalidInput, err.Error())
	}
	return nil
}
