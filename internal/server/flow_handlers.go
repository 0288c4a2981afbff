package server

import (
	"flowshare/internal/models"
	"flowshare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// parseFlowName extracts and validates the flow name route parameter.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseFlowName(c *fiber.Ctx) (string, error) {
	name := c.Params("name")
	if err := validation.ValidateFlowName(name); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
		return "", errResponseWritten
	}
	return name, nil
}

// GetFlowOverview handles GET /api/flows (public)
func (s *Server) GetFlowOverview(c *fiber.Ctx) error {
	entries, err := s.flowService.Overview(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(entries)
}

// SuggestFlows handles GET /api/flows/suggest?q=... (public)
func (s *Server) SuggestFlows(c *fiber.Ctx) error {
	suggestions, err := s.flowService.Suggest(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(suggestions)
}

// GetFlow handles GET /api/flows/:name (public)
func (s *Server) GetFlow(c *fiber.Ctx) error {
	name, err := s.parseFlowName(c)
	if err != nil {
		return nil
	}

	flow, err := s.flowService.GetFlow(c.UserContext(), name)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(flow)
}

// GetFlowPosts handles GET /api/flows/:name/posts (public)
func (s *Server) GetFlowPosts(c *fiber.Ctx) error {
	name, err := s.parseFlowName(c)
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListByFlow(c.UserContext(),
		name, parsePage(c), s.viewerID(c), c.Query("sort"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}
