package server

import (
	"github.com/gofiber/fiber/v2"
)

// CastPostUpvote handles PUT /api/posts/:id/upvote (protected, idempotent)
func (s *Server) CastPostUpvote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	if err := s.voteService.CastPostUpvote(c.UserContext(), publicID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hasUpvote": true})
}

// RetractPostUpvote handles DELETE /api/posts/:id/upvote (protected, idempotent)
func (s *Server) RetractPostUpvote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	if err := s.voteService.RetractPostUpvote(c.UserContext(), publicID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hasUpvote": false})
}

// TogglePostUpvote handles POST /api/posts/:id/upvote (protected)
func (s *Server) TogglePostUpvote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	hasUpvote, err := s.voteService.TogglePostUpvote(c.UserContext(), publicID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hasUpvote": hasUpvote})
}

// CastCommentUpvote handles PUT /api/comments/:id/upvote (protected, idempotent)
func (s *Server) CastCommentUpvote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.voteService.CastCommentUpvote(c.UserContext(), commentID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hasUpvote": true})
}

// RetractCommentUpvote handles DELETE /api/comments/:id/upvote (protected, idempotent)
func (s *Server) RetractCommentUpvote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.voteService.RetractCommentUpvote(c.UserContext(), commentID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hasUpvote": false})
}

// ToggleCommentUpvote handles POST /api/comments/:id/upvote (protected)
func (s *Server) ToggleCommentUpvote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	hasUpvote, err := s.voteService.ToggleCommentUpvote(c.UserContext(), commentID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"hasUpvote": hasUpvote})
}
