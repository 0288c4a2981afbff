package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id (public)
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetMyProfile handles GET /api/users/me (protected)
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}
