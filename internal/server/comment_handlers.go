package server

import (
	"flowshare/internal/models"
	"flowshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID:       userID,
		PostPublicID: publicID,
		Content:      req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// CreateReply handles POST /api/comments/:id/replies (protected)
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	parentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		PostID  string `json:"postId"`
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddReply(c.UserContext(), service.AddReplyInput{
		UserID:       userID,
		PostPublicID: req.PostID,
		ParentID:     parentID,
		Content:      req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments (public)
func (s *Server) GetComments(c *fiber.Ctx) error {
	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(),
		publicID, parsePage(c), s.viewerID(c), c.Query("sort"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// GetReplies handles GET /api/comments/:id/replies (public)
func (s *Server) GetReplies(c *fiber.Ctx) error {
	parentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.commentService.ListReplies(c.UserContext(),
		parentID, parsePage(c), s.viewerID(c), c.Query("sort"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(replies)
}
