package server

import (
	"flowshare/internal/models"
	"flowshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parsePublicID extracts the post's public ID route parameter.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parsePublicID(c *fiber.Ctx) (string, error) {
	publicID := c.Params("id")
	if len(publicID) != models.PublicIDLength {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
		return "", errResponseWritten
	}
	return publicID, nil
}

// CreatePost handles POST /api/posts (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title      string `json:"title"`
		Visibility string `json:"visibility"`
		Flows      []string `json:"flows"`
		Media      []struct {
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"media"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		UserID:     userID,
		Title:      req.Title,
		Flows:      req.Flows,
		Visibility: models.PostVisibility(req.Visibility),
	}
	for _, m := range req.Media {
		in.Media = append(in.Media, service.MediaInput{
			URL:         m.URL,
			Description: m.Description,
		})
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id (public). Each fetch counts a view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), publicID, s.viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetPosts handles GET /api/posts (public feed)
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(),
		parsePage(c), s.viewerID(c), c.Query("sort"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=... (public)
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.SearchPosts(c.UserContext(),
		c.Query("q"), parsePage(c), s.viewerID(c), c.Query("sort"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:id/posts (public)
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListByUser(c.UserContext(),
		userID, parsePage(c), s.viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// UpdatePostTitle handles PUT /api/posts/:id (owner only)
func (s *Server) UpdatePostTitle(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	publicID, err := s.parsePublicID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title string `json:"title"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePostTitle(c.UserContext(), service.UpdatePostTitleInput{
		UserID:   userID,
		PublicID: publicID,
		Title:    req.Title,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}
