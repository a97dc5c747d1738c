package server

import (
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the body of POST /api/feed/posts.
type CreatePostRequest struct {
	Content   string   `json:"content"`
	PostType  string   `json:"postType"`
	MediaURLs []string `json:"mediaUrls"`
}

// CreatePost handles POST /api/feed/posts
// @Summary Create a post
// @Description Creates a post and extracts its hashtags and mentions. Extraction failures do not fail the request.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID:  userID,
		Content:   req.Content,
		PostType:  req.PostType,
		MediaURLs: req.MediaURLs,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/feed/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/feed/posts/:id
// @Summary Delete a post
// @Description Only the author may delete a post. Comments, reactions, saves, hashtag links and mentions go with it.
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{UserID: userID, PostID: postID}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
