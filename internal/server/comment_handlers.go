package server

import (
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the body of POST /api/feed/posts/:id/comments.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/feed/posts/:id/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	created, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments handles GET /api/feed/posts/:id/comments
// @Summary List comments on a post
// @Description Newest first.
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} PaginatedResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, meta, err := s.commentService.GetComments(ctx, postID, parsePageRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(PaginatedResponse{Data: comments, Meta: meta})
}

// DeleteComment handles DELETE /api/feed/comments/:id
// @Summary Delete a comment
// @Description Only the comment's author may delete it.
// @Tags comments
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
