package server

import (
	"collabfeed/internal/models"
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReactRequest is the body of POST /api/feed/posts/:id/react.
type ReactRequest struct {
	ReactionType string `json:"reactionType"`
}

// SaveRequest is the optional body of POST /api/feed/posts/:id/save.
type SaveRequest struct {
	CollectionID *uint `json:"collectionId"`
}

// PostReactionsResponse is a reaction summary plus the viewer's own reaction.
type PostReactionsResponse struct {
	*models.ReactionSummary
	UserReaction *models.ReactionType `json:"user_reaction"`
}

// LikePost handles POST /api/feed/posts/:id/like
// @Summary Like a post
// @Description Idempotent; a viewer who already reacted keeps their reaction.
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{liked=bool}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.engagementService.LikePost(ctx, postID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": true})
}

// UnlikePost handles DELETE /api/feed/posts/:id/like
// @Summary Unlike a post
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{liked=bool}
// @Security BearerAuth
// @Router /feed/posts/{id}/like [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.engagementService.UnlikePost(ctx, postID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": false})
}

// HasLikedPost handles GET /api/feed/posts/:id/liked
// @Summary Whether the viewer liked a post
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{liked=bool}
// @Security BearerAuth
// @Router /feed/posts/{id}/liked [get]
func (s *Server) HasLikedPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	liked, err := s.engagementService.HasLikedPost(ctx, postID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// ReactToPost handles POST /api/feed/posts/:id/react
// @Summary React to a post
// @Description Sets or changes the viewer's reaction. Only the first reaction counts towards like_count.
// @Tags engagement
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body ReactRequest true "Reaction"
// @Success 200 {object} object{reaction_type=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/react [post]
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ReactRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	rt, err := s.engagementService.ReactToPost(ctx, service.ReactInput{
		PostID:       postID,
		UserID:       userID,
		ReactionType: req.ReactionType,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reaction_type": rt})
}

// RemoveReaction handles DELETE /api/feed/posts/:id/react
// @Summary Remove the viewer's reaction
// @Tags engagement
// @Param id path int true "Post ID"
// @Success 204
// @Security BearerAuth
// @Router /feed/posts/{id}/react [delete]
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.engagementService.RemoveReaction(ctx, postID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostReactions handles GET /api/feed/posts/:id/reactions
// @Summary Reaction summary of a post
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostReactionsResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/reactions [get]
func (s *Server) GetPostReactions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	return c.JSON(PostReactionsResponse{
		ReactionSummary: s.engagementService.GetPostReactions(ctx, postID),
		UserReaction:    s.engagementService.GetUserReaction(ctx, postID, userID),
	})
}

// GetInteractionStatus handles GET /api/feed/posts/:id/interaction-status
// @Summary Viewer's like and save state for a post
// @Tags engagement
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.InteractionStatus
// @Security BearerAuth
// @Router /feed/posts/{id}/interaction-status [get]
func (s *Server) GetInteractionStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	return c.JSON(s.engagementService.GetInteractionStatus(ctx, postID, userID))
}

// SavePost handles POST /api/feed/posts/:id/save
// @Summary Save a post
// @Description Saves the post, optionally into one of the viewer's collections. Saving again moves it.
// @Tags collections
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body SaveRequest false "Target collection"
// @Success 200 {object} object{saved=bool}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/save [post]
func (s *Server) SavePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req SaveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}

	if err := s.collectionService.SavePost(ctx, service.SavePostInput{
		PostID:       postID,
		UserID:       userID,
		CollectionID: req.CollectionID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"saved": true})
}

// UnsavePost handles DELETE /api/feed/posts/:id/save
// @Summary Unsave a post
// @Tags collections
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{saved=bool}
// @Security BearerAuth
// @Router /feed/posts/{id}/save [delete]
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.collectionService.UnsavePost(ctx, postID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"saved": false})
}

// HasSavedPost handles GET /api/feed/posts/:id/saved
// @Summary Whether the viewer saved a post
// @Tags collections
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{saved=bool}
// @Security BearerAuth
// @Router /feed/posts/{id}/saved [get]
func (s *Server) HasSavedPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	saved, err := s.collectionService.HasSavedPost(ctx, postID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}
