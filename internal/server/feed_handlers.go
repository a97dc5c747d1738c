package server

import (
	"collabfeed/internal/models"
	"collabfeed/internal/ranking"
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FeedResponse is a page of feed posts. Scores is present only for
// explained personalized pages.
type FeedResponse struct {
	Data         []*models.Post             `json:"data"`
	Meta         service.PageMeta           `json:"meta"`
	Personalized bool                       `json:"personalized"`
	Scores       map[uint]ranking.Breakdown `json:"scores,omitempty"`
}

func parsePostType(c *fiber.Ctx) (models.PostType, error) {
	pt := models.PostType(c.Query("postType"))
	if pt != "" && !pt.Valid() {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid postType"))
		return "", errResponseWritten
	}
	return pt, nil
}

// GetFeed handles GET /api/feed/posts
// @Summary Chronological feed
// @Description Newest posts first, optionally filtered by post type.
// @Tags feed
// @Produce json
// @Param postType query string false "update, collaboration_story, campaign_announcement or portfolio"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} FeedResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postType, err := parsePostType(c)
	if err != nil {
		return nil
	}

	res, err := s.feedService.GetFeed(ctx, postType, parsePageRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(FeedResponse{Data: res.Posts, Meta: res.Meta, Personalized: res.Personalized})
}

// GetPersonalizedFeed handles GET /api/feed/personalized
// @Summary Personalized feed
// @Description Posts ranked for the viewer by connection, niche, engagement and recency. Falls back to the chronological feed when ranking signals are unavailable.
// @Tags feed
// @Produce json
// @Param postType query string false "Post type filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param explain query bool false "Attach per-post score breakdowns"
// @Success 200 {object} FeedResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/personalized [get]
func (s *Server) GetPersonalizedFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postType, err := parsePostType(c)
	if err != nil {
		return nil
	}

	res, err := s.feedService.GetPersonalizedFeed(ctx, service.FeedQuery{
		ViewerID: userID,
		PostType: postType,
		Page:     parsePageRequest(c),
		Explain:  c.QueryBool("explain", false),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(FeedResponse{
		Data:         res.Posts,
		Meta:         res.Meta,
		Personalized: res.Personalized,
		Scores:       res.Scores,
	})
}
