package server

import (
	"net/url"

	"collabfeed/internal/models"
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HashtagPostsResponse is a page of posts carrying one hashtag.
type HashtagPostsResponse struct {
	Hashtag *models.Hashtag  `json:"hashtag"`
	Data    []*models.Post   `json:"data"`
	Meta    service.PageMeta `json:"meta"`
}

// GetTrendingHashtags handles GET /api/feed/hashtags/trending
// @Summary Most used hashtags
// @Tags hashtags
// @Produce json
// @Param limit query int false "Number of hashtags" default(10)
// @Success 200 {array} models.Hashtag
// @Security BearerAuth
// @Router /feed/hashtags/trending [get]
func (s *Server) GetTrendingHashtags(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tags, err := s.hashtagService.GetTrendingHashtags(ctx, c.QueryInt("limit", service.DefaultHashtagLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// SearchHashtags handles GET /api/feed/hashtags/search
// @Summary Search hashtags by prefix
// @Tags hashtags
// @Produce json
// @Param q query string true "Prefix, with or without #"
// @Param limit query int false "Number of hashtags" default(10)
// @Success 200 {array} models.Hashtag
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/hashtags/search [get]
func (s *Server) SearchHashtags(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tags, err := s.hashtagService.SearchHashtags(ctx, c.Query("q"), c.QueryInt("limit", service.DefaultHashtagLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// GetPostsByHashtag handles GET /api/feed/hashtags/:name/posts
// @Summary Posts carrying a hashtag
// @Description Newest first. An unknown hashtag yields an empty page.
// @Tags hashtags
// @Produce json
// @Param name path string true "Hashtag, without #"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} HashtagPostsResponse
// @Security BearerAuth
// @Router /feed/hashtags/{name}/posts [get]
func (s *Server) GetPostsByHashtag(c *fiber.Ctx) error {
	ctx := c.UserContext()
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid hashtag"))
	}

	res, err := s.hashtagService.GetPostsByHashtag(ctx, name, parsePageRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(HashtagPostsResponse{Hashtag: res.Hashtag, Data: res.Posts, Meta: res.Meta})
}

// SearchUsersForMention handles GET /api/feed/mentions/search-users
// @Summary Users whose handle starts with q
// @Tags mentions
// @Produce json
// @Param q query string true "Handle prefix, with or without @"
// @Param limit query int false "Number of users" default(10)
// @Success 200 {array} models.UserSummary
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/mentions/search-users [get]
func (s *Server) SearchUsersForMention(c *fiber.Ctx) error {
	ctx := c.UserContext()
	users, err := s.mentionService.SearchUsersForMention(ctx, c.Query("q"), c.QueryInt("limit", service.DefaultMentionSearchLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUserMentions handles GET /api/feed/mentions/my-mentions
// @Summary Mentions of the viewer
// @Tags mentions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} PaginatedResponse
// @Security BearerAuth
// @Router /feed/mentions/my-mentions [get]
func (s *Server) GetUserMentions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	mentions, meta, err := s.mentionService.GetUserMentions(ctx, userID, parsePageRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(PaginatedResponse{Data: mentions, Meta: meta})
}
