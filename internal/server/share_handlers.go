package server

import (
	"collabfeed/internal/models"
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ShareRequest is the body of POST /api/feed/posts/:id/share.
type ShareRequest struct {
	ShareType string `json:"shareType"`
}

// TrackShare handles POST /api/feed/posts/:id/share
// @Summary Record a share of a post
// @Tags shares
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body ShareRequest true "Share channel"
// @Success 201 {object} models.Share
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/posts/{id}/share [post]
func (s *Server) TrackShare(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	share, err := s.shareService.TrackShare(ctx, service.TrackShareInput{
		ItemID:    postID,
		UserID:    userID,
		ItemType:  models.ShareItemPost,
		ShareType: req.ShareType,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(share)
}

// GetShareCount handles GET /api/feed/posts/:id/share-count
// @Summary Number of shares of a post
// @Tags shares
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{count=int}
// @Security BearerAuth
// @Router /feed/posts/{id}/share-count [get]
func (s *Server) GetShareCount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	return c.JSON(fiber.Map{"count": s.shareService.GetShareCount(ctx, models.ShareItemPost, postID)})
}

// GetShareDetails handles GET /api/feed/posts/:id/share-details
// @Summary Share count, per-channel breakdown and recent sharers
// @Tags shares
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.ShareDetails
// @Security BearerAuth
// @Router /feed/posts/{id}/share-details [get]
func (s *Server) GetShareDetails(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	details, err := s.shareService.GetShareDetails(ctx, models.ShareItemPost, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}
