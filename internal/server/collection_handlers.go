package server

import (
	"collabfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CollectionRequest is the body of collection create and update calls.
// On update, omitted fields are left unchanged.
type CollectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// GetSavedPosts handles GET /api/feed/saved
// @Summary List the viewer's saved posts
// @Tags collections
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} PaginatedResponse
// @Security BearerAuth
// @Router /feed/saved [get]
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	saves, meta, err := s.collectionService.GetSavedPosts(ctx, userID, parsePageRequest(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(PaginatedResponse{Data: saves, Meta: meta})
}

// GetSavedPostsByCollection handles GET /api/feed/saved/by-collection
// @Summary List saves in one collection
// @Description Without collectionId, lists saves that are in no collection.
// @Tags collections
// @Produce json
// @Param collectionId query int false "Collection ID"
// @Success 200 {array} models.PostSave
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/saved/by-collection [get]
func (s *Server) GetSavedPostsByCollection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	collectionID, err := parseOptionalUint(c, "collectionId")
	if err != nil {
		return nil
	}

	saves, err := s.collectionService.GetSavedPostsByCollection(ctx, userID, collectionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saves)
}

// CreateCollection handles POST /api/feed/collections
// @Summary Create a collection
// @Tags collections
// @Accept json
// @Produce json
// @Param request body CollectionRequest true "Collection"
// @Success 201 {object} models.Collection
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/collections [post]
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req CollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	in := service.CreateCollectionInput{UserID: userID}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}

	collection, err := s.collectionService.CreateCollection(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetCollections handles GET /api/feed/collections
// @Summary List the viewer's collections
// @Tags collections
// @Produce json
// @Success 200 {array} models.Collection
// @Security BearerAuth
// @Router /feed/collections [get]
func (s *Server) GetCollections(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	collections, err := s.collectionService.GetCollections(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collections)
}

// GetCollection handles GET /api/feed/collections/:id
// @Summary Get a collection with its saved posts
// @Tags collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} models.Collection
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/collections/{id} [get]
func (s *Server) GetCollection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collection, err := s.collectionService.GetCollection(ctx, collectionID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

// UpdateCollection handles PUT /api/feed/collections/:id
// @Summary Update a collection
// @Tags collections
// @Accept json
// @Produce json
// @Param id path int true "Collection ID"
// @Param request body CollectionRequest true "Fields to change"
// @Success 200 {object} models.Collection
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/collections/{id} [put]
func (s *Server) UpdateCollection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	collection, err := s.collectionService.UpdateCollection(ctx, service.UpdateCollectionInput{
		UserID:       userID,
		CollectionID: collectionID,
		Name:         req.Name,
		Description:  req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(collection)
}

// DeleteCollection handles DELETE /api/feed/collections/:id
// @Summary Delete a collection
// @Description Saves in the collection are kept and become unfiled.
// @Tags collections
// @Param id path int true "Collection ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /feed/collections/{id} [delete]
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.collectionService.DeleteCollection(ctx, collectionID, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
