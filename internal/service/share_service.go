package service

import (
	"context"
	"log/slog"

	"collabfeed/internal/middleware"
	"collabfeed/internal/models"
	"collabfeed/internal/observability"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"
)

// RecentSharersLimit is the default size of a recent sharers list.
const RecentSharersLimit = 10

type ShareService struct {
	postRepo  repository.PostRepository
	shareRepo repository.ShareRepository
}

type TrackShareInput struct {
	ItemID    uint
	UserID    uint
	ItemType  models.ShareItemType
	ShareType string
}

// ShareDetails combines the share count, channel breakdown and recent
// sharers of an item.
type ShareDetails struct {
	Count         int64                      `json:"count"`
	Breakdown     map[models.ShareType]int64 `json:"breakdown"`
	RecentSharers []models.Sharer            `json:"recent_sharers"`
}

func NewShareService(postRepo repository.PostRepository, shareRepo repository.ShareRepository) *ShareService {
	return &ShareService{
		postRepo:  postRepo,
		shareRepo: shareRepo,
	}
}

// TrackShare appends a share. Posts must exist; campaign and match ids
// belong to other services and are taken as given.
func (s *ShareService) TrackShare(ctx context.Context, in TrackShareInput) (*models.Share, error) {
	if !in.ItemType.Valid() {
		return nil, models.NewValidationError("Invalid item_type")
	}
	st, err := validation.ParseShareType(in.ShareType)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.ItemType == models.ShareItemPost {
		if _, err := s.postRepo.GetByID(ctx, in.ItemID); err != nil {
			return nil, notFound(err, "Post", in.ItemID)
		}
	}

	share := &models.Share{
		UserID:    in.UserID,
		ItemType:  in.ItemType,
		ItemID:    in.ItemID,
		ShareType: st,
	}
	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}
	observability.EngagementEvents.WithLabelValues("share").Inc()
	return share, nil
}

// GetShareCount returns 0 when the count cannot be loaded.
func (s *ShareService) GetShareCount(ctx context.Context, itemType models.ShareItemType, itemID uint) int64 {
	n, err := s.shareRepo.Count(ctx, itemType, itemID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to count shares",
			slog.String("item_type", string(itemType)),
			slog.Uint64("item_id", uint64(itemID)),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return n
}

func (s *ShareService) GetShareBreakdown(ctx context.Context, itemType models.ShareItemType, itemID uint) (map[models.ShareType]int64, error) {
	return s.shareRepo.Breakdown(ctx, itemType, itemID)
}

func (s *ShareService) GetRecentSharers(ctx context.Context, itemType models.ShareItemType, itemID uint, limit int) ([]models.Sharer, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = RecentSharersLimit
	}
	out, err := s.shareRepo.Recent(ctx, itemType, itemID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Sharer{}
	}
	return out, nil
}

func (s *ShareService) GetShareDetails(ctx context.Context, itemType models.ShareItemType, itemID uint) (*ShareDetails, error) {
	breakdown, err := s.GetShareBreakdown(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	recent, err := s.GetRecentSharers(ctx, itemType, itemID, RecentSharersLimit)
	if err != nil {
		return nil, err
	}
	return &ShareDetails{
		Count:         s.GetShareCount(ctx, itemType, itemID),
		Breakdown:     breakdown,
		RecentSharers: recent,
	}, nil
}
