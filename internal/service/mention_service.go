package service

import (
	"context"
	"strings"

	"collabfeed/internal/models"
	"collabfeed/internal/repository"
	"collabfeed/internal/validation"
)

// DefaultMentionSearchLimit bounds user search results for the mention picker.
const DefaultMentionSearchLimit = 10

type MentionService struct {
	userRepo    repository.UserRepository
	mentionRepo repository.MentionRepository
}

func NewMentionService(userRepo repository.UserRepository, mentionRepo repository.MentionRepository) *MentionService {
	return &MentionService{
		userRepo:    userRepo,
		mentionRepo: mentionRepo,
	}
}

// SearchUsersForMention matches handles by case-insensitive prefix and only
// returns public fields.
func (s *MentionService) SearchUsersForMention(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	if err := validation.ValidateSearchQuery(query); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	q := strings.TrimPrefix(strings.TrimSpace(query), "@")
	if q == "" {
		return []models.UserSummary{}, nil
	}
	users, err := s.userRepo.SearchByHandlePrefix(ctx, q, clampLimit(limit, DefaultMentionSearchLimit))
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// GetUserMentions lists the mentions of userID, newest first.
func (s *MentionService) GetUserMentions(ctx context.Context, userID uint, page PageRequest) ([]*models.Mention, PageMeta, error) {
	mentions, err := s.mentionRepo.ListForUser(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, PageMeta{}, err
	}
	total, err := s.mentionRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	if mentions == nil {
		mentions = []*models.Mention{}
	}
	return mentions, page.Meta(total), nil
}
