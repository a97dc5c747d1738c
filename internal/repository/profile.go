package repository

import (
	"context"

	"collabfeed/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository resolves the niche signal used by ranking: an
// influencer's niche or a company's industry.
type ProfileRepository interface {
	// GetNiche returns gorm.ErrRecordNotFound when the user does not exist
	// and "" when the user has no niche.
	GetNiche(ctx context.Context, userID uint) (string, error)
	// GetNiches resolves many users at once; users without a niche are absent.
	GetNiches(ctx context.Context, userIDs []uint) (map[uint]string, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetNiche(ctx context.Context, userID uint) (string, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Select("id", "role").First(&user, userID).Error; err != nil {
		return "", err
	}
	niches, err := r.GetNiches(ctx, []uint{userID})
	if err != nil {
		return "", err
	}
	return niches[userID], nil
}

func (r *profileRepository) GetNiches(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	db := readDB(r.db).WithContext(ctx)

	var users []models.User
	if err := db.Select("id", "role").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	var influencers, companies []uint
	for _, u := range users {
		switch u.Role {
		case models.RoleInfluencer:
			influencers = append(influencers, u.ID)
		case models.RoleCompany:
			companies = append(companies, u.ID)
		}
	}

	if len(influencers) > 0 {
		var profiles []models.InfluencerProfile
		if err := db.Select("user_id", "niche").Where("user_id IN ?", influencers).Find(&profiles).Error; err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if p.Niche != "" {
				out[p.UserID] = p.Niche
			}
		}
	}
	if len(companies) > 0 {
		var profiles []models.CompanyProfile
		if err := db.Select("user_id", "industry").Where("user_id IN ?", companies).Find(&profiles).Error; err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if p.Industry != "" {
				out[p.UserID] = p.Industry
			}
		}
	}
	return out, nil
}
