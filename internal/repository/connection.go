package repository

import (
	"context"

	"collabfeed/internal/models"

	"gorm.io/gorm"
)

// ConnectionRepository answers connection-status questions about users.
type ConnectionRepository interface {
	// AcceptedConnectionIDs returns the ids of users with an accepted
	// connection to userID, whichever side sent the request.
	AcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) AcceptedConnectionIDs(ctx context.Context, userID uint) ([]uint, error) {
	var conns []models.Connection
	err := readDB(r.db).WithContext(ctx).
		Select("requester_id", "recipient_id").
		Where("status = ?", models.ConnectionStatusAccepted).
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(conns))
	for _, c := range conns {
		if c.RequesterID == userID {
			ids = append(ids, c.RecipientID)
		} else {
			ids = append(ids, c.RequesterID)
		}
	}
	return ids, nil
}
