package database

import "collabfeed/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.InfluencerProfile{},
		&models.CompanyProfile{},
		&models.Connection{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Share{},
		&models.Collection{},
		&models.PostSave{},
		&models.Hashtag{},
		&models.PostHashtag{},
		&models.Mention{},
	}
}
