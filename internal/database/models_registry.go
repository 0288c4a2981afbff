package database

import "flowshare/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM
// models, in AutoMigrate order: referenced tables before referencing ones.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.PostMedia{},
		&models.Flow{},
		&models.Comment{},
		&models.PostUpvote{},
		&models.CommentUpvote{},
	}
}
