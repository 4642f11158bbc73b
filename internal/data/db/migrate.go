package db

import (
	types "github.com/yungbote/plantdx-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Diagnosis{},
	)
}
