package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/transcriptgraph/internal/domain"
)

// AutoMigrateAll migrates the local metadata tables only. The upstream
// transcript source is read-only and never migrated from here.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Company{},
		&types.Event{},
	)
}
