package scope

import "gorm.io/gorm"

// IncludeTrashed lifts GORM's soft-delete filter so trashed rows are visible.
func IncludeTrashed(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// OnlyTrashed selects soft-deleted rows only. Must be combined with
// IncludeTrashed, otherwise GORM's default scope hides every match.
func OnlyTrashed(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Where("deleted_at IS NOT NULL")
}
