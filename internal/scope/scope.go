package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForBlockSpace returns a GORM scope that filters rows to one block space.
func ForBlockSpace(blockSpaceID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("block_space_id = ?", blockSpaceID)
	}
}
