package scope

import (
	"github.com/blockconnect/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IsSpaceAdmin reports whether userID administers the block space,
// either as a listed space admin or as a platform admin.
func IsSpaceAdmin(db *gorm.DB, blockSpaceID, userID uuid.UUID) bool {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}

	var space models.BlockSpace
	if err := db.First(&space, "id = ?", blockSpaceID).Error; err != nil {
		return false
	}
	return space.HasAdmin(userID)
}
