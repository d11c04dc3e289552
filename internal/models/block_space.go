package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Block space lifecycle statuses. New spaces start pending and are
// activated by a platform admin.
const (
	BlockSpaceStatusPending  = "pending"
	BlockSpaceStatusActive   = "active"
	BlockSpaceStatusInactive = "inactive"
)

// BlockSpace is a managed residential building or community. It is the
// scoping boundary for announcements, forum, chat and documents.
type BlockSpace struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null;index" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	ImageURL    *string        `gorm:"size:512" json:"image_url,omitempty"`
	Address     string         `gorm:"size:512;not null" json:"address"`
	TotalFlats  int            `gorm:"not null" json:"total_flats"`
	TotalFloors int            `gorm:"not null" json:"total_floors"`
	Status      string         `gorm:"size:20;default:'pending';index" json:"status"`
	AdminIDs    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"admin_ids"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Admins decodes the JSONB admin id list.
func (b *BlockSpace) Admins() []uuid.UUID {
	var ids []uuid.UUID
	if len(b.AdminIDs) == 0 {
		return nil
	}
	if err := json.Unmarshal(b.AdminIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// HasAdmin reports whether userID is one of the space admins.
func (b *BlockSpace) HasAdmin(userID uuid.UUID) bool {
	for _, id := range b.Admins() {
		if id == userID {
			return true
		}
	}
	return false
}

// AdminIDList encodes ids for the AdminIDs column.
func AdminIDList(ids ...uuid.UUID) datatypes.JSON {
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}
