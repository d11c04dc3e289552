package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document approval states. Member uploads start pending; space admins
// approve them (admin uploads are approved immediately).
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Document is file metadata; the file itself lives in the uploads
// directory at StoragePath.
type Document struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlockSpaceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"block_space_id"`
	UploaderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"uploader_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	FileType     string         `gorm:"size:20;not null" json:"file_type"`
	FileSize     int64          `gorm:"not null" json:"file_size"`
	Category     string         `gorm:"size:50;index" json:"category"`
	StoragePath  string         `gorm:"size:512;not null" json:"-"`
	Status       string         `gorm:"size:20;default:'pending';index" json:"status"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
