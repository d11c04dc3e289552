package announcements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement approval states. Member posts start pending; space
// admins approve them (admin-authored posts are approved on create).
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Interaction types.
const (
	InteractionLike    = "like"
	InteractionComment = "comment"
)

// Announcement is a block-scoped notice with engagement counters.
type Announcement struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlockSpaceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"block_space_id"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Status       string         `gorm:"size:20;default:'pending';index" json:"status"`
	IsPinned     bool           `gorm:"default:false" json:"is_pinned"`
	LikeCount    int            `gorm:"default:0" json:"like_count"`
	CommentCount int            `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnnouncementInteraction is a like or a comment on an announcement.
// Likes carry no content and are unique per (announcement, user).
type AnnouncementInteraction struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AnnouncementID uuid.UUID `gorm:"type:uuid;not null;index" json:"announcement_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type           string    `gorm:"size:20;not null" json:"type"`
	Content        *string   `gorm:"type:text" json:"content,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
