package forum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForumCategory is a block-scoped discussion category, seeded from the
// category catalog the first time a block space touches the forum.
type ForumCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlockSpaceID uuid.UUID `gorm:"type:uuid;not null;index:idx_forum_categories_space_value,unique" json:"block_space_id"`
	Value        string    `gorm:"size:50;not null;index:idx_forum_categories_space_value,unique" json:"value"`
	Label        string    `gorm:"size:100;not null" json:"label"`
	Description  string    `gorm:"size:255" json:"description"`
	ThreadCount  int       `gorm:"default:0" json:"thread_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ForumThread is a discussion topic.
type ForumThread struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlockSpaceID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"block_space_id"`
	AuthorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Category      string         `gorm:"size:50;not null;index" json:"category"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	ReplyCount    int            `gorm:"default:0" json:"reply_count"`
	LikeCount     int            `gorm:"default:0" json:"like_count"`
	LastReplyBy   *uuid.UUID     `gorm:"type:uuid" json:"last_reply_by,omitempty"`
	LastReplyAt   *time.Time     `json:"last_reply_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// ForumReply is a reply within a thread; ParentID supports one level
// of reply nesting.
type ForumReply struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ThreadID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"thread_id"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null" json:"author_id"`
	ParentID     *uuid.UUID     `gorm:"type:uuid" json:"parent_id,omitempty"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ForumThreadLike tracks who liked a thread.
type ForumThreadLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
