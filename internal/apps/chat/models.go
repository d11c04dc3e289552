package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room types. Every block space has one implicit block-wide room;
// direct and group rooms have explicit participant lists.
const (
	RoomTypeBlock  = "block"
	RoomTypeDirect = "direct"
	RoomTypeGroup  = "group"
)

type ChatRoom struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlockSpaceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"block_space_id"`
	Type         string         `gorm:"size:20;not null;index" json:"type"`
	Name         *string        `gorm:"size:255" json:"name,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type ChatParticipant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_participants_room_user,unique" json:"room_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_participants_room_user,unique" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RoomID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"room_id"`
	SenderID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
