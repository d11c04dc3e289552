package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockconnect/backend/internal/realtime"
	"github.com/blockconnect/backend/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound   = errors.New("chat room not found")
	ErrNotParticipant = errors.New("not a participant of this room")
)

// ChatService persists rooms and messages; realtime delivery rides the
// hub, history is served over REST.
type ChatService struct {
	db     *gorm.DB
	broker *realtime.Broker
}

func NewChatService(db *gorm.DB, broker *realtime.Broker) *ChatService {
	return &ChatService{db: db, broker: broker}
}

// ListRooms returns the block-wide room (created on first use) plus
// every direct/group room the user participates in.
func (s *ChatService) ListRooms(blockSpaceID, userID uuid.UUID) ([]ChatRoom, error) {
	if _, err := s.ensureBlockRoom(blockSpaceID); err != nil {
		return nil, err
	}

	var rooms []ChatRoom
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		Where("type = ? OR id IN (?)", RoomTypeBlock,
			s.db.Model(&ChatParticipant{}).Select("room_id").Where("user_id = ?", userID)).
		Order("created_at ASC").
		Find(&rooms).Error
	return rooms, err
}

// CreateRoom opens a direct or group conversation. Direct rooms are
// deduplicated: reopening a conversation with the same person returns
// the existing room.
func (s *ChatService) CreateRoom(blockSpaceID, creatorID uuid.UUID, roomType string, name *string, participantIDs []uuid.UUID) (*ChatRoom, error) {
	// Dedupe and drop the creator up front: the participant table has a
	// unique (room, user) index, and clients routinely send the caller
	// in their own participant list.
	others := make([]uuid.UUID, 0, len(participantIDs))
	seen := map[uuid.UUID]struct{}{creatorID: {}}
	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		others = append(others, id)
	}

	switch roomType {
	case RoomTypeDirect:
		if len(others) != 1 {
			return nil, errors.New("direct room requires exactly one other participant")
		}
		if existing, err := s.findDirectRoom(blockSpaceID, creatorID, others[0]); err == nil {
			return existing, nil
		}
	case RoomTypeGroup:
		if name == nil || *name == "" {
			return nil, errors.New("group room requires a name")
		}
		if len(others) == 0 {
			return nil, errors.New("group room requires participants")
		}
	default:
		return nil, fmt.Errorf("invalid room type %q", roomType)
	}

	room := &ChatRoom{
		ID:           uuid.New(),
		BlockSpaceID: blockSpaceID,
		Type:         roomType,
		Name:         name,
	}

	members := append([]uuid.UUID{creatorID}, others...)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		rows := make([]ChatParticipant, 0, len(members))
		for _, id := range members {
			rows = append(rows, ChatParticipant{ID: uuid.New(), RoomID: room.ID, UserID: id})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	s.broker.Publish(context.Background(), realtime.Event{
		Table: "chat_rooms", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Targets: members, Row: room,
	})
	return room, nil
}

// ListMessages returns room history newest first.
func (s *ChatService) ListMessages(blockSpaceID, roomID, userID uuid.UUID, page, limit int) ([]ChatMessage, int64, error) {
	if _, err := s.authorizedRoom(blockSpaceID, roomID, userID); err != nil {
		return nil, 0, err
	}

	var messages []ChatMessage
	var total int64

	query := s.db.Model(&ChatMessage{}).Where("room_id = ?", roomID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// SendMessage persists a message and pushes it to the room's members
// over the hub. Block rooms broadcast to the whole space.
func (s *ChatService) SendMessage(blockSpaceID, roomID, senderID uuid.UUID, content string) (*ChatMessage, error) {
	if len(content) < 1 || len(content) > 4000 {
		return nil, errors.New("message must be 1-4000 characters")
	}

	room, err := s.authorizedRoom(blockSpaceID, roomID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &ChatMessage{
		ID:       uuid.New(),
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, err
	}

	ev := realtime.Event{
		Table: "chat_messages", Type: realtime.EventInsert,
		BlockSpaceID: blockSpaceID, Row: msg,
	}
	if room.Type != RoomTypeBlock {
		ev.Targets = s.participantIDs(roomID)
	}
	s.broker.Publish(context.Background(), ev)
	return msg, nil
}

// MarkRead marks all messages from other senders in the room as read.
func (s *ChatService) MarkRead(blockSpaceID, roomID, userID uuid.UUID) error {
	if _, err := s.authorizedRoom(blockSpaceID, roomID, userID); err != nil {
		return err
	}

	return s.db.Model(&ChatMessage{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = false", roomID, userID).
		Update("is_read", true).Error
}

// OnlineUsers lists users currently connected to the block space.
func (s *ChatService) OnlineUsers(ctx context.Context, blockSpaceID uuid.UUID) []uuid.UUID {
	return s.broker.OnlineUsers(ctx, blockSpaceID)
}

func (s *ChatService) ensureBlockRoom(blockSpaceID uuid.UUID) (*ChatRoom, error) {
	var room ChatRoom
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		Where("type = ?", RoomTypeBlock).
		First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = ChatRoom{
		ID:           uuid.New(),
		BlockSpaceID: blockSpaceID,
		Type:         RoomTypeBlock,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// authorizedRoom loads a room and verifies the user may read it:
// block rooms are open to all space members, others to participants.
func (s *ChatService) authorizedRoom(blockSpaceID, roomID, userID uuid.UUID) (*ChatRoom, error) {
	var room ChatRoom
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		First(&room, "id = ?", roomID).Error
	if err != nil {
		return nil, ErrRoomNotFound
	}

	if room.Type == RoomTypeBlock {
		return &room, nil
	}

	var count int64
	s.db.Model(&ChatParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count)
	if count == 0 {
		return nil, ErrNotParticipant
	}
	return &room, nil
}

// findDirectRoom looks for an existing direct room shared by both users.
func (s *ChatService) findDirectRoom(blockSpaceID, a, b uuid.UUID) (*ChatRoom, error) {
	var room ChatRoom
	err := s.db.Scopes(scope.ForBlockSpace(blockSpaceID)).
		Where("type = ?", RoomTypeDirect).
		Where("id IN (?)", s.db.Model(&ChatParticipant{}).Select("room_id").Where("user_id = ?", a)).
		Where("id IN (?)", s.db.Model(&ChatParticipant{}).Select("room_id").Where("user_id = ?", b)).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *ChatService) participantIDs(roomID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	s.db.Model(&ChatParticipant{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids)
	return ids
}
