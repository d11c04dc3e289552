package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Client is one connected websocket session. The hub never writes to
// the socket directly; it pushes marshaled events into Send and the
// session's write pump drains it. A full buffer drops the client.
type Client struct {
	UserID       uuid.UUID
	BlockSpaceID uuid.UUID
	Send         chan []byte
}

func NewClient(userID, blockSpaceID uuid.UUID) *Client {
	return &Client{
		UserID:       userID,
		BlockSpaceID: blockSpaceID,
		Send:         make(chan []byte, 64),
	}
}

// Hub tracks connected clients grouped by block space and fans events
// out to them. All registry access is serialized through the run loop.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[uuid.UUID]map[*Client]struct{}
	done    chan struct{}
	closeMu sync.Once
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*Client]struct{}),
		done:  make(chan struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.BlockSpaceID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.BlockSpaceID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.BlockSpaceID]
	if !ok {
		return
	}
	if _, ok := room[c]; ok {
		delete(room, c)
		close(c.Send)
		if len(room) == 0 {
			delete(h.rooms, c.BlockSpaceID)
		}
	}
}

// ConnectedUsers returns the distinct users currently connected for a
// block space. Used as the presence source when Redis is not configured.
func (h *Hub) ConnectedUsers(blockSpaceID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	for c := range h.rooms[blockSpaceID] {
		seen[c.UserID] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// Dispatch delivers an event to the local clients it addresses.
// Slow clients are skipped rather than blocking the hub.
func (h *Hub) Dispatch(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to marshal realtime event", "table", ev.Table, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[ev.BlockSpaceID] {
		if len(ev.Targets) > 0 && !targeted(ev.Targets, c.UserID) {
			continue
		}
		select {
		case c.Send <- payload:
		default:
			slog.Warn("realtime client buffer full, dropping event",
				"user_id", c.UserID, "table", ev.Table)
		}
	}
}

func (h *Hub) Close() {
	h.closeMu.Do(func() { close(h.done) })
}

func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func targeted(targets []uuid.UUID, userID uuid.UUID) bool {
	for _, t := range targets {
		if t == userID {
			return true
		}
	}
	return false
}
