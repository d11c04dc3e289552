package realtime

import (
	"github.com/google/uuid"
)

// Event types mirror the storage change feed: every mutating service
// publishes one event per write so connected clients can refresh.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// Event is a single change-feed entry, keyed by table name and scoped
// to one block space. When Targets is non-empty the event is delivered
// only to those users (chat rooms); otherwise to every connected member
// of the block space.
type Event struct {
	Table        string      `json:"table"`
	Type         string      `json:"type"`
	BlockSpaceID uuid.UUID   `json:"block_space_id"`
	Targets      []uuid.UUID `json:"targets,omitempty"`
	Row          interface{} `json:"row,omitempty"`
}
