package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	eventChannelPrefix = "bc:events:"
	onlineKeyPrefix    = "bc:online:"
	onlineTTL          = 5 * time.Minute
)

// Broker publishes change-feed events and tracks presence. With Redis
// configured, events travel over pub/sub so every server instance's hub
// sees them; without it, events go straight to the local hub and
// presence is derived from local connections (single-instance mode).
type Broker struct {
	rdb *redis.Client
	hub *Hub
}

func NewBroker(rdb *redis.Client, hub *Hub) *Broker {
	return &Broker{rdb: rdb, hub: hub}
}

func (b *Broker) Hub() *Hub {
	return b.hub
}

// Publish sends one change-feed event. Failures are logged, never
// returned: a missed realtime event only delays a client refresh.
func (b *Broker) Publish(ctx context.Context, ev Event) {
	if b.rdb == nil {
		b.hub.Dispatch(ev)
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to marshal event", "table", ev.Table, "error", err)
		return
	}
	channel := eventChannelPrefix + ev.BlockSpaceID.String()
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		slog.Error("failed to publish event", "channel", channel, "error", err)
	}
}

// Subscribe consumes events from Redis and feeds them into the local
// hub until the hub is closed. No-op without Redis.
func (b *Broker) Subscribe(ctx context.Context) {
	if b.rdb == nil {
		return
	}

	sub := b.rdb.PSubscribe(ctx, eventChannelPrefix+"*")
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					slog.Error("failed to decode event", "error", err)
					continue
				}
				b.hub.Dispatch(ev)
			case <-b.hub.Done():
				return
			}
		}
	}()
}

// SetOnline marks a user present in their block space.
func (b *Broker) SetOnline(ctx context.Context, blockSpaceID, userID uuid.UUID) {
	if b.rdb == nil {
		return
	}
	key := onlineKeyPrefix + blockSpaceID.String()
	pipe := b.rdb.Pipeline()
	pipe.SAdd(ctx, key, userID.String())
	pipe.Expire(ctx, key, onlineTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("failed to set online state", "error", err)
	}
}

// SetOffline clears a user's presence mark.
func (b *Broker) SetOffline(ctx context.Context, blockSpaceID, userID uuid.UUID) {
	if b.rdb == nil {
		return
	}
	key := onlineKeyPrefix + blockSpaceID.String()
	if err := b.rdb.SRem(ctx, key, userID.String()).Err(); err != nil {
		slog.Error("failed to clear online state", "error", err)
	}
}

// OnlineUsers lists users currently present in a block space.
func (b *Broker) OnlineUsers(ctx context.Context, blockSpaceID uuid.UUID) []uuid.UUID {
	if b.rdb == nil {
		return b.hub.ConnectedUsers(blockSpaceID)
	}
	members, err := b.rdb.SMembers(ctx, onlineKeyPrefix+blockSpaceID.String()).Result()
	if err != nil {
		slog.Error("failed to list online users", "error", err)
		return nil
	}
	out := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if id, err := uuid.Parse(m); err == nil {
			out = append(out, id)
		}
	}
	return out
}
