package realtime_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/blockconnect/backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDispatchBroadcastsToRoom(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	space := uuid.New()
	other := uuid.New()

	a := realtime.NewClient(uuid.New(), space)
	b := realtime.NewClient(uuid.New(), space)
	c := realtime.NewClient(uuid.New(), other)
	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	hub.Dispatch(realtime.Event{
		Table:        "announcements",
		Type:         realtime.EventInsert,
		BlockSpaceID: space,
	})

	for _, cl := range []*realtime.Client{a, b} {
		select {
		case payload := <-cl.Send:
			var ev realtime.Event
			require.NoError(t, json.Unmarshal(payload, &ev))
			require.Equal(t, "announcements", ev.Table)
			require.Equal(t, realtime.EventInsert, ev.Type)
		default:
			t.Fatal("expected event in client buffer")
		}
	}

	require.Empty(t, c.Send, "client in another block space must not receive the event")
}

func TestDispatchTargetsSpecificUsers(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	space := uuid.New()
	target := realtime.NewClient(uuid.New(), space)
	bystander := realtime.NewClient(uuid.New(), space)
	hub.Register(target)
	hub.Register(bystander)

	hub.Dispatch(realtime.Event{
		Table:        "chat_messages",
		Type:         realtime.EventInsert,
		BlockSpaceID: space,
		Targets:      []uuid.UUID{target.UserID},
	})

	require.Len(t, target.Send, 1)
	require.Empty(t, bystander.Send)
}

func TestDispatchDropsWhenBufferFull(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	space := uuid.New()
	slow := realtime.NewClient(uuid.New(), space)
	hub.Register(slow)

	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("{}")
	}

	// Must not block even though the buffer is full.
	hub.Dispatch(realtime.Event{
		Table:        "forum_threads",
		Type:         realtime.EventUpdate,
		BlockSpaceID: space,
	})

	require.Len(t, slow.Send, cap(slow.Send))
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	space := uuid.New()
	client := realtime.NewClient(uuid.New(), space)
	hub.Register(client)
	hub.Unregister(client)

	_, open := <-client.Send
	require.False(t, open)
	require.Empty(t, hub.ConnectedUsers(space))
}

func TestConnectedUsersDeduplicates(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	space := uuid.New()
	userID := uuid.New()

	// Same user from two devices.
	hub.Register(realtime.NewClient(userID, space))
	hub.Register(realtime.NewClient(userID, space))

	require.Len(t, hub.ConnectedUsers(space), 1)
}

func TestBrokerLocalModeDispatchesDirectly(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()
	broker := realtime.NewBroker(nil, hub)

	space := uuid.New()
	client := realtime.NewClient(uuid.New(), space)
	hub.Register(client)

	broker.Publish(context.Background(), realtime.Event{
		Table:        "documents",
		Type:         realtime.EventDelete,
		BlockSpaceID: space,
	})

	require.Len(t, client.Send, 1)
	require.ElementsMatch(t, []uuid.UUID{client.UserID}, broker.OnlineUsers(context.Background(), space))
}
