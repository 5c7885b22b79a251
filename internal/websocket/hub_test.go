package websocket

import (
	"testing"
	"time"

	"portfolio-notes-be/internal/model"
	"portfolio-notes-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPresence(t *testing.T, hub *Hub, userID uuid.UUID, want bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		hub.mu.RLock()
		_, present := hub.clients[userID]
		hub.mu.RUnlock()
		if present == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("client presence never became %v", want)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestHubDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- client
	waitForPresence(t, hub, userID, true)

	hub.Send(userID, model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "hello",
		Message:   "payload",
		CreatedAt: time.Now(),
	})

	select {
	case data := <-client.Send:
		assert.Contains(t, string(data), "notification")
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHubDropsSlowClientWithoutDoubleClose(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run()

	userID := uuid.New()
	// Unbuffered channel with no reader: the first push overflows
	// immediately, which must drop the client, close its channel exactly
	// once, and not panic.
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte)}
	hub.register <- client
	waitForPresence(t, hub, userID, true)

	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "overflow",
		Message:   "payload",
		CreatedAt: time.Now(),
	}
	hub.Send(userID, notif)
	waitForPresence(t, hub, userID, false)

	_, open := <-client.Send
	require.False(t, open, "channel should be closed by the unregister handler")

	// A later push to the departed user is a no-op.
	hub.Send(userID, notif)
}
