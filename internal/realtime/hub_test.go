package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/notify"
)

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestHubDeliversOnlyToRecipient(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	alice := &Client{ID: "a", UserID: uuid.New(), Send: make(chan []byte, 4)}
	bob := &Client{ID: "b", UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	hub.SendToUser(alice.UserID, map[string]string{"hello": "alice"})

	assert.JSONEq(t, `{"hello":"alice"}`, string(receive(t, alice)))
	assert.Empty(t, bob.Send)
	assert.Equal(t, 2, hub.ConnectedUsers())

	hub.UnregisterClient(alice)
	_, open := <-alice.Send
	assert.False(t, open)
}

func TestForwardParsesRecipientFromChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	c := &Client{ID: "c", UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.RegisterClient(c)

	forward(hub, notify.Channel(c.UserID), `{"type":"application.submitted"}`)
	assert.Equal(t, `{"type":"application.submitted"}`, string(receive(t, c)))

	forward(hub, "notifications:not-a-uuid", `{}`)
	assert.Empty(t, c.Send)
}

func TestHubNotifierUsesHub(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	c := &Client{ID: "c", UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.RegisterClient(c)

	n := &notify.HubNotifier{Hub: hub}
	require.NoError(t, n.Notify(t.Context(), notify.Event{Type: notify.EventApplicationSubmitted, RecipientID: c.UserID}))
	assert.Contains(t, string(receive(t, c)), notify.EventApplicationSubmitted)
}
