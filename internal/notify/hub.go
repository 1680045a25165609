package notify

import (
	"context"

	"github.com/google/uuid"
)

// UserSender is satisfied by the websocket hub.
type UserSender interface {
	SendToUser(userID uuid.UUID, data interface{})
}

// HubNotifier pushes straight to websockets held by this process. It is the
// fallback when Redis is not configured.
type HubNotifier struct {
	Hub UserSender
}

func (n *HubNotifier) Notify(_ context.Context, ev Event) error {
	n.Hub.SendToUser(ev.RecipientID, ev)
	return nil
}
