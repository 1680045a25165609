// Package notify delivers best-effort notifications about marketplace events.
// Delivery runs off the request path; failures are reported to a hook and
// never reach the caller that produced the event.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const EventApplicationSubmitted = "application.submitted"

type Event struct {
	Type          string    `json:"type"`
	RecipientID   uuid.UUID `json:"recipientId"`
	ProjectID     uuid.UUID `json:"projectId"`
	ProjectTitle  string    `json:"projectTitle"`
	ApplicationID uuid.UUID `json:"applicationId,omitempty"`
	ActorID       uuid.UUID `json:"actorId"`
	ActorName     string    `json:"actorName"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Channel is the pub/sub channel carrying events for one recipient.
func Channel(recipientID uuid.UUID) string {
	return ChannelPrefix + recipientID.String()
}

const ChannelPrefix = "notifications:"

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}
