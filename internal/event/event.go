package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAccountCreated Type = "account.created"
	TypeAccountUpdated Type = "account.updated"
	TypeAccountDeleted Type = "account.deleted"
	TypePostPublished  Type = "post.published"
	TypePostShared     Type = "post.shared"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"` // Who triggered the event
}

// AccountCreated is the payload of TypeAccountCreated.
type AccountCreated struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// PostShared is the payload of TypePostShared.
type PostShared struct {
	PostID    string `json:"post_id"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Recipient string `json:"recipient"`
	SharedBy  string `json:"shared_by"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

// New stamps an event with a fresh id and the current time.
func New(eventType Type, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actorID,
	}
}
