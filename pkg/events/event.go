package events

import "time"

// Lifecycle event types published to external collaborators.
const (
	NoteCreated  = "NOTE_CREATED"
	NoteUpdated  = "NOTE_UPDATED"
	NoteTrashed  = "NOTE_TRASHED"
	NoteRestored = "NOTE_RESTORED"
	NotePurged   = "NOTE_PURGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_TRASHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
