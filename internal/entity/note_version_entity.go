package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteVersion is an immutable point-in-time snapshot of a note's title and
// content, taken just before the note moves on to its next state.
type NoteVersion struct {
	Id            uuid.UUID
	NoteId        uuid.UUID
	UserId        uuid.UUID
	Title         string
	Content       string
	ContentHash   string
	VersionNumber int
	CreatedAt     time.Time
}
