package dto

import (
	"time"

	"github.com/google/uuid"
)

// VersionSummaryResponse lists a version without its content blob.
type VersionSummaryResponse struct {
	Id            uuid.UUID `json:"id"`
	VersionNumber int       `json:"version_number"`
	CreatedAt     time.Time `json:"created_at"`
}

type VersionDetailResponse struct {
	Id            uuid.UUID `json:"id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

type RestoreVersionResponse struct {
	NoteId        uuid.UUID `json:"note_id"`
	VersionNumber int       `json:"version_number"`
}
