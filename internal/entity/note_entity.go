package entity

import (
	"time"

	"github.com/google/uuid"
)

// Editor width presets persisted per note.
const (
	EditorWidthCentered = "centered"
	EditorWidthFull     = "full"
)

type Note struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ParentId    *uuid.UUID
	Title       string
	TitleEmoji  *string
	Content     string
	SortOrder   int
	IsExpanded  bool
	IsFavorite  bool
	EditorWidth string
	Embedding   []float32 // nil until the indexing pipeline fills it
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
