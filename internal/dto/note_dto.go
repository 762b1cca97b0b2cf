package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title      string     `json:"title" validate:"required"`
	TitleEmoji *string    `json:"title_emoji"`
	Content    string     `json:"content"`
	ParentId   *uuid.UUID `json:"parent_id"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowNoteResponse struct {
	Id          uuid.UUID  `json:"id"`
	ParentId    *uuid.UUID `json:"parent_id"`
	Title       string     `json:"title"`
	TitleEmoji  *string    `json:"title_emoji"`
	Content     string     `json:"content"`
	SortOrder   int        `json:"sort_order"`
	IsExpanded  bool       `json:"is_expanded"`
	IsFavorite  bool       `json:"is_favorite"`
	EditorWidth string     `json:"editor_width"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type UpdateNoteRequest struct {
	Id          uuid.UUID
	Title       string  `json:"title" validate:"required"`
	TitleEmoji  *string `json:"title_emoji"`
	Content     string  `json:"content"`
	EditorWidth string  `json:"editor_width" validate:"omitempty,oneof=centered full"`
}

type UpdateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveNoteRequest struct {
	Id       uuid.UUID
	ParentId *uuid.UUID `json:"parent_id"`
}

type MoveNoteResponse struct {
	Id        uuid.UUID `json:"id"`
	SortOrder int       `json:"sort_order"`
}

type ReorderNoteRequest struct {
	Id        uuid.UUID
	SortOrder int `json:"sort_order"`
}

type SetEditorWidthRequest struct {
	Id          uuid.UUID
	EditorWidth string `json:"editor_width" validate:"required,oneof=centered full"`
}

type SetEditorWidthResponse struct {
	Id          uuid.UUID `json:"id"`
	EditorWidth string    `json:"editor_width"`
}

type ToggleExpandResponse struct {
	Id         uuid.UUID `json:"id"`
	IsExpanded bool      `json:"is_expanded"`
}

type ToggleFavoriteResponse struct {
	Id         uuid.UUID `json:"id"`
	IsFavorite bool      `json:"is_favorite"`
}

type DuplicateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

// TreeNodeResponse is one note in the nested forest returned by the tree
// endpoint. Children are ordered by sort order ascending.
type TreeNodeResponse struct {
	Id          uuid.UUID           `json:"id"`
	ParentId    *uuid.UUID          `json:"parent_id"`
	Title       string              `json:"title"`
	TitleEmoji  *string             `json:"title_emoji"`
	Content     string              `json:"content"`
	SortOrder   int                 `json:"sort_order"`
	IsExpanded  bool                `json:"is_expanded"`
	IsFavorite  bool                `json:"is_favorite"`
	EditorWidth string              `json:"editor_width"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
	Children    []*TreeNodeResponse `json:"children"`
}

// PublishEmbedNoteMessage is the payload queued for the embedding consumer.
type PublishEmbedNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}
