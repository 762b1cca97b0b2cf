package dto

import (
	"time"

	"github.com/google/uuid"
)

type TrashItemResponse struct {
	Id         uuid.UUID  `json:"id"`
	ParentId   *uuid.UUID `json:"parent_id"`
	Title      string     `json:"title"`
	TitleEmoji *string    `json:"title_emoji"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

type RestoreNotesRequest struct {
	Ids []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type PurgeNotesRequest struct {
	Ids []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type UpdateTrashSettingsRequest struct {
	AutoDeleteDays int `json:"auto_delete_days" validate:"required,min=1,max=365"`
}

type TrashSettingsResponse struct {
	AutoDeleteDays int `json:"auto_delete_days"`
}
