package contract

import (
	"context"

	"notetree-be/internal/entity"
	"notetree-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteVersionRepository interface {
	Create(ctx context.Context, version *entity.NoteVersion) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteVersion, error)
	// FindLatestByNoteId returns the newest version by version number, or
	// (nil, nil) when the note has no history yet.
	FindLatestByNoteId(ctx context.Context, noteId uuid.UUID) (*entity.NoteVersion, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByNoteIDs(ctx context.Context, noteIds []uuid.UUID) error
	// PruneOldest drops versions beyond the keep newest for a note.
	PruneOldest(ctx context.Context, noteId uuid.UUID, keep int) error
}
