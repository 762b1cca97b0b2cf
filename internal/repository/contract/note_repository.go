package contract

import (
	"context"
	"time"

	"notetree-be/internal/entity"
	"notetree-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredNote wraps a Note with its cosine similarity to a query vector.
type ScoredNote struct {
	Note       *entity.Note
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	// FindAllIncludingTrashed lifts the soft-delete scope; used by cascade
	// closures that must see trashed descendants.
	FindAllIncludingTrashed(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	FindAllTrashed(ctx context.Context, userId uuid.UUID) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MaxSortOrder returns the highest sort order among active siblings of
	// (userId, parentId), or -1 when the sibling group is empty.
	MaxSortOrder(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID) (int, error)
	SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID, at time.Time) error
	RestoreByIDs(ctx context.Context, ids []uuid.UUID) error
	HardDeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	// SearchSimilarWithScore runs the pgvector cosine pass over a user's
	// active, indexed notes, keeping rows above the similarity threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, userId uuid.UUID, threshold float64, limit int) ([]*ScoredNote, error)
}
