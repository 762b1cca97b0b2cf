package implementation

import (
	"context"
	"errors"
	"time"

	"notetree-be/internal/entity"
	"notetree-be/internal/mapper"
	"notetree-be/internal/model"
	"notetree-be/internal/repository/contract"
	"notetree-be/internal/repository/scope"
	"notetree-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) FindAllIncludingTrashed(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(scope.IncludeTrashed(r.db.WithContext(ctx)), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) FindAllTrashed(ctx context.Context, userId uuid.UUID) ([]*entity.Note, error) {
	var models []*model.Note
	err := scope.OnlyTrashed(r.db.WithContext(ctx)).
		Where("user_id = ?", userId).
		Order("deleted_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteRepositoryImpl) MaxSortOrder(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID) (int, error) {
	// COALESCE(-1) makes "no siblings" yield 0 after the caller adds 1
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.Note{}).
			Select("COALESCE(MAX(sort_order), -1)"),
		specification.OwnedBy{UserID: userId},
		specification.ByParentID{ParentID: parentId},
	)

	var max int
	if err := query.Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *NoteRepositoryImpl) SoftDeleteByIDs(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().Model(&model.Note{}).
		Where("id IN ?", ids).
		Update("deleted_at", at).Error
}

func (r *NoteRepositoryImpl) RestoreByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().Model(&model.Note{}).
		Where("id IN ?", ids).
		Update("deleted_at", nil).Error
}

func (r *NoteRepositoryImpl) HardDeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Delete(&model.Note{}).Error
}

func (r *NoteRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Update("embedding", pgvector.NewVector(embedding)).Error
}

func (r *NoteRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, userId uuid.UUID, threshold float64, limit int) ([]*contract.ScoredNote, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	// Cosine distance: embedding <=> vector. Similarity = 1 - distance.
	type noteWithScore struct {
		model.Note
		Similarity float64
	}

	var rows []noteWithScore
	err := r.db.WithContext(ctx).Model(&model.Note{}).
		Select("notes.*, 1 - (embedding <=> ?) AS similarity", vec).
		Where("user_id = ?", userId).
		Where("deleted_at IS NULL").
		Where("embedding IS NOT NULL").
		Where("1 - (embedding <=> ?) > ?", vec, threshold).
		Order(gorm.Expr("embedding <=> ?", vec)).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredNote, len(rows))
	for i := range rows {
		scored[i] = &contract.ScoredNote{
			Note:       r.mapper.ToEntity(&rows[i].Note),
			Similarity: rows[i].Similarity,
		}
	}
	return scored, nil
}
