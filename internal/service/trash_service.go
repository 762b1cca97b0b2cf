package service

import (
	"context"
	"time"

	"notetree-be/internal/apperror"
	"notetree-be/internal/dto"
	"notetree-be/internal/entity"
	"notetree-be/internal/pkg/logger"
	"notetree-be/internal/repository/specification"
	"notetree-be/internal/repository/unitofwork"
	"notetree-be/pkg/events"
	pktNats "notetree-be/pkg/nats"

	"github.com/google/uuid"
)

const defaultAutoDeleteDays = 30

type ITrashService interface {
	SoftDelete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Restore(ctx context.Context, userId uuid.UUID, req *dto.RestoreNotesRequest) error
	ListTrash(ctx context.Context, userId uuid.UUID) ([]*dto.TrashItemResponse, error)
	Purge(ctx context.Context, userId uuid.UUID, req *dto.PurgeNotesRequest) error
	EmptyTrash(ctx context.Context, userId uuid.UUID) error
	GetSettings(ctx context.Context, userId uuid.UUID) (*dto.TrashSettingsResponse, error)
	// UpdateSettings stores the retention threshold and immediately sweeps
	// already-trashed notes older than it. There is no background timer; an
	// external trigger re-invokes the sweep by updating the setting.
	UpdateSettings(ctx context.Context, userId uuid.UUID, req *dto.UpdateTrashSettingsRequest) (*dto.TrashSettingsResponse, error)
}

type trashService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewTrashService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ITrashService {
	return &trashService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *trashService) SoftDelete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotFound("note %s not found", id)
	}

	// Cascading trash: one UPDATE over the full subtree
	all, err := uow.NoteRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return err
	}
	ids := subtreeIDs(all, id)

	if err := uow.NoteRepository().SoftDeleteByIDs(ctx, ids, time.Now()); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NoteTrashed, userId, map[string]interface{}{
		"note_id":       id,
		"cascade_count": len(ids),
	})
	return nil
}

func (s *trashService) Restore(ctx context.Context, userId uuid.UUID, req *dto.RestoreNotesRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	all, err := uow.NoteRepository().FindAllIncludingTrashed(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return err
	}
	byId := make(map[uuid.UUID]*entity.Note, len(all))
	for _, n := range all {
		byId[n.Id] = n
	}

	// Validate the whole batch before touching anything
	for _, id := range req.Ids {
		note, ok := byId[id]
		if !ok {
			return apperror.NotFound("note %s not found", id)
		}
		if !note.IsDeleted {
			return apperror.InvalidOperation("note %s is not in trash", id)
		}
	}

	// Symmetric cascade with soft-delete: the restore covers every
	// transitive descendant of each requested root
	restoreSet := make(map[uuid.UUID]bool)
	var restoreIds []uuid.UUID
	for _, id := range req.Ids {
		for _, sub := range subtreeIDs(all, id) {
			if !restoreSet[sub] {
				restoreSet[sub] = true
				restoreIds = append(restoreIds, sub)
			}
		}
	}

	if err := uow.NoteRepository().RestoreByIDs(ctx, restoreIds); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NoteRestored, userId, map[string]interface{}{
		"note_ids": req.Ids,
		"count":    len(restoreIds),
	})
	return nil
}

func (s *trashService) ListTrash(ctx context.Context, userId uuid.UUID) ([]*dto.TrashItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Includes descendants trashed only via cascade; surfacing top-level
	// entries differently is a presentation concern
	notes, err := uow.NoteRepository().FindAllTrashed(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TrashItemResponse, 0, len(notes))
	for _, n := range notes {
		result = append(result, &dto.TrashItemResponse{
			Id:         n.Id,
			ParentId:   n.ParentId,
			Title:      n.Title,
			TitleEmoji: n.TitleEmoji,
			DeletedAt:  n.DeletedAt,
		})
	}
	return result, nil
}

func (s *trashService) Purge(ctx context.Context, userId uuid.UUID, req *dto.PurgeNotesRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	all, err := uow.NoteRepository().FindAllIncludingTrashed(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return err
	}
	byId := make(map[uuid.UUID]*entity.Note, len(all))
	for _, n := range all {
		byId[n.Id] = n
	}

	for _, id := range req.Ids {
		note, ok := byId[id]
		if !ok {
			return apperror.NotFound("note %s not found", id)
		}
		if !note.IsDeleted {
			return apperror.InvalidOperation("note %s is not in trash", id)
		}
	}

	purgeSet := make(map[uuid.UUID]bool)
	var purgeIds []uuid.UUID
	for _, id := range req.Ids {
		for _, sub := range subtreeIDs(all, id) {
			if !purgeSet[sub] {
				purgeSet[sub] = true
				purgeIds = append(purgeIds, sub)
			}
		}
	}

	if err := s.hardDelete(ctx, uow, purgeIds); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NotePurged, userId, map[string]interface{}{
		"note_ids": req.Ids,
		"count":    len(purgeIds),
	})
	return nil
}

func (s *trashService) EmptyTrash(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	trashed, err := uow.NoteRepository().FindAllTrashed(ctx, userId)
	if err != nil {
		return err
	}
	if len(trashed) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(trashed))
	for i, n := range trashed {
		ids[i] = n.Id
	}

	if err := s.hardDelete(ctx, uow, ids); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NotePurged, userId, map[string]interface{}{
		"count":       len(ids),
		"empty_trash": true,
	})
	return nil
}

func (s *trashService) GetSettings(ctx context.Context, userId uuid.UUID) (*dto.TrashSettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	setting, err := uow.UserSettingRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	days := defaultAutoDeleteDays
	if setting != nil {
		days = setting.TrashAutoDeleteDays
	}
	return &dto.TrashSettingsResponse{AutoDeleteDays: days}, nil
}

func (s *trashService) UpdateSettings(ctx context.Context, userId uuid.UUID, req *dto.UpdateTrashSettingsRequest) (*dto.TrashSettingsResponse, error) {
	if req.AutoDeleteDays < 1 || req.AutoDeleteDays > 365 {
		return nil, apperror.InvalidOperation("auto delete days must be between 1 and 365, got %d", req.AutoDeleteDays)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	setting := entity.UserSetting{
		UserId:              userId,
		TrashAutoDeleteDays: req.AutoDeleteDays,
		CreatedAt:           now,
		UpdatedAt:           &now,
	}
	if err := uow.UserSettingRepository().Upsert(ctx, &setting); err != nil {
		return nil, err
	}

	// Eager sweep against the new threshold
	if err := s.sweepExpired(ctx, uow, userId, req.AutoDeleteDays); err != nil {
		return nil, err
	}

	return &dto.TrashSettingsResponse{AutoDeleteDays: setting.TrashAutoDeleteDays}, nil
}

// sweepExpired purges trashed notes whose deletion predates the threshold,
// plus their transitive descendants.
func (s *trashService) sweepExpired(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, days int) error {
	all, err := uow.NoteRepository().FindAllIncludingTrashed(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	purgeSet := make(map[uuid.UUID]bool)
	var purgeIds []uuid.UUID
	for _, n := range all {
		if n.DeletedAt == nil || !n.DeletedAt.Before(cutoff) {
			continue
		}
		for _, sub := range subtreeIDs(all, n.Id) {
			if !purgeSet[sub] {
				purgeSet[sub] = true
				purgeIds = append(purgeIds, sub)
			}
		}
	}
	if len(purgeIds) == 0 {
		return nil
	}

	if err := s.hardDelete(ctx, uow, purgeIds); err != nil {
		return err
	}

	s.log.Info("trash", "auto-delete sweep purged expired notes", map[string]interface{}{
		"user_id": userId,
		"count":   len(purgeIds),
		"days":    days,
	})
	return nil
}

// hardDelete removes the note rows and their version history together.
func (s *trashService) hardDelete(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteVersionRepository().DeleteByNoteIDs(ctx, ids); err != nil {
		return err
	}
	if err := uow.NoteRepository().HardDeleteByIDs(ctx, ids); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *trashService) publishEvent(ctx context.Context, eventType string, userId uuid.UUID, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if data == nil {
		data = make(map[string]interface{})
	}
	data["user_id"] = userId

	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("trash", "failed to publish lifecycle event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
