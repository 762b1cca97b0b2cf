package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"notetree-be/internal/apperror"
	"notetree-be/internal/dto"
	"notetree-be/internal/entity"
	"notetree-be/internal/pkg/logger"
	"notetree-be/internal/repository/specification"
	"notetree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	// versionThrottleWindow absorbs debounced auto-save bursts: at most one
	// snapshot per note within the window.
	versionThrottleWindow = 30 * time.Second
	// maxVersionsPerNote bounds history growth; oldest beyond it are pruned.
	maxVersionsPerNote = 50
)

type IVersionService interface {
	// MaybeSnapshot records the note's outgoing state before an update.
	// Returns whether a version row was actually created.
	MaybeSnapshot(ctx context.Context, noteId, userId uuid.UUID, title, content string) (bool, error)
	ListVersions(ctx context.Context, userId, noteId uuid.UUID) ([]*dto.VersionSummaryResponse, error)
	GetVersion(ctx context.Context, userId, noteId, versionId uuid.UUID) (*dto.VersionDetailResponse, error)
	RestoreVersion(ctx context.Context, userId, noteId, versionId uuid.UUID) (*dto.RestoreVersionResponse, error)
}

type versionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	log              logger.ILogger
}

func NewVersionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IVersionService {
	return &versionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		log:              log,
	}
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// shouldSnapshot applies the dedup and throttle rules against the latest
// persisted version. A nil latest always snapshots (first version).
func shouldSnapshot(latest *entity.NoteVersion, contentHash string, now time.Time) bool {
	if latest == nil {
		return true
	}
	if latest.ContentHash == contentHash {
		return false
	}
	return now.Sub(latest.CreatedAt) >= versionThrottleWindow
}

func (s *versionService) MaybeSnapshot(ctx context.Context, noteId, userId uuid.UUID, title, content string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	latest, err := uow.NoteVersionRepository().FindLatestByNoteId(ctx, noteId)
	if err != nil {
		return false, err
	}

	contentHash := hashContent(content)
	if !shouldSnapshot(latest, contentHash, time.Now()) {
		return false, nil
	}

	versionNumber := 1
	if latest != nil {
		versionNumber = latest.VersionNumber + 1
	}

	version := entity.NoteVersion{
		Id:            uuid.New(),
		NoteId:        noteId,
		UserId:        userId,
		Title:         title,
		Content:       content,
		ContentHash:   contentHash,
		VersionNumber: versionNumber,
		CreatedAt:     time.Now(),
	}
	if err := uow.NoteVersionRepository().Create(ctx, &version); err != nil {
		return false, err
	}

	if err := uow.NoteVersionRepository().PruneOldest(ctx, noteId, maxVersionsPerNote); err != nil {
		// The snapshot itself succeeded; retention catches up on the next one
		s.log.Warn("version", "failed to prune old versions", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
	}

	return true, nil
}

func (s *versionService) ListVersions(ctx context.Context, userId, noteId uuid.UUID) ([]*dto.VersionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note %s not found", noteId)
	}

	versions, err := uow.NoteVersionRepository().FindAll(ctx,
		specification.ByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "version_number", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.VersionSummaryResponse, 0, len(versions))
	for _, v := range versions {
		result = append(result, &dto.VersionSummaryResponse{
			Id:            v.Id,
			VersionNumber: v.VersionNumber,
			CreatedAt:     v.CreatedAt,
		})
	}
	return result, nil
}

func (s *versionService) GetVersion(ctx context.Context, userId, noteId, versionId uuid.UUID) (*dto.VersionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	version, err := s.findOwnedVersion(ctx, uow, userId, noteId, versionId)
	if err != nil {
		return nil, err
	}

	return &dto.VersionDetailResponse{
		Id:            version.Id,
		VersionNumber: version.VersionNumber,
		Title:         version.Title,
		Content:       version.Content,
		CreatedAt:     version.CreatedAt,
	}, nil
}

func (s *versionService) RestoreVersion(ctx context.Context, userId, noteId, versionId uuid.UUID) (*dto.RestoreVersionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note %s not found", noteId)
	}

	version, err := s.findOwnedVersion(ctx, uow, userId, noteId, versionId)
	if err != nil {
		return nil, err
	}

	// Snapshot the pre-restore state. The throttle may suppress it, in which
	// case that state is simply not separately recoverable.
	if _, err := s.MaybeSnapshot(ctx, note.Id, userId, note.Title, note.Content); err != nil {
		return nil, err
	}

	now := time.Now()
	note.Title = version.Title
	note.Content = version.Content
	note.UpdatedAt = &now
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: note.Id})
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("version", "failed to queue re-embedding after restore", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
	}

	return &dto.RestoreVersionResponse{
		NoteId:        note.Id,
		VersionNumber: version.VersionNumber,
	}, nil
}

func (s *versionService) findOwnedVersion(ctx context.Context, uow unitofwork.UnitOfWork, userId, noteId, versionId uuid.UUID) (*entity.NoteVersion, error) {
	version, err := uow.NoteVersionRepository().FindOne(ctx,
		specification.ByID{ID: versionId},
		specification.ByNoteID{NoteID: noteId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, apperror.NotFound("version %s not found for note %s", versionId, noteId)
	}
	return version, nil
}
