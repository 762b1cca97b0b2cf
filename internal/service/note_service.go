package service

import (
	"context"
	"encoding/json"
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

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error)
	GetTree(ctx context.Context, userId uuid.UUID) ([]*dto.TreeNodeResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	Move(ctx context.Context, userId uuid.UUID, req *dto.MoveNoteRequest) (*dto.MoveNoteResponse, error)
	Reorder(ctx context.Context, userId uuid.UUID, req *dto.ReorderNoteRequest) error
	SetEditorWidth(ctx context.Context, userId uuid.UUID, req *dto.SetEditorWidthRequest) (*dto.SetEditorWidthResponse, error)
	ToggleExpand(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ToggleExpandResponse, error)
	ToggleFavorite(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ToggleFavoriteResponse, error)
	Duplicate(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DuplicateNoteResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	versionService   IVersionService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	versionService IVersionService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		versionService:   versionService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ParentId != nil {
		parent, err := uow.NoteRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperror.NotFound("parent note %s not found", *req.ParentId)
		}
	}

	maxOrder, err := uow.NoteRepository().MaxSortOrder(ctx, userId, req.ParentId)
	if err != nil {
		return nil, err
	}

	note := entity.Note{
		Id:          uuid.New(),
		UserId:      userId,
		ParentId:    req.ParentId,
		Title:       req.Title,
		TitleEmoji:  req.TitleEmoji,
		Content:     req.Content,
		SortOrder:   maxOrder + 1,
		IsExpanded:  true,
		EditorWidth: entity.EditorWidthCentered,
		CreatedAt:   time.Now(),
	}
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	s.queueEmbedding(ctx, note.Id)
	s.publishEvent(ctx, events.NoteCreated, userId, note.Id, map[string]interface{}{
		"title": note.Title,
	})

	return &dto.CreateNoteResponse{
		Id: note.Id,
	}, nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	return &dto.ShowNoteResponse{
		Id:          note.Id,
		ParentId:    note.ParentId,
		Title:       note.Title,
		TitleEmoji:  note.TitleEmoji,
		Content:     note.Content,
		SortOrder:   note.SortOrder,
		IsExpanded:  note.IsExpanded,
		IsFavorite:  note.IsFavorite,
		EditorWidth: note.EditorWidth,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}, nil
}

func (s *noteService) GetTree(ctx context.Context, userId uuid.UUID) ([]*dto.TreeNodeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// One scan; assembly happens in memory
	notes, err := uow.NoteRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	return buildForest(notes), nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	contentChanged := note.Content != req.Content
	if contentChanged {
		// Snapshot the outgoing state, so version N is always "what the note
		// looked like before the next save"
		if _, err := s.versionService.MaybeSnapshot(ctx, note.Id, userId, note.Title, note.Content); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	note.Title = req.Title
	note.TitleEmoji = req.TitleEmoji
	note.Content = req.Content
	if req.EditorWidth != "" {
		note.EditorWidth = req.EditorWidth
	}
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	if contentChanged {
		s.queueEmbedding(ctx, note.Id)
	}
	s.publishEvent(ctx, events.NoteUpdated, userId, note.Id, nil)

	return &dto.UpdateNoteResponse{
		Id: note.Id,
	}, nil
}

func (s *noteService) Move(ctx context.Context, userId uuid.UUID, req *dto.MoveNoteRequest) (*dto.MoveNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	if req.ParentId != nil {
		if *req.ParentId == note.Id {
			return nil, apperror.InvalidOperation("cannot move note %s under itself", note.Id)
		}

		parent, err := uow.NoteRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperror.NotFound("target parent %s not found", *req.ParentId)
		}

		// The closure comes from persisted state read just before the write.
		// Interleaved moves can still race; the next walk tolerates a
		// corrupted chain instead of hanging on it.
		all, err := uow.NoteRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
		if err != nil {
			return nil, err
		}
		if containsID(descendantIDs(all, note.Id), *req.ParentId) {
			return nil, apperror.InvalidOperation("cannot move note %s under its own descendant %s", note.Id, *req.ParentId)
		}
	}

	maxOrder, err := uow.NoteRepository().MaxSortOrder(ctx, userId, req.ParentId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note.ParentId = req.ParentId
	note.SortOrder = maxOrder + 1
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.MoveNoteResponse{
		Id:        note.Id,
		SortOrder: note.SortOrder,
	}, nil
}

func (s *noteService) Reorder(ctx context.Context, userId uuid.UUID, req *dto.ReorderNoteRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, req.Id)
	if err != nil {
		return err
	}

	// No collision resolution: callers assign distinct values among siblings,
	// ties are broken by id when the tree is assembled
	now := time.Now()
	note.SortOrder = req.SortOrder
	note.UpdatedAt = &now
	return uow.NoteRepository().Update(ctx, note)
}

func (s *noteService) SetEditorWidth(ctx context.Context, userId uuid.UUID, req *dto.SetEditorWidthRequest) (*dto.SetEditorWidthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	note.EditorWidth = req.EditorWidth
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.SetEditorWidthResponse{
		Id:          note.Id,
		EditorWidth: note.EditorWidth,
	}, nil
}

func (s *noteService) ToggleExpand(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ToggleExpandResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	note.IsExpanded = !note.IsExpanded
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.ToggleExpandResponse{
		Id:         note.Id,
		IsExpanded: note.IsExpanded,
	}, nil
}

func (s *noteService) ToggleFavorite(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ToggleFavoriteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.findOwnedNote(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	note.IsFavorite = !note.IsFavorite
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	return &dto.ToggleFavoriteResponse{
		Id:         note.Id,
		IsFavorite: note.IsFavorite,
	}, nil
}

func (s *noteService) Duplicate(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DuplicateNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := s.findOwnedNote(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	maxOrder, err := uow.NoteRepository().MaxSortOrder(ctx, userId, source.ParentId)
	if err != nil {
		return nil, err
	}

	// Shallow copy: descendants are not duplicated
	copyNote := entity.Note{
		Id:          uuid.New(),
		UserId:      userId,
		ParentId:    source.ParentId,
		Title:       source.Title + " (Copy)",
		TitleEmoji:  source.TitleEmoji,
		Content:     source.Content,
		SortOrder:   maxOrder + 1,
		IsExpanded:  true,
		EditorWidth: source.EditorWidth,
		CreatedAt:   time.Now(),
	}
	if err := uow.NoteRepository().Create(ctx, &copyNote); err != nil {
		return nil, err
	}

	s.queueEmbedding(ctx, copyNote.Id)
	s.publishEvent(ctx, events.NoteCreated, userId, copyNote.Id, map[string]interface{}{
		"title":     copyNote.Title,
		"copied_of": source.Id,
	})

	return &dto.DuplicateNoteResponse{
		Id: copyNote.Id,
	}, nil
}

func (s *noteService) findOwnedNote(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note %s not found", id)
	}
	return note, nil
}

// queueEmbedding hands the note to the background indexing pipeline.
// Fire-and-forget: a failed enqueue is logged, never surfaced.
func (s *noteService) queueEmbedding(ctx context.Context, noteId uuid.UUID) {
	payload, _ := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: noteId})
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("note", "failed to queue embedding task", map[string]interface{}{
			"note_id": noteId,
			"error":   err.Error(),
		})
	}
}

func (s *noteService) publishEvent(ctx context.Context, eventType string, userId, noteId uuid.UUID, extra map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}

	data := map[string]interface{}{
		"note_id": noteId,
		"user_id": userId,
	}
	for k, v := range extra {
		data[k] = v
	}

	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Notification delivery is auxiliary; log and move on
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("note", "failed to publish lifecycle event", map[string]interface{}{
			"event":   eventType,
			"note_id": noteId,
			"error":   err.Error(),
		})
	}
}
