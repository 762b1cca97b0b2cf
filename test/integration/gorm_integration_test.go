package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"notetree-be/internal/apperror"
	"notetree-be/internal/dto"
	"notetree-be/internal/entity"
	"notetree-be/internal/pkg/logger"
	"notetree-be/internal/repository/specification"
	"notetree-be/internal/repository/unitofwork"
	"notetree-be/internal/service"
	"notetree-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	uowFactory     unitofwork.RepositoryFactory
	noteService    service.INoteService
	trashService   service.ITrashService
	versionService service.IVersionService
	userId         uuid.UUID
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	sysLogger := logger.NewZapLogger("logs/integration-test.log", false)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisherService := service.NewPublisherService("integration_embed_tasks", pubSub)

	versionService := service.NewVersionService(uowFactory, publisherService, sysLogger)
	noteService := service.NewNoteService(uowFactory, publisherService, versionService, nil, sysLogger)
	trashService := service.NewTrashService(uowFactory, nil, sysLogger)

	userId := uuid.New()
	h := &testHarness{
		uowFactory:     uowFactory,
		noteService:    noteService,
		trashService:   trashService,
		versionService: versionService,
		userId:         userId,
	}

	t.Cleanup(func() {
		// Remove everything the test user created, trashed or not
		ctx := context.Background()
		uow := uowFactory.NewUnitOfWork(ctx)
		notes, err := uow.NoteRepository().FindAllIncludingTrashed(ctx, specification.OwnedBy{UserID: userId})
		if err != nil {
			t.Logf("cleanup scan failed: %v", err)
			return
		}
		ids := make([]uuid.UUID, 0, len(notes))
		for _, n := range notes {
			ids = append(ids, n.Id)
		}
		if len(ids) == 0 {
			return
		}
		_ = uow.NoteVersionRepository().DeleteByNoteIDs(ctx, ids)
		_ = uow.NoteRepository().HardDeleteByIDs(ctx, ids)
	})

	return h
}

func (h *testHarness) createNote(t *testing.T, title string, parentId *uuid.UUID) uuid.UUID {
	t.Helper()
	res, err := h.noteService.Create(context.Background(), h.userId, &dto.CreateNoteRequest{
		Title:    title,
		ParentId: parentId,
	})
	require.NoError(t, err, "Failed to create note %q", title)
	return res.Id
}

func TestNoteTreeLifecycle(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	// root -> child -> grandchild, plus a sibling root
	rootId := h.createNote(t, "root", nil)
	childId := h.createNote(t, "child", &rootId)
	grandchildId := h.createNote(t, "grandchild", &childId)
	siblingId := h.createNote(t, "sibling root", nil)

	t.Run("tree reflects nesting and sort order", func(t *testing.T) {
		tree, err := h.noteService.GetTree(ctx, h.userId)
		require.NoError(t, err)
		require.Len(t, tree, 2)

		assert.Equal(t, rootId, tree[0].Id)
		assert.Equal(t, siblingId, tree[1].Id)
		assert.True(t, tree[0].SortOrder < tree[1].SortOrder)

		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, childId, tree[0].Children[0].Id)
		require.Len(t, tree[0].Children[0].Children, 1)
		assert.Equal(t, grandchildId, tree[0].Children[0].Children[0].Id)
	})

	t.Run("move to own descendant is rejected", func(t *testing.T) {
		_, err := h.noteService.Move(ctx, h.userId, &dto.MoveNoteRequest{
			Id:       rootId,
			ParentId: &grandchildId,
		})
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidOperation(err))
	})

	t.Run("move to self is rejected", func(t *testing.T) {
		_, err := h.noteService.Move(ctx, h.userId, &dto.MoveNoteRequest{
			Id:       rootId,
			ParentId: &rootId,
		})
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidOperation(err))
	})

	t.Run("valid move lands at end of new sibling group", func(t *testing.T) {
		res, err := h.noteService.Move(ctx, h.userId, &dto.MoveNoteRequest{
			Id:       grandchildId,
			ParentId: &rootId,
		})
		require.NoError(t, err)
		// child has sort order 0 under root, the moved note comes after
		assert.Greater(t, res.SortOrder, 0)

		tree, err := h.noteService.GetTree(ctx, h.userId)
		require.NoError(t, err)
		require.Len(t, tree[0].Children, 2)
		assert.Equal(t, grandchildId, tree[0].Children[1].Id)
	})

	t.Run("foreign note is invisible", func(t *testing.T) {
		_, err := h.noteService.Show(ctx, uuid.New(), rootId)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestTrashCascade(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	rootId := h.createNote(t, "doomed root", nil)
	childId := h.createNote(t, "doomed child", &rootId)
	keeperId := h.createNote(t, "keeper", nil)

	t.Run("soft delete cascades to descendants", func(t *testing.T) {
		err := h.trashService.SoftDelete(ctx, h.userId, rootId)
		require.NoError(t, err)

		tree, err := h.noteService.GetTree(ctx, h.userId)
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, keeperId, tree[0].Id)

		items, err := h.trashService.ListTrash(ctx, h.userId)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("trashed note is gone from reads", func(t *testing.T) {
		_, err := h.noteService.Show(ctx, h.userId, childId)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("restoring an active note is rejected", func(t *testing.T) {
		err := h.trashService.Restore(ctx, h.userId, &dto.RestoreNotesRequest{
			Ids: []uuid.UUID{keeperId},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidOperation(err))
	})

	t.Run("restore brings back the subtree", func(t *testing.T) {
		err := h.trashService.Restore(ctx, h.userId, &dto.RestoreNotesRequest{
			Ids: []uuid.UUID{rootId},
		})
		require.NoError(t, err)

		tree, err := h.noteService.GetTree(ctx, h.userId)
		require.NoError(t, err)
		assert.Len(t, tree, 2)

		shown, err := h.noteService.Show(ctx, h.userId, childId)
		require.NoError(t, err)
		assert.Equal(t, "doomed child", shown.Title)
	})

	t.Run("purge destroys rows and versions", func(t *testing.T) {
		require.NoError(t, h.trashService.SoftDelete(ctx, h.userId, rootId))
		err := h.trashService.Purge(ctx, h.userId, &dto.PurgeNotesRequest{
			Ids: []uuid.UUID{rootId},
		})
		require.NoError(t, err)

		items, err := h.trashService.ListTrash(ctx, h.userId)
		require.NoError(t, err)
		assert.Len(t, items, 0)

		_, err = h.noteService.Show(ctx, h.userId, rootId)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestVersionHistory(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	noteId := h.createNote(t, "versioned", nil)

	update := func(title, content string) {
		_, err := h.noteService.Update(ctx, h.userId, &dto.UpdateNoteRequest{
			Id:      noteId,
			Title:   title,
			Content: content,
		})
		require.NoError(t, err)
	}

	t.Run("first content change snapshots the outgoing state", func(t *testing.T) {
		update("versioned", "draft one")

		versions, err := h.versionService.ListVersions(ctx, h.userId, noteId)
		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, 1, versions[0].VersionNumber)
	})

	t.Run("rapid identical saves are throttled", func(t *testing.T) {
		// Same content again: hash dedup, no new version
		update("versioned", "draft one")
		// Changed content inside the throttle window: no new version
		update("versioned", "draft two")

		versions, err := h.versionService.ListVersions(ctx, h.userId, noteId)
		require.NoError(t, err)
		assert.Len(t, versions, 1)
	})

	t.Run("restore snapshots the pre-restore state first", func(t *testing.T) {
		versions, err := h.versionService.ListVersions(ctx, h.userId, noteId)
		require.NoError(t, err)
		require.NotEmpty(t, versions)

		detail, err := h.versionService.GetVersion(ctx, h.userId, noteId, versions[0].Id)
		require.NoError(t, err)

		res, err := h.versionService.RestoreVersion(ctx, h.userId, noteId, versions[0].Id)
		require.NoError(t, err)
		assert.Equal(t, noteId, res.NoteId)

		shown, err := h.noteService.Show(ctx, h.userId, noteId)
		require.NoError(t, err)
		assert.Equal(t, detail.Content, shown.Content)
	})

	t.Run("foreign user cannot list versions", func(t *testing.T) {
		_, err := h.versionService.ListVersions(ctx, uuid.New(), noteId)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestVersionRetention(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	noteId := h.createNote(t, "long lived", nil)
	uow := h.uowFactory.NewUnitOfWork(ctx)

	// Seed a history well past the retention bound, one version per minute,
	// the latest old enough to clear the snapshot throttle.
	const seeded = 60
	base := time.Now().Add(-(seeded + 1) * time.Minute)
	for i := 1; i <= seeded; i++ {
		v := entity.NoteVersion{
			Id:            uuid.New(),
			NoteId:        noteId,
			UserId:        h.userId,
			Title:         "long lived",
			Content:       fmt.Sprintf("revision %d", i),
			ContentHash:   fmt.Sprintf("%064d", i),
			VersionNumber: i,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, uow.NoteVersionRepository().Create(ctx, &v))
	}

	created, err := h.versionService.MaybeSnapshot(ctx, noteId, h.userId, "long lived", "revision 61")
	require.NoError(t, err)
	require.True(t, created)

	t.Run("pruning keeps exactly the newest fifty", func(t *testing.T) {
		count, err := uow.NoteVersionRepository().Count(ctx, specification.ByNoteID{NoteID: noteId})
		require.NoError(t, err)
		assert.EqualValues(t, 50, count)

		versions, err := h.versionService.ListVersions(ctx, h.userId, noteId)
		require.NoError(t, err)
		require.Len(t, versions, 50)
		assert.Equal(t, 61, versions[0].VersionNumber)
		assert.Equal(t, 12, versions[49].VersionNumber)
	})
}

func TestTrashSettings(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	t.Run("default threshold before any update", func(t *testing.T) {
		settings, err := h.trashService.GetSettings(ctx, h.userId)
		require.NoError(t, err)
		assert.Equal(t, 30, settings.AutoDeleteDays)
	})

	t.Run("update persists and sweeps expired trash", func(t *testing.T) {
		oldId := h.createNote(t, "stale trash", nil)
		require.NoError(t, h.trashService.SoftDelete(ctx, h.userId, oldId))

		// Backdate the deletion beyond the new threshold
		uow := h.uowFactory.NewUnitOfWork(ctx)
		backdated := time.Now().AddDate(0, 0, -10)
		require.NoError(t, uow.NoteRepository().SoftDeleteByIDs(ctx, []uuid.UUID{oldId}, backdated))

		settings, err := h.trashService.UpdateSettings(ctx, h.userId, &dto.UpdateTrashSettingsRequest{
			AutoDeleteDays: 7,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, settings.AutoDeleteDays)

		items, err := h.trashService.ListTrash(ctx, h.userId)
		require.NoError(t, err)
		assert.Len(t, items, 0, "expired trash should have been purged by the sweep")
	})

	t.Run("out of range threshold rejected", func(t *testing.T) {
		_, err := h.trashService.UpdateSettings(ctx, h.userId, &dto.UpdateTrashSettingsRequest{
			AutoDeleteDays: 0,
		})
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidOperation(err))
	})
}
