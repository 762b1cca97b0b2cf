package unitofwork

import (
	"context"

	"notetree-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	NoteVersionRepository() contract.NoteVersionRepository
	UserSettingRepository() contract.UserSettingRepository
}
