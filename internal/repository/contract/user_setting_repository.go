package contract

import (
	"context"

	"notetree-be/internal/entity"

	"github.com/google/uuid"
)

type UserSettingRepository interface {
	// FindByUserId returns (nil, nil) when the user has no stored settings;
	// callers fall back to defaults.
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserSetting, error)
	Upsert(ctx context.Context, setting *entity.UserSetting) error
}
