package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserSetting struct {
	UserId              uuid.UUID
	TrashAutoDeleteDays int
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}
