package model

import (
	"time"

	"github.com/google/uuid"
)

type UserSetting struct {
	UserId              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrashAutoDeleteDays int       `gorm:"not null;default:30"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (UserSetting) TableName() string {
	return "user_settings"
}
