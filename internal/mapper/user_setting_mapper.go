package mapper

import (
	"time"

	"notetree-be/internal/entity"
	"notetree-be/internal/model"
)

type UserSettingMapper struct{}

func NewUserSettingMapper() *UserSettingMapper {
	return &UserSettingMapper{}
}

func (m *UserSettingMapper) ToEntity(s *model.UserSetting) *entity.UserSetting {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserSetting{
		UserId:              s.UserId,
		TrashAutoDeleteDays: s.TrashAutoDeleteDays,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           updatedAt,
	}
}

func (m *UserSettingMapper) ToModel(s *entity.UserSetting) *model.UserSetting {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.UserSetting{
		UserId:              s.UserId,
		TrashAutoDeleteDays: s.TrashAutoDeleteDays,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           updatedAt,
	}
}
