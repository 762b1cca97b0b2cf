package implementation

import (
	"context"
	"errors"

	"notetree-be/internal/entity"
	"notetree-be/internal/mapper"
	"notetree-be/internal/model"
	"notetree-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSettingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserSettingMapper
}

func NewUserSettingRepository(db *gorm.DB) contract.UserSettingRepository {
	return &UserSettingRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserSettingMapper(),
	}
}

func (r *UserSettingRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserSetting, error) {
	var m model.UserSetting
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserSettingRepositoryImpl) Upsert(ctx context.Context, setting *entity.UserSetting) error {
	m := r.mapper.ToModel(setting)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"trash_auto_delete_days", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*setting = *r.mapper.ToEntity(m)
	return nil
}
