package mapper

import (
	"notetree-be/internal/entity"
	"notetree-be/internal/model"
)

type NoteVersionMapper struct{}

func NewNoteVersionMapper() *NoteVersionMapper {
	return &NoteVersionMapper{}
}

func (m *NoteVersionMapper) ToEntity(v *model.NoteVersion) *entity.NoteVersion {
	if v == nil {
		return nil
	}

	return &entity.NoteVersion{
		Id:            v.Id,
		NoteId:        v.NoteId,
		UserId:        v.UserId,
		Title:         v.Title,
		Content:       v.Content,
		ContentHash:   v.ContentHash,
		VersionNumber: v.VersionNumber,
		CreatedAt:     v.CreatedAt,
	}
}

func (m *NoteVersionMapper) ToModel(v *entity.NoteVersion) *model.NoteVersion {
	if v == nil {
		return nil
	}

	return &model.NoteVersion{
		Id:            v.Id,
		NoteId:        v.NoteId,
		UserId:        v.UserId,
		Title:         v.Title,
		Content:       v.Content,
		ContentHash:   v.ContentHash,
		VersionNumber: v.VersionNumber,
		CreatedAt:     v.CreatedAt,
	}
}

func (m *NoteVersionMapper) ToEntities(versions []*model.NoteVersion) []*entity.NoteVersion {
	entities := make([]*entity.NoteVersion, len(versions))
	for i, v := range versions {
		entities[i] = m.ToEntity(v)
	}
	return entities
}
