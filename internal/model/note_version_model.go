package model

import (
	"time"

	"github.com/google/uuid"
)

type NoteVersion struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId        uuid.UUID `gorm:"type:uuid;not null;index:idx_note_versions_note_number,priority:1"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Content       string    `gorm:"type:text"`
	ContentHash   string    `gorm:"type:char(64);not null"`
	VersionNumber int       `gorm:"not null;index:idx_note_versions_note_number,priority:2"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (NoteVersion) TableName() string {
	return "note_versions"
}
