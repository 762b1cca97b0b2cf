package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Note struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentId    *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	TitleEmoji  *string    `gorm:"type:varchar(16)"`
	Content     string     `gorm:"type:text"`
	SortOrder   int        `gorm:"not null;default:0"`
	IsExpanded  bool       `gorm:"not null;default:true"`
	IsFavorite  bool       `gorm:"not null;default:false"`
	EditorWidth string     `gorm:"type:varchar(16);not null;default:'centered'"`
	// 768 dims matches text-embedding-004 / nomic-embed-text output
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt   `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
