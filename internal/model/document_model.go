package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Uid           string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Filename      string    `gorm:"type:varchar(512);not null"`
	StoragePath   string    `gorm:"type:varchar(1024);not null"`
	SourceURL     string    `gorm:"type:varchar(2048)"`
	Status        string    `gorm:"type:varchar(16);not null;index"`
	ChunkCount    int       `gorm:"not null;default:0"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
