package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one vector index record. The primary key is the
// deterministic "{doc_uid}-p{page}-c{chunk}" id, so upsert replaces records
// on re-ingestion instead of accumulating duplicates.
type DocumentChunk struct {
	Id         string          `gorm:"type:varchar(128);primaryKey"`
	DocUid     string          `gorm:"type:varchar(64);not null;index"`
	Filename   string          `gorm:"type:varchar(512);not null"`
	Page       int             `gorm:"not null"`
	ChunkIndex int             `gorm:"not null"`
	SourceURL  string          `gorm:"type:varchar(2048)"`
	Content    string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimension
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
