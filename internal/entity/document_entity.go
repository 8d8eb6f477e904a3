package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the relational record of an uploaded PDF. Its chunks live in
// the vector index, keyed by Uid; the record tracks the ingestion lifecycle.
type Document struct {
	Id            uuid.UUID
	Uid           string
	Filename      string
	StoragePath   string
	SourceURL     string
	Status        string
	ChunkCount    int
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
