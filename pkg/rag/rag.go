package rag

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds for the ingestion/retrieval core. Callers map all four to a
// "service temporarily unavailable" category, distinct from not-found and
// bad-input errors. Check with errors.Is.
var (
	ErrExtraction            = errors.New("document extraction failed")
	ErrEmbeddingUnavailable  = errors.New("embedding service unavailable")
	ErrIndexUnavailable      = errors.New("vector index unavailable")
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)

// ChunkRecord is one indexed unit of a document: a text window with its
// embedding and provenance metadata.
type ChunkRecord struct {
	ID         string
	DocUID     string
	Filename   string
	Page       int
	ChunkIndex int
	SourceURL  string
	Content    string
	Embedding  []float32
}

// Hit is a retrieval result, ordered by the index's similarity ranking.
type Hit struct {
	Content   string
	DocUID    string
	Filename  string
	Page      int
	SourceURL string
	Score     float64
}

// Index is the vector index contract. Upsert replaces records sharing an id,
// DeleteByDocument removes every record for a doc_uid, and Query returns up to
// k nearest records (an empty slice when nothing is indexed, not an error).
type Index interface {
	Upsert(ctx context.Context, records []ChunkRecord) error
	DeleteByDocument(ctx context.Context, docUID string) error
	Query(ctx context.Context, vector []float32, k int) ([]Hit, error)
}

// ChunkID derives the deterministic record id for (doc_uid, page, chunk).
// Re-ingesting identical content yields identical ids, so upsert naturally
// replaces stale records.
func ChunkID(docUID string, page, chunk int) string {
	return fmt.Sprintf("%s-p%d-c%d", docUID, page, chunk)
}
