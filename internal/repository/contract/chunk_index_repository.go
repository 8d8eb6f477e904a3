package contract

import (
	"context"

	"ksg-support-be/pkg/rag"
)

// ChunkIndexRepository is the vector index backing store. It satisfies
// rag.Index; CountByDocument exists for status reporting and tests.
type ChunkIndexRepository interface {
	rag.Index
	CountByDocument(ctx context.Context, docUID string) (int64, error)
}
