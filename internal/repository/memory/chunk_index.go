package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"ksg-support-be/pkg/rag"
)

// ChunkIndex is a brute-force in-memory vector index. It backs unit tests and
// local development without a Postgres instance; semantics match the pgvector
// repository (cosine ranking, empty result on empty index).
type ChunkIndex struct {
	mu      sync.RWMutex
	records map[string]rag.ChunkRecord
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{
		records: make(map[string]rag.ChunkRecord),
	}
}

func (x *ChunkIndex) Upsert(ctx context.Context, records []rag.ChunkRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, r := range records {
		x.records[r.ID] = r
	}
	return nil
}

func (x *ChunkIndex) DeleteByDocument(ctx context.Context, docUID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id, r := range x.records {
		if r.DocUID == docUID {
			delete(x.records, id)
		}
	}
	return nil
}

func (x *ChunkIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.Hit, error) {
	if k <= 0 {
		k = 5
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	hits := make([]rag.Hit, 0, len(x.records))
	for _, r := range x.records {
		hits = append(hits, rag.Hit{
			Content:   r.Content,
			DocUID:    r.DocUID,
			Filename:  r.Filename,
			Page:      r.Page,
			SourceURL: r.SourceURL,
			Score:     cosineSimilarity(vector, r.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (x *ChunkIndex) CountByDocument(ctx context.Context, docUID string) (int64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var count int64
	for _, r := range x.records {
		if r.DocUID == docUID {
			count++
		}
	}
	return count, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
