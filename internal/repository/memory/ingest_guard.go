package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// IngestGuard keeps at most one in-flight ingestion per doc_uid. Document
// reindex is caller-serialized; this guard enforces that at the service
// boundary. The TTL is a backstop against entries leaked by a crashed worker.
type IngestGuard struct {
	cache *cache.Cache
}

func NewIngestGuard() *IngestGuard {
	// Entries normally live for the duration of one ingestion; 30 minutes is
	// far beyond any sane document, after which a stuck entry self-clears.
	c := cache.New(30*time.Minute, 5*time.Minute)
	return &IngestGuard{
		cache: c,
	}
}

// TryAcquire reports whether the caller now owns the doc_uid slot. It returns
// false while another ingestion for the same document is in flight.
func (g *IngestGuard) TryAcquire(docUID string) bool {
	return g.cache.Add(docUID, struct{}{}, cache.DefaultExpiration) == nil
}

func (g *IngestGuard) Release(docUID string) {
	g.cache.Delete(docUID)
}
