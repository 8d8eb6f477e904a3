package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"ksg-support-be/pkg/embedding"
	"ksg-support-be/pkg/pdfx"
	"ksg-support-be/pkg/rag"
	"ksg-support-be/pkg/rag/chunker"
)

// Document is one ingestion request: a stored PDF plus the identity and
// provenance its chunks carry into the index.
type Document struct {
	DocUID    string
	Path      string
	Filename  string
	SourceURL string
}

// PageExtractor yields per-page plain text for a document on disk.
type PageExtractor interface {
	Extract(path string) ([]pdfx.Page, error)
}

// Config encapsulates chunking parameters for ingestion.
type Config struct {
	MaxChunkChars int
	ChunkOverlap  int
	MinChunkChars int
	// Pages whose extracted text is shorter than this are skipped entirely;
	// scanned or blank pages produce no chunks.
	MinPageChars int
	// Expected embedding dimensionality. When positive, vectors of any other
	// length are rejected before they reach the index, whose column width is
	// fixed. Zero disables the check.
	VectorDim int
}

func DefaultConfig() Config {
	return Config{
		MaxChunkChars: chunker.DefaultMaxChars,
		ChunkOverlap:  chunker.DefaultOverlap,
		MinChunkChars: chunker.DefaultMinChunkChars,
		MinPageChars:  50,
	}
}

// Pipeline turns one PDF into chunk records in the vector index:
// extract pages, chunk, batch-embed, then replace the document's records.
type Pipeline struct {
	extractor    PageExtractor
	chunker      *chunker.Chunker
	embedder     embedding.Provider
	index        rag.Index
	minPageChars int
	vectorDim    int
	logger       *log.Logger
}

func NewPipeline(
	extractor PageExtractor,
	embedder embedding.Provider,
	index rag.Index,
	cfg Config,
	logger *log.Logger,
) *Pipeline {
	if cfg.MinPageChars <= 0 {
		cfg.MinPageChars = DefaultConfig().MinPageChars
	}
	return &Pipeline{
		extractor:    extractor,
		chunker:      chunker.New(cfg.MaxChunkChars, cfg.ChunkOverlap, cfg.MinChunkChars),
		embedder:     embedder,
		index:        index,
		minPageChars: cfg.MinPageChars,
		vectorDim:    cfg.VectorDim,
		logger:       logger,
	}
}

// Ingest indexes one document and returns the number of chunks written.
// Re-running it for the same doc_uid is idempotent: records are keyed by
// deterministic (doc_uid, page, chunk) ids and the previous generation is
// deleted before the new one is inserted, so exactly one generation stays
// live. Zero chunks (e.g. an image-only PDF) is a valid, non-error outcome.
func (p *Pipeline) Ingest(ctx context.Context, doc Document) (int, error) {
	pages, err := p.extractor.Extract(doc.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", rag.ErrExtraction, doc.Filename, err)
	}

	var (
		records []rag.ChunkRecord
		texts   []string
	)
	for _, page := range pages {
		text := strings.TrimSpace(page.Text)
		if utf8.RuneCountInString(text) < p.minPageChars {
			continue
		}
		for ci, chunk := range p.chunker.Split(text) {
			records = append(records, rag.ChunkRecord{
				ID:         rag.ChunkID(doc.DocUID, page.Number, ci),
				DocUID:     doc.DocUID,
				Filename:   doc.Filename,
				Page:       page.Number,
				ChunkIndex: ci,
				SourceURL:  doc.SourceURL,
				Content:    chunk,
			})
			texts = append(texts, chunk)
		}
	}

	if len(records) == 0 {
		// Still purge any previous generation so re-ingesting a document that
		// lost its text converges on an empty set.
		if err := p.index.DeleteByDocument(ctx, doc.DocUID); err != nil {
			return 0, fmt.Errorf("%w: delete %s: %v", rag.ErrIndexUnavailable, doc.DocUID, err)
		}
		p.logger.Printf("[INGEST] %s: no extractable text, 0 chunks", doc.DocUID)
		return 0, nil
	}

	// One batch call for the whole document; order is preserved so vectors
	// zip with records positionally.
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", rag.ErrEmbeddingUnavailable, err)
	}
	if p.vectorDim > 0 {
		for i, vector := range vectors {
			if len(vector) != p.vectorDim {
				return 0, fmt.Errorf("%w: chunk %d has dimension %d, index expects %d",
					rag.ErrEmbeddingUnavailable, i, len(vector), p.vectorDim)
			}
		}
	}
	for i := range records {
		records[i].Embedding = vectors[i]
	}

	// Delete-then-insert, never insert-then-delete: a late delete would
	// remove the fresh records sharing the doc_uid.
	if err := p.index.DeleteByDocument(ctx, doc.DocUID); err != nil {
		return 0, fmt.Errorf("%w: delete %s: %v", rag.ErrIndexUnavailable, doc.DocUID, err)
	}
	if err := p.index.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("%w: upsert %s: %v", rag.ErrIndexUnavailable, doc.DocUID, err)
	}

	p.logger.Printf("[INGEST] %s: indexed %d chunks from %d pages", doc.DocUID, len(records), len(pages))
	return len(records), nil
}
