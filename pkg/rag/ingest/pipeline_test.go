package ingest

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"ksg-support-be/internal/repository/memory"
	"ksg-support-be/pkg/pdfx"
	"ksg-support-be/pkg/rag"
)

type fakeExtractor struct {
	pages []pdfx.Page
	err   error
}

func (f *fakeExtractor) Extract(path string) ([]pdfx.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), float32(i), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 0, 1}, nil
}

type failingIndex struct{}

func (failingIndex) Upsert(ctx context.Context, records []rag.ChunkRecord) error {
	return errors.New("connection refused")
}
func (failingIndex) DeleteByDocument(ctx context.Context, docUID string) error {
	return errors.New("connection refused")
}
func (failingIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.Hit, error) {
	return nil, errors.New("connection refused")
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func longPage(seed string) string {
	return strings.Repeat(seed+" ", 60)
}

func TestIngestIndexesChunks(t *testing.T) {
	index := memory.NewChunkIndex()
	extractor := &fakeExtractor{pages: []pdfx.Page{
		{Number: 1, Text: longPage("admissions open in january")},
		{Number: 2, Text: longPage("tuition is fifty thousand")},
	}}

	p := NewPipeline(extractor, &fakeEmbedder{}, index, DefaultConfig(), discardLogger())

	count, err := p.Ingest(context.Background(), Document{
		DocUID:   "prospectus",
		Path:     "/tmp/prospectus.pdf",
		Filename: "prospectus.pdf",
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count < 2 {
		t.Fatalf("got %d chunks, want at least one per page", count)
	}

	indexed, err := index.CountByDocument(context.Background(), "prospectus")
	if err != nil {
		t.Fatal(err)
	}
	if indexed != int64(count) {
		t.Errorf("index holds %d records, Ingest reported %d", indexed, count)
	}
}

func TestIngestSkipsShortPages(t *testing.T) {
	index := memory.NewChunkIndex()
	extractor := &fakeExtractor{pages: []pdfx.Page{
		{Number: 1, Text: "page 1 of 3"}, // under the 50-char page minimum
		{Number: 2, Text: longPage("real content lives here")},
		{Number: 3, Text: "   "},
	}}

	p := NewPipeline(extractor, &fakeEmbedder{}, index, DefaultConfig(), discardLogger())

	count, err := p.Ingest(context.Background(), Document{DocUID: "doc", Filename: "doc.pdf"})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	hits, err := index.Query(context.Background(), []float32{1, 0, 1}, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != count {
		t.Fatalf("index holds %d records, want %d", len(hits), count)
	}
	for _, h := range hits {
		if h.Page != 2 {
			t.Errorf("chunk from page %d indexed, only page 2 has enough text", h.Page)
		}
	}
}

func TestIngestZeroChunksIsNotAnError(t *testing.T) {
	index := memory.NewChunkIndex()

	// Simulate a previous generation that must be purged.
	if err := index.Upsert(context.Background(), []rag.ChunkRecord{
		{ID: rag.ChunkID("scanned", 1, 0), DocUID: "scanned", Content: "stale"},
	}); err != nil {
		t.Fatal(err)
	}

	extractor := &fakeExtractor{pages: []pdfx.Page{{Number: 1, Text: ""}}}
	embedder := &fakeEmbedder{}
	p := NewPipeline(extractor, embedder, index, DefaultConfig(), discardLogger())

	count, err := p.Ingest(context.Background(), Document{DocUID: "scanned", Filename: "scanned.pdf"})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 0 {
		t.Errorf("got %d chunks, want 0", count)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for an empty document", embedder.calls)
	}

	remaining, err := index.CountByDocument(context.Background(), "scanned")
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("%d stale records survived re-ingestion of an empty document", remaining)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	index := memory.NewChunkIndex()
	extractor := &fakeExtractor{pages: []pdfx.Page{
		{Number: 1, Text: longPage("stable content")},
	}}
	p := NewPipeline(extractor, &fakeEmbedder{}, index, DefaultConfig(), discardLogger())

	doc := Document{DocUID: "doc", Filename: "doc.pdf"}

	first, err := p.Ingest(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Ingest(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("chunk counts differ across runs: %d vs %d", first, second)
	}

	indexed, _ := index.CountByDocument(context.Background(), "doc")
	if indexed != int64(first) {
		t.Errorf("index holds %d records after re-ingestion, want %d", indexed, first)
	}
}

func TestIngestReplacesShrunkDocument(t *testing.T) {
	index := memory.NewChunkIndex()
	extractor := &fakeExtractor{pages: []pdfx.Page{
		{Number: 1, Text: longPage("page one")},
		{Number: 2, Text: longPage("page two")},
	}}
	p := NewPipeline(extractor, &fakeEmbedder{}, index, DefaultConfig(), discardLogger())

	doc := Document{DocUID: "doc", Filename: "doc.pdf"}
	if _, err := p.Ingest(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	// Second version lost a page; its chunks must disappear.
	extractor.pages = extractor.pages[:1]
	count, err := p.Ingest(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	indexed, _ := index.CountByDocument(context.Background(), "doc")
	if indexed != int64(count) {
		t.Errorf("index holds %d records, want %d after the document shrank", indexed, count)
	}

	hits, _ := index.Query(context.Background(), []float32{1, 0, 1}, 50)
	for _, h := range hits {
		if h.Page == 2 {
			t.Error("chunk from the removed page survived re-ingestion")
		}
	}
}

func TestIngestErrorKinds(t *testing.T) {
	pages := []pdfx.Page{{Number: 1, Text: longPage("content")}}

	tests := []struct {
		name      string
		extractor PageExtractor
		embedder  *fakeEmbedder
		index     rag.Index
		wantErr   error
	}{
		{
			name:      "extraction failure",
			extractor: &fakeExtractor{err: errors.New("damaged xref")},
			embedder:  &fakeEmbedder{},
			index:     memory.NewChunkIndex(),
			wantErr:   rag.ErrExtraction,
		},
		{
			name:      "embedding failure",
			extractor: &fakeExtractor{pages: pages},
			embedder:  &fakeEmbedder{err: errors.New("model not loaded")},
			index:     memory.NewChunkIndex(),
			wantErr:   rag.ErrEmbeddingUnavailable,
		},
		{
			name:      "index failure",
			extractor: &fakeExtractor{pages: pages},
			embedder:  &fakeEmbedder{},
			index:     failingIndex{},
			wantErr:   rag.ErrIndexUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.extractor, tt.embedder, tt.index, DefaultConfig(), discardLogger())

			_, err := p.Ingest(context.Background(), Document{DocUID: "doc", Filename: "doc.pdf"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Ingest() error = %v, want errors.Is(%v)", err, tt.wantErr)
			}
		})
	}
}

func TestIngestChunkIDs(t *testing.T) {
	index := memory.NewChunkIndex()
	text := strings.Repeat("a", 2500) // 3 chunks on page 1
	extractor := &fakeExtractor{pages: []pdfx.Page{{Number: 4, Text: text}}}
	p := NewPipeline(extractor, &fakeEmbedder{}, index, DefaultConfig(), discardLogger())

	count, err := p.Ingest(context.Background(), Document{DocUID: "guide", Filename: "guide.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("got %d chunks, want 3", count)
	}

	if got := rag.ChunkID("guide", 4, 2); got != "guide-p4-c2" {
		t.Errorf("ChunkID() = %q, want %q", got, "guide-p4-c2")
	}
}

func TestIngestPageMinimumCountsRunes(t *testing.T) {
	index := memory.NewChunkIndex()
	// 30 runes, 90 bytes: under the 50-char page floor even though the byte
	// length is not.
	extractor := &fakeExtractor{pages: []pdfx.Page{
		{Number: 1, Text: strings.Repeat("事", 30)},
		{Number: 2, Text: longPage("tuition is fifty thousand")},
	}}

	p := NewPipeline(extractor, &fakeEmbedder{}, index, DefaultConfig(), discardLogger())
	count, err := p.Ingest(context.Background(), Document{DocUID: "guide", Path: "guide.pdf", Filename: "guide.pdf"})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if count == 0 {
		t.Fatal("expected chunks from the long page")
	}

	hits, err := index.Query(context.Background(), []float32{1, 0, 1}, 50)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for _, hit := range hits {
		if hit.Page == 1 {
			t.Errorf("short page was indexed: %q", hit.Content)
		}
	}
}

func TestIngestRejectsWrongDimension(t *testing.T) {
	extractor := &fakeExtractor{pages: []pdfx.Page{
		{Number: 1, Text: longPage("admissions open in january")},
	}}

	cfg := DefaultConfig()
	cfg.VectorDim = 768 // fakeEmbedder produces 3-dim vectors

	p := NewPipeline(extractor, &fakeEmbedder{}, memory.NewChunkIndex(), cfg, discardLogger())
	_, err := p.Ingest(context.Background(), Document{DocUID: "guide", Path: "guide.pdf", Filename: "guide.pdf"})
	if !errors.Is(err, rag.ErrEmbeddingUnavailable) {
		t.Fatalf("err = %v, want ErrEmbeddingUnavailable", err)
	}
}
