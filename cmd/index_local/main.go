package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"ksg-support-be/internal/config"
	"ksg-support-be/internal/repository/implementation"
	"ksg-support-be/pkg/database"
	"ksg-support-be/pkg/embedding"
	"ksg-support-be/pkg/pdfx"
	"ksg-support-be/pkg/rag/ingest"
)

// Indexes a local PDF straight into the vector store, bypassing the HTTP
// surface. Useful for seeding a corpus before the server ever runs.
func main() {
	var (
		pdfPath   = flag.String("pdf", "", "path to the PDF to index (required)")
		docUid    = flag.String("doc-uid", "", "document uid, defaults to the file name without extension")
		sourceURL = flag.String("source-url", "", "optional upstream URL recorded with each chunk")
	)
	flag.Parse()

	if *pdfPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}

	pipeline := ingest.NewPipeline(
		pdfx.NewExtractor(),
		embeddingProvider,
		implementation.NewChunkIndexRepository(db),
		ingest.Config{
			MaxChunkChars: cfg.Ingest.MaxChunkChars,
			ChunkOverlap:  cfg.Ingest.ChunkOverlap,
			MinChunkChars: cfg.Ingest.MinChunkChars,
			MinPageChars:  cfg.Ingest.MinPageChars,
			VectorDim:     cfg.Ai.VectorDim,
		},
		log.New(os.Stdout, "[INDEX] ", log.LstdFlags),
	)

	filename := filepath.Base(*pdfPath)
	uid := *docUid
	if uid == "" {
		uid = filename[:len(filename)-len(filepath.Ext(filename))]
	}
	source := *sourceURL
	if source == "" {
		source = "local://" + filename
	}

	count, err := pipeline.Ingest(context.Background(), ingest.Document{
		DocUID:    uid,
		Path:      *pdfPath,
		Filename:  filename,
		SourceURL: source,
	})
	if err != nil {
		log.Fatalf("Indexing failed: %v", err)
	}

	log.Printf("Indexed %d chunks for %s", count, uid)
}
