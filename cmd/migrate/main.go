package main

import (
	"log"

	"ksg-support-be/internal/config"
	"ksg-support-be/internal/model"
	"ksg-support-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database)
	if err != nil {
		log.Fatal("Error: Failed to connect to database: ", err)
	}

	log.Println("Starting GORM Migration...")

	// Extensions first; vector must exist before the chunk table migrates.
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	models := []interface{}{
		&model.User{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.ChatCitation{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// ANN index for cosine retrieval. AutoMigrate knows nothing about ivfflat.
	annIndexSQL := `CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding ON document_chunks
		 USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`
	if err := db.Exec(annIndexSQL).Error; err != nil {
		log.Printf("Warn: Failed to create ivfflat index: %v", err)
	}

	log.Println("Success: Database migration completed via GORM.")
}
