package implementation

import (
	"context"

	"ksg-support-be/internal/mapper"
	"ksg-support-be/internal/model"
	"ksg-support-be/internal/repository/contract"
	"ksg-support-be/pkg/rag"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChunkIndexRepositoryImpl stores document chunks and their embeddings in
// Postgres via pgvector. Record ids are deterministic per (doc_uid, page,
// chunk), so OnConflict upsert replaces stale rows on re-ingestion.
type ChunkIndexRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewChunkIndexRepository(db *gorm.DB) contract.ChunkIndexRepository {
	return &ChunkIndexRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *ChunkIndexRepositoryImpl) Upsert(ctx context.Context, records []rag.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]*model.DocumentChunk, len(records))
	for i, rec := range records {
		models[i] = r.mapper.ToModel(rec)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(models).Error
}

func (r *ChunkIndexRepositoryImpl) DeleteByDocument(ctx context.Context, docUID string) error {
	return r.db.WithContext(ctx).Where("doc_uid = ?", docUID).Delete(&model.DocumentChunk{}).Error
}

func (r *ChunkIndexRepositoryImpl) Query(ctx context.Context, vector []float32, k int) ([]rag.Hit, error) {
	if k <= 0 {
		k = 5
	}

	// Cosine distance is 1 - cosine_similarity, so similarity = 1 - distance.
	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	hits := make([]rag.Hit, len(results))
	for i, res := range results {
		hits[i] = r.mapper.ToHit(&res.DocumentChunk, res.Similarity)
	}
	return hits, nil
}

func (r *ChunkIndexRepositoryImpl) CountByDocument(ctx context.Context, docUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentChunk{}).
		Where("doc_uid = ?", docUID).
		Count(&count).Error
	return count, err
}
