package mapper

import (
	"ksg-support-be/internal/model"
	"ksg-support-be/pkg/rag"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToModel(r rag.ChunkRecord) *model.DocumentChunk {
	return &model.DocumentChunk{
		Id:         r.ID,
		DocUid:     r.DocUID,
		Filename:   r.Filename,
		Page:       r.Page,
		ChunkIndex: r.ChunkIndex,
		SourceURL:  r.SourceURL,
		Content:    r.Content,
		Embedding:  pgvector.NewVector(r.Embedding),
	}
}

func (m *DocumentChunkMapper) ToHit(c *model.DocumentChunk, score float64) rag.Hit {
	return rag.Hit{
		Content:   c.Content,
		DocUID:    c.DocUid,
		Filename:  c.Filename,
		Page:      c.Page,
		SourceURL: c.SourceURL,
		Score:     score,
	}
}
