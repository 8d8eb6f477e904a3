package mapper

import (
	"time"

	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:            d.Id,
		Uid:           d.Uid,
		Filename:      d.Filename,
		StoragePath:   d.StoragePath,
		SourceURL:     d.SourceURL,
		Status:        d.Status,
		ChunkCount:    d.ChunkCount,
		FailureReason: d.FailureReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	out := &model.Document{
		Id:            d.Id,
		Uid:           d.Uid,
		Filename:      d.Filename,
		StoragePath:   d.StoragePath,
		SourceURL:     d.SourceURL,
		Status:        d.Status,
		ChunkCount:    d.ChunkCount,
		FailureReason: d.FailureReason,
		CreatedAt:     d.CreatedAt,
	}
	if d.UpdatedAt != nil {
		out.UpdatedAt = *d.UpdatedAt
	}
	return out
}
