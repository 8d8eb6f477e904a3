package dto

import (
	"time"
)

type UploadDocumentResponse struct {
	DocUid string `json:"doc_uid"`
	Status string `json:"status"`
}

type DocumentResponse struct {
	DocUid        string     `json:"doc_uid"`
	Filename      string     `json:"filename"`
	SourceURL     string     `json:"source_url,omitempty"`
	Status        string     `json:"status"`
	ChunkCount    int        `json:"chunk_count"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// IndexDocumentMessage is the payload published on the index topic when a
// document is uploaded or an admin requests a reindex.
type IndexDocumentMessage struct {
	DocUid string `json:"doc_uid"`
}
