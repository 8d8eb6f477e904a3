package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"ksg-support-be/internal/constant"
	"ksg-support-be/internal/dto"
	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/pkg/logger"
	"ksg-support-be/internal/repository/memory"
	"ksg-support-be/internal/repository/specification"
	"ksg-support-be/internal/repository/unitofwork"
	"ksg-support-be/pkg/rag/ingest"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrIngestInFlight   = errors.New("ingestion already in progress for this document")
	ErrNotPDF           = errors.New("only PDF uploads are accepted")
)

type IDocumentService interface {
	Upload(ctx context.Context, filename string, content io.Reader, sourceURL string) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, status string, limit, offset int) ([]*dto.DocumentResponse, error)
	Get(ctx context.Context, docUid string) (*dto.DocumentResponse, error)
	Reindex(ctx context.Context, docUid string) (*dto.UploadDocumentResponse, error)
	Delete(ctx context.Context, docUid string) error
	Ingest(ctx context.Context, docUid string) error
}

// documentService manages the document corpus: storing uploaded PDFs,
// publishing index requests, and running the ingestion pipeline when a
// worker picks a request up.
type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *ingest.Pipeline
	guard      *memory.IngestGuard
	publisher  IPublisherService
	uploadDir  string
	logger     logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *ingest.Pipeline,
	guard *memory.IngestGuard,
	publisher IPublisherService,
	uploadDir string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		guard:      guard,
		publisher:  publisher,
		uploadDir:  uploadDir,
		logger:     log,
	}
}

var docUidSanitizer = regexp.MustCompile(`[^a-z0-9_-]+`)

// DocUidFromFilename derives the stable document identifier from the
// uploaded filename. Re-uploading a file with the same name replaces the
// previous version rather than duplicating it.
func DocUidFromFilename(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	uid := docUidSanitizer.ReplaceAllString(strings.ToLower(stem), "-")
	uid = strings.Trim(uid, "-")
	if uid == "" {
		uid = uuid.New().String()
	}
	return uid
}

func (ds *documentService) Upload(ctx context.Context, filename string, content io.Reader, sourceURL string) (*dto.UploadDocumentResponse, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrNotPDF
	}

	docUid := DocUidFromFilename(filename)
	storagePath := filepath.Join(ds.uploadDir, docUid+".pdf")

	if err := os.MkdirAll(ds.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	out, err := os.Create(storagePath)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	uow := ds.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByDocUid{DocUid: docUid})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &entity.Document{
			Id:          uuid.New(),
			Uid:         docUid,
			Filename:    filepath.Base(filename),
			StoragePath: storagePath,
			SourceURL:   sourceURL,
			Status:      constant.DocumentStatusUploaded,
			CreatedAt:   now,
		}
		if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
			return nil, err
		}
	} else {
		doc.Filename = filepath.Base(filename)
		doc.StoragePath = storagePath
		doc.SourceURL = sourceURL
		doc.Status = constant.DocumentStatusUploaded
		doc.FailureReason = ""
		doc.UpdatedAt = &now
		if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := ds.publishIndexRequest(ctx, docUid); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{DocUid: docUid, Status: doc.Status}, nil
}

func (ds *documentService) List(ctx context.Context, status string, limit, offset int) ([]*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, toDocumentResponse(doc))
	}
	return response, nil
}

func (ds *documentService) Get(ctx context.Context, docUid string) (*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByDocUid{DocUid: docUid})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return toDocumentResponse(doc), nil
}

func (ds *documentService) Reindex(ctx context.Context, docUid string) (*dto.UploadDocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByDocUid{DocUid: docUid})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if doc.Status == constant.DocumentStatusIndexing {
		return nil, ErrIngestInFlight
	}

	if err := ds.publishIndexRequest(ctx, docUid); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{DocUid: docUid, Status: doc.Status}, nil
}

func (ds *documentService) Delete(ctx context.Context, docUid string) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByDocUid{DocUid: docUid})
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChunkIndexRepository().DeleteByDocument(ctx, docUid); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
			ds.logger.Warn("DocumentService", "Failed to remove stored file", map[string]interface{}{
				"path":  doc.StoragePath,
				"error": err.Error(),
			})
		}
	}
	return nil
}

// Ingest runs the pipeline for one document and records the outcome on its
// record. Invoked by the index consumer, never from a request handler.
func (ds *documentService) Ingest(ctx context.Context, docUid string) error {
	if !ds.guard.TryAcquire(docUid) {
		return ErrIngestInFlight
	}
	defer ds.guard.Release(docUid)

	uow := ds.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByDocUid{DocUid: docUid})
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := ds.setStatus(ctx, doc, constant.DocumentStatusIndexing, 0, ""); err != nil {
		return err
	}
	ds.logger.Info("DocumentService", "Ingestion started", map[string]interface{}{"doc_uid": docUid})

	count, err := ds.pipeline.Ingest(ctx, ingest.Document{
		DocUID:    doc.Uid,
		Path:      doc.StoragePath,
		Filename:  doc.Filename,
		SourceURL: doc.SourceURL,
	})
	if err != nil {
		ds.logger.Error("DocumentService", "Ingestion failed", map[string]interface{}{
			"doc_uid": docUid,
			"error":   err.Error(),
		})
		if statusErr := ds.setStatus(ctx, doc, constant.DocumentStatusFailed, 0, err.Error()); statusErr != nil {
			ds.logger.Error("DocumentService", "Failed to mark document failed", map[string]interface{}{
				"doc_uid": docUid,
				"error":   statusErr.Error(),
			})
		}
		return err
	}

	ds.logger.Info("DocumentService", "Ingestion finished", map[string]interface{}{
		"doc_uid": docUid,
		"chunks":  count,
	})
	return ds.setStatus(ctx, doc, constant.DocumentStatusIndexed, count, "")
}

func (ds *documentService) publishIndexRequest(ctx context.Context, docUid string) error {
	payload, err := json.Marshal(dto.IndexDocumentMessage{DocUid: docUid})
	if err != nil {
		return err
	}
	return ds.publisher.Publish(ctx, payload)
}

func (ds *documentService) setStatus(ctx context.Context, doc *entity.Document, status string, chunkCount int, failureReason string) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	doc.Status = status
	doc.ChunkCount = chunkCount
	doc.FailureReason = failureReason
	doc.UpdatedAt = &now

	return uow.DocumentRepository().Update(ctx, doc)
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		DocUid:        doc.Uid,
		Filename:      doc.Filename,
		SourceURL:     doc.SourceURL,
		Status:        doc.Status,
		ChunkCount:    doc.ChunkCount,
		FailureReason: doc.FailureReason,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
