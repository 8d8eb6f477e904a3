package service

import (
	"context"
	"encoding/json"
	"errors"

	"ksg-support-be/internal/dto"
	"ksg-support-be/internal/pkg/logger"
	"ksg-support-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the index topic and runs ingestion for each
// requested document.
type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	documentService IDocumentService
	logger          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentService IDocumentService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		documentService: documentService,
		logger:          log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IndexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("IndexConsumer", "Failed to unmarshal index message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying cannot help
		return
	}

	cs.logger.Info("IndexConsumer", "Indexing document", map[string]interface{}{"doc_uid": payload.DocUid})

	err := cs.documentService.Ingest(ctx, payload.DocUid)
	switch {
	case err == nil:
		cs.logger.Info("IndexConsumer", "Document indexed", map[string]interface{}{"doc_uid": payload.DocUid})
		msg.Ack()
	case errors.Is(err, ErrDocumentNotFound):
		cs.logger.Warn("IndexConsumer", "Document no longer exists, dropping", map[string]interface{}{"doc_uid": payload.DocUid})
		msg.Ack()
	case errors.Is(err, ErrIngestInFlight):
		cs.logger.Info("IndexConsumer", "Document already being indexed, retrying later", map[string]interface{}{"doc_uid": payload.DocUid})
		msg.Nack()
	case errors.Is(err, rag.ErrExtraction):
		// Broken file; the failure is recorded on the document record and a
		// redelivery would fail identically.
		cs.logger.Error("IndexConsumer", "Extraction failed", map[string]interface{}{"doc_uid": payload.DocUid, "error": err.Error()})
		msg.Ack()
	default:
		cs.logger.Error("IndexConsumer", "Indexing failed", map[string]interface{}{"doc_uid": payload.DocUid, "error": err.Error()})
		msg.Nack()
	}
}
