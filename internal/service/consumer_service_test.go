package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"ksg-support-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type recordingIngestService struct {
	calls chan string
}

func (r *recordingIngestService) Upload(ctx context.Context, filename string, content io.Reader, sourceURL string) (*dto.UploadDocumentResponse, error) {
	return nil, nil
}

func (r *recordingIngestService) List(ctx context.Context, status string, limit, offset int) ([]*dto.DocumentResponse, error) {
	return nil, nil
}

func (r *recordingIngestService) Get(ctx context.Context, docUid string) (*dto.DocumentResponse, error) {
	return nil, nil
}

func (r *recordingIngestService) Reindex(ctx context.Context, docUid string) (*dto.UploadDocumentResponse, error) {
	return nil, nil
}

func (r *recordingIngestService) Delete(ctx context.Context, docUid string) error {
	return nil
}

func (r *recordingIngestService) Ingest(ctx context.Context, docUid string) error {
	r.calls <- docUid
	return nil
}

func TestConsumeRunsIngestion(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	docs := &recordingIngestService{calls: make(chan string, 2)}

	consumer := NewConsumerService(pubSub, "INDEX_TEST", docs, noopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, "INDEX_TEST")
	payload, err := json.Marshal(dto.IndexDocumentMessage{DocUid: "prospectus"})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	select {
	case got := <-docs.calls:
		assert.Equal(t, "prospectus", got)
	case <-time.After(2 * time.Second):
		t.Fatal("ingestion was never invoked")
	}
}

func TestConsumeDropsMalformedMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	docs := &recordingIngestService{calls: make(chan string, 2)}

	consumer := NewConsumerService(pubSub, "INDEX_TEST", docs, noopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, "INDEX_TEST")
	require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	payload, err := json.Marshal(dto.IndexDocumentMessage{DocUid: "after-garbage"})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	// The malformed message is acked and skipped; the valid one behind it
	// still gets through.
	select {
	case got := <-docs.calls:
		assert.Equal(t, "after-garbage", got)
	case <-time.After(2 * time.Second):
		t.Fatal("valid message was never processed")
	}
}
