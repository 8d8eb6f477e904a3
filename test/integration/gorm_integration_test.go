package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/repository/specification"
	"ksg-support-be/internal/repository/unitofwork"
	"ksg-support-be/pkg/database"
	"ksg-support-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChunkIndexRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := uow.DocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Chunk Index Round Trip", func(t *testing.T) {
		ctx := context.Background()
		index := uow.ChunkIndexRepository()
		docUid := "it-" + uuid.New().String()

		dim := 768
		embedding := make([]float32, dim)
		embedding[0] = 1

		records := []rag.ChunkRecord{
			{
				ID: rag.ChunkID(docUid, 1, 0), DocUID: docUid, Filename: "it.pdf",
				Page: 1, Content: "integration chunk", Embedding: embedding,
			},
		}

		require.NoError(t, index.Upsert(ctx, records))
		defer index.DeleteByDocument(ctx, docUid)

		// Upserting the same id again must not duplicate.
		records[0].Content = "integration chunk v2"
		require.NoError(t, index.Upsert(ctx, records))

		count, err := index.CountByDocument(ctx, docUid)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		hits, err := index.Query(ctx, embedding, 5)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		found := false
		for _, h := range hits {
			if h.DocUID == docUid {
				found = true
				assert.Equal(t, "integration chunk v2", h.Content)
				assert.InDelta(t, 1.0, h.Score, 0.01)
			}
		}
		assert.True(t, found, "freshly upserted chunk must be retrievable")

		require.NoError(t, index.DeleteByDocument(ctx, docUid))
		count, err = index.CountByDocument(ctx, docUid)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Chat Persistence Round Trip", func(t *testing.T) {
		ctx := context.Background()
		tx := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		user := &entity.User{
			Id:    uuid.New(),
			Name:  "Integration Test User",
			Email: "it-" + uuid.New().String() + "@example.com",
		}
		require.NoError(t, tx.UserRepository().Create(ctx, user))

		session := &entity.ChatSession{
			Id:     uuid.New(),
			UserId: user.Id,
			Title:  "Integration session",
		}
		require.NoError(t, tx.ChatSessionRepository().Create(ctx, session))

		message := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          "model",
			Chat:          "grounded reply",
		}
		require.NoError(t, tx.ChatMessageRepository().Create(ctx, message))

		require.NoError(t, tx.ChatCitationRepository().CreateBulk(ctx, []*entity.ChatCitation{
			{Id: uuid.New(), ChatMessageId: message.Id, Filename: "it.pdf", Page: 2},
		}))

		fetched, err := tx.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: user.Id},
		)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "Integration session", fetched.Title)

		citations, err := tx.ChatCitationRepository().FindAllByMessageIds(ctx, []uuid.UUID{message.Id})
		require.NoError(t, err)
		require.Len(t, citations, 1)
		assert.Equal(t, "it.pdf", citations[0].Filename)
		assert.Equal(t, 2, citations[0].Page)
		// Rollback leaves no trace.
	})
}
