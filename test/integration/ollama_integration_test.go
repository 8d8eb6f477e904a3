package integration

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"ksg-support-be/internal/repository/memory"
	"ksg-support-be/pkg/embedding"
	"ksg-support-be/pkg/llm/ollama"
	"ksg-support-be/pkg/rag"
	"ksg-support-be/pkg/rag/answer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaBaseURL(t *testing.T) string {
	t.Helper()
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get(baseURL)
	if err != nil {
		t.Skipf("Ollama not reachable at %s: %v", baseURL, err)
	}
	res.Body.Close()
	return baseURL
}

func TestOllamaEmbeddingRoundTrip(t *testing.T) {
	baseURL := ollamaBaseURL(t)

	provider := embedding.NewOllamaProvider(baseURL, os.Getenv("EMBEDDING_MODEL"))
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	vectors, err := provider.Embed(ctx, []string{
		"Tuition fees are paid per term.",
		"The cafeteria opens at seven.",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.NotEmpty(t, vectors[0])
	assert.Equal(t, len(vectors[0]), len(vectors[1]))

	// Related texts must rank above unrelated ones.
	query, err := provider.EmbedQuery(ctx, "How much does tuition cost?")
	require.NoError(t, err)

	index := memory.NewChunkIndex()
	require.NoError(t, index.Upsert(ctx, []rag.ChunkRecord{
		{ID: "a", DocUID: "a", Content: "Tuition fees are paid per term.", Embedding: vectors[0]},
		{ID: "b", DocUID: "b", Content: "The cafeteria opens at seven.", Embedding: vectors[1]},
	}))

	hits, err := index.Query(ctx, query, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Tuition fees are paid per term.", hits[0].Content)
}

func TestOllamaAnswerEngine(t *testing.T) {
	baseURL := ollamaBaseURL(t)

	embedder := embedding.NewOllamaProvider(baseURL, os.Getenv("EMBEDDING_MODEL"))

	llmModel := os.Getenv("LLM_MODEL")
	if llmModel == "" {
		llmModel = "llama3"
	}
	generator := ollama.NewOllamaProvider(baseURL, llmModel)

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	content := "Kenya School of Government tuition is KES 50,000 per term, payable before classes begin."
	vectors, err := embedder.Embed(ctx, []string{content})
	require.NoError(t, err)

	index := memory.NewChunkIndex()
	require.NoError(t, index.Upsert(ctx, []rag.ChunkRecord{
		{
			ID: rag.ChunkID("fees", 1, 0), DocUID: "fees", Filename: "fees.pdf",
			Page: 1, Content: content, Embedding: vectors[0],
		},
	}))

	engine := answer.NewEngine(
		embedder, index, generator,
		"the Kenya School of Government customer support assistant",
		5, log.New(io.Discard, "", 0),
	)

	res, err := engine.Answer(ctx, "How much is tuition per term?")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Answer)
	assert.NotNil(t, res.Citations)
	t.Logf("Answer: %s", res.Answer)
}
