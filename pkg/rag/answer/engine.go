package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ksg-support-be/pkg/embedding"
	"ksg-support-be/pkg/llm"
	"ksg-support-be/pkg/rag"
	"ksg-support-be/pkg/rag/citation"
	"ksg-support-be/pkg/rag/prompt"
)

const DefaultTopK = 5

// NoContentAnswer is returned when the index has nothing relevant. A normal
// outcome, not an error.
const NoContentAnswer = "I don't have enough indexed content to answer that yet. Please try again after documents have been uploaded."

// Result is the answer payload: generated text plus reconciled citations.
type Result struct {
	Answer    string              `json:"answer"`
	Citations []citation.Citation `json:"citations"`
}

// Engine answers a question from indexed content: embed the question, fetch
// the top-K nearest chunks, generate a grounded answer, and reconcile the
// citations against the produced text.
type Engine struct {
	embedder      embedding.Provider
	index         rag.Index
	generator     llm.LLMProvider
	assistantName string
	topK          int
	logger        *log.Logger
}

func NewEngine(
	embedder embedding.Provider,
	index rag.Index,
	generator llm.LLMProvider,
	assistantName string,
	topK int,
	logger *log.Logger,
) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{
		embedder:      embedder,
		index:         index,
		generator:     generator,
		assistantName: assistantName,
		topK:          topK,
		logger:        logger,
	}
}

func (e *Engine) Answer(ctx context.Context, question string) (*Result, error) {
	vector, err := e.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrEmbeddingUnavailable, err)
	}

	hits, err := e.index.Query(ctx, vector, e.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrIndexUnavailable, err)
	}
	if len(hits) == 0 {
		return &Result{Answer: NoContentAnswer, Citations: []citation.Citation{}}, nil
	}

	grounded := prompt.NewGroundedBuilder(e.assistantName, question, hits).Build()
	reply, err := e.generator.Generate(ctx, grounded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrGenerationUnavailable, err)
	}
	reply = strings.TrimSpace(reply)

	raw := citation.FromHits(hits)
	cites := citation.Reconcile(reply, raw)
	if cites == nil {
		cites = []citation.Citation{}
	}

	e.logger.Printf("[ANSWER] %d hits, %d citations kept", len(hits), len(cites))
	return &Result{Answer: reply, Citations: cites}, nil
}
