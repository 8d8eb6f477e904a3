package prompt

import (
	"fmt"
	"strings"

	"ksg-support-be/pkg/rag"
)

// GroundedBuilder assembles the retrieval-grounded support prompt: the
// retrieved chunks with their provenance, the grounding rules, and the user
// question.
type GroundedBuilder struct {
	assistantName string
	question      string
	hits          []rag.Hit
}

func NewGroundedBuilder(assistantName, question string, hits []rag.Hit) *GroundedBuilder {
	if assistantName == "" {
		assistantName = "a customer support assistant"
	}
	return &GroundedBuilder{
		assistantName: assistantName,
		question:      question,
		hits:          hits,
	}
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeRole(&prompt)
	b.writeContext(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeRole(prompt *strings.Builder) {
	prompt.WriteString("You are ")
	prompt.WriteString(b.assistantName)
	prompt.WriteString(".\n")
	prompt.WriteString("Answer using only the context below.\n")
	prompt.WriteString("When you use a context passage, cite its filename and page inline.\n")
	prompt.WriteString("If the context is not enough to answer, say you don't know.\n\n")
}

func (b *GroundedBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("Context:\n")
	for i, h := range b.hits {
		if i > 0 {
			prompt.WriteString("\n\n")
		}
		fmt.Fprintf(prompt, "%s (page %d):\n%s", h.Filename, h.Page, h.Content)
	}
	prompt.WriteString("\n\n")
}

func (b *GroundedBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Question:\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n")
}
