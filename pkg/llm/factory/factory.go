package factory

import (
	"fmt"

	"ksg-support-be/pkg/llm"
	"ksg-support-be/pkg/llm/ollama"
	"ksg-support-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, ollamaBaseURL, openaiAPIKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "openai":
		if openaiAPIKey == "" {
			return nil, fmt.Errorf("openai LLM provider requires an API key")
		}
		return openai.NewOpenAIProvider(openaiAPIKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
