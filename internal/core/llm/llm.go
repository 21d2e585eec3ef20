// Package llm provides the text-generation and embedding providers. The
// active provider is chosen by configuration; handlers and services only
// see the core interfaces.
package llm

import (
	"context"
	"fmt"

	"github.com/calebowu/ghostwriter/internal/core"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider     string // "gemini", "openai" or "mock"
	GeminiAPIKey string
	OpenAIAPIKey string
	OpenAIBase   string
	Model        string
}

// NewProvider builds the configured LLM provider.
func NewProvider(ctx context.Context, s Settings) (core.LLMProvider, error) {
	switch s.Provider {
	case "gemini", "":
		return NewGeminiLLM(ctx, s.GeminiAPIKey, s.Model)
	case "openai":
		return NewOpenAILLM(s.OpenAIAPIKey, s.OpenAIBase, s.Model)
	case "mock":
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
}
