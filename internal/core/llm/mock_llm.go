package llm

import (
	"context"
	"strings"

	"github.com/calebowu/ghostwriter/internal/core"
)

// MockLLM is a deterministic placeholder for local runs without an API
// key. It inspects the prompt to decide whether a profile object or a
// post batch is expected.
type MockLLM struct{}

func (m MockLLM) Close() error { return nil }

func (m MockLLM) Generate(_ context.Context, _ string, userPrompt string) (string, error) {
	if strings.Contains(userPrompt, "JSON array") {
		return `[
{"content":"Here's what I've learned:\n\nThe key is consistency over perfection.\n\nEvery expert was once a beginner.","tag":"Practical"},
{"content":"Last year, I failed spectacularly.\n\nBut that failure taught me everything I know today.","tag":"Story"},
{"content":"Most advice you'll hear is wrong.\n\nHere's the truth nobody talks about.","tag":"Contrarian"},
{"content":"My 3-step framework:\n\n1. Start small\n2. Stay consistent\n3. Iterate fast","tag":"Framework"},
{"content":"It isn't complicated.\n\nWe make it complicated.\n\nStop overthinking. Start doing.","tag":"Punchy"}
]`, nil
	}
	return `{
"tone":"direct and conversational",
"structure":"short paragraphs with line breaks",
"hook_style":"bold statement",
"cta_style":"soft engagement question",
"themes":["leadership","growth"],
"dos":["Use line breaks","Start with hooks"],
"donts":["Avoid jargon","No walls of text"],
"summary":"Mock analysis for local development"
}`, nil
}

var _ core.LLMProvider = MockLLM{}
