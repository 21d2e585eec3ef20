package llm

import (
	"context"
	"time"

	"github.com/calebowu/ghostwriter/internal/core"
)

// WithTimeout bounds every Generate call. Model calls routinely run for
// tens of seconds; without a deadline a stuck upstream would hold the
// request open until the router's own timeout.
func WithTimeout(p core.LLMProvider, d time.Duration) core.LLMProvider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, d: d}
}

type timeoutProvider struct {
	inner core.LLMProvider
	d     time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.inner.Generate(ctx, systemPrompt, userPrompt)
}

func (t *timeoutProvider) Close() error { return t.inner.Close() }
