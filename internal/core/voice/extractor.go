// Package voice derives a structured style profile from raw writing
// samples.
package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/models"
)

// MinSampleLength is the minimum raw sample size worth analyzing.
const MinSampleLength = 200

const analysisSystemPrompt = `You are a writing style analyst. Analyze the provided sample posts and extract:
1. Tone (professional, casual, inspirational, provocative, etc.)
2. Structure patterns (how they open, format paragraphs, use line breaks)
3. Hook style (question, statement, statistic, story opener)
4. CTA style (none, soft ask, direct ask)
5. Common themes and topics
6. Do's (things they consistently do)
7. Don'ts (things they avoid)

Return a JSON object with these fields: tone, structure, hook_style, cta_style, themes, dos, donts, summary`

type Extractor struct {
	llm core.LLMProvider
}

func NewExtractor(p core.LLMProvider) *Extractor {
	return &Extractor{llm: p}
}

// Extract asks the model for a structured decomposition of the samples
// and normalizes whatever shape comes back. The settings only ride along
// for context; they do not change the analysis prompt today.
//
// No partial result is ever returned: the caller gets either a complete
// normalized profile or a typed error.
func (e *Extractor) Extract(ctx context.Context, rawSamples string, settings guardrails.Config) (models.ExtractedProfile, error) {
	var zero models.ExtractedProfile

	// characters, not bytes: multibyte text must not clear the bar early
	if utf8.RuneCountInString(strings.TrimSpace(rawSamples)) < MinSampleLength {
		return zero, errs.Validation("insufficient sample length: need at least %d characters", MinSampleLength)
	}
	if err := settings.Validate(); err != nil {
		return zero, err
	}

	userPrompt := fmt.Sprintf(`Analyze these posts and extract the author's writing style:

%s

Return ONLY a valid JSON object with the analysis.`, rawSamples)

	resp, err := e.llm.Generate(ctx, analysisSystemPrompt, userPrompt)
	if err != nil {
		return zero, &errs.ExtractionError{Err: err}
	}

	payload, err := decodeObject(resp)
	if err != nil {
		return zero, &errs.ExtractionError{Err: err}
	}

	return profileFromPayload(payload), nil
}

// decodeObject pulls the first {...} block out of the model output and
// decodes it. Models frequently wrap JSON in prose or markdown fences.
func decodeObject(resp string) (map[string]any, error) {
	s := stripFences(resp)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in model response")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &m); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return m, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
