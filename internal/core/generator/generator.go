// Package generator renders batches of post drafts in a caller's voice,
// constrained by their guardrail settings.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/models"
)

// BatchSize is the fixed number of variants per generation request.
const BatchSize = 5

// VariantTags is the fixed taxonomy differentiating a batch.
var VariantTags = []string{"Practical", "Story", "Contrarian", "Framework", "Punchy"}

// DefaultTag is substituted when the model returns an item with no
// recognizable tag.
const DefaultTag = "Practical"

type Generator struct {
	llm core.LLMProvider
}

func NewGenerator(p core.LLMProvider) *Generator {
	return &Generator{llm: p}
}

// rawPost is the untrusted per-item shape expected from the model.
type rawPost struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

// Generate produces exactly BatchSize differentiated drafts for the
// topic, or a typed error. The result never passes a malformed upstream
// shape through: each item is normalized and the batch size is enforced.
// Exemplars, if any, are prior posts the caller marked as favorites and
// are injected as style references only.
func (g *Generator) Generate(ctx context.Context, topic string, audience *string, profile *models.VoiceProfile, settings guardrails.Config, exemplars []string) ([]models.DraftPost, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, errs.Validation("topic must not be empty")
	}
	if profile == nil {
		return nil, errs.Validation("create a voice profile first")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	system := buildSystemPrompt(&profile.Extracted, settings, exemplars)
	user := buildBatchPrompt(topic, audience)

	resp, err := g.llm.Generate(ctx, system, user)
	if err != nil {
		return nil, &errs.GenerationError{Err: err}
	}

	items, err := decodeBatch(resp)
	if err != nil {
		return nil, &errs.GenerationError{Err: err}
	}
	if len(items) > BatchSize {
		items = items[:BatchSize]
	}
	if len(items) < BatchSize {
		return nil, &errs.GenerationError{Err: fmt.Errorf("expected %d variants, got %d", BatchSize, len(items))}
	}

	now := time.Now().UTC()
	posts := make([]models.DraftPost, 0, BatchSize)
	for _, item := range items {
		posts = append(posts, normalizePost(item, topic, audience, now))
	}
	return posts, nil
}

// RegenerateContent re-runs generation for a single variant, reusing the
// post's original topic, audience and tag. The caller keeps id and
// favorite state; only fresh content comes back.
func (g *Generator) RegenerateContent(ctx context.Context, post *models.DraftPost, profile *models.VoiceProfile, settings guardrails.Config) (string, error) {
	if post == nil {
		return "", errs.Validation("post must not be nil")
	}
	if profile == nil {
		return "", errs.Validation("create a voice profile first")
	}

	tag := DefaultTag
	if len(post.Tags) > 0 {
		if canonical, ok := canonicalTag(post.Tags[0]); ok {
			tag = canonical
		}
	}

	system := buildSystemPrompt(&profile.Extracted, settings, nil)
	user := buildSinglePrompt(post.Topic, post.Audience, tag)

	resp, err := g.llm.Generate(ctx, system, user)
	if err != nil {
		return "", &errs.GenerationError{Err: err}
	}
	content := strings.TrimSpace(stripFences(resp))
	if content == "" {
		return "", &errs.GenerationError{Err: errors.New("empty content from model")}
	}
	return content, nil
}

// decodeBatch pulls the first [...] block out of the model output and
// decodes it. Anything that is not a well-formed array of objects is an
// error; the contract is five posts or nothing.
func decodeBatch(resp string) ([]rawPost, error) {
	s := stripFences(resp)
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON array in model response")
	}
	var items []rawPost
	if err := json.Unmarshal([]byte(s[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return items, nil
}

// normalizePost fills the defensive defaults: missing id synthesized,
// unknown tag replaced, missing content kept as empty string.
func normalizePost(item rawPost, topic string, audience *string, now time.Time) models.DraftPost {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		id = uuid.NewString()
	}
	tag, ok := canonicalTag(item.Tag)
	if !ok {
		tag = DefaultTag
	}
	return models.DraftPost{
		ID:        id,
		Topic:     topic,
		Audience:  audience,
		Content:   item.Content,
		Tags:      []string{tag},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// canonicalTag matches case-insensitively and returns the taxonomy
// spelling.
func canonicalTag(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	for _, t := range VariantTags {
		if strings.EqualFold(t, tag) {
			return t, true
		}
	}
	return "", false
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
