package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/models"
)

type stubLLM struct {
	resp       string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubLLM) Generate(_ context.Context, system, user string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	return s.resp, s.err
}

func (s *stubLLM) Close() error { return nil }

func testProfile() *models.VoiceProfile {
	return &models.VoiceProfile{
		ID:     "p1",
		UserID: "u1",
		Extracted: models.ExtractedProfile{
			Tone:      "direct",
			Structure: "short paragraphs",
			HookStyle: "bold statement",
			CTAStyle:  "soft",
			Themes:    []string{"leadership"},
			Dos:       []string{"use line breaks"},
			Donts:     []string{"no jargon"},
		},
		Settings: guardrails.Default(),
		Trained:  true,
	}
}

func fullBatch() string {
	return `[
		{"content": "Practical post", "tag": "Practical"},
		{"content": "Story post", "tag": "Story"},
		{"content": "Contrarian post", "tag": "Contrarian"},
		{"content": "Framework post", "tag": "Framework"},
		{"content": "Punchy post", "tag": "Punchy"}
	]`
}

func TestGenerateFullBatch(t *testing.T) {
	stub := &stubLLM{resp: fullBatch()}
	g := NewGenerator(stub)

	posts, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)
	require.NoError(t, err)
	require.Len(t, posts, BatchSize)

	seen := map[string]bool{}
	for _, p := range posts {
		require.Len(t, p.Tags, 1)
		seen[p.Tags[0]] = true
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Leadership", p.Topic)
		assert.Nil(t, p.Audience)
		assert.False(t, p.IsFavorite)
		assert.False(t, p.CreatedAt.IsZero())
	}
	for _, tag := range VariantTags {
		assert.True(t, seen[tag], "missing tag %s", tag)
	}

	assert.Contains(t, stub.lastSystem, "Tone: direct")
	assert.Contains(t, stub.lastSystem, "150-250 words")
	assert.Contains(t, stub.lastUser, "Leadership")
}

func TestGenerateEmptyTopic(t *testing.T) {
	g := NewGenerator(&stubLLM{resp: fullBatch()})

	_, err := g.Generate(context.Background(), "   ", nil, testProfile(), guardrails.Default(), nil)

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestGenerateMissingProfile(t *testing.T) {
	g := NewGenerator(&stubLLM{resp: fullBatch()})

	_, err := g.Generate(context.Background(), "Leadership", nil, nil, guardrails.Default(), nil)

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "voice profile")
}

func TestGenerateLLMFailure(t *testing.T) {
	g := NewGenerator(&stubLLM{err: errors.New("timeout")})

	_, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)

	var ge *errs.GenerationError
	require.ErrorAs(t, err, &ge)
}

func TestGenerateMalformedResponses(t *testing.T) {
	cases := []string{
		"",
		"no json at all",
		`{"content": "an object, not an array"}`,
		"[not valid json]",
	}
	for _, resp := range cases {
		g := NewGenerator(&stubLLM{resp: resp})
		_, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)

		var ge *errs.GenerationError
		require.ErrorAs(t, err, &ge, "resp=%q", resp)
	}
}

func TestGenerateShortBatch(t *testing.T) {
	g := NewGenerator(&stubLLM{resp: `[{"content": "only one", "tag": "Practical"}]`})

	_, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)

	var ge *errs.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Contains(t, err.Error(), "got 1")
}

func TestGenerateOversizedBatchTruncated(t *testing.T) {
	items := ""
	for i := 0; i < 7; i++ {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"content": "post %d", "tag": "Story"}`, i)
	}
	g := NewGenerator(&stubLLM{resp: "[" + items + "]"})

	posts, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, posts, BatchSize)
}

func TestGenerateNormalizesItems(t *testing.T) {
	g := NewGenerator(&stubLLM{resp: `[
		{"tag": "practical"},
		{"content": "no tag at all"},
		{"content": "weird tag", "tag": "Motivational"},
		{"id": "keep-me", "content": "has id", "tag": "Framework"},
		{"content": "fine", "tag": "Punchy"}
	]`})

	posts, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)
	require.NoError(t, err)

	assert.Equal(t, "", posts[0].Content)
	assert.Equal(t, []string{"Practical"}, posts[0].Tags) // case-folded to taxonomy spelling
	assert.Equal(t, []string{"Practical"}, posts[1].Tags)
	assert.Equal(t, []string{"Practical"}, posts[2].Tags) // unknown tag replaced
	assert.Equal(t, "keep-me", posts[3].ID)
	assert.Equal(t, []string{"Punchy"}, posts[4].Tags)
}

func TestGenerateFencedResponse(t *testing.T) {
	g := NewGenerator(&stubLLM{resp: "```json\n" + fullBatch() + "\n```"})

	posts, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, posts, BatchSize)
}

func TestGenerateExemplarsInPrompt(t *testing.T) {
	stub := &stubLLM{resp: fullBatch()}
	g := NewGenerator(stub)

	_, err := g.Generate(context.Background(), "Leadership", nil, testProfile(), guardrails.Default(),
		[]string{"A favorite post of mine."})
	require.NoError(t, err)
	assert.Contains(t, stub.lastSystem, "A favorite post of mine.")
}

func TestGenerateAudienceInPrompt(t *testing.T) {
	stub := &stubLLM{resp: fullBatch()}
	g := NewGenerator(stub)
	audience := "startup founders"

	posts, err := g.Generate(context.Background(), "Hiring", &audience, testProfile(), guardrails.Default(), nil)
	require.NoError(t, err)
	assert.Contains(t, stub.lastUser, "startup founders")
	require.NotNil(t, posts[0].Audience)
	assert.Equal(t, "startup founders", *posts[0].Audience)
}

func TestRegenerateContent(t *testing.T) {
	stub := &stubLLM{resp: "  Fresh take on leadership.\n\nAsk more questions.  "}
	g := NewGenerator(stub)
	post := &models.DraftPost{ID: "d1", Topic: "Leadership", Tags: []string{"Contrarian"}}

	content, err := g.RegenerateContent(context.Background(), post, testProfile(), guardrails.Default())
	require.NoError(t, err)

	assert.Equal(t, "Fresh take on leadership.\n\nAsk more questions.", content)
	assert.Contains(t, stub.lastUser, "Contrarian")
	assert.Contains(t, stub.lastUser, "Leadership")
}

func TestRegenerateContentEmptyResponse(t *testing.T) {
	g := NewGenerator(&stubLLM{resp: "   "})
	post := &models.DraftPost{ID: "d1", Topic: "Leadership", Tags: []string{"Story"}}

	_, err := g.RegenerateContent(context.Background(), post, testProfile(), guardrails.Default())

	var ge *errs.GenerationError
	require.ErrorAs(t, err, &ge)
}
