package voice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
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

func longSamples() string {
	return strings.Repeat("Leadership is about asking better questions, not having answers. ", 5)
}

func TestExtractRejectsShortSamples(t *testing.T) {
	e := NewExtractor(&stubLLM{resp: "{}"})

	_, err := e.Extract(context.Background(), "too short", guardrails.Default())

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "200")
}

func TestExtractCountsRunesNotBytes(t *testing.T) {
	e := NewExtractor(&stubLLM{resp: "{}"})

	// 100 runes but 300 bytes; still far below the minimum
	short := strings.Repeat("领导力", 34)[:300]
	require.Equal(t, 100, len([]rune(short)))

	_, err := e.Extract(context.Background(), short, guardrails.Default())

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)

	// exactly 200 runes clears the bar regardless of byte length
	stub := &stubLLM{resp: `{"tone": "direct"}`}
	e = NewExtractor(stub)
	_, err = e.Extract(context.Background(), strings.Repeat("领", MinSampleLength), guardrails.Default())
	require.NoError(t, err)
}

func TestExtractRejectsInvalidSettings(t *testing.T) {
	e := NewExtractor(&stubLLM{resp: "{}"})
	bad := guardrails.Default()
	bad.Emoji = "maximal"

	_, err := e.Extract(context.Background(), longSamples(), bad)

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestExtractCleanResponse(t *testing.T) {
	stub := &stubLLM{resp: `{
		"tone": "direct",
		"structure": "short paragraphs",
		"hook_style": "bold statement",
		"cta_style": "soft",
		"themes": ["leadership", "growth"],
		"dos": ["use line breaks"],
		"donts": ["no jargon"],
		"summary": "direct and punchy"
	}`}
	e := NewExtractor(stub)

	p, err := e.Extract(context.Background(), longSamples(), guardrails.Default())
	require.NoError(t, err)

	assert.Equal(t, "direct", p.Tone)
	assert.Equal(t, []string{"leadership", "growth"}, p.Themes)
	assert.Equal(t, []string{"no jargon"}, p.Donts)
	assert.Equal(t, "direct and punchy", p.Summary)
	assert.Contains(t, stub.lastUser, "writing style")
}

func TestExtractFencedResponse(t *testing.T) {
	e := NewExtractor(&stubLLM{resp: "```json\n{\"tone\":\"casual\"}\n```"})

	p, err := e.Extract(context.Background(), longSamples(), guardrails.Default())
	require.NoError(t, err)
	assert.Equal(t, "casual", p.Tone)
}

func TestExtractProseWrappedResponse(t *testing.T) {
	e := NewExtractor(&stubLLM{resp: "Here is the analysis you asked for:\n{\"tone\":\"warm\"}\nHope that helps!"})

	p, err := e.Extract(context.Background(), longSamples(), guardrails.Default())
	require.NoError(t, err)
	assert.Equal(t, "warm", p.Tone)
}

func TestExtractHeterogeneousShapes(t *testing.T) {
	// Every facet in a shape it should not be in.
	e := NewExtractor(&stubLLM{resp: `{
		"tone": ["direct", "confident"],
		"structure": {"openers": "bold", "paragraphs": "short"},
		"themes": "leadership",
		"dos": {"formatting": "use line breaks", "voice": ["be direct", "be brief"]},
		"donts": [{"style": "no jargon"}]
	}`})

	p, err := e.Extract(context.Background(), longSamples(), guardrails.Default())
	require.NoError(t, err)

	assert.Equal(t, "direct, confident", p.Tone)
	assert.Equal(t, "bold; short", p.Structure)
	assert.Equal(t, []string{"leadership"}, p.Themes)
	assert.Equal(t, []string{"use line breaks", "be direct, be brief"}, p.Dos)
	assert.Equal(t, []string{"no jargon"}, p.Donts)
}

func TestExtractMissingFacetsBecomeNotSpecified(t *testing.T) {
	e := NewExtractor(&stubLLM{resp: `{"tone":"direct"}`})

	p, err := e.Extract(context.Background(), longSamples(), guardrails.Default())
	require.NoError(t, err)

	assert.Equal(t, "direct", p.Tone)
	assert.Equal(t, "not specified", p.Structure)
	assert.Equal(t, "not specified", p.HookStyle)
	assert.Equal(t, "not specified", p.CTAStyle)
	assert.Empty(t, p.Themes)
}

func TestExtractLLMFailure(t *testing.T) {
	e := NewExtractor(&stubLLM{err: errors.New("deadline exceeded")})

	_, err := e.Extract(context.Background(), longSamples(), guardrails.Default())

	var ee *errs.ExtractionError
	require.ErrorAs(t, err, &ee)
}

func TestExtractMalformedResponse(t *testing.T) {
	for _, resp := range []string{"", "no json here", "{broken", "[1,2,3]"} {
		e := NewExtractor(&stubLLM{resp: resp})
		_, err := e.Extract(context.Background(), longSamples(), guardrails.Default())

		var ee *errs.ExtractionError
		require.ErrorAs(t, err, &ee, "resp=%q", resp)
	}
}

func TestLoadSampleProfile(t *testing.T) {
	p, err := LoadSampleProfile()
	require.NoError(t, err)

	assert.False(t, p.Trained)
	assert.GreaterOrEqual(t, len(p.RawSamples), MinSampleLength)
	assert.NotEmpty(t, p.Extracted.Tone)
	assert.NotEmpty(t, p.Extracted.Themes)
	assert.NoError(t, p.Settings.Validate())
}
