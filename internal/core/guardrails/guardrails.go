// Package guardrails holds the tunable constraints applied to every
// generation request: length band, emoji density, hashtag count, CTA
// style and tone boldness.
package guardrails

import (
	"github.com/calebowu/ghostwriter/internal/core/errs"
)

// Config is a validated value object. Treat instances as immutable once
// handed to the extractor or generator; build a new one via Merge instead
// of mutating in place.
type Config struct {
	PostLength string `json:"post_length" yaml:"post_length"`
	Emoji      string `json:"emoji" yaml:"emoji"`
	Hashtags   string `json:"hashtags" yaml:"hashtags"`
	CTA        string `json:"cta" yaml:"cta"`
	RiskFilter string `json:"risk_filter" yaml:"risk_filter"`
}

// Update carries a partial settings change; nil fields keep their
// current value.
type Update struct {
	PostLength *string `json:"post_length"`
	Emoji      *string `json:"emoji"`
	Hashtags   *string `json:"hashtags"`
	CTA        *string `json:"cta"`
	RiskFilter *string `json:"risk_filter"`
}

var (
	postLengths = map[string]string{
		"short":  "Keep posts under 150 words",
		"medium": "Posts should be 150-250 words",
		"long":   "Posts can be 250-400 words",
	}
	emojiLevels = map[string]string{
		"none":   "Do NOT use any emojis",
		"light":  "Use 1-2 emojis sparingly, only if natural",
		"normal": "Use 3-5 emojis to add visual interest",
	}
	hashtagBands = map[string]string{
		"none": "Do NOT include any hashtags",
		"1-3":  "Include 1-3 relevant hashtags at the end",
	}
	ctaStyles = map[string]string{
		"none":   "Do NOT include a call-to-action",
		"soft":   "End with a soft engagement question or thought-provoking statement",
		"direct": "End with a direct call-to-action (comment, share, follow)",
	}
	riskFilters = map[string]string{
		"conservative": "Keep opinions mainstream and non-controversial",
		"balanced":     "Share thoughtful opinions but stay professional",
		"spicy":        "Be bold, take contrarian stances, challenge conventional wisdom",
	}
)

// Default returns the settings a new profile starts with.
func Default() Config {
	return Config{
		PostLength: "medium",
		Emoji:      "light",
		Hashtags:   "1-3",
		CTA:        "soft",
		RiskFilter: "balanced",
	}
}

// Validate rejects any field outside its enum. Unknown values are an
// error, never silently coerced.
func (c Config) Validate() error {
	checks := []struct {
		field string
		value string
		valid map[string]string
	}{
		{"post_length", c.PostLength, postLengths},
		{"emoji", c.Emoji, emojiLevels},
		{"hashtags", c.Hashtags, hashtagBands},
		{"cta", c.CTA, ctaStyles},
		{"risk_filter", c.RiskFilter, riskFilters},
	}
	for _, ch := range checks {
		if _, ok := ch.valid[ch.value]; !ok {
			return errs.Validation("invalid %s value %q", ch.field, ch.value)
		}
	}
	return nil
}

// Merge applies a partial update and returns the new config. The result
// still needs Validate; Merge itself never rejects.
func (c Config) Merge(u Update) Config {
	if u.PostLength != nil {
		c.PostLength = *u.PostLength
	}
	if u.Emoji != nil {
		c.Emoji = *u.Emoji
	}
	if u.Hashtags != nil {
		c.Hashtags = *u.Hashtags
	}
	if u.CTA != nil {
		c.CTA = *u.CTA
	}
	if u.RiskFilter != nil {
		c.RiskFilter = *u.RiskFilter
	}
	return c
}

// PromptLines renders the config as instruction lines for the model.
// Values are assumed validated; an unknown value falls back to the
// default guide for its field.
func (c Config) PromptLines() []string {
	return []string{
		guide(postLengths, c.PostLength, "medium"),
		guide(emojiLevels, c.Emoji, "light"),
		guide(hashtagBands, c.Hashtags, "1-3"),
		guide(ctaStyles, c.CTA, "soft"),
		guide(riskFilters, c.RiskFilter, "balanced"),
	}
}

func guide(m map[string]string, key, fallback string) string {
	if g, ok := m[key]; ok {
		return g
	}
	return m[fallback]
}
