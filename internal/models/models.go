package models

import (
	"time"

	"github.com/calebowu/ghostwriter/internal/core/guardrails"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ExtractedProfile is the structured decomposition of a writer's style.
// Every facet is already normalized to a display-safe value; facets the
// analysis yielded no signal for hold "not specified" (or an empty list).
type ExtractedProfile struct {
	Tone      string   `json:"tone"`
	Structure string   `json:"structure"`
	HookStyle string   `json:"hook_style"`
	CTAStyle  string   `json:"cta_style"`
	Themes    []string `json:"themes"`
	Dos       []string `json:"dos"`
	Donts     []string `json:"donts"`
	Summary   string   `json:"summary"`
}

// VoiceProfile ties a user's submitted samples to the style extracted
// from them plus the guardrail settings used for generation. One profile
// per user; retraining replaces it wholesale.
type VoiceProfile struct {
	ID         string            `db:"id" json:"id"`
	UserID     string            `db:"user_id" json:"user_id"`
	RawSamples string            `db:"raw_samples" json:"raw_samples"`
	Extracted  ExtractedProfile  `db:"extracted_profile" json:"extracted_profile"`
	Settings   guardrails.Config `db:"settings" json:"settings"`
	SamplesURL string            `db:"samples_url" json:"samples_url,omitempty"` // archived copy in object storage
	Trained    bool              `db:"trained" json:"trained"`                   // false for the built-in sample profile
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// DraftPost is one generated post variant.
type DraftPost struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Topic      string    `db:"topic" json:"topic"`
	Audience   *string   `db:"audience" json:"audience"`
	Content    string    `db:"content" json:"content"`
	Tags       []string  `db:"tags" json:"tags"`
	IsFavorite bool      `db:"is_favorite" json:"is_favorite"`
	Embedding  []float32 `db:"embedding" json:"-"` // pgvector column, used for exemplar search
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
