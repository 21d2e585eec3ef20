package services

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/core/samples"
	"github.com/calebowu/ghostwriter/internal/core/voice"
	"github.com/calebowu/ghostwriter/internal/models"
)

// ProfileService owns the authenticated voice-profile lifecycle: one
// profile per user, replaced wholesale on retraining.
type ProfileService struct {
	db        core.DbClient
	extractor *voice.Extractor
	objects   core.ObjectClient // nil disables sample archiving
	bucket    string
	log       zerolog.Logger
}

func NewProfileService(db core.DbClient, extractor *voice.Extractor, objects core.ObjectClient, bucket string, log zerolog.Logger) *ProfileService {
	return &ProfileService{db: db, extractor: extractor, objects: objects, bucket: bucket, log: log}
}

// Analyze trains (or retrains) the user's profile from pasted samples.
// Settings start from the existing profile's, overlaid with the given
// partial update. Nothing is stored unless extraction succeeds.
func (s *ProfileService) Analyze(ctx context.Context, userID, rawSamples string, upd guardrails.Update) (*models.VoiceProfile, error) {
	existing, err := s.db.GetVoiceProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := guardrails.Default()
	if existing != nil {
		settings = existing.Settings
	}
	settings = settings.Merge(upd)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	extracted, err := s.extractor.Extract(ctx, rawSamples, settings)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &models.VoiceProfile{
		ID:         uuid.NewString(),
		UserID:     userID,
		RawSamples: rawSamples,
		Extracted:  extracted,
		Settings:   settings,
		Trained:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	profile.SamplesURL = s.archiveSamples(ctx, userID, profile.ID, rawSamples)

	stored, err := s.db.UpsertVoiceProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.SamplesURL != "" && existing.SamplesURL != profile.SamplesURL {
		s.dropArchive(ctx, existing.SamplesURL)
	}
	return stored, nil
}

// AnalyzeFile trains from an uploaded document instead of pasted text.
func (s *ProfileService) AnalyzeFile(ctx context.Context, userID string, data []byte, contentType string, upd guardrails.Update) (*models.VoiceProfile, error) {
	text, err := samples.ExtractText(data, contentType)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, userID, text, upd)
}

// Get returns the user's profile, or nil when none exists yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	return s.db.GetVoiceProfileByUser(ctx, userID)
}

// UpdateSettings merges a partial guardrail change into the existing
// profile and returns the effective profile.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID string, upd guardrails.Update) (*models.VoiceProfile, error) {
	profile, err := s.db.GetVoiceProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &errs.NotFoundError{Resource: "voice profile"}
	}

	settings := profile.Settings.Merge(upd)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	profile.Settings = settings
	profile.UpdatedAt = time.Now().UTC()
	return s.db.UpsertVoiceProfile(ctx, profile)
}

// archiveSamples keeps the original pasted text in object storage. Best
// effort: an archive failure must not fail training.
func (s *ProfileService) archiveSamples(ctx context.Context, userID, profileID, rawSamples string) string {
	if s.objects == nil {
		return ""
	}
	key := userID + "/" + profileID + "/samples.txt"
	url, err := s.objects.UploadFile(ctx, s.bucket, key, bytes.NewReader([]byte(rawSamples)), "text/plain; charset=utf-8")
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("sample archive upload failed")
		return ""
	}
	return url
}

// dropArchive removes a superseded sample archive. Best effort: an
// orphaned object is not worth failing a retrain over.
func (s *ProfileService) dropArchive(ctx context.Context, samplesURL string) {
	if s.objects == nil {
		return
	}
	parsed, err := url.Parse(samplesURL)
	if err != nil || parsed.Path == "" {
		s.log.Warn().Str("url", samplesURL).Msg("unparseable archive url; leaving object behind")
		return
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if err := s.objects.DeleteFile(ctx, s.bucket, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("stale archive delete failed")
	}
}
