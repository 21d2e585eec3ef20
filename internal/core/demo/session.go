// Package demo runs the unauthenticated trial path: an attempt-capped,
// in-memory session around the extractor and generator. Nothing a demo
// session produces ever reaches persistent storage.
package demo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/generator"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/core/voice"
	"github.com/calebowu/ghostwriter/internal/models"
)

// upgradeAction rides on rate-limit errors so the UI can offer the way
// out instead of a dead end.
const upgradeAction = "sign up for unlimited training"

// session is one demo context. Fields behind mu: profile, settings,
// attemptsRemaining, lastSeen.
type session struct {
	mu sync.Mutex

	id       string
	clientID string

	profile           models.VoiceProfile
	settings          guardrails.Config
	attemptsRemaining int
	lastSeen          time.Time
}

// State is the caller-facing snapshot of a session.
type State struct {
	SessionID string              `json:"session_id"`
	ClientID  string              `json:"client_id"`
	Profile   models.VoiceProfile `json:"profile"`
	Remaining int                 `json:"remaining"`
	OwnerMode bool                `json:"owner_mode"`
}

// Options configures a Manager.
type Options struct {
	AttemptCap  int
	OwnerPhrase string        // empty disables owner mode entirely
	OwnerTTL    time.Duration // grant lifetime, 30 days in production
	IdleTTL     time.Duration // sessions idle longer than this are swept
}

// Manager owns all demo sessions plus the owner-mode grants. Grants are
// keyed by client id and deliberately live outside the session map so
// they survive reset and exit.
type Manager struct {
	extractor *voice.Extractor
	gen       *generator.Generator
	sample    models.VoiceProfile
	opts      Options
	log       zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	grants   map[string]time.Time // clientID -> expiry

	now func() time.Time
}

func NewManager(extractor *voice.Extractor, gen *generator.Generator, opts Options, log zerolog.Logger) (*Manager, error) {
	sample, err := voice.LoadSampleProfile()
	if err != nil {
		return nil, err
	}
	if opts.AttemptCap <= 0 {
		opts.AttemptCap = 3
	}
	if opts.OwnerTTL <= 0 {
		opts.OwnerTTL = 30 * 24 * time.Hour
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	return &Manager{
		extractor: extractor,
		gen:       gen,
		sample:    sample,
		opts:      opts,
		log:       log,
		sessions:  map[string]*session{},
		grants:    map[string]time.Time{},
		now:       time.Now,
	}, nil
}

// SampleProfile returns the built-in untrained profile.
func (m *Manager) SampleProfile() models.VoiceProfile { return m.sample }

// Enter creates a session seeded with the sample profile and a fresh
// attempt budget. A returning client passes its client id back so an
// earlier owner-mode grant still applies.
func (m *Manager) Enter(clientID string) State {
	if clientID == "" {
		clientID = uuid.NewString()
	}
	s := &session{
		id:                uuid.NewString(),
		clientID:          clientID,
		profile:           m.sample,
		settings:          guardrails.Default(),
		attemptsRemaining: m.opts.AttemptCap,
		lastSeen:          m.now(),
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.log.Info().Str("session_id", s.id).Msg("demo session opened")
	return m.snapshot(s)
}

// AttemptTraining trains a demo profile from raw samples. The whole
// check-extract-decrement sequence holds the session mutex so two
// concurrent attempts cannot both slip past the cap.
func (m *Manager) AttemptTraining(ctx context.Context, sessionID, rawSamples string, upd guardrails.Update) (State, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return State{}, err
	}

	// Grant check happens before taking the session lock; Sweep holds the
	// manager lock while touching sessions, so the session lock must never
	// wait on the manager lock.
	owner := m.ownerActive(s.clientID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.now()

	if s.attemptsRemaining <= 0 && !owner {
		return State{}, &errs.RateLimitError{Remaining: 0, Action: upgradeAction}
	}

	settings := s.settings.Merge(upd)
	if err := settings.Validate(); err != nil {
		return State{}, err
	}

	extracted, err := m.extractor.Extract(ctx, rawSamples, settings)
	if err != nil {
		// Failed attempts are free; only successful training burns budget.
		return State{}, err
	}

	now := m.now().UTC()
	s.settings = settings
	s.profile = models.VoiceProfile{
		ID:         "demo-" + uuid.NewString(),
		RawSamples: rawSamples,
		Extracted:  extracted,
		Settings:   settings,
		Trained:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if !owner && s.attemptsRemaining > 0 {
		s.attemptsRemaining--
	}
	return m.snapshotLocked(s, owner), nil
}

// Generate renders a demo batch against the session's current profile.
// The posts are returned, never stored.
func (m *Manager) Generate(ctx context.Context, sessionID, topic string, audience *string) ([]models.DraftPost, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	profile := s.profile
	settings := s.settings
	s.lastSeen = m.now()
	s.mu.Unlock()

	posts, err := m.gen.Generate(ctx, topic, audience, &profile, settings, nil)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].UserID = "demo"
	}
	return posts, nil
}

// State reports the session snapshot without mutating anything.
func (m *Manager) State(sessionID string) (State, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return State{}, err
	}
	return m.snapshot(s), nil
}

// ActivateOwnerMode compares the submitted phrase (trimmed,
// case-insensitive) against the configured secret. A match grants an
// unlimited-use override tied to the client id, expiring after OwnerTTL.
func (m *Manager) ActivateOwnerMode(clientID, phrase string) (bool, time.Time) {
	if m.opts.OwnerPhrase == "" || clientID == "" {
		return false, time.Time{}
	}
	if !strings.EqualFold(strings.TrimSpace(phrase), m.opts.OwnerPhrase) {
		return false, time.Time{}
	}

	expiry := m.now().Add(m.opts.OwnerTTL)
	m.mu.Lock()
	m.grants[clientID] = expiry
	m.mu.Unlock()

	m.log.Info().Str("client_id", clientID).Time("expires_at", expiry).Msg("owner mode activated")
	return true, expiry
}

// Reset clears everything session-scoped: trained profile, settings and
// the attempt budget all return to their initial values. The owner-mode
// grant is untouched. Safe and idempotent, including for unknown ids.
func (m *Manager) Reset(sessionID string) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.profile = m.sample
	s.settings = guardrails.Default()
	s.attemptsRemaining = m.opts.AttemptCap
	s.lastSeen = m.now()
	s.mu.Unlock()
}

// Exit tears the session down. Idempotent; grants survive.
func (m *Manager) Exit(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Sweep evicts idle sessions and expired grants. Run periodically.
func (m *Manager) Sweep() {
	now := m.now()
	cutoff := now.Add(-m.opts.IdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
		}
	}
	for clientID, expiry := range m.grants {
		if expiry.Before(now) {
			delete(m.grants, clientID)
		}
	}
}

func (m *Manager) lookup(sessionID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, &errs.NotFoundError{Resource: "demo session"}
	}
	return s, nil
}

func (m *Manager) ownerActive(clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.grants[clientID]
	return ok && expiry.After(m.now())
}

func (m *Manager) snapshot(s *session) State {
	owner := m.ownerActive(s.clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.snapshotLocked(s, owner)
}

func (m *Manager) snapshotLocked(s *session, owner bool) State {
	return State{
		SessionID: s.id,
		ClientID:  s.clientID,
		Profile:   s.profile,
		Remaining: s.attemptsRemaining,
		OwnerMode: owner,
	}
}
