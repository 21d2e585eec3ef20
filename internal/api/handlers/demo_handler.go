package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/calebowu/ghostwriter/internal/core/demo"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/models"
)

// DemoHandler exposes the unauthenticated try-it-out flow: a shared
// sample voice, a small training budget per session, and the hidden
// owner unlock.
type DemoHandler struct {
	demo *demo.Manager
}

func NewDemoHandler(mgr *demo.Manager) *DemoHandler {
	return &DemoHandler{demo: mgr}
}

type enterRequest struct {
	ClientID string `json:"client_id"`
}

type demoAnalyzeRequest struct {
	Samples  string            `json:"samples"`
	Settings guardrails.Update `json:"settings"`
}

type ownerModeRequest struct {
	Phrase string `json:"phrase"`
}

// SampleProfile returns the canned profile every session starts from.
func (h *DemoHandler) SampleProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.demo.SampleProfile())
}

// Enter opens a session. Returning clients pass their client_id back so
// an earlier owner unlock still applies.
func (h *DemoHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req enterRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
	}
	respondJSON(w, http.StatusCreated, h.demo.Enter(req.ClientID))
}

// AnalyzeVoice spends one training attempt on the session.
func (h *DemoHandler) AnalyzeVoice(w http.ResponseWriter, r *http.Request) {
	var req demoAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	state, err := h.demo.AttemptTraining(r.Context(), chi.URLParam(r, "session_id"), req.Samples, req.Settings)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Generate renders a draft batch against the session's current profile.
// Nothing is persisted.
func (h *DemoHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	posts, err := h.demo.Generate(r.Context(), chi.URLParam(r, "session_id"), req.Topic, req.Audience)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]models.DraftPost{"posts": posts})
}

// Attempts reports the remaining training budget and owner state.
func (h *DemoHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	state, err := h.demo.State(chi.URLParam(r, "session_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// OwnerMode checks the unlock phrase. A wrong phrase is indistinguishable
// from a disabled feature.
func (h *DemoHandler) OwnerMode(w http.ResponseWriter, r *http.Request) {
	var req ownerModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	state, err := h.demo.State(chi.URLParam(r, "session_id"))
	if err != nil {
		respondError(w, err)
		return
	}

	ok, expiresAt := h.demo.ActivateOwnerMode(state.ClientID, req.Phrase)
	resp := map[string]any{"owner_mode": ok}
	if ok {
		resp["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Reset restores the sample profile and the full training budget.
func (h *DemoHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	h.demo.Reset(sessionID)
	state, err := h.demo.State(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Exit discards the session. Idempotent.
func (h *DemoHandler) Exit(w http.ResponseWriter, r *http.Request) {
	h.demo.Exit(chi.URLParam(r, "session_id"))
	w.WriteHeader(http.StatusNoContent)
}
