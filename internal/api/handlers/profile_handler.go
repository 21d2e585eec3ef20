package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	middleware "github.com/calebowu/ghostwriter/internal/api/middlewares"
	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/services"
)

// maxUploadBytes caps writing-sample uploads at 10 MB.
const maxUploadBytes = 10 << 20

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type analyzeRequest struct {
	Samples  string            `json:"samples"`
	Settings guardrails.Update `json:"settings"`
}

// Analyze trains the caller's voice profile from pasted writing samples.
func (h *ProfileHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Analyze(r.Context(), middleware.UserID(r.Context()), req.Samples, req.Settings)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// AnalyzeFile trains from an uploaded document (pdf, docx, txt).
func (h *ProfileHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, err)
		return
	}

	var upd guardrails.Update
	if raw := r.FormValue("settings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upd); err != nil {
			http.Error(w, "invalid settings json", http.StatusBadRequest)
			return
		}
	}

	profile, err := h.profiles.AnalyzeFile(r.Context(), middleware.UserID(r.Context()), data, header.Header.Get("Content-Type"), upd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Get returns the caller's profile, or a JSON null before training.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateSettings merges a partial guardrail change into the profile.
func (h *ProfileHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var upd guardrails.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.UpdateSettings(r.Context(), middleware.UserID(r.Context()), upd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
