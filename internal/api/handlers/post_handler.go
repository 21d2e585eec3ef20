package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/calebowu/ghostwriter/internal/api/middlewares"
	"github.com/calebowu/ghostwriter/internal/models"
	"github.com/calebowu/ghostwriter/internal/services"
)

type PostHandler struct {
	drafts *services.DraftService
}

func NewPostHandler(drafts *services.DraftService) *PostHandler {
	return &PostHandler{drafts: drafts}
}

type generateRequest struct {
	Topic    string  `json:"topic"`
	Audience *string `json:"audience"`
}

type updatePostRequest struct {
	Content    *string `json:"content"`
	IsFavorite *bool   `json:"is_favorite"`
}

// Generate produces a batch of drafts in the caller's voice and
// persists them.
func (h *PostHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	posts, err := h.drafts.Generate(r.Context(), middleware.UserID(r.Context()), req.Topic, req.Audience)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string][]models.DraftPost{"posts": posts})
}

// List returns the caller's drafts, optionally favorites only.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	favoritesOnly := r.URL.Query().Get("favorites_only") == "true"
	posts, err := h.drafts.List(r.Context(), middleware.UserID(r.Context()), favoritesOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.DraftPost{}
	}
	respondJSON(w, http.StatusOK, map[string][]models.DraftPost{"posts": posts})
}

// Update edits a draft's content and/or favorite flag.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	post, err := h.drafts.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "post_id"), req.Content, req.IsFavorite)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "post_id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Regenerate rewrites one draft in place, keeping its angle and topic.
func (h *PostHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	post, err := h.drafts.Regenerate(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "post_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}
