package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebowu/ghostwriter/internal/core/errs"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", errs.Validation("bad settings"), http.StatusBadRequest},
		{"authz", &errs.AuthzError{Msg: "not yours"}, http.StatusForbidden},
		{"not found", &errs.NotFoundError{Resource: "draft post"}, http.StatusNotFound},
		{"rate limit", &errs.RateLimitError{Action: "sign up"}, http.StatusTooManyRequests},
		{"extraction", &errs.ExtractionError{Err: errors.New("model down")}, http.StatusBadGateway},
		{"generation", &errs.GenerationError{Err: errors.New("model down")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondErrorRateLimitBody(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, &errs.RateLimitError{Remaining: 0, Action: "sign up for unlimited training"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["remaining"])
	assert.Equal(t, "sign up for unlimited training", body["action"])
	assert.NotEmpty(t, body["error"])
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: connection refused"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
}

func TestRespondErrorWrappedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.Join(errors.New("context"), &errs.NotFoundError{Resource: "voice profile"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
