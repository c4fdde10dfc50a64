package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"ecoHabitsAPI/middleware"
)

func withIdentity(r *http.Request, clerkID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ClerkIDKey, clerkID)
	return r.WithContext(ctx)
}

func TestJoinChallengeRequiresAuth(t *testing.T) {
	h := NewParticipationHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges/abc/join", nil)
	rr := httptest.NewRecorder()

	h.JoinChallenge(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJoinChallengeRejectsBadID(t *testing.T) {
	h := NewParticipationHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges/not-a-uuid/join", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	req = withIdentity(req, "user_a")
	rr := httptest.NewRecorder()

	h.JoinChallenge(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProgressRejectsBadBody(t *testing.T) {
	h := NewParticipationHandler(nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/user/challenges/x", strings.NewReader("{not json"))
	req = mux.SetURLVars(req, map[string]string{"id": "8a9a2b36-5dd8-4fc4-9898-9f5d6f0a29a3"})
	req = withIdentity(req, "user_a")
	rr := httptest.NewRecorder()

	h.UpdateProgress(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaveChallengeRequiresAuth(t *testing.T) {
	h := NewParticipationHandler(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/user/challenges/x", nil)
	rr := httptest.NewRecorder()

	h.LeaveChallenge(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMyChallengesRequiresAuth(t *testing.T) {
	h := NewParticipationHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/challenges", nil)
	rr := httptest.NewRecorder()

	h.GetMyChallenges(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
