package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ecoHabitsAPI/internal/enrollment"
	"ecoHabitsAPI/middleware"
	"ecoHabitsAPI/services"
)

type ParticipationHandler struct {
	participationService *services.ParticipationService
}

func NewParticipationHandler(participationService *services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{
		participationService: participationService,
	}
}

// JoinChallenge handles POST /challenges/{id}/join. Responds 201 for a new
// enrollment and 200 when the caller had already joined.
func (h *ParticipationHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	challengeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge id")
		return
	}

	enr, created, err := h.participationService.Join(ctx, challengeID, clerkID)
	if err != nil {
		log.Printf("JoinChallenge Handler: Service error: %v", err)
		middleware.CountJoin("error")
		respondWithServiceError(w, err)
		return
	}

	if created {
		middleware.CountJoin("created")
		respondWithJSON(w, http.StatusCreated, enr)
		return
	}

	middleware.CountJoin("existing")
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":    "Already joined this challenge",
		"enrollment": enr,
	})
}

// GetMyChallenges handles GET /user/challenges.
func (h *ParticipationHandler) GetMyChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	enrollments, err := h.participationService.ListMine(ctx, clerkID)
	if err != nil {
		log.Printf("GetMyChallenges Handler: Service error: %v", err)
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, enrollments)
}

// GetMyChallenge handles GET /user/challenges/{id}.
func (h *ParticipationHandler) GetMyChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	enrollmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid enrollment id")
		return
	}

	enr, err := h.participationService.Get(ctx, enrollmentID, clerkID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, enr)
}

// UpdateProgress handles PATCH /user/challenges/{id}.
func (h *ParticipationHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	enrollmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid enrollment id")
		return
	}

	var req enrollment.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enr, err := h.participationService.UpdateProgress(ctx, enrollmentID, clerkID, &req)
	if err != nil {
		log.Printf("UpdateProgress Handler: Service error: %v", err)
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, enr)
}

// LeaveChallenge handles DELETE /user/challenges/{id}.
func (h *ParticipationHandler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	enrollmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid enrollment id")
		return
	}

	if err := h.participationService.Leave(ctx, enrollmentID, clerkID); err != nil {
		log.Printf("LeaveChallenge Handler: Service error: %v", err)
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Left challenge successfully"})
}
