package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ecoHabitsAPI/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats handles GET /stats. Public, no auth.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	platformStats, err := h.statsService.ComputeStats(ctx)
	if err != nil {
		log.Printf("GetStats Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Could not compute platform stats")
		return
	}

	respondWithJSON(w, http.StatusOK, platformStats)
}
