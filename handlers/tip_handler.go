package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ecoHabitsAPI/internal/tip"
	"ecoHabitsAPI/middleware"
	"ecoHabitsAPI/services"
)

type TipHandler struct {
	tipService *services.TipService
}

func NewTipHandler(tipService *services.TipService) *TipHandler {
	return &TipHandler{
		tipService: tipService,
	}
}

func (h *TipHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tips, err := h.tipService.List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		log.Printf("ListTips Handler: Service error: %v", err)
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tips)
}

func (h *TipHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := middleware.GetClerkID(ctx); !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req tip.CreateTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.tipService.Create(ctx, &req)
	if err != nil {
		log.Printf("CreateTip Handler: Service error: %v", err)
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, t)
}
