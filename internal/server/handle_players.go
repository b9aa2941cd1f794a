package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powderparty/skigame/internal/namegen"
	"github.com/powderparty/skigame/internal/skigame"
)

type JoinSessionResponse struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type LeaveSessionRequest struct {
	PlayerID string `json:"playerId"`
}

// StatusResponse acknowledges an operation with no other payload.
type StatusResponse struct {
	Status string `json:"status"`
}

func handleJoin(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		player := skigame.Player{
			ID:        namegen.NewID(),
			SessionID: sessionID,
			Name:      namegen.FunName(),
		}

		err := store.AddPlayer(r.Context(), player)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, JoinSessionResponse{
			PlayerID:   player.ID,
			PlayerName: player.Name,
		})
	}
}

func handleLeave(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req LeaveSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}

		err := store.RemovePlayer(r.Context(), sessionID, req.PlayerID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found in session")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: "left"})
	}
}
