package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powderparty/skigame/internal/namegen"
	"github.com/powderparty/skigame/internal/skigame"
)

type StartSessionRequest struct {
	Mode string `json:"mode"`
}

type StartSessionResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

func handleStart(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req StartSessionRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var mode skigame.Mode
		if req.Mode != "" {
			mode = skigame.Mode(req.Mode)
			if !mode.Valid() {
				writeError(w, http.StatusBadRequest, "mode must be drawing or conquer")
				return
			}
		}

		sess, err := store.UpdateSession(r.Context(), sessionID, mode, skigame.PhaseStarted)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Drawing mode deals every current player one random shape,
		// overwriting any earlier assignment. Players joining after this
		// point get nothing until the next start.
		if sess.Mode == skigame.ModeDrawing {
			players, err := store.ListPlayers(r.Context(), sessionID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			assignments := make(map[string][]skigame.Challenge, len(players))
			for _, p := range players {
				assignments[p.ID] = []skigame.Challenge{namegen.Challenge()}
			}
			if err := store.SetChallenges(r.Context(), sessionID, assignments); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, StartSessionResponse{
			Status: string(sess.Phase),
			Mode:   string(sess.Mode),
		})
	}
}

func handleEnd(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		sess, err := store.UpdateSession(r.Context(), sessionID, "", skigame.PhaseFinished)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: string(sess.Phase)})
	}
}
