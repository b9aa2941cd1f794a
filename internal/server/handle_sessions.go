package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powderparty/skigame/internal/namegen"
	"github.com/powderparty/skigame/internal/skigame"
)

// joinCodeAttempts bounds regeneration when a generated code collides with
// an existing session.
const joinCodeAttempts = 8

type CreateSessionRequest struct {
	Mode string `json:"mode"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	JoinCode  string `json:"joinCode"`
}

type ResolveJoinCodeResponse struct {
	SessionID string `json:"sessionId"`
}

// PlayerSummary is one entry in the session status player list.
type PlayerSummary struct {
	PlayerID          string `json:"playerId"`
	PlayerName        string `json:"playerName"`
	Score             int    `json:"score"`
	HasSubmittedTrack bool   `json:"hasSubmittedTrack"`
}

type SessionStatusResponse struct {
	SessionID    string          `json:"sessionId"`
	JoinCode     string          `json:"joinCode"`
	HostPlayerID string          `json:"hostPlayerId"`
	Phase        string          `json:"phase"`
	Mode         string          `json:"mode"`
	Players      []PlayerSummary `json:"players"`
}

type UpdateSessionRequest struct {
	Mode  *string `json:"mode"`
	Phase *string `json:"phase"`
}

type UpdateSessionResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

func handleCreateSession(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := skigame.ModeDrawing
		if req.Mode != "" {
			mode = skigame.Mode(req.Mode)
			if !mode.Valid() {
				writeError(w, http.StatusBadRequest, "mode must be drawing or conquer")
				return
			}
		}

		id := namegen.NewID()
		for attempt := 0; attempt < joinCodeAttempts; attempt++ {
			code := namegen.JoinCode()
			err := store.CreateSession(r.Context(), id, code, mode)
			if errors.Is(err, ErrConflict) {
				logger.Warn("join code collision, regenerating", "code", code)
				continue
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusCreated, CreateSessionResponse{
				SessionID: id,
				JoinCode:  code,
			})
			return
		}

		logger.Error("exhausted join code attempts", "attempts", joinCodeAttempts)
		writeError(w, http.StatusInternalServerError, "could not allocate join code")
	}
}

func handleResolveJoinCode(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "joinCode")

		id, err := store.SessionIDByJoinCode(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, ResolveJoinCodeResponse{SessionID: id})
	}
}

func handleSessionStatus(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")

		sess, err := store.Session(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		players, err := store.ListPlayers(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := SessionStatusResponse{
			SessionID:    sess.ID,
			JoinCode:     sess.JoinCode,
			HostPlayerID: sess.HostPlayerID,
			Phase:        string(sess.Phase),
			Mode:         string(sess.Mode),
			Players:      []PlayerSummary{},
		}
		for _, p := range players {
			resp.Players = append(resp.Players, PlayerSummary{
				PlayerID:          p.ID,
				PlayerName:        p.Name,
				Score:             p.Score,
				HasSubmittedTrack: p.HasTrack,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleUpdateSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")

		var req UpdateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var mode skigame.Mode
		if req.Mode != nil {
			mode = skigame.Mode(*req.Mode)
			if !mode.Valid() {
				writeError(w, http.StatusBadRequest, "mode must be drawing or conquer")
				return
			}
		}

		var phase skigame.Phase
		if req.Phase != nil {
			phase = skigame.Phase(*req.Phase)
			if !phase.Valid() {
				writeError(w, http.StatusBadRequest, "phase must be lobby, started, guessing, or finished")
				return
			}
		}

		sess, err := store.Session(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if phase != "" && phase != sess.Phase && !sess.Phase.CanAdvanceTo(phase) {
			writeError(w, http.StatusConflict, "invalid phase transition")
			return
		}

		sess, err = store.UpdateSession(r.Context(), id, mode, phase)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, UpdateSessionResponse{
			Status: string(sess.Phase),
			Mode:   string(sess.Mode),
		})
	}
}
