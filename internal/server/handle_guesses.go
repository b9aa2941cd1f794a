package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/powderparty/skigame/internal/skigame"
)

type Guess struct {
	TargetPlayerID string `json:"targetPlayerId"`
	Text           string `json:"text"`
}

type SubmitGuessesRequest struct {
	PlayerID string  `json:"playerId"`
	Guesses  []Guess `json:"guesses"`
}

type ScoreItem struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

func handleSubmitGuesses(logger *slog.Logger, store Store, board *LeaderboardCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req SubmitGuessesRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}

		if _, err := store.Session(r.Context(), sessionID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		players, err := store.ListPlayers(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		byID := make(map[string]PlayerRecord, len(players))
		for _, p := range players {
			byID[p.ID] = p
		}

		// Guesses are processed independently; an unknown guesser or target
		// or a non-matching shape skips that guess, never the batch.
		if _, ok := byID[req.PlayerID]; !ok {
			writeJSON(w, http.StatusOK, StatusResponse{Status: "guesses_processed"})
			return
		}
		for _, g := range req.Guesses {
			target, ok := byID[g.TargetPlayerID]
			if !ok || !matchesChallenge(target.Challenges, g.Text) {
				continue
			}

			if err := store.AddScore(r.Context(), sessionID, req.PlayerID, skigame.GuesserReward); err != nil {
				logger.Error("awarding guesser failed", "player", req.PlayerID, "error", err)
				continue
			}
			board.Add(r.Context(), sessionID, req.PlayerID, skigame.GuesserReward)

			if err := store.AddScore(r.Context(), sessionID, g.TargetPlayerID, skigame.TargetReward); err != nil {
				logger.Error("awarding target failed", "player", g.TargetPlayerID, "error", err)
				continue
			}
			board.Add(r.Context(), sessionID, g.TargetPlayerID, skigame.TargetReward)
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: "guesses_processed"})
	}
}

// matchesChallenge reports whether text names any assigned shape,
// case-insensitively. No fuzzy matching.
func matchesChallenge(challenges []skigame.Challenge, text string) bool {
	for _, c := range challenges {
		if strings.EqualFold(c.Shape, text) {
			return true
		}
	}
	return false
}

func handleScore(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if _, err := store.Session(r.Context(), sessionID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		records, err := store.Leaderboard(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := []ScoreItem{}
		for _, rec := range records {
			items = append(items, ScoreItem{
				PlayerID:   rec.PlayerID,
				PlayerName: rec.PlayerName,
				Score:      rec.Score,
			})
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func handleChallenges(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if _, err := store.Session(r.Context(), sessionID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		players, err := store.ListPlayers(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		challenges := map[string][]skigame.Challenge{}
		for _, p := range players {
			if p.Challenges == nil {
				p.Challenges = []skigame.Challenge{}
			}
			challenges[p.ID] = p.Challenges
		}

		writeJSON(w, http.StatusOK, challenges)
	}
}
