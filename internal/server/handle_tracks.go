package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powderparty/skigame/internal/skigame"
)

type SubmitTrackRequest struct {
	PlayerID    string          `json:"playerId"`
	Coordinates json.RawMessage `json:"coordinates"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
}

type TrackItem struct {
	PlayerID    string          `json:"playerId"`
	PlayerName  string          `json:"playerName"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func handleSubmitTrack(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req SubmitTrackRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}
		if len(req.Coordinates) == 0 {
			writeError(w, http.StatusBadRequest, "coordinates are required")
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

		// No coordinate-shape or timestamp validation here: tracks are
		// stored as submitted until shape matching lands.
		err := store.UpsertTrack(r.Context(), sessionID, skigame.Track{
			PlayerID:    req.PlayerID,
			Coordinates: req.Coordinates,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		})
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found in session")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: "track_received"})
	}
}

func handleListTracks(store Store) http.HandlerFunc {
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

		tracks, err := store.ListTracks(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items := []TrackItem{}
		for _, t := range tracks {
			items = append(items, TrackItem{
				PlayerID:    t.PlayerID,
				PlayerName:  t.PlayerName,
				Coordinates: t.Coordinates,
			})
		}

		writeJSON(w, http.StatusOK, items)
	}
}
