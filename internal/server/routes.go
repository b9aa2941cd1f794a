package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB, rdb *redis.Client) {
	board := NewLeaderboardCache(rdb, logger)

	r.Get("/", handleIndex())
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("SkiGame API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))
	r.Get("/ws/echo", handleWSEcho(logger))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", handleCreateSession(logger, store))
		r.Get("/resolve/{joinCode}", handleResolveJoinCode(store))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handleSessionStatus(store))
			r.Patch("/", handleUpdateSession(store))
			r.Post("/join", handleJoin(store))
			r.Post("/leave", handleLeave(store))
			r.Post("/start", handleStart(store))
			r.Post("/end", handleEnd(store))
			r.Post("/tracks", handleSubmitTrack(store))
			r.Get("/tracks", handleListTracks(store))
			r.Get("/challenges", handleChallenges(store))
			r.Post("/guesses", handleSubmitGuesses(logger, store, board))
			r.Get("/score", handleScore(store))
		})
	})
}

func handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "SkiGame API",
			"docs":    "/docs",
		})
	}
}
