package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/powderparty/skigame/internal/skigame"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// PlayerRecord is a player row plus whether a track has been submitted.
type PlayerRecord struct {
	skigame.Player
	HasTrack bool
}

type TrackRecord struct {
	PlayerID    string
	PlayerName  string
	Coordinates json.RawMessage
}

type ScoreRecord struct {
	PlayerID   string
	PlayerName string
	Score      int
}

type Store interface {
	// CreateSession returns ErrConflict when joinCode is already taken.
	CreateSession(ctx context.Context, id, joinCode string, mode skigame.Mode) error
	SessionIDByJoinCode(ctx context.Context, code string) (string, error)
	Session(ctx context.Context, id string) (skigame.Session, error)
	// UpdateSession applies the non-empty fields and returns the result.
	UpdateSession(ctx context.Context, id string, mode skigame.Mode, phase skigame.Phase) (skigame.Session, error)

	// AddPlayer creates the player and makes it host if the session has none.
	AddPlayer(ctx context.Context, p skigame.Player) error
	// RemovePlayer deletes the player (and, via cascade, its track) and
	// reassigns the host to the earliest surviving player if the host left.
	RemovePlayer(ctx context.Context, sessionID, playerID string) error
	// ListPlayers returns the session's players in join order.
	ListPlayers(ctx context.Context, sessionID string) ([]PlayerRecord, error)

	// SetChallenges overwrites the challenge assignments for the given players.
	SetChallenges(ctx context.Context, sessionID string, assignments map[string][]skigame.Challenge) error
	// AddScore atomically increments a player's score.
	AddScore(ctx context.Context, sessionID, playerID string, points int) error
	// Leaderboard returns players ordered by score descending, ties broken
	// by join order.
	Leaderboard(ctx context.Context, sessionID string) ([]ScoreRecord, error)

	// UpsertTrack creates or overwrites the player's track in place.
	// Returns ErrNotFound when the player is not part of the session.
	UpsertTrack(ctx context.Context, sessionID string, t skigame.Track) error
	// ListTracks returns submitted tracks with player names, in join order.
	ListTracks(ctx context.Context, sessionID string) ([]TrackRecord, error)
}
