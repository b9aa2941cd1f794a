package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/powderparty/skigame/internal/skigame"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateSession(ctx context.Context, id, joinCode string, mode skigame.Mode) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, join_code, mode)
		VALUES (?, ?, ?)
	`, id, joinCode, string(mode))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrConflict
	}
	return err
}

func (s *SQLiteStore) SessionIDByJoinCode(ctx context.Context, code string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM sessions WHERE join_code = upper(?)
	`, code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func (s *SQLiteStore) Session(ctx context.Context, id string) (skigame.Session, error) {
	var sess skigame.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, join_code, mode, phase, COALESCE(host_player_id, ''), created_at
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.JoinCode, &sess.Mode, &sess.Phase, &sess.HostPlayerID, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, ErrNotFound
	}
	return sess, err
}

func (s *SQLiteStore) UpdateSession(ctx context.Context, id string, mode skigame.Mode, phase skigame.Phase) (skigame.Session, error) {
	var sess skigame.Session
	err := s.db.QueryRowContext(ctx, `
		UPDATE sessions
		SET mode = COALESCE(NULLIF(?, ''), mode),
			phase = COALESCE(NULLIF(?, ''), phase)
		WHERE id = ?
		RETURNING id, join_code, mode, phase, COALESCE(host_player_id, ''), created_at
	`, string(mode), string(phase), id).Scan(
		&sess.ID, &sess.JoinCode, &sess.Mode, &sess.Phase, &sess.HostPlayerID, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, ErrNotFound
	}
	return sess, err
}

func (s *SQLiteStore) AddPlayer(ctx context.Context, p skigame.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, p.SessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO players (id, session_id, name)
		VALUES (?, ?, ?)
	`, p.ID, p.SessionID, p.Name); err != nil {
		return err
	}

	// First player in becomes host.
	if _, err := tx.ExecContext(ctx, `
		UPDATE sessions SET host_player_id = ?
		WHERE id = ? AND host_player_id IS NULL
	`, p.ID, p.SessionID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) RemovePlayer(ctx context.Context, sessionID, playerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM players WHERE id = ? AND session_id = ?
	`, playerID, sessionID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	// If the host left, hand the role to the earliest surviving player.
	if _, err := tx.ExecContext(ctx, `
		UPDATE sessions
		SET host_player_id = (
			SELECT id FROM players WHERE session_id = ? ORDER BY rowid LIMIT 1
		)
		WHERE id = ? AND host_player_id = ?
	`, sessionID, sessionID, playerID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListPlayers(ctx context.Context, sessionID string) ([]PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.session_id, p.name, p.score, p.challenges, p.joined_at,
			EXISTS (SELECT 1 FROM tracks t WHERE t.player_id = p.id)
		FROM players p
		WHERE p.session_id = ?
		ORDER BY p.rowid
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []PlayerRecord
	for rows.Next() {
		var p PlayerRecord
		var challengesJSON string
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.Score, &challengesJSON, &p.JoinedAt, &p.HasTrack); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(challengesJSON), &p.Challenges); err != nil {
			return nil, fmt.Errorf("decoding challenges for player %s: %w", p.ID, err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) SetChallenges(ctx context.Context, sessionID string, assignments map[string][]skigame.Challenge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for playerID, challenges := range assignments {
		data, err := json.Marshal(challenges)
		if err != nil {
			return fmt.Errorf("encoding challenges for player %s: %w", playerID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE players SET challenges = ?
			WHERE id = ? AND session_id = ?
		`, string(data), playerID, sessionID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddScore(ctx context.Context, sessionID, playerID string, points int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE players SET score = score + ?
		WHERE id = ? AND session_id = ?
	`, points, playerID, sessionID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, sessionID string) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, score FROM players
		WHERE session_id = ?
		ORDER BY score DESC, rowid
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.Score); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) UpsertTrack(ctx context.Context, sessionID string, t skigame.Track) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tracks (player_id, coordinates, start_time, end_time)
		SELECT p.id, ?, ?, ?
		FROM players p WHERE p.id = ? AND p.session_id = ?
		ON CONFLICT (player_id) DO UPDATE SET
			coordinates = excluded.coordinates,
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`, string(t.Coordinates), t.StartTime, t.EndTime, t.PlayerID, sessionID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListTracks(ctx context.Context, sessionID string) ([]TrackRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.player_id, p.name, t.coordinates
		FROM tracks t
		JOIN players p ON p.id = t.player_id
		WHERE p.session_id = ?
		ORDER BY p.rowid
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []TrackRecord
	for rows.Next() {
		var t TrackRecord
		var coords string
		if err := rows.Scan(&t.PlayerID, &t.PlayerName, &coords); err != nil {
			return nil, err
		}
		t.Coordinates = json.RawMessage(coords)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
