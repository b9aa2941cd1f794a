package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/powderparty/skigame/internal/skigame"
)

func TestJoinUnknownSession(t *testing.T) {
	r := sessionRouter(t)

	w := do(t, r, http.MethodPost, "/sessions/missing/join", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestJoinAddsPlayerWithCleanState(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")

	joined := joinSession(t, r, created.SessionID)
	if joined.PlayerID == "" || joined.PlayerName == "" {
		t.Fatalf("join response incomplete: %+v", joined)
	}

	w := do(t, r, http.MethodGet, "/sessions/"+created.SessionID, nil)
	status := decode[SessionStatusResponse](t, w)

	if len(status.Players) != 1 {
		t.Fatalf("players = %d, want 1", len(status.Players))
	}
	p := status.Players[0]
	if p.PlayerID != joined.PlayerID || p.PlayerName != joined.PlayerName {
		t.Errorf("player = %+v, want the joined player", p)
	}
	if p.Score != 0 {
		t.Errorf("score = %d, want 0", p.Score)
	}
	if p.HasSubmittedTrack {
		t.Error("new player should have no track")
	}
	if status.HostPlayerID != joined.PlayerID {
		t.Errorf("host = %q, want the first player %q", status.HostPlayerID, joined.PlayerID)
	}

	// Challenges stay empty until start.
	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/challenges", nil)
	challenges := decode[map[string][]skigame.Challenge](t, w)
	if len(challenges[joined.PlayerID]) != 0 {
		t.Errorf("challenges before start = %v, want none", challenges[joined.PlayerID])
	}
}

func TestStartAssignsChallenges(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")

	p1 := joinSession(t, r, created.SessionID)
	p2 := joinSession(t, r, created.SessionID)

	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	started := decode[StartSessionResponse](t, w)
	if started.Status != "started" || started.Mode != "drawing" {
		t.Errorf("start response = %+v", started)
	}

	shapes := make(map[string]bool, len(skigame.Shapes))
	for _, s := range skigame.Shapes {
		shapes[s] = true
	}

	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/challenges", nil)
	challenges := decode[map[string][]skigame.Challenge](t, w)
	for _, id := range []string{p1.PlayerID, p2.PlayerID} {
		got := challenges[id]
		if len(got) != 1 {
			t.Fatalf("player %s challenges = %d, want exactly 1", id, len(got))
		}
		if !shapes[got[0].Shape] {
			t.Errorf("shape %q not in the fixed set", got[0].Shape)
		}
		if got[0].Points != skigame.ChallengePoints {
			t.Errorf("points = %d, want %d", got[0].Points, skigame.ChallengePoints)
		}
	}

	// A player joining after start has no challenge until the next start.
	late := joinSession(t, r, created.SessionID)
	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/challenges", nil)
	challenges = decode[map[string][]skigame.Challenge](t, w)
	if len(challenges[late.PlayerID]) != 0 {
		t.Errorf("late joiner challenges = %v, want none", challenges[late.PlayerID])
	}

	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/challenges", nil)
	challenges = decode[map[string][]skigame.Challenge](t, w)
	if len(challenges[late.PlayerID]) != 1 {
		t.Errorf("late joiner challenges after restart = %d, want 1", len(challenges[late.PlayerID]))
	}
}

func TestStartConquerModeSkipsChallenges(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)

	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/start", StartSessionRequest{Mode: "conquer"})
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", w.Code)
	}
	started := decode[StartSessionResponse](t, w)
	if started.Mode != "conquer" {
		t.Errorf("mode = %q, want conquer (override applied)", started.Mode)
	}

	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/challenges", nil)
	challenges := decode[map[string][]skigame.Challenge](t, w)
	if len(challenges[p1.PlayerID]) != 0 {
		t.Errorf("conquer mode should assign no challenges, got %v", challenges[p1.PlayerID])
	}
}

func TestEndSessionFromAnyPhase(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "")

	// End straight from the lobby is allowed.
	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/end", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("end: expected 200, got %d", w.Code)
	}
	if got := decode[StatusResponse](t, w).Status; got != "finished" {
		t.Errorf("status = %q, want finished", got)
	}

	w = do(t, r, http.MethodPost, "/sessions/missing/end", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("end missing: expected 404, got %d", w.Code)
	}
}

func TestTrackSubmitAndList(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)
	joinSession(t, r, created.SessionID)

	coords := json.RawMessage(`[[46.53,7.96],[46.54,7.97],[46.55,7.98]]`)
	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/tracks", SubmitTrackRequest{
		PlayerID:    p1.PlayerID,
		Coordinates: coords,
		StartTime:   "2026-02-07T10:00:00Z",
		EndTime:     "2026-02-07T10:04:30Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[StatusResponse](t, w).Status; got != "track_received" {
		t.Errorf("status = %q, want track_received", got)
	}

	// Only the player with a track shows up, coordinates round-trip verbatim.
	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/tracks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	tracks := decode[[]TrackItem](t, w)
	if len(tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(tracks))
	}
	if tracks[0].PlayerID != p1.PlayerID || tracks[0].PlayerName != p1.PlayerName {
		t.Errorf("track player = %s/%s, want %s/%s", tracks[0].PlayerID, tracks[0].PlayerName, p1.PlayerID, p1.PlayerName)
	}
	if string(tracks[0].Coordinates) != string(coords) {
		t.Errorf("coordinates = %s, want %s", tracks[0].Coordinates, coords)
	}

	// Session status reflects the submission.
	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID, nil)
	status := decode[SessionStatusResponse](t, w)
	for _, p := range status.Players {
		want := p.PlayerID == p1.PlayerID
		if p.HasSubmittedTrack != want {
			t.Errorf("player %s hasSubmittedTrack = %v, want %v", p.PlayerID, p.HasSubmittedTrack, want)
		}
	}
}

func TestTrackValidation(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)

	tests := []struct {
		name     string
		path     string
		req      SubmitTrackRequest
		wantCode int
	}{
		{"missing playerId", created.SessionID, SubmitTrackRequest{Coordinates: json.RawMessage(`[[1,2]]`)}, http.StatusBadRequest},
		{"missing coordinates", created.SessionID, SubmitTrackRequest{PlayerID: p1.PlayerID}, http.StatusBadRequest},
		{"unknown session", "missing", SubmitTrackRequest{PlayerID: p1.PlayerID, Coordinates: json.RawMessage(`[[1,2]]`)}, http.StatusNotFound},
		{"unknown player", created.SessionID, SubmitTrackRequest{PlayerID: "ghost", Coordinates: json.RawMessage(`[[1,2]]`)}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/sessions/"+tt.path+"/tracks", tt.req)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestLeaveRemovesPlayerAndTrack(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)
	p2 := joinSession(t, r, created.SessionID)

	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/tracks", SubmitTrackRequest{
		PlayerID:    p1.PlayerID,
		Coordinates: json.RawMessage(`[[1,2]]`),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: got %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/leave", LeaveSessionRequest{PlayerID: p1.PlayerID})
	if w.Code != http.StatusOK {
		t.Fatalf("leave: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID, nil)
	status := decode[SessionStatusResponse](t, w)
	if len(status.Players) != 1 || status.Players[0].PlayerID != p2.PlayerID {
		t.Fatalf("players after leave = %+v, want only p2", status.Players)
	}
	if status.HostPlayerID != p2.PlayerID {
		t.Errorf("host = %q, want reassigned to %q", status.HostPlayerID, p2.PlayerID)
	}

	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/tracks", nil)
	if tracks := decode[[]TrackItem](t, w); len(tracks) != 0 {
		t.Errorf("tracks after leave = %d, want 0", len(tracks))
	}

	// The departed player cannot submit a track anymore.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/tracks", SubmitTrackRequest{
		PlayerID:    p1.PlayerID,
		Coordinates: json.RawMessage(`[[1,2]]`),
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("submit after leave: expected 404, got %d", w.Code)
	}

	// Leaving twice fails.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/leave", LeaveSessionRequest{PlayerID: p1.PlayerID})
	if w.Code != http.StatusNotFound {
		t.Fatalf("second leave: expected 404, got %d", w.Code)
	}
}

// playerChallenge reads the single assigned shape for a player.
func playerChallenge(t *testing.T, r http.Handler, sessionID, playerID string) string {
	t.Helper()
	w := do(t, r, http.MethodGet, "/sessions/"+sessionID+"/challenges", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("challenges: got %d", w.Code)
	}
	challenges := decode[map[string][]skigame.Challenge](t, w)
	if len(challenges[playerID]) != 1 {
		t.Fatalf("player %s challenges = %v, want exactly 1", playerID, challenges[playerID])
	}
	return challenges[playerID][0].Shape
}

func scoreOf(t *testing.T, r http.Handler, sessionID, playerID string) int {
	t.Helper()
	w := do(t, r, http.MethodGet, "/sessions/"+sessionID+"/score", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("score: got %d", w.Code)
	}
	for _, item := range decode[[]ScoreItem](t, w) {
		if item.PlayerID == playerID {
			return item.Score
		}
	}
	t.Fatalf("player %s not on leaderboard", playerID)
	return 0
}

func TestGuessScoring(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)
	p2 := joinSession(t, r, created.SessionID)

	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: got %d", w.Code)
	}

	shape := playerChallenge(t, r, created.SessionID, p1.PlayerID)

	// Wrong guess: nothing changes. "nonesuch" is not a shape name.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/guesses", SubmitGuessesRequest{
		PlayerID: p2.PlayerID,
		Guesses:  []Guess{{TargetPlayerID: p1.PlayerID, Text: "nonesuch"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("wrong guess: expected 200, got %d", w.Code)
	}
	if got := scoreOf(t, r, created.SessionID, p2.PlayerID); got != 0 {
		t.Errorf("guesser score after miss = %d, want 0", got)
	}

	// Correct guess, lowercased: guesser +5, target +2.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/guesses", SubmitGuessesRequest{
		PlayerID: p2.PlayerID,
		Guesses:  []Guess{{TargetPlayerID: p1.PlayerID, Text: strings.ToLower(shape)}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("correct guess: expected 200, got %d", w.Code)
	}
	if got := scoreOf(t, r, created.SessionID, p2.PlayerID); got != skigame.GuesserReward {
		t.Errorf("guesser score = %d, want %d", got, skigame.GuesserReward)
	}
	if got := scoreOf(t, r, created.SessionID, p1.PlayerID); got != skigame.TargetReward {
		t.Errorf("target score = %d, want %d", got, skigame.TargetReward)
	}

	// A second correct guess earns the reward again — challenges are never
	// consumed.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/guesses", SubmitGuessesRequest{
		PlayerID: p2.PlayerID,
		Guesses:  []Guess{{TargetPlayerID: p1.PlayerID, Text: shape}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("repeat guess: got %d", w.Code)
	}
	if got := scoreOf(t, r, created.SessionID, p2.PlayerID); got != 2*skigame.GuesserReward {
		t.Errorf("guesser score after repeat = %d, want %d", got, 2*skigame.GuesserReward)
	}
}

func TestGuessBatchSkipsInvalidEntries(t *testing.T) {
	r := sessionRouter(t)
	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)
	p2 := joinSession(t, r, created.SessionID)

	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: got %d", w.Code)
	}
	shape := playerChallenge(t, r, created.SessionID, p1.PlayerID)

	// Unknown target mixed into the batch: the valid guess still lands.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/guesses", SubmitGuessesRequest{
		PlayerID: p2.PlayerID,
		Guesses: []Guess{
			{TargetPlayerID: "ghost", Text: shape},
			{TargetPlayerID: p1.PlayerID, Text: shape},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("batch: expected 200, got %d", w.Code)
	}
	if got := scoreOf(t, r, created.SessionID, p2.PlayerID); got != skigame.GuesserReward {
		t.Errorf("guesser score = %d, want %d", got, skigame.GuesserReward)
	}

	// Unknown guesser: whole batch is a no-op, still 200.
	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/guesses", SubmitGuessesRequest{
		PlayerID: "ghost",
		Guesses:  []Guess{{TargetPlayerID: p1.PlayerID, Text: shape}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unknown guesser: expected 200, got %d", w.Code)
	}
	if got := scoreOf(t, r, created.SessionID, p1.PlayerID); got != skigame.TargetReward {
		t.Errorf("target score = %d, want unchanged %d", got, skigame.TargetReward)
	}

	w = do(t, r, http.MethodPost, "/sessions/missing/guesses", SubmitGuessesRequest{
		PlayerID: p2.PlayerID,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session: expected 404, got %d", w.Code)
	}
}

func TestFullGameScenario(t *testing.T) {
	r := sessionRouter(t)

	created := createSession(t, r, "drawing")
	p1 := joinSession(t, r, created.SessionID)
	p2 := joinSession(t, r, created.SessionID)

	w := do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: got %d", w.Code)
	}

	shape := playerChallenge(t, r, created.SessionID, p1.PlayerID)

	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/guesses", SubmitGuessesRequest{
		PlayerID: p2.PlayerID,
		Guesses:  []Guess{{TargetPlayerID: p1.PlayerID, Text: strings.ToLower(shape)}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("guess: got %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID+"/score", nil)
	board := decode[[]ScoreItem](t, w)
	if len(board) != 2 {
		t.Fatalf("leaderboard = %d entries, want 2", len(board))
	}
	if board[0].PlayerID != p2.PlayerID || board[0].Score != 5 {
		t.Errorf("board[0] = %+v, want p2 with 5", board[0])
	}
	if board[1].PlayerID != p1.PlayerID || board[1].Score != 2 {
		t.Errorf("board[1] = %+v, want p1 with 2", board[1])
	}

	w = do(t, r, http.MethodPost, "/sessions/"+created.SessionID+"/end", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("end: got %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/sessions/"+created.SessionID, nil)
	if got := decode[SessionStatusResponse](t, w).Phase; got != "finished" {
		t.Errorf("phase = %q, want finished", got)
	}
}
