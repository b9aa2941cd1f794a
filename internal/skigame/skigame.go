// Package skigame defines the core domain types for the slope party game.
// It has zero external dependencies — everything here is pure Go.
package skigame

import "encoding/json"

// Phase is a session's position in its lifecycle.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseStarted  Phase = "started"
	PhaseGuessing Phase = "guessing"
	PhaseFinished Phase = "finished"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseLobby, PhaseStarted, PhaseGuessing, PhaseFinished:
		return true
	}
	return false
}

// CanAdvanceTo reports whether next is a legal forward transition from p.
func (p Phase) CanAdvanceTo(next Phase) bool {
	switch p {
	case PhaseLobby:
		return next == PhaseStarted
	case PhaseStarted:
		return next == PhaseGuessing
	case PhaseGuessing:
		return next == PhaseFinished
	}
	return false
}

// Mode selects the game variant played within a session.
type Mode string

const (
	ModeDrawing Mode = "drawing"
	ModeConquer Mode = "conquer"
)

func (m Mode) Valid() bool {
	return m == ModeDrawing || m == ModeConquer
}

// Shapes is the fixed set players can be challenged to draw with a ski run.
var Shapes = []string{"Star", "Heart", "Circle", "Square", "Triangle", "ZigZag"}

// Point values awarded by the scoring engine.
const (
	ChallengePoints = 10 // value attached to an assigned challenge
	GuesserReward   = 5  // awarded to the guesser on a correct guess
	TargetReward    = 2  // awarded to the player whose shape was guessed
)

type Session struct {
	ID           string
	JoinCode     string
	Mode         Mode
	Phase        Phase
	HostPlayerID string // empty while the session has no players
	CreatedAt    string
}

// Challenge is a shape a player must draw via their recorded track.
type Challenge struct {
	Shape  string `json:"shape"`
	Points int    `json:"points"`
}

type Player struct {
	ID         string
	SessionID  string
	Name       string
	Score      int
	Challenges []Challenge // empty until the session enters PhaseStarted
	JoinedAt   string
}

// Track is a recorded sequence of position samples. Coordinates and the
// timestamps are stored verbatim and round-tripped to clients unmodified.
type Track struct {
	PlayerID    string
	Coordinates json.RawMessage
	StartTime   string
	EndTime     string
}
