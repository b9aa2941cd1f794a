// Package namegen produces identifiers, join codes, and display names.
package namegen

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/powderparty/skigame/internal/skigame"
)

// joinCodeAlphabet omits ambiguous characters (0/O, 1/I).
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// JoinCodeLength is the number of characters in a session join code.
const JoinCodeLength = 6

var (
	adjectives = []string{"Speedy", "Frosty", "Gnarly", "Zesty", "Powder"}
	nouns      = []string{"Skier", "Yeti", "Penguin", "Carver", "Avalanche"}
)

// NewID returns a globally unique identifier for sessions and players.
func NewID() string {
	return uuid.NewString()
}

// JoinCode returns a human-enterable session code. Uniqueness is not
// guaranteed here; callers must detect collisions against stored sessions.
func JoinCode() string {
	b := make([]byte, JoinCodeLength)
	for i := range b {
		b[i] = joinCodeAlphabet[rand.IntN(len(joinCodeAlphabet))]
	}
	return string(b)
}

// FunName returns a random display name like "Frosty Yeti 42".
func FunName() string {
	return fmt.Sprintf("%s %s %d",
		adjectives[rand.IntN(len(adjectives))],
		nouns[rand.IntN(len(nouns))],
		10+rand.IntN(90),
	)
}

// Challenge picks a random shape from the fixed set at the standard value.
func Challenge() skigame.Challenge {
	return skigame.Challenge{
		Shape:  skigame.Shapes[rand.IntN(len(skigame.Shapes))],
		Points: skigame.ChallengePoints,
	}
}
