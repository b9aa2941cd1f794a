package namegen

import (
	"strconv"
	"strings"
	"testing"

	"github.com/powderparty/skigame/internal/skigame"
)

func TestJoinCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := JoinCode()
		if len(code) != JoinCodeLength {
			t.Fatalf("len(%q) = %d, want %d", code, len(code), JoinCodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(joinCodeAlphabet, c) {
				t.Fatalf("code %q contains %q, not in alphabet", code, c)
			}
		}
	}
}

func TestFunName(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := FunName()
		parts := strings.Split(name, " ")
		if len(parts) != 3 {
			t.Fatalf("name %q should have 3 parts", name)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			t.Fatalf("name %q should end with a number: %v", name, err)
		}
		if n < 10 || n > 99 {
			t.Fatalf("name %q number %d out of range [10, 99]", name, n)
		}
	}
}

func TestChallenge(t *testing.T) {
	shapes := make(map[string]bool, len(skigame.Shapes))
	for _, s := range skigame.Shapes {
		shapes[s] = true
	}

	for i := 0; i < 100; i++ {
		c := Challenge()
		if !shapes[c.Shape] {
			t.Fatalf("shape %q not in the fixed set", c.Shape)
		}
		if c.Points != skigame.ChallengePoints {
			t.Fatalf("points = %d, want %d", c.Points, skigame.ChallengePoints)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
