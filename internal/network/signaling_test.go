package network

import (
	"math/rand"
	"testing"
)

func TestValidRoomCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"ABCDEF", true},
		{"234567", true},
		{"ABCDE", false},  // too short
		{"ABCDEFG", false}, // too long
		{"ABCDEI", false},  // I excluded
		{"ABCDE0", false},  // 0 excluded
		{"ABCDE1", false},  // 1 excluded
		{"ABCDEO", false},  // O excluded
		{"abcdef", false},  // lowercase not in alphabet
	}
	for _, c := range cases {
		if got := ValidRoomCode(c.code); got != c.want {
			t.Errorf("ValidRoomCode(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestNewRoomCodeIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		code := newRoomCode(rng)
		if !ValidRoomCode(code) {
			t.Fatalf("generated code %q is not valid", code)
		}
	}
}

func TestConnectionStateString(t *testing.T) {
	cases := map[ConnectionState]string{
		Offline:            "Offline",
		ConnectingToServer: "ConnectingToServer",
		InLobby:            "InLobby",
		ConnectingToPeer:   "ConnectingToPeer",
		Connected:          "Connected",
		Disconnected:       "Disconnected",
		Error:              "Error",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("state %d String() = %q, want %q", state, got, want)
		}
	}
}
