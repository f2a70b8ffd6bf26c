package pong

import (
	"fmt"

	"golang.org/x/exp/rand"
)

type Gamemodes int

const (
	Standard Gamemodes = iota
)

func (g Gamemodes) String() string {
	switch g {
	case Standard:
		return "standard"
	default:
		return fmt.Sprintf("gamemode(%d)", int(g))
	}
}

// Gamemode is the rule set a session runs. Setup builds the initial state,
// StepTick advances it by one tick after inputs were applied, and the Encode
// methods build the per-recipient packets.
type Gamemode interface {
	Setup(p1, p2 NewPlayer) *GameState
	StepTick(state *GameState)
	EncodeSnapshot(state *GameState, ordinal uint8) []byte
	EncodeUpdate(state *GameState, ordinal uint8) []byte
}

func NewGamemode(kind Gamemodes, rng *rand.Rand) (Gamemode, error) {
	switch kind {
	case Standard:
		return NewStandardGame(rng), nil
	default:
		return nil, fmt.Errorf("unknown gamemode %v", kind)
	}
}
