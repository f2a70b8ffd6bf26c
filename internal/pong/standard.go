package pong

import (
	"tcppong/internal/netwrk"

	"golang.org/x/exp/rand"
)

type collision int

const (
	noCollision collision = iota
	cornerCollision
	paddleCollision
	wallCollision
)

func (c collision) String() string {
	switch c {
	case cornerCollision:
		return "corner"
	case paddleCollision:
		return "paddle"
	case wallCollision:
		return "wall"
	default:
		return "none"
	}
}

// StandardGame is the classic two paddle match on a fixed 80x30 map.
type StandardGame struct {
	rng *rand.Rand
	// The ball only moves on every other tick.
	stepping bool
}

func NewStandardGame(rng *rand.Rand) *StandardGame {
	return &StandardGame{rng: rng}
}

func (g *StandardGame) Setup(p1, p2 NewPlayer) *GameState {
	player1 := playerFromNew(p1, 1)
	player2 := playerFromNew(p2, 2)
	player1.Pos = MapHeight / 2
	player2.Pos = MapHeight / 2

	g.stepping = false

	return &GameState{
		Player1: player1,
		Player2: player2,
		Ball: Ball{
			X:  MapWidth / 2,
			Y:  MapHeight / 2,
			DX: 1,
			DY: 0,
		},
		MapWidth:   MapWidth,
		MapHeight:  MapHeight,
		PaddleSize: PaddleSize,
	}
}

func (g *StandardGame) EncodeSnapshot(state *GameState, ordinal uint8) []byte {
	return netwrk.Snapshot{
		Recipient:  ordinal,
		Player1Pos: state.Player1.Pos,
		Player2Pos: state.Player2.Pos,
		BallX:      state.Ball.X,
		BallY:      state.Ball.Y,
		MapWidth:   state.MapWidth,
		MapHeight:  state.MapHeight,
		PaddleSize: state.PaddleSize,
	}.Marshal()
}

// EncodeUpdate mirrors the ball horizontally for player 2 so both clients
// see themselves on the left.
func (g *StandardGame) EncodeUpdate(state *GameState, ordinal uint8) []byte {
	u := netwrk.Update{
		Recipient:  ordinal,
		Player1Pos: state.Player1.Pos,
		Player2Pos: state.Player2.Pos,
		BallX:      state.Ball.X,
		BallY:      state.Ball.Y,
	}
	if ordinal == 2 {
		u.BallX = state.MapWidth - state.Ball.X - 1
	}
	return u.Marshal()
}

func (g *StandardGame) StepTick(state *GameState) {
	g.checkScore(state)

	if g.stepping {
		g.stepBall(state)
		g.stepping = false
	} else {
		g.stepping = true
	}
}

// checkScore awards the point when the ball got past a paddle and serves a
// new ball from the center.
func (g *StandardGame) checkScore(state *GameState) {
	switch state.Ball.X {
	case 1:
		state.IncrementScore(2)
		state.ResetBallToCenter(g.rng)
	case state.MapWidth - 3:
		state.IncrementScore(1)
		state.ResetBallToCenter(g.rng)
	}
}

func (g *StandardGame) nextBallPos(state *GameState) (int, int) {
	return int(state.Ball.X) + int(state.Ball.DX), int(state.Ball.Y) + int(state.Ball.DY)
}

func (g *StandardGame) stepBall(state *GameState) {
	x, y := g.nextBallPos(state)
	if g.resolveCollision(state, x, y) != noCollision {
		x, y = g.nextBallPos(state)
	}

	// A paddle bounce next to a wall can still aim the ball into it.
	if y < 1 || y > int(state.MapHeight)-2 {
		state.Ball.DY = -state.Ball.DY
		x, y = g.nextBallPos(state)
	}

	state.Ball.X = uint8(x)
	state.Ball.Y = uint8(y)
}

func (g *StandardGame) classify(state *GameState, x, y int) collision {
	width := int(state.MapWidth)
	height := int(state.MapHeight)
	paddle := int(state.PaddleSize)

	wallRow := y <= 0 || y >= height-1
	p1Column := x == 2
	p2Column := x == width-3

	switch {
	case wallRow && (p1Column || p2Column):
		return cornerCollision
	case p1Column && state.Player1.covers(y, paddle),
		p2Column && state.Player2.covers(y, paddle):
		return paddleCollision
	case wallRow:
		return wallCollision
	default:
		return noCollision
	}
}

// resolveCollision tests the cell (x, y) the ball is about to enter and
// updates the ball velocity accordingly. The position is left untouched.
func (g *StandardGame) resolveCollision(state *GameState, x, y int) collision {
	c := g.classify(state, x, y)

	switch c {
	case cornerCollision:
		state.Ball.DX = -state.Ball.DX
		state.Ball.DY = int8(-g.rng.Intn(2)) * state.Ball.DY
	case paddleCollision:
		state.Ball.DY = g.deflect(state.Ball.DX)
		state.Ball.DX = -state.Ball.DX
	case wallCollision:
		state.Ball.DY = -state.Ball.DY
	}

	return c
}

// deflect picks the vertical direction after a paddle hit from the
// horizontal direction the ball had before the hit.
func (g *StandardGame) deflect(dx int8) int8 {
	var choices []int8
	switch dx {
	case -1:
		choices = []int8{0, 1}
	case 1:
		choices = []int8{-1, 0}
	default:
		choices = []int8{-1, 0, 1}
	}
	return choices[g.rng.Intn(len(choices))]
}
