package client

import (
	"strings"
	"tcppong/internal/netwrk"
)

type Tile uint8

const (
	Empty Tile = iota
	Ball
	Player
	VerticalWall
	HorizontalWall
	Corner
)

type Direction int

const (
	NoMove Direction = iota
	Up
	Down
	Quit
)

// Every client sees its own paddle on the left.
const ownColumn = 2

// Mirror is the client's copy of the match, rebuilt from server packets only.
// The grid is updated in place: each update rewrites the cells that changed.
type Mirror struct {
	Ordinal    uint8
	Width      int
	Height     int
	PaddleSize int

	OwnPos      int
	OpponentPos int
	BallX       int
	BallY       int

	tiles []Tile
}

func NewMirror(s netwrk.Snapshot) *Mirror {
	m := &Mirror{
		Ordinal:     s.Recipient,
		Width:       int(s.MapWidth),
		Height:      int(s.MapHeight),
		PaddleSize:  int(s.PaddleSize),
		OwnPos:      int(s.Player1Pos),
		OpponentPos: int(s.Player2Pos),
		BallX:       int(s.BallX),
		BallY:       int(s.BallY),
	}
	if s.Recipient == 2 {
		m.OwnPos, m.OpponentPos = m.OpponentPos, m.OwnPos
	}

	m.tiles = make([]Tile, m.Width*m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.restore(x, y)
		}
	}
	return m
}

func (m *Mirror) opponentColumn() int {
	return m.Width - 3
}

func (m *Mirror) Tile(x, y int) Tile {
	if !m.inBounds(x, y) {
		return Empty
	}
	return m.tiles[y*m.Width+x]
}

// Tiles is the grid in row-major order. Callers must not modify it.
func (m *Mirror) Tiles() []Tile {
	return m.tiles
}

// Apply takes the opponent paddle and the ball from an update. The own
// paddle is driven locally.
func (m *Mirror) Apply(u netwrk.Update) {
	opponent := int(u.Player2Pos)
	if m.Ordinal == 2 {
		opponent = int(u.Player1Pos)
	}

	m.movePaddle(m.opponentColumn(), &m.OpponentPos, opponent)
	m.moveBall(int(u.BallX), int(u.BallY))
}

// Move shifts the own paddle one row while keeping it off the walls. It
// reports whether the paddle moved.
func (m *Mirror) Move(d Direction) bool {
	to := m.OwnPos
	switch d {
	case Up:
		if m.OwnPos-m.PaddleSize-1 > 0 {
			to--
		}
	case Down:
		if m.OwnPos+m.PaddleSize+1 < m.Height-1 {
			to++
		}
	}
	if to == m.OwnPos {
		return false
	}
	m.movePaddle(ownColumn, &m.OwnPos, to)
	return true
}

func (m *Mirror) InputPacket() []byte {
	return netwrk.PositionInput(uint8(m.OwnPos)).Marshal()
}

func (m *Mirror) movePaddle(column int, pos *int, to int) {
	if *pos == to {
		return
	}
	from := *pos
	*pos = to

	for y := from - m.PaddleSize; y <= from+m.PaddleSize; y++ {
		if !inSpan(y, to, m.PaddleSize) {
			m.restore(column, y)
		}
	}
	for y := to - m.PaddleSize; y <= to+m.PaddleSize; y++ {
		m.restore(column, y)
	}
}

func (m *Mirror) moveBall(x, y int) {
	if x == m.BallX && y == m.BallY {
		return
	}
	oldX, oldY := m.BallX, m.BallY
	m.BallX, m.BallY = x, y
	m.restore(oldX, oldY)
	m.restore(x, y)
}

// restore redraws one cell. The ball is drawn over whatever is beneath it.
func (m *Mirror) restore(x, y int) {
	if !m.inBounds(x, y) {
		return
	}
	if x == m.BallX && y == m.BallY {
		m.tiles[y*m.Width+x] = Ball
		return
	}
	m.tiles[y*m.Width+x] = m.baseTile(x, y)
}

func (m *Mirror) baseTile(x, y int) Tile {
	lastX, lastY := m.Width-1, m.Height-1
	edgeX := x == 0 || x == lastX
	edgeY := y == 0 || y == lastY

	switch {
	case edgeX && edgeY:
		return Corner
	case edgeX:
		return VerticalWall
	case edgeY:
		return HorizontalWall
	case x == ownColumn && inSpan(y, m.OwnPos, m.PaddleSize):
		return Player
	case x == m.opponentColumn() && inSpan(y, m.OpponentPos, m.PaddleSize):
		return Player
	default:
		return Empty
	}
}

func (m *Mirror) inBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

func inSpan(y, pos, size int) bool {
	return y >= pos-size && y <= pos+size
}

// String draws the grid with one digit per tile.
func (m *Mirror) String() string {
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			b.WriteByte('0' + byte(m.tiles[y*m.Width+x]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
