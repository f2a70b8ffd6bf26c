package pong

import (
	"errors"
	"fmt"
	"tcppong/internal/netwrk"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

const (
	MapWidth   uint8 = 80
	MapHeight  uint8 = 30
	PaddleSize uint8 = 4

	PlayerTimeout = 25 * time.Millisecond
	TickInterval  = 35 * time.Millisecond
	// WriteTimeout bounds every packet sent to a player.
	WriteTimeout  = 250 * time.Millisecond
)

// NewPlayer is a connection that finished the name handshake and is waiting
// to be paired.
type NewPlayer struct {
	ID   uuid.UUID
	Name string
	Conn *netwrk.Conn
}

type Player struct {
	ID      uuid.UUID
	Name    string
	Ordinal uint8
	Pos     uint8
	conn    *netwrk.Conn
}

func playerFromNew(np NewPlayer, ordinal uint8) *Player {
	return &Player{
		ID:      np.ID,
		Name:    np.Name,
		Ordinal: ordinal,
		conn:    np.Conn,
	}
}

func (p *Player) String() string {
	if p.conn == nil {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.conn.RemoteAddr())
}

func (p *Player) send(b []byte) error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Write(b)
}

// poll reads whatever input the player sent this tick. When several position
// reports arrived only the latest counts. A timeout reports ok == false and
// no error.
func (p *Player) poll() (pos uint8, ok bool, err error) {
	inputs, err := p.conn.ReadInputs()
	if errors.Is(err, netwrk.ErrNoInput) {
		return 0, false, nil
	}

	for _, in := range inputs {
		switch in.Kind {
		case netwrk.PlayerPos:
			pos, ok = in.Pos, true
		case netwrk.Shutdown:
			return pos, ok, &PlayerError{Ordinal: p.Ordinal, Name: p.Name, Err: netwrk.ErrDisconnected}
		}
	}
	if err != nil {
		return pos, ok, &PlayerError{Ordinal: p.Ordinal, Name: p.Name, Err: err}
	}
	return pos, ok, nil
}

// covers reports whether row y falls inside the inclusive paddle span.
func (p *Player) covers(y, paddleSize int) bool {
	pos := int(p.Pos)
	return y >= pos-paddleSize && y <= pos+paddleSize
}

type PlayerError struct {
	Ordinal uint8
	Name    string
	Err     error
}

func (e *PlayerError) Error() string {
	return fmt.Sprintf("player %d (%s): %v", e.Ordinal, e.Name, e.Err)
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

type Ball struct {
	X  uint8
	Y  uint8
	DX int8
	DY int8
}

// GameState is the single source of truth for one match.
type GameState struct {
	Player1 *Player
	Player2 *Player
	Ball    Ball

	MapWidth   uint8
	MapHeight  uint8
	PaddleSize uint8

	Player1Score uint8
	Player2Score uint8
}

func (s *GameState) Player(ordinal uint8) *Player {
	if ordinal == 2 {
		return s.Player2
	}
	return s.Player1
}

// ApplyInput moves a paddle to the reported position, clamped so the paddle
// span never leaves the map.
func (s *GameState) ApplyInput(ordinal, pos uint8) {
	lo := s.PaddleSize
	hi := s.MapHeight - 1 - s.PaddleSize
	s.Player(ordinal).Pos = min(max(pos, lo), hi)
}

func (s *GameState) IncrementScore(ordinal uint8) {
	switch ordinal {
	case 1:
		s.Player1Score++
	case 2:
		s.Player2Score++
	}
}

func (s *GameState) ResetBallToCenter(rng *rand.Rand) {
	s.Ball.X = s.MapWidth / 2
	s.Ball.Y = s.MapHeight / 2
	s.Ball.DX = int8(rng.Intn(2)*2 - 1)
	s.Ball.DY = int8(rng.Intn(3) - 1)
}

func (s *GameState) String() string {
	return fmt.Sprintf("%d:%d ball=(%d,%d) d=(%d,%d) p1=%d p2=%d map=%dx%d",
		s.Player1Score, s.Player2Score,
		s.Ball.X, s.Ball.Y,
		s.Ball.DX, s.Ball.DY,
		s.Player1.Pos, s.Player2.Pos,
		s.MapWidth, s.MapHeight)
}
