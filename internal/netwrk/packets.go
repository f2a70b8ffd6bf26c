package netwrk

import (
	"errors"
	"fmt"
)

// Server to client tags
const (
	SnapshotTag byte = 0
	UpdateTag   byte = 1
)

const (
	SnapshotSize = 9
	UpdateSize   = 6
	InputSize    = 2
)

type InputKind byte

// Client to server tags
const (
	PlayerPos InputKind = 0
	Shutdown  InputKind = 1
)

var ErrShortPacket = errors.New("packet shorter than its fixed layout")

type UndefinedPacketError struct {
	Tag byte
}

func (e *UndefinedPacketError) Error() string {
	return fmt.Sprintf("undefined packet received: %d", e.Tag)
}

// Snapshot is sent once per player at the start of a match. It carries the
// map geometry the client needs to build its grid.
type Snapshot struct {
	Recipient  uint8
	Player1Pos uint8
	Player2Pos uint8
	BallX      uint8
	BallY      uint8
	MapWidth   uint8
	MapHeight  uint8
	PaddleSize uint8
}

func (s Snapshot) Marshal() []byte {
	return []byte{
		SnapshotTag,
		s.Recipient,
		s.Player1Pos,
		s.Player2Pos,
		s.BallX,
		s.BallY,
		s.MapWidth,
		s.MapHeight,
		s.PaddleSize,
	}
}

// Update is sent to both players every tick.
type Update struct {
	Recipient  uint8
	Player1Pos uint8
	Player2Pos uint8
	BallX      uint8
	BallY      uint8
}

func (u Update) Marshal() []byte {
	return []byte{
		UpdateTag,
		u.Recipient,
		u.Player1Pos,
		u.Player2Pos,
		u.BallX,
		u.BallY,
	}
}

type Input struct {
	Kind InputKind
	Pos  uint8
}

func PositionInput(pos uint8) Input {
	return Input{Kind: PlayerPos, Pos: pos}
}

func ShutdownInput() Input {
	return Input{Kind: Shutdown}
}

func (i Input) Marshal() []byte {
	return []byte{byte(i.Kind), i.Pos}
}

// DecodeServerPacket decodes the first packet in b and returns it along with
// the number of bytes it occupied. The packet is either a Snapshot or an
// Update.
func DecodeServerPacket(b []byte) (any, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrShortPacket
	}

	switch b[0] {
	case SnapshotTag:
		if len(b) < SnapshotSize {
			return nil, 0, ErrShortPacket
		}
		return Snapshot{
			Recipient:  b[1],
			Player1Pos: b[2],
			Player2Pos: b[3],
			BallX:      b[4],
			BallY:      b[5],
			MapWidth:   b[6],
			MapHeight:  b[7],
			PaddleSize: b[8],
		}, SnapshotSize, nil
	case UpdateTag:
		if len(b) < UpdateSize {
			return nil, 0, ErrShortPacket
		}
		return Update{
			Recipient:  b[1],
			Player1Pos: b[2],
			Player2Pos: b[3],
			BallX:      b[4],
			BallY:      b[5],
		}, UpdateSize, nil
	default:
		return nil, 0, &UndefinedPacketError{Tag: b[0]}
	}
}

// ServerPacketSize returns the fixed frame size announced by a server packet tag.
func ServerPacketSize(tag byte) (int, error) {
	switch tag {
	case SnapshotTag:
		return SnapshotSize, nil
	case UpdateTag:
		return UpdateSize, nil
	default:
		return 0, &UndefinedPacketError{Tag: tag}
	}
}

func DecodeInput(b []byte) (Input, error) {
	if len(b) == 0 {
		return Input{}, ErrShortPacket
	}

	switch InputKind(b[0]) {
	case PlayerPos, Shutdown:
		if len(b) < InputSize {
			return Input{}, ErrShortPacket
		}
		return Input{Kind: InputKind(b[0]), Pos: b[1]}, nil
	default:
		return Input{}, &UndefinedPacketError{Tag: b[0]}
	}
}
