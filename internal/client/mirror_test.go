package client

import (
	"tcppong/internal/netwrk"
	"testing"
)

func startSnapshot(recipient uint8) netwrk.Snapshot {
	return netwrk.Snapshot{
		Recipient:  recipient,
		Player1Pos: 15,
		Player2Pos: 15,
		BallX:      40,
		BallY:      15,
		MapWidth:   80,
		MapHeight:  30,
		PaddleSize: 4,
	}
}

func TestNewMirrorGrid(t *testing.T) {
	t.Parallel()
	m := NewMirror(startSnapshot(1))

	tests := []struct {
		name string
		x, y int
		want Tile
	}{
		{"top left corner", 0, 0, Corner},
		{"bottom right corner", 79, 29, Corner},
		{"left wall", 0, 5, VerticalWall},
		{"right wall", 79, 20, VerticalWall},
		{"top wall", 5, 0, HorizontalWall},
		{"bottom wall", 40, 29, HorizontalWall},
		{"own paddle top", 2, 11, Player},
		{"own paddle bottom", 2, 19, Player},
		{"above own paddle", 2, 10, Empty},
		{"below own paddle", 2, 20, Empty},
		{"opponent paddle", 77, 15, Player},
		{"opponent paddle edge", 77, 11, Player},
		{"ball", 40, 15, Ball},
		{"field", 30, 10, Empty},
		{"out of bounds", 80, 10, Empty},
	}
	for _, tt := range tests {
		if got := m.Tile(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: Tile(%d, %d) = %d, want %d", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
	if len(m.Tiles()) != 80*30 {
		t.Fatalf("len(Tiles) = %d", len(m.Tiles()))
	}
}

func TestMirrorPlayerTwoSeesOwnPaddleOnTheLeft(t *testing.T) {
	t.Parallel()
	snap := startSnapshot(2)
	snap.Player1Pos = 8
	snap.Player2Pos = 20
	m := NewMirror(snap)

	if m.OwnPos != 20 || m.OpponentPos != 8 {
		t.Fatalf("own = %d, opponent = %d, want 20 and 8", m.OwnPos, m.OpponentPos)
	}
	if m.Tile(2, 24) != Player || m.Tile(2, 10) != Empty {
		t.Fatal("own paddle is not drawn around 20 on the left")
	}
	if m.Tile(77, 4) != Player || m.Tile(77, 20) != Empty {
		t.Fatal("opponent paddle is not drawn around 8 on the right")
	}
}

func TestMirrorApplyMovesOpponentAndBall(t *testing.T) {
	t.Parallel()
	for _, recipient := range []uint8{1, 2} {
		m := NewMirror(startSnapshot(recipient))

		u := netwrk.Update{Recipient: recipient, Player1Pos: 15, Player2Pos: 15, BallX: 41, BallY: 16}
		if recipient == 1 {
			u.Player2Pos = 20
		} else {
			u.Player1Pos = 20
		}
		m.Apply(u)

		if m.OpponentPos != 20 {
			t.Fatalf("player %d: opponent = %d, want 20", recipient, m.OpponentPos)
		}
		if m.OwnPos != 15 {
			t.Fatalf("player %d: own paddle moved to %d", recipient, m.OwnPos)
		}
		for y := 11; y <= 15; y++ {
			if m.Tile(77, y) != Empty {
				t.Fatalf("player %d: stale opponent cell at y=%d", recipient, y)
			}
		}
		for y := 16; y <= 24; y++ {
			if m.Tile(77, y) != Player {
				t.Fatalf("player %d: opponent cell missing at y=%d", recipient, y)
			}
		}
		if m.Tile(40, 15) != Empty || m.Tile(41, 16) != Ball {
			t.Fatalf("player %d: ball not moved", recipient)
		}
	}
}

func TestMirrorIncrementalMatchesFreshGrid(t *testing.T) {
	t.Parallel()
	m := NewMirror(startSnapshot(1))

	updates := []netwrk.Update{
		{Recipient: 1, Player1Pos: 15, Player2Pos: 14, BallX: 39, BallY: 14},
		{Recipient: 1, Player1Pos: 15, Player2Pos: 9, BallX: 3, BallY: 12},
		{Recipient: 1, Player1Pos: 15, Player2Pos: 24, BallX: 2, BallY: 13},
		{Recipient: 1, Player1Pos: 15, Player2Pos: 5, BallX: 77, BallY: 5},
		{Recipient: 1, Player1Pos: 15, Player2Pos: 5, BallX: 60, BallY: 1},
	}
	for _, u := range updates {
		m.Apply(u)
		m.Move(Up)

		fresh := NewMirror(netwrk.Snapshot{
			Recipient:  1,
			Player1Pos: uint8(m.OwnPos),
			Player2Pos: u.Player2Pos,
			BallX:      u.BallX,
			BallY:      u.BallY,
			MapWidth:   80,
			MapHeight:  30,
			PaddleSize: 4,
		})
		if m.String() != fresh.String() {
			t.Fatalf("after %+v the grid differs from a fresh one:\n%s\nwant:\n%s", u, m, fresh)
		}
	}
}

func TestMirrorBallOverPaddle(t *testing.T) {
	t.Parallel()
	m := NewMirror(startSnapshot(1))

	m.Apply(netwrk.Update{Recipient: 1, Player1Pos: 15, Player2Pos: 15, BallX: 2, BallY: 15})
	if m.Tile(2, 15) != Ball {
		t.Fatal("ball not drawn over the paddle")
	}
	m.Apply(netwrk.Update{Recipient: 1, Player1Pos: 15, Player2Pos: 15, BallX: 3, BallY: 14})
	if m.Tile(2, 15) != Player {
		t.Fatal("paddle cell not restored after the ball left")
	}
}

func TestMirrorMoveStopsAtWalls(t *testing.T) {
	t.Parallel()
	m := NewMirror(startSnapshot(1))

	moves := 0
	for m.Move(Up) {
		moves++
	}
	if m.OwnPos != 5 || moves != 10 {
		t.Fatalf("up: pos = %d after %d moves, want 5 after 10", m.OwnPos, moves)
	}
	if m.Tile(2, 1) != Player || m.Tile(2, 0) != HorizontalWall {
		t.Fatal("paddle should reach the row below the wall")
	}

	for m.Move(Down) {
	}
	if m.OwnPos != 24 {
		t.Fatalf("down: pos = %d, want 24", m.OwnPos)
	}
	if m.Tile(2, 28) != Player || m.Tile(2, 19) != Empty {
		t.Fatal("paddle cells wrong at the bottom")
	}

	if m.Move(NoMove) {
		t.Fatal("NoMove moved the paddle")
	}
}

func TestMirrorInputPacket(t *testing.T) {
	t.Parallel()
	m := NewMirror(startSnapshot(2))
	m.Move(Up)

	in, err := netwrk.DecodeInput(m.InputPacket())
	if err != nil {
		t.Fatal(err)
	}
	if in.Kind != netwrk.PlayerPos || in.Pos != 14 {
		t.Fatalf("input = %+v, want position 14", in)
	}
}
