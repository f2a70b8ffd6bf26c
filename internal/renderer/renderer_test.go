package renderer

import (
	"bytes"
	"strings"
	"tcppong/internal/ansii"
	"tcppong/internal/client"
	"tcppong/internal/netwrk"
	"testing"
	"time"
)

func testMirror(recipient uint8) *client.Mirror {
	return client.NewMirror(netwrk.Snapshot{
		Recipient:  recipient,
		Player1Pos: 15,
		Player2Pos: 15,
		BallX:      40,
		BallY:      15,
		MapWidth:   80,
		MapHeight:  30,
		PaddleSize: 4,
	})
}

func TestFrameLayout(t *testing.T) {
	t.Parallel()
	frame := Frame(testMirror(2))

	if !strings.Contains(frame, "Player 2") {
		t.Fatal("frame has no player label")
	}
	// 30 grid rows, a blank line and the label.
	if got := strings.Count(frame, "\r\n"); got != 32 {
		t.Fatalf("frame has %d lines, want 32", got)
	}
	// Two paddles of 9 cells and the ball.
	if got := strings.Count(frame, "█"); got != 19 {
		t.Fatalf("frame has %d blocks, want 19", got)
	}
	if got := strings.Count(frame, "+"); got != 4 {
		t.Fatalf("frame has %d corners, want 4", got)
	}
}

func TestFrameLabelColorPerPlayer(t *testing.T) {
	t.Parallel()
	if !strings.Contains(Frame(testMirror(1)), string(ansii.Colors.Green)+"Player 1") {
		t.Fatal("player 1 label is not green")
	}
	if !strings.Contains(Frame(testMirror(2)), string(ansii.Colors.Yellow)+"Player 2") {
		t.Fatal("player 2 label is not yellow")
	}
}

func TestTerminalRenderChecksSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		width, height int
		wantFrame     bool
	}{
		{"fits exactly", 80, 32, true},
		{"large", 200, 60, true},
		{"too narrow", 79, 40, false},
		{"too short", 100, 31, false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		term := &Terminal{out: &out, size: func() (int, int, error) { return tt.width, tt.height, nil }}
		term.Render(testMirror(1))

		gotFrame := strings.Contains(out.String(), "Player 1")
		if gotFrame != tt.wantFrame {
			t.Errorf("%s: drew frame = %v, want %v:\n%s", tt.name, gotFrame, tt.wantFrame, out.String())
		}
		if !tt.wantFrame && !strings.Contains(out.String(), "needs 80x32") {
			t.Errorf("%s: notice = %q", tt.name, out.String())
		}
	}
}

func TestTerminalWithoutSizeAlwaysDraws(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	term, err := NewTerminal(nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	term.Render(testMirror(2))
	if !strings.Contains(out.String(), "Player 2") {
		t.Fatal("frame not drawn to a plain writer")
	}
	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProcessInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   rune
		want client.Direction
	}{
		{'w', client.Up},
		{'W', client.Up},
		{'s', client.Down},
		{'S', client.Down},
		{'q', client.Quit},
		{127, client.Quit},
		{8, client.Quit},
		{'x', client.NoMove},
		{' ', client.NoMove},
	}
	for _, tt := range tests {
		if got := ProcessInput(tt.in).Direction(); got != tt.want {
			t.Errorf("ProcessInput(%q).Direction() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadKeys(t *testing.T) {
	t.Parallel()
	out := make(chan client.Direction, 16)
	done := make(chan struct{})

	go func() {
		ReadKeys(strings.NewReader("wx\x1b[A\x1b[B\x1b[Cs"+"q"+"w"), out, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadKeys did not stop after quit")
	}
	close(out)

	var got []client.Direction
	for d := range out {
		got = append(got, d)
	}
	want := []client.Direction{client.Up, client.Up, client.Down, client.Down, client.Quit}
	if len(got) != len(want) {
		t.Fatalf("directions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("directions = %v, want %v", got, want)
		}
	}
}

func TestReadKeysStopsWhenDone(t *testing.T) {
	t.Parallel()
	out := make(chan client.Direction)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		ReadKeys(strings.NewReader("wwww"), out, done)
		close(stopped)
	}()

	<-out
	close(done)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadKeys kept blocking on a reader nobody listens to")
	}
}
