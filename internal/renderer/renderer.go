package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"tcppong/internal/ansii"
	"tcppong/internal/client"

	"golang.org/x/term"
)

// Lines drawn below the grid: a blank line and the player label.
const footerLines = 2

// Terminal draws the match on a terminal, one full frame per call.
type Terminal struct {
	out  io.Writer
	in   *os.File
	prev *term.State
	// size reports the terminal dimensions. Nil when out is not a terminal.
	size func() (int, int, error)
}

// NewTerminal puts in into raw mode when it is a terminal and draws to out.
// Close restores the previous mode.
func NewTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	t := &Terminal{out: out, in: in}
	if in != nil && ansii.IsTerminal(in) {
		prev, err := ansii.MakeTermRaw(in)
		if err != nil {
			return nil, fmt.Errorf("enter raw mode: %w", err)
		}
		t.prev = prev
	}
	if f, ok := out.(*os.File); ok && ansii.IsTerminal(f) {
		t.size = func() (int, int, error) { return ansii.GetTermSize(f) }
	}
	io.WriteString(out, string(ansii.Screen.HideCursor))
	return t, nil
}

// Render draws m, or a notice when the terminal cannot hold the grid.
func (t *Terminal) Render(m *client.Mirror) {
	if t.size != nil {
		if w, h, err := t.size(); err == nil && (w < m.Width || h < m.Height+footerLines) {
			io.WriteString(t.out, TooSmall(m, w, h))
			return
		}
	}
	io.WriteString(t.out, Frame(m))
}

func (t *Terminal) Close() error {
	io.WriteString(t.out, string(ansii.Styles.Reset+ansii.Screen.ShowCursor)+"\r\n")
	if t.prev == nil {
		return nil
	}
	return ansii.RestoreTerm(t.in, t.prev)
}

// Frame is the full screen for m. Lines end in CRLF since raw mode does not
// translate newlines.
func Frame(m *client.Mirror) string {
	var builder strings.Builder
	builder.WriteString(string(ansii.Screen.ClearScreen))
	builder.WriteString(string(ansii.Screen.PlaceCursor(0, 0)))

	tiles := m.Tiles()
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			writeTile(&builder, tiles[y*m.Width+x])
		}
		builder.WriteString("\r\n")
	}
	builder.WriteString("\r\n")
	ansii.Styled(&builder, fmt.Sprintf("Player %d", m.Ordinal), ansii.Styles.Bold+labelColor(m.Ordinal))
	builder.WriteString("\r\n")
	return builder.String()
}

// TooSmall asks for a terminal of at least the grid size.
func TooSmall(m *client.Mirror, width, height int) string {
	var builder strings.Builder
	builder.WriteString(string(ansii.Screen.ClearScreen))
	builder.WriteString(string(ansii.Screen.PlaceCursor(0, 0)))
	ansii.Styled(&builder,
		fmt.Sprintf("Terminal is %dx%d, the game needs %dx%d", width, height, m.Width, m.Height+footerLines),
		ansii.Styles.Bold+ansii.Colors.Red)
	builder.WriteString("\r\n")
	return builder.String()
}

func labelColor(ordinal uint8) ansii.ANSI {
	if ordinal == 2 {
		return ansii.Colors.Yellow
	}
	return ansii.Colors.Green
}

func writeTile(builder *strings.Builder, tile client.Tile) {
	switch tile {
	case client.Player:
		ansii.Styled(builder, ansii.Blocks.Block, ansii.Colors.White)
	case client.Ball:
		ansii.Styled(builder, ansii.Blocks.Block, ansii.Colors.Blue)
	case client.Corner:
		ansii.Styled(builder, "+", ansii.Colors.White)
	case client.VerticalWall:
		ansii.Styled(builder, "|", ansii.Colors.White)
	case client.HorizontalWall:
		ansii.Styled(builder, "-", ansii.Colors.White)
	default:
		builder.WriteByte(' ')
	}
}
