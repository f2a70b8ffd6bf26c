package ansii

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ANSI string

const (
	reset       ANSI = "\033[0m"
	bold        ANSI = "\033[1m"
	red         ANSI = "\033[31m"
	green       ANSI = "\033[32m"
	yellow      ANSI = "\033[33m"
	blue        ANSI = "\033[34m"
	white       ANSI = "\033[37m"
	clearScreen ANSI = "\033[2J"
	hideCursor  ANSI = "\033[?25l"
	showCursor  ANSI = "\033[?25h"
)

type style struct {
	Reset ANSI
	Bold  ANSI
}

type color struct {
	Red    ANSI
	Green  ANSI
	Yellow ANSI
	Blue   ANSI
	White  ANSI
}

type screen struct {
	ClearScreen ANSI
	HideCursor  ANSI
	ShowCursor  ANSI
}

type ascii struct {
	Block string
}

var (
	Styles = style{Reset: reset, Bold: bold}
	Colors = color{Red: red, Green: green, Yellow: yellow, Blue: blue, White: white}
	Screen = screen{ClearScreen: clearScreen, HideCursor: hideCursor, ShowCursor: showCursor}
	Blocks = ascii{Block: "█"}
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func GetTermSize(f *os.File) (width int, height int, err error) {
	return term.GetSize(int(f.Fd()))
}

// MakeTermRaw switches f to raw mode so single key presses can be read
// without waiting for a newline. The returned state undoes it.
func MakeTermRaw(f *os.File) (*term.State, error) {
	return term.MakeRaw(int(f.Fd()))
}

func RestoreTerm(f *os.File, prev *term.State) error {
	return term.Restore(int(f.Fd()), prev)
}

// PlaceCursor moves to the zero based cell (x, y).
func (s screen) PlaceCursor(x, y int) ANSI {
	return ANSI(fmt.Sprintf("\033[%d;%dH", y+1, x+1))
}

// Styled writes text wrapped in style and a reset.
func Styled(builder *strings.Builder, text string, style ANSI) {
	builder.WriteString(string(style))
	builder.WriteString(text)
	builder.WriteString(string(Styles.Reset))
}
