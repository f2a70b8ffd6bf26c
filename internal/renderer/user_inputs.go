package renderer

import (
	"bufio"
	"io"
	"tcppong/internal/client"
)

type UiAction rune

const (
	Unknown   UiAction = iota
	Backspace UiAction = 8
	Escape    UiAction = 27
	Delete    UiAction = 127
	Quit      UiAction = 81 // 'Q'
	Up        UiAction = 87 // 'W'
	Down      UiAction = 83 // 'S'
	UpArrow   UiAction = 8593
	DownArrow UiAction = 8595
)

func ProcessInput(rawInput rune) (action UiAction) {
	inputVal := int(rawInput)
	// Convert to UpperCase
	if inputVal >= 97 && inputVal <= 122 {
		inputVal = inputVal - 32
	}
	return UiAction(inputVal)
}

// Direction maps an action to a paddle command.
func (a UiAction) Direction() client.Direction {
	switch a {
	case Up, UpArrow:
		return client.Up
	case Down, DownArrow:
		return client.Down
	case Quit, Backspace, Delete:
		return client.Quit
	default:
		return client.NoMove
	}
}

// ReadKeys turns raw key presses from r into directions on out until r fails,
// a quit key is read or done is closed. Arrow keys arrive as ESC [ A and
// ESC [ B.
func ReadKeys(r io.Reader, out chan<- client.Direction, done <-chan struct{}) {
	br := bufio.NewReader(r)
	for {
		ch, _, err := br.ReadRune()
		if err != nil {
			return
		}

		action := ProcessInput(ch)
		if action == Escape {
			action = readEscape(br)
		}

		d := action.Direction()
		if d == client.NoMove {
			continue
		}
		select {
		case out <- d:
		case <-done:
			return
		}
		if d == client.Quit {
			return
		}
	}
}

func readEscape(br *bufio.Reader) UiAction {
	if b, err := br.ReadByte(); err != nil || b != '[' {
		return Unknown
	}
	b, err := br.ReadByte()
	if err != nil {
		return Unknown
	}
	switch b {
	case 'A':
		return UpArrow
	case 'B':
		return DownArrow
	default:
		return Unknown
	}
}
