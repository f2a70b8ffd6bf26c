package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"tcppong/internal/netwrk"
	"time"
)

const (
	frameDelay = 10 * time.Millisecond
	inputPoll  = time.Millisecond

	shutdownTimeout = 250 * time.Millisecond
)

var ErrNoSnapshot = errors.New("connection closed before the game started")

// Renderer draws the mirror. It is called once per received update.
type Renderer interface {
	Render(m *Mirror)
}

type game struct {
	conn   net.Conn
	render Renderer
	inputs <-chan Direction
	log    *slog.Logger
	mirror *Mirror
}

// Game plays one match on conn. It waits for the snapshot, then for every
// update it applies the update, polls local input, renders and reports the
// own paddle position. It returns nil when the server ends the match or the
// player quits, and closes conn in both cases.
func Game(conn net.Conn, render Renderer, inputs <-chan Direction, log *slog.Logger) error {
	defer conn.Close()

	g := &game{conn: conn, render: render, inputs: inputs, log: log}

	snapshots := make(chan netwrk.Snapshot, 1)
	updates := make(chan netwrk.Update, 64)
	done := make(chan struct{})
	readErr := make(chan error, 1)
	defer close(done)

	// Network reader
	go func() {
		defer close(updates)
		defer close(snapshots)
		readErr <- receive(conn, snapshots, updates, done, log)
	}()

	// Waiting for an opponent. Only quit is honoured until the match starts.
	for g.mirror == nil {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return fmt.Errorf("%w: %v", ErrNoSnapshot, <-readErr)
			}
			g.mirror = NewMirror(snap)
		case d, ok := <-g.inputs:
			if !ok {
				g.inputs = nil
				continue
			}
			if d == Quit {
				g.log.Info("Left before the game started")
				return nil
			}
		}
	}
	g.log.Info("Game started",
		slog.Int("player", int(g.mirror.Ordinal)),
		slog.Int("width", g.mirror.Width),
		slog.Int("height", g.mirror.Height))
	g.render.Render(g.mirror)

	// Local input is watched between updates too, so quit works while the
	// server is silent.
loop:
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				break loop
			}
			g.mirror.Apply(u)

			if g.pollInput() {
				g.quit()
				return nil
			}

			g.render.Render(g.mirror)

			if err := g.send(g.mirror.InputPacket()); err != nil {
				g.log.Warn("Failed to send position, leaving game", slog.Any("error", err))
				return err
			}
			time.Sleep(frameDelay)

		case d, ok := <-g.inputs:
			if !ok {
				g.inputs = nil
				continue
			}
			if g.apply(d) {
				g.quit()
				return nil
			}
		}
	}

	err := <-readErr
	if errors.Is(err, io.EOF) {
		g.log.Info("Server ended the game")
		return nil
	}
	return err
}

// quit tells the server this player is leaving. The write is bounded so a
// stalled server cannot hold the client.
func (g *game) quit() {
	g.log.Info("Quitting game")
	g.conn.SetWriteDeadline(time.Now().Add(shutdownTimeout))
	if err := g.send(netwrk.ShutdownInput().Marshal()); err != nil {
		g.log.Debug("Failed to send shutdown", slog.Any("error", err))
	}
}

func (g *game) send(b []byte) error {
	_, err := g.conn.Write(b)
	return err
}

// pollInput waits briefly for local input and applies everything pending. It
// reports whether the player asked to quit.
func (g *game) pollInput() bool {
	if g.inputs == nil {
		return false
	}

	wait := time.NewTimer(inputPoll)
	defer wait.Stop()

	select {
	case d, ok := <-g.inputs:
		if !ok {
			g.inputs = nil
			return false
		}
		if g.apply(d) {
			return true
		}
	case <-wait.C:
		return false
	}

	for {
		select {
		case d, ok := <-g.inputs:
			if !ok {
				g.inputs = nil
				return false
			}
			if g.apply(d) {
				return true
			}
		default:
			return false
		}
	}
}

func (g *game) apply(d Direction) bool {
	if d == Quit {
		return true
	}
	g.mirror.Move(d)
	return false
}

// receive splits the server byte stream into packets. The snapshot goes out
// once, updates after it; updates before the snapshot are dropped.
func receive(r io.Reader, snapshots chan<- netwrk.Snapshot, updates chan<- netwrk.Update, done <-chan struct{}, log *slog.Logger) error {
	br := bufio.NewReader(r)
	frame := make([]byte, netwrk.SnapshotSize)
	started := false

	for {
		tag, err := br.ReadByte()
		if err != nil {
			return err
		}
		size, err := netwrk.ServerPacketSize(tag)
		if err != nil {
			return err
		}
		frame[0] = tag
		if _, err := io.ReadFull(br, frame[1:size]); err != nil {
			return err
		}

		p, _, err := netwrk.DecodeServerPacket(frame[:size])
		if err != nil {
			return err
		}

		switch p := p.(type) {
		case netwrk.Snapshot:
			if started {
				log.Warn("Ignoring second snapshot")
				continue
			}
			started = true
			snapshots <- p
		case netwrk.Update:
			if !started {
				log.Debug("Dropping update received before snapshot")
				continue
			}
			select {
			case updates <- p:
			case <-done:
				return nil
			}
		}
	}
}
