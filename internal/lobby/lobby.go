package lobby

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"tcppong/internal/netwrk"
	"tcppong/internal/pong"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"
)

const (
	intakeSize    = 256
	maxNameLength = 1024
	anonymousName = "anonymous"
)

// StartFunc takes over a freshly paired couple of players.
type StartFunc func(p1, p2 pong.NewPlayer)

// Lobby pairs players in arrival order. Connections do their name handshake
// on their own goroutine and are then handed to a single matchmaking
// goroutine through the intake channel.
type Lobby struct {
	// Start is called from the matchmaking goroutine for every pair. It
	// defaults to running a pong session and must be set before Run.
	Start            StartFunc
	HandshakeTimeout time.Duration

	intake  chan pong.NewPlayer
	waiting *queue.Queue
	count   atomic.Int64

	matches     sync.Map
	sessionOpts []pong.Option
	log         *slog.Logger

	quit      chan struct{}
	closeOnce sync.Once
}

func CreateLobby(log *slog.Logger, sessionOpts ...pong.Option) *Lobby {
	l := &Lobby{
		intake:      make(chan pong.NewPlayer, intakeSize),
		waiting:     queue.New(),
		sessionOpts: sessionOpts,
		log:         log,
		quit:        make(chan struct{}),
	}
	l.Start = l.startSession
	return l
}

// HandleLobbyConnection reads the player's display name and queues the
// player for matchmaking. A failed handshake only drops this connection.
func (l *Lobby) HandleLobbyConnection(conn net.Conn) {
	name, err := l.handshake(conn)
	if err != nil {
		l.log.Warn("Dropping connection after failed handshake",
			slog.String("remote", conn.RemoteAddr().String()),
			slog.Any("error", err))
		conn.Close()
		return
	}

	player := pong.NewPlayer{
		ID:   uuid.New(),
		Name: name,
		Conn: netwrk.NewConn(conn),
	}

	select {
	case l.intake <- player:
	case <-l.quit:
		conn.Close()
	}
}

func (l *Lobby) handshake(conn net.Conn) (string, error) {
	if l.HandshakeTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(l.HandshakeTimeout)); err != nil {
			return "", err
		}
		defer conn.SetReadDeadline(time.Time{})
	}

	buf := make([]byte, maxNameLength)
	n, err := conn.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return "", netwrk.ErrDisconnected
		}
		return "", fmt.Errorf("read player name: %w", err)
	}

	name := strings.TrimSpace(strings.ToValidUTF8(string(buf[:n]), "?"))
	if name == "" {
		name = anonymousName
	}
	return name, nil
}

// Run is the matchmaking loop. It returns after Close.
func (l *Lobby) Run() {
	for {
		select {
		case player := <-l.intake:
			l.waiting.Add(player)
			l.log.Debug("Received player",
				slog.String("name", player.Name),
				slog.String("id", player.ID.String()),
				slog.String("remote", player.Conn.RemoteAddr()))

			if l.waiting.Length() > 1 {
				p1 := l.waiting.Remove().(pong.NewPlayer)
				p2 := l.waiting.Remove().(pong.NewPlayer)
				l.count.Store(int64(l.waiting.Length()))
				l.log.Info("Starting game", slog.String("player1", p1.Name), slog.String("player2", p2.Name))
				l.Start(p1, p2)
				continue
			}
			l.count.Store(int64(l.waiting.Length()))

		case <-l.quit:
			for l.waiting.Length() > 0 {
				p := l.waiting.Remove().(pong.NewPlayer)
				p.Conn.Close()
			}
			l.count.Store(0)
			return
		}
	}
}

// Waiting is the number of players queued without an opponent.
func (l *Lobby) Waiting() int {
	return int(l.count.Load())
}

func (l *Lobby) ActiveMatches() int {
	n := 0
	l.matches.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (l *Lobby) Close() {
	l.closeOnce.Do(func() {
		close(l.quit)
	})
}

func (l *Lobby) startSession(p1, p2 pong.NewPlayer) {
	opts := append([]pong.Option{pong.WithLogger(l.log)}, l.sessionOpts...)
	opts = append(opts, pong.WithOnEnd(func(s *pong.Session, err error) {
		l.matches.Delete(s.ID)
		l.log.Info("Match ended",
			slog.String("match", s.ID.String()),
			slog.Uint64("ticks", s.Ticks()),
			slog.Int("active", l.ActiveMatches()))
	}))

	s, err := pong.NewSession(p1, p2, opts...)
	if err != nil {
		l.log.Error("Could not create session", slog.Any("error", err))
		p1.Conn.Close()
		p2.Conn.Close()
		return
	}

	l.matches.Store(s.ID, s)
	go s.Run()
}
