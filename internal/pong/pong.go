package pong

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Session runs one match from the snapshot exchange until a player leaves.
type Session struct {
	ID uuid.UUID

	kind  Gamemodes
	mode  Gamemode
	state *GameState
	rng   *rand.Rand

	tickInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	log   *slog.Logger
	onEnd func(*Session, error)

	ticks   uint64
	started time.Time
}

type Option func(*Session)

func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(s *Session) { s.readTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Session) { s.writeTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithGamemode(kind Gamemodes) Option {
	return func(s *Session) { s.kind = kind }
}

// WithOnEnd registers a callback that runs once after both connections were
// released.
func WithOnEnd(f func(*Session, error)) Option {
	return func(s *Session) { s.onEnd = f }
}

func NewSession(p1, p2 NewPlayer, opts ...Option) (*Session, error) {
	s := &Session{
		ID:           uuid.New(),
		kind:         Standard,
		tickInterval: TickInterval,
		readTimeout:  PlayerTimeout,
		writeTimeout: WriteTimeout,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	mode, err := NewGamemode(s.kind, s.rng)
	if err != nil {
		return nil, err
	}
	s.mode = mode
	s.state = mode.Setup(p1, p2)
	s.log = s.log.With(slog.String("match", s.ID.String()))

	return s, nil
}

func (s *Session) Ticks() uint64 {
	return s.ticks
}

// Run blocks until the match is over and returns why it ended.
func (s *Session) Run() error {
	s.started = time.Now()
	s.log.Info("Starting game",
		slog.String("mode", s.kind.String()),
		slog.String("player1", s.state.Player1.String()),
		slog.String("player2", s.state.Player2.String()))

	err := s.setup()
	for err == nil {
		err = s.tick()
		if err != nil {
			break
		}
		time.Sleep(s.tickInterval)
	}

	s.terminate(err)
	return err
}

func (s *Session) setup() error {
	for _, p := range []*Player{s.state.Player1, s.state.Player2} {
		if err := p.conn.SetReadTimeout(s.readTimeout); err != nil {
			return &PlayerError{Ordinal: p.Ordinal, Name: p.Name, Err: err}
		}
		p.conn.SetWriteTimeout(s.writeTimeout)
	}

	s.log.Debug("Sending game snapshot")
	for _, p := range []*Player{s.state.Player1, s.state.Player2} {
		s.sendTo(p, s.mode.EncodeSnapshot(s.state, p.Ordinal))
	}
	s.broadcast()
	return nil
}

// tick runs one cycle: broadcast, read both inputs, apply, simulate.
func (s *Session) tick() error {
	s.broadcast()

	var errs []error
	for _, p := range []*Player{s.state.Player1, s.state.Player2} {
		pos, ok, err := p.poll()
		if ok {
			s.state.ApplyInput(p.Ordinal, pos)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}

	s.mode.StepTick(s.state)
	s.ticks++
	s.log.Debug("Game state", slog.Uint64("tick", s.ticks), slog.String("state", s.state.String()))
	return nil
}

func (s *Session) broadcast() {
	for _, p := range []*Player{s.state.Player1, s.state.Player2} {
		s.sendTo(p, s.mode.EncodeUpdate(s.state, p.Ordinal))
	}
}

// sendTo never fails the match. A lost update is replaced by the next one.
func (s *Session) sendTo(p *Player, b []byte) {
	if err := p.send(b); err != nil {
		s.log.Debug("Failed to send to player", slog.Int("player", int(p.Ordinal)), slog.Any("error", err))
	}
}

func (s *Session) terminate(reason error) {
	for _, p := range []*Player{s.state.Player1, s.state.Player2} {
		if err := p.conn.Close(); err != nil {
			s.log.Debug("Error closing player connection", slog.Int("player", int(p.Ordinal)), slog.Any("error", err))
		}
	}

	s.log.Info("Game over", slog.Any("reason", reason))
	summary, err := matchSummary(s, reason, time.Now())
	if err != nil {
		s.log.Warn("Could not encode match summary", slog.Any("error", err))
	} else {
		s.log.Info("Match summary", slog.String("summary", string(summary)))
	}

	if s.onEnd != nil {
		s.onEnd(s, reason)
	}
}
