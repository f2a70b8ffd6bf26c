package netwrk

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

var (
	// ErrDisconnected is returned when the peer closed its side of the stream.
	ErrDisconnected = errors.New("player disconnected")
	// ErrNoInput is returned when a read timed out. It is the steady state
	// for a peer that had nothing to say this tick and is not fatal.
	ErrNoInput = errors.New("no input before read timeout")
	// ErrTimeoutFixed is returned when the read timeout is set twice.
	ErrTimeoutFixed = errors.New("read timeout already set")
)

const readBufferSize = 1024

// Conn is one player's byte stream. Reads are bounded by a timeout that is
// set once at session setup. Writes are single shot and never retried.
type Conn struct {
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
	timeoutSet   bool

	buf   []byte
	carry []byte

	closeOnce sync.Once
	closeErr  error
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:  conn,
		buf:   make([]byte, readBufferSize),
		carry: make([]byte, 0, readBufferSize),
	}
}

func (c *Conn) SetReadTimeout(d time.Duration) error {
	if c.timeoutSet {
		return ErrTimeoutFixed
	}
	c.readTimeout = d
	c.timeoutSet = true
	return nil
}

func (c *Conn) ReadTimeout() time.Duration {
	return c.readTimeout
}

// SetWriteTimeout bounds each Write. Zero disables the bound.
func (c *Conn) SetWriteTimeout(d time.Duration) {
	c.writeTimeout = d
}

func (c *Conn) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}

func (c *Conn) Read(buf []byte) (int, error) {
	if c.readTimeout > 0 {
		// A closed stream also refuses the deadline. The read below reports it.
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil && !isClosed(err) {
			return 0, fmt.Errorf("set read deadline for %s: %w", c.RemoteAddr(), err)
		}
	}

	n, err := c.conn.Read(buf)
	if n > 0 {
		return n, nil
	}
	if err == nil || errors.Is(err, io.EOF) || isClosed(err) {
		return 0, ErrDisconnected
	}
	if isTimeout(err) {
		return 0, ErrNoInput
	}
	return 0, fmt.Errorf("read from %s: %w", c.RemoteAddr(), err)
}

// ReadInputs reads whatever the peer sent within one timeout window and
// decodes every complete input frame in it. A trailing partial frame is kept
// for the next call.
func (c *Conn) ReadInputs() ([]Input, error) {
	n, err := c.Read(c.buf)
	if err != nil {
		return nil, err
	}
	c.carry = append(c.carry, c.buf[:n]...)

	var inputs []Input
	consumed := 0
	for consumed < len(c.carry) {
		in, err := DecodeInput(c.carry[consumed:])
		if errors.Is(err, ErrShortPacket) {
			break
		}
		if err != nil {
			c.carry = c.carry[:0]
			return inputs, err
		}
		inputs = append(inputs, in)
		consumed += InputSize
	}
	c.carry = c.carry[:copy(c.carry, c.carry[consumed:])]

	return inputs, nil
}

func (c *Conn) Write(b []byte) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline for %s: %w", c.RemoteAddr(), err)
		}
	}
	_, err := c.conn.Write(b)
	if err != nil {
		return fmt.Errorf("write to %s: %w", c.RemoteAddr(), err)
	}
	return nil
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func isClosed(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
