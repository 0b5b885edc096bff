package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/msdgwzhy6/dmix/protocol"
)

var (
	ErrNotConnected = errors.New("not connected to an MPD server")

	// ErrNotMPD means the remote end answered the connect with
	// something other than the MPD greeting banner.
	ErrNotMPD = errors.New("server did not send an MPD banner")
)

// Conn is one connection to an MPD server. It implements
// protocol.Transport: one command (or rendered command list) out, the
// full response back, with `OK` stripped and `ACK` turned into a
// *protocol.Ack.
//
// A Conn serialises commands internally, so a single Conn can be
// shared by concurrent callers; each SendCommand is one uninterrupted
// request/response exchange.
type Conn struct {
	opts Options

	mu      sync.Mutex
	conn    net.Conn
	r       *bufio.Reader
	version string

	log *zap.Logger
}

func New(opts Options) *Conn {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Conn{
		opts: opts,
		log:  log.Named("transport"),
	}
}

// Connect dials the server and consumes the greeting banner. The
// protocol version announced in the banner is available from Version
// afterwards.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: c.opts.ConnectTimeout}

	conn, err := dialer.DialContext(ctx, c.opts.network(), c.opts.addr())
	if err != nil {
		return err
	}

	r := bufio.NewReader(conn)

	if c.opts.ConnectTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(c.opts.ConnectTimeout)); err != nil {
			conn.Close()
			return err
		}
	}

	banner, err := r.ReadString(protocol.Newline)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read server banner: %w", err)
	}

	banner = strings.TrimSuffix(banner, string(protocol.Newline))

	if !strings.HasPrefix(banner, protocol.BannerPrefix) {
		conn.Close()
		return fmt.Errorf("got %q: %w", banner, ErrNotMPD)
	}

	conn.SetReadDeadline(time.Time{})

	c.conn = conn
	c.r = r
	c.version = strings.TrimPrefix(banner, protocol.BannerPrefix)

	c.log.Info("Connected",
		zap.String("addr", c.opts.addr()),
		zap.String("mpdVersion", c.version))

	return nil
}

// Version returns the protocol version from the greeting banner, or ""
// before Connect.
func (c *Conn) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

// SendCommand writes one rendered command to the server, supplies the
// final newline terminator, and reads response lines until the
// terminal acknowledgement.
//
// The returned lines exclude the terminal `OK`. A server `ACK` line is
// returned as a *protocol.Ack error; everything else read so far is
// discarded, matching the server's abort of the remaining list.
func (c *Conn) SendCommand(wire string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	if err := c.write(wire); err != nil {
		return nil, err
	}

	return c.readResponse()
}

func (c *Conn) write(wire string) error {
	if c.opts.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
			return err
		}
	}

	// The rendered form never ends in a newline, the terminator is
	// supplied here in the same write.
	_, err := c.conn.Write(append([]byte(wire), byte(protocol.Newline)))
	return err
}

func (c *Conn) readResponse() ([]string, error) {
	lines := []string{}

	for {
		if c.opts.ReadTimeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout)); err != nil {
				return nil, err
			}
		}

		line, err := c.r.ReadString(protocol.Newline)
		if err != nil {
			return nil, err
		}

		line = strings.TrimSuffix(line, string(protocol.Newline))

		if line == protocol.ResponseOK {
			return lines, nil
		}

		if ack, ok := protocol.ParseAck(line); ok {
			c.log.Warn("Command rejected by server", zap.String("ack", ack.Error()))
			return nil, ack
		}

		lines = append(lines, line)
	}
}

// Close tears the connection down. A Conn can be Connected again
// afterwards.
func (c *Conn) Close() (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	if tcp, ok := c.conn.(*net.TCPConn); ok {
		if cerr := tcp.CloseRead(); cerr != nil &&
			!strings.Contains(cerr.Error(), "transport endpoint is not connected") {
			err = multierr.Append(err, cerr)
		}
	}

	err = multierr.Append(err, c.conn.Close())

	c.conn = nil
	c.r = nil
	c.version = ""

	return err
}

var _ protocol.Transport = (*Conn)(nil)
