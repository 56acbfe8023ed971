package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"lyricsync/core/lyrics"
	"lyricsync/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 << 20 // full songs arrive in one frame
	sendBufferSize = 16
)

// Options configures a new Client.
type Options struct {
	Lyrics lyrics.Options
	// Echo receives every emitted line followed by a newline. It is shared
	// between sessions and must be safe for concurrent use.
	Echo io.Writer
	// Debug logs transport errors at warn level instead of debug.
	Debug bool
}

// Client is one websocket connection and the lyric state that belongs to it.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	writer    *lyrics.Writer
	echo      io.Writer
	debug     bool
	log       *zap.Logger
	quit      chan struct{}
	closeOnce sync.Once
	lastTouch time.Time
}

// NewClient creates a client with a fresh lyric writer and a random id.
func NewClient(hub *Hub, conn *websocket.Conn, opts Options) *Client {
	id := uuid.NewString()
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
		writer: lyrics.NewWriter(opts.Lyrics),
		echo:   opts.Echo,
		debug:  opts.Debug,
		log:    logger.With(logger.String("session", id)),
		quit:   make(chan struct{}),
		// the hub refreshes presence on register
		lastTouch: time.Now(),
	}
}

// Writer exposes the lyric state of this session.
func (c *Client) Writer() *lyrics.Writer {
	return c.writer
}

// Close stops both pumps. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.quit
}

// Handle applies one inbound message to the lyric state and returns the lines
// to emit, in order.
func (c *Client) Handle(msg Inbound) []string {
	switch msg.Kind {
	case KindTime:
		if line, ok := c.writer.Advance(msg.Time); ok {
			return []string{line}
		}
	case KindSynced, KindUnsynced:
		line, ok := c.writer.Load(msg.Song)
		c.log.Debug("song loaded", logger.String("state", c.writer.State().String()))
		if ok {
			return []string{line}
		}
	case KindUnrecognized:
		c.log.Warn("unknown message type", logger.ErrorField(msg.Err))
	}
	return nil
}

// ReadPump reads frames until the connection closes and feeds them through
// Handle. Emitted lines are queued for WritePump; a full queue blocks this
// session only.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.Unregister(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.Conn.ReadMessage()
		if err != nil {
			// a close frame from the peer surfaces here as *websocket.CloseError
			c.logReadError(err)
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.touch(ctx)

		for _, line := range c.Handle(Classify(messageType, data)) {
			if !c.emit(ctx, line) {
				return
			}
		}
	}
}

// WritePump writes queued lines as text frames and keeps the connection alive
// with pings. It owns closing the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Close()
	}()

	for {
		select {
		case line := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, line); err != nil {
				c.logTransportError("websocket write error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logTransportError("websocket ping error", err)
				return
			}

		case <-c.quit:
			c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Client) emit(ctx context.Context, line string) bool {
	if c.echo != nil {
		if _, err := fmt.Fprintln(c.echo, line); err != nil {
			c.log.Warn("failed to echo line", logger.ErrorField(err))
		}
	}

	select {
	case c.Send <- []byte(line):
		return true
	case <-c.quit:
		return false
	case <-ctx.Done():
		return false
	}
}

// touch refreshes the presence heartbeat at most every third of its TTL.
func (c *Client) touch(ctx context.Context) {
	presence := c.Hub.Presence()
	if presence == nil || time.Since(c.lastTouch) < presence.TTL()/3 {
		return
	}
	c.lastTouch = time.Now()
	if err := presence.TouchSession(ctx, c.ID); err != nil {
		c.log.Warn("failed to update session presence", logger.ErrorField(err))
	}
}

func (c *Client) logReadError(err error) {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		c.log.Info("client closed connection")
		return
	}
	c.logTransportError("websocket read error", err)
}

func (c *Client) logTransportError(msg string, err error) {
	select {
	case <-c.quit:
		// closing on our side, errors are expected
		return
	default:
	}
	if c.debug {
		c.log.Warn(msg, logger.ErrorField(err))
	} else {
		c.log.Debug(msg, logger.ErrorField(err))
	}
}

// LockedWriter serializes writes to w so sessions can share it.
func LockedWriter(w io.Writer) io.Writer {
	return &lockedWriter{w: w}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
