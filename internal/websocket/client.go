package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/session"
	"github.com/gorilla/websocket"
)

// Options are the connection timings.
type Options struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// Frame is one server-to-page message.
type Frame struct {
	Type    string              `json:"type"`
	Command session.CommandType `json:"command,omitempty"`
	Error   string              `json:"error,omitempty"`
	Data    *session.Snapshot   `json:"data,omitempty"`
}

// Client connects one websocket to one page session.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	session *session.Session
	send    chan []byte
	opts    Options
	logger  *slog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, sess *session.Session, opts Options, logger *slog.Logger) *Client {
	return &Client{
		id:      sess.ID(),
		hub:     hub,
		conn:    conn,
		session: sess,
		send:    make(chan []byte, 16),
		opts:    opts,
		logger:  logger.With("client_id", sess.ID()),
	}
}

// Start opens the session and runs the pumps. The session lives until the
// connection drops or ctx is done.
func (c *Client) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.session.Open(ctx)
	go c.writePump(ctx)
	go c.renderPump(ctx)
	go c.readPump(ctx, cancel)
}

// readPump decodes page commands. There is at most one reader per
// connection; it also owns the session's lifetime.
func (c *Client) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer func() {
		c.hub.remove(c)
		c.session.Close()
		cancel()
		c.conn.Close()
	}()

	if c.opts.MaxMessageSize > 0 {
		c.conn.SetReadLimit(c.opts.MaxMessageSize)
	}
	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error", "err", err)
			}
			return
		}
		var cmd session.Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.enqueue(ctx, Frame{Type: FrameError, Error: "malformed command"})
			continue
		}
		if err := c.session.Handle(ctx, cmd); err != nil {
			c.enqueue(ctx, Frame{Type: FrameError, Command: cmd.Type, Error: err.Error()})
		}
	}
}

// renderPump sends a full snapshot every time the session changes.
func (c *Client) renderPump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.session.Updates():
			snap := c.session.Snapshot()
			c.enqueue(ctx, Frame{Type: FrameSnapshot, Data: &snap})
		}
	}
}

func (c *Client) enqueue(ctx context.Context, f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		c.logger.Error("encode frame", "type", f.Type, "err", err)
		return
	}
	select {
	case c.send <- b:
	case <-ctx.Done():
	}
}

// writePump is the only writer to the connection.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
