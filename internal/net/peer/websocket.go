package peer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

const defaultWriteTimeout = 5 * time.Second

// Options tunes a websocket channel.
type Options struct {
	Logger       telemetry.Logger
	Metrics      telemetry.Metrics
	WriteTimeout time.Duration
}

// Conn is a Channel over a gorilla websocket connection. Frames are text or
// binary depending on the codec.
type Conn struct {
	handlers

	conn    *websocket.Conn
	codec   proto.Codec
	logger  telemetry.Logger
	metrics telemetry.Metrics
	timeout time.Duration

	writeMu   sync.Mutex
	startOnce sync.Once
	closeOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}
}

// NewConn wraps an established websocket connection.
func NewConn(conn *websocket.Conn, codec proto.Codec, opts Options) *Conn {
	if codec == nil {
		codec = proto.JSONCodec{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Conn{
		conn:    conn,
		codec:   codec,
		logger:  logger,
		metrics: opts.Metrics,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Done is closed once the connection has shut down.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) frameType() int {
	if c.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (c *Conn) Send(env proto.Envelope) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	data, err := c.codec.Encode(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.conn.WriteMessage(c.frameType(), data); err != nil {
		return fmt.Errorf("send %s: %w", env.Type, err)
	}
	c.count("peer_frames_sent", 1)
	c.count("peer_bytes_sent", uint64(len(data)))
	return nil
}

func (c *Conn) Start() {
	c.startOnce.Do(func() {
		c.opened()
		go c.readLoop()
	})
}

func (c *Conn) readLoop() {
	defer c.shutdown()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Printf("peer read failed: %v", err)
			}
			return
		}
		env, err := c.codec.Decode(data)
		if err != nil {
			c.count("peer_frames_dropped", 1)
			c.dropped(err, len(data))
			continue
		}
		c.count("peer_frames_received", 1)
		c.deliver(env)
	}
}

// Close sends a normal close frame and tears the connection down. The read
// loop reports StateClosed once it exits.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
		c.startOnce.Do(func() {})
		c.shutdown()
	})
	return err
}

func (c *Conn) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
	c.conn.Close()
	c.closed()
}

func (c *Conn) count(key string, delta uint64) {
	if c.metrics != nil {
		c.metrics.Add(key, delta)
	}
}
