// Package mirror implements the live mirror channel: one persistent text
// WebSocket that forwards the whole edit buffer on every edit and hands
// every inbound frame to a display callback.
//
// The channel never reconnects. Once it reaches StateClosed it stays there.
package mirror

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/linanwx/notakers/logger"
)

const (
	defaultReadLimit = 1 << 20
	defaultSendQueue = 64
)

// State is the connection state as seen by callers of Send.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config configures a Channel.
type Config struct {
	URL string

	// OnMessage receives every inbound payload in transport order. It runs
	// on the reader goroutine and must not block for long.
	OnMessage func(text string)

	// OnState, if set, is called after every state transition.
	OnState func(State)

	ReadLimit int64 // max inbound frame size; default 1 MiB
	SendQueue int   // outbound frames buffered while a write is in flight
}

// Channel is a single mirror connection. The zero value is not usable; call New.
type Channel struct {
	cfg Config

	state  atomic.Int32
	conn   atomic.Pointer[websocket.Conn]
	out    chan string

	mu     sync.Mutex // guards ctx, cancel and the connecting->closing move
	ctx    context.Context
	cancel context.CancelFunc

	openOnce  sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a channel in StateConnecting. Nothing touches the network
// until Open.
func New(cfg Config) *Channel {
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = defaultSendQueue
	}
	return &Channel{
		cfg: cfg,
		out: make(chan string, cfg.SendQueue),
	}
}

// Open starts dialing in the background and returns immediately. Calling
// Open more than once has no effect.
func (c *Channel) Open(ctx context.Context) {
	c.openOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.State() != StateConnecting {
			return
		}
		c.ctx, c.cancel = context.WithCancel(ctx)
		c.wg.Add(1)
		go c.run()
	})
}

// State reports the current connection state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Send enqueues text as one frame when the channel is open. It reports
// whether the frame was accepted; a false return means the text was dropped.
func (c *Channel) Send(text string) bool {
	if c.State() != StateOpen {
		return false
	}
	select {
	case c.out <- text:
		return true
	default:
		logger.Warn("mirror send queue full, dropping frame", "bytes", len(text))
		return false
	}
}

// Close closes the connection, or abandons the dial if it is still in
// progress. Only the first call does anything. Close errors from the
// transport are logged, not returned. A peer that never answers the close
// frame holds Close for the transport's handshake timeout (5s).
// Open and Close may be called from different goroutines.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state.Store(int32(StateClosing))
		cancel := c.cancel
		c.mu.Unlock()
		c.notify(StateClosing)

		if conn := c.conn.Load(); conn != nil {
			if err := conn.Close(websocket.StatusNormalClosure, ""); err != nil {
				logger.Debug("mirror close", "err", err)
			}
		}
		if cancel != nil {
			cancel()
		}
		c.wg.Wait()
		c.setState(StateClosed)
		logger.Info("mirror channel closed", "url", c.cfg.URL)
	})
	return nil
}

func (c *Channel) run() {
	defer c.wg.Done()

	conn, _, err := websocket.Dial(c.ctx, c.cfg.URL, nil)
	if err != nil {
		if c.ctx.Err() == nil {
			logger.Warn("mirror dial failed", "url", c.cfg.URL, "err", err)
		}
		c.finish()
		return
	}
	conn.SetReadLimit(c.cfg.ReadLimit)
	c.conn.Store(conn)

	// Close may have started while the dial was in flight and seen a nil
	// conn, in which case the connection is ours to drop.
	if !c.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen)) {
		_ = conn.CloseNow()
		return
	}
	c.notify(StateOpen)
	logger.Info("mirror channel open", "url", c.cfg.URL)

	c.wg.Add(1)
	go c.writeLoop(conn)
	c.readLoop(conn)
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil && websocket.CloseStatus(err) == -1 {
				logger.Warn("mirror read failed", "err", err)
			} else {
				logger.Debug("mirror read stopped", "err", err)
			}
			c.finish()
			return
		}
		if c.cfg.OnMessage != nil {
			c.cfg.OnMessage(string(data))
		}
	}
}

func (c *Channel) writeLoop(conn *websocket.Conn) {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case text := <-c.out:
			if err := conn.Write(c.ctx, websocket.MessageText, []byte(text)); err != nil {
				if c.ctx.Err() == nil {
					logger.Warn("mirror write failed", "err", err)
				}
				c.finish()
				return
			}
		}
	}
}

// finish marks a connection that died on its own. It does not override a
// Close in progress.
func (c *Channel) finish() {
	for {
		cur := c.state.Load()
		if cur == int32(StateClosing) || cur == int32(StateClosed) {
			return
		}
		if c.state.CompareAndSwap(cur, int32(StateClosed)) {
			c.notify(StateClosed)
			c.mu.Lock()
			cancel := c.cancel
			c.mu.Unlock()
			if cancel != nil {
				cancel()
			}
			return
		}
	}
}

func (c *Channel) setState(s State) {
	c.state.Store(int32(s))
	c.notify(s)
}

func (c *Channel) notify(s State) {
	if c.cfg.OnState != nil {
		c.cfg.OnState(s)
	}
}
