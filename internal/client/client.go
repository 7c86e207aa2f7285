package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/daniilsolovey/newsfeed/internal/broadcast"
	"github.com/daniilsolovey/newsfeed/internal/domain"
)

const (
	DefaultMinBackoff = 500 * time.Millisecond
	DefaultMaxBackoff = 30 * time.Second

	// DefaultHelloTimeout bounds the wait for the server's hello frame after a dial.
	DefaultHelloTimeout = 10 * time.Second
)

// Observer is called from the event loop after every change of state or mirror.
// It must not block.
type Observer func(state State, snap Snapshot)

type Option func(*Client)

func WithBackoff(minDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.minBackoff, c.maxBackoff = minDelay, maxDelay
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// Client runs one viewer: it subscribes to the real-time channel, seeds the mirror and
// keeps it current, reconnecting with exponential backoff when the connection drops.
type Client struct {
	wsURL      string
	fetcher    Fetcher
	dialer     *websocket.Dialer
	lg         *slog.Logger
	minBackoff time.Duration
	maxBackoff time.Duration

	rec       *Reconciler
	observers []Observer
}

type seedResult struct {
	gen  uint64
	snap Snapshot
	err  error
}

func New(wsURL string, fetcher Fetcher, lg *slog.Logger, opts ...Option) *Client {
	c := &Client{
		wsURL:      wsURL,
		fetcher:    fetcher,
		dialer:     websocket.DefaultDialer,
		lg:         lg,
		minBackoff: DefaultMinBackoff,
		maxBackoff: DefaultMaxBackoff,
		rec:        NewReconciler(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn. Call it before Run.
func (c *Client) Subscribe(fn Observer) {
	c.observers = append(c.observers, fn)
}

// Run blocks until ctx is canceled. It returns nil on cancellation.
func (c *Client) Run(ctx context.Context) error {
	defer func() {
		c.rec.Close()
		c.notify()
	}()

	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connect %s: %w", c.wsURL, err)
		}

		err = c.session(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}

		c.lg.Warn("connection lost", "url", c.wsURL, "error", err)
		c.rec.Disconnected()
		c.notify()
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	b := retry.WithCappedDuration(c.maxBackoff, retry.NewExponential(c.minBackoff))

	var conn *websocket.Conn
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		cn, resp, err := c.dialer.DialContext(ctx, c.wsURL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			c.lg.Warn("dial failed, retrying", "url", c.wsURL, "error", err)
			return retry.RetryableError(err)
		}

		conn = cn
		return nil
	})

	return conn, err
}

// session serves one connection until it fails or ctx is canceled. The seed fetch starts
// only after the hello frame: the server registers the connection before sending it, so
// every write committed after the snapshot is read reaches this connection.
func (c *Client) session(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer conn.Close()
	defer close(done)

	events := make(chan domain.Event)
	hello := make(chan struct{})
	readErr := make(chan error, 1)
	go c.readLoop(conn, hello, events, readErr, done)

	helloTimer := time.NewTimer(DefaultHelloTimeout)
	defer helloTimer.Stop()

	seeds := make(chan seedResult, 1)

	for {
		select {
		case <-hello:
			hello = nil
			helloTimer.Stop()

			gen := c.rec.BeginSeed()
			c.notify()

			go func() {
				snap, err := c.fetcher.Fetch(ctx)
				seeds <- seedResult{gen: gen, snap: snap, err: err}
			}()

		case <-helloTimer.C:
			return fmt.Errorf("no hello frame within %s", DefaultHelloTimeout)

		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return ctx.Err()

		case err := <-readErr:
			return err

		case res := <-seeds:
			if res.err != nil {
				return fmt.Errorf("seed fetch: %w", res.err)
			}
			if !c.rec.ApplySeed(res.gen, res.snap) {
				c.lg.Debug("discarding stale seed", "generation", res.gen)
				continue
			}
			c.lg.Info("mirror seeded",
				"stories", len(res.snap.Stories),
				"tags", len(res.snap.Tags))
			c.notify()

		case ev := <-events:
			if c.rec.Handle(ev) {
				c.notify()
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn, hello chan<- struct{}, events chan<- domain.Event, errs chan<- error, done <-chan struct{}) {
	live := false

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			errs <- err
			return
		}

		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.lg.Warn("skipping malformed frame", "error", err)
			continue
		}
		if env.Type == broadcast.HelloType {
			if !live {
				live = true
				close(hello)
			}
			continue
		}

		ev, err := domain.DecodeEvent(env)
		if err != nil {
			c.lg.Warn("skipping unknown event", "type", env.Type, "error", err)
			continue
		}

		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (c *Client) notify() {
	if len(c.observers) == 0 {
		return
	}

	state, snap := c.rec.State(), c.rec.Snapshot()
	for _, fn := range c.observers {
		fn(state, snap)
	}
}
