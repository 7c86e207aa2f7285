// Package broadcast fans store events out to every connected websocket viewer.
// Delivery is best effort: no backlog, no replay, slow clients lose events.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/id"
)

const (
	DefaultEventBuffer  = 1000
	DefaultClientBuffer = 100
)

// Client is one registered viewer connection. Send carries encoded envelopes and is
// closed by the hub together with Done.
type Client struct {
	ID          string
	ConnectedAt time.Time
	Send        chan []byte
	Done        chan struct{}
}

type message struct {
	typ   domain.EventType
	frame []byte
}

type Hub struct {
	clients      map[string]*Client
	events       chan message
	clientBuffer int
	logger       *slog.Logger
	metrics      *metrics
	now          func() time.Time
	mu           sync.RWMutex

	shutdownMu sync.RWMutex
	shutdown   bool
	stopped    chan struct{}
}

// NewHub creates a hub. Buffer sizes fall back to the defaults when not positive.
// Metrics are registered on reg when it is not nil.
func NewHub(logger *slog.Logger, eventBuffer, clientBuffer int, reg prometheus.Registerer) *Hub {
	if eventBuffer <= 0 {
		eventBuffer = DefaultEventBuffer
	}
	if clientBuffer <= 0 {
		clientBuffer = DefaultClientBuffer
	}

	return &Hub{
		clients:      make(map[string]*Client),
		events:       make(chan message, eventBuffer),
		clientBuffer: clientBuffer,
		logger:       logger,
		metrics:      newMetrics(reg),
		now:          time.Now,
		stopped:      make(chan struct{}),
	}
}

// Start runs the broadcast loop until ctx is canceled or Shutdown drains the queue.
func (h *Hub) Start(ctx context.Context) {
	defer close(h.stopped)

	h.logger.Info("broadcast hub starting")

	for {
		select {
		case msg, ok := <-h.events:
			if !ok {
				h.closeAllClients()
				return
			}
			h.broadcast(msg)

		case <-ctx.Done():
			h.logger.Info("broadcast hub stopping")
			h.closeAllClients()
			return
		}
	}
}

// Shutdown stops accepting events, waits for queued ones to be delivered and closes
// every client.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.shutdownMu.Lock()
	if !h.shutdown {
		h.shutdown = true
		close(h.events)
	}
	h.shutdownMu.Unlock()

	select {
	case <-h.stopped:
		h.logger.Info("broadcast hub shutdown complete")
		return nil
	case <-ctx.Done():
		h.logger.Warn("broadcast hub drain timeout, some events may be lost")
		return ctx.Err()
	}
}

// Publish queues ev for every connected client. It never blocks: when the queue is full
// the event is dropped and logged.
func (h *Hub) Publish(ev domain.Event) {
	env, err := domain.EncodeEvent(ev, h.now().UTC())
	if err != nil {
		h.logger.Error("failed to encode event", "type", ev.Type(), "error", err)
		return
	}

	frame, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal envelope", "type", ev.Type(), "error", err)
		return
	}

	h.shutdownMu.RLock()
	defer h.shutdownMu.RUnlock()

	if h.shutdown {
		return
	}

	select {
	case h.events <- message{typ: ev.Type(), frame: frame}:
	default:
		h.metrics.dropped.Inc()
		h.logger.Error("event queue full, dropping event", "type", ev.Type())
	}
}

func (h *Hub) broadcast(msg message) {
	var delivered, dropped int

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- msg.frame:
			delivered++
		default:
			dropped++
			h.logger.Warn("dropped event for slow client",
				"client_id", client.ID,
				"type", msg.typ)
		}
	}

	h.metrics.broadcast.WithLabelValues(string(msg.typ)).Inc()
	h.metrics.dropped.Add(float64(dropped))

	h.logger.Debug("event broadcast",
		"type", msg.typ,
		slog.Group("stats",
			slog.Int("delivered", delivered),
			slog.Int("dropped", dropped)))
}

// Connect registers a new client.
func (h *Hub) Connect() (*Client, error) {
	clientID, err := id.Generate("ws")
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		ConnectedAt: h.now(),
		Send:        make(chan []byte, h.clientBuffer),
		Done:        make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.metrics.clients.Set(float64(total))
	h.logger.Info("websocket client connected", "client_id", clientID, "total_clients", total)

	return client, nil
}

// Disconnect removes a client and closes its channels. Unknown ids are ignored.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	client, ok := h.clients[clientID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, clientID)
	total := len(h.clients)
	h.mu.Unlock()

	close(client.Done)
	close(client.Send)

	h.metrics.clients.Set(float64(total))
	h.logger.Info("websocket client disconnected",
		"client_id", clientID,
		"duration", time.Since(client.ConnectedAt),
		"total_clients", total)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Done)
		close(client.Send)
	}
	h.clients = make(map[string]*Client)
	h.metrics.clients.Set(0)

	h.logger.Info("all websocket clients disconnected")
}
