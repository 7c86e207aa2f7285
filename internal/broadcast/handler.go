package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// HelloType is the type of the first frame written on every connection. It is not a
// store event; clients use it only to learn that the subscription is live.
const HelloType = "connected"

const (
	DefaultPingInterval = 30 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

type Handler struct {
	hub          *Hub
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeTimeout time.Duration
}

// NewHandler serves the websocket endpoint. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, logger *slog.Logger, allowedOrigins []string, pingInterval, writeTimeout time.Duration) *Handler {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
	}
}

// Serve upgrades the request and streams events until either side goes away.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	client, err := h.hub.Connect()
	if err != nil {
		h.logger.Error("failed to register websocket client", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "registration failed"),
			time.Now().Add(h.writeTimeout))
		return nil
	}
	defer h.hub.Disconnect(client.ID)

	lg := h.logger.With("client_id", client.ID)

	hello, err := json.Marshal(map[string]any{
		"type":      HelloType,
		"data":      map[string]string{"clientId": client.ID},
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		return nil
	}
	if err := h.write(conn, websocket.TextMessage, hello); err != nil {
		lg.Info("client gone before hello", "error", err)
		return nil
	}

	readerDone := make(chan struct{})
	go h.readPump(conn, readerDone)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-client.Send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(h.writeTimeout))
				lg.Info("client closed by hub")
				return nil
			}
			if err := h.write(conn, websocket.TextMessage, frame); err != nil {
				lg.Info("client disconnected during send")
				return nil
			}

		case <-ticker.C:
			if err := h.write(conn, websocket.PingMessage, nil); err != nil {
				lg.Info("client disconnected during ping")
				return nil
			}

		case <-readerDone:
			lg.Debug("client closed connection")
			return nil
		}
	}
}

// readPump discards inbound messages; it exists to process control frames and notice
// when the peer goes away.
func (h *Handler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, messageType int, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(messageType, data)
}
