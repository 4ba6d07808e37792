package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket connections and registers
// the resulting client with a Hub. There is no per-request authentication
// step: this engine has no multi-tenant user model to authenticate
// against.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	clientID := uuid.NewString()
	client := NewClient(clientID, h.hub, conn)

	h.logger.Info().Str("client_id", clientID).Str("remote_addr", r.RemoteAddr).Msg("websocket client connected")

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// SetCheckOrigin allows customizing the origin check function.
func SetCheckOrigin(f func(r *http.Request) bool) {
	upgrader.CheckOrigin = f
}

// SetBufferSizes sets the read and write buffer sizes for WebSocket
// connections.
func SetBufferSizes(readSize, writeSize int) {
	upgrader.ReadBufferSize = readSize
	upgrader.WriteBufferSize = writeSize
}
