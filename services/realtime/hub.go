package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"glowbook/services/presence"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// ErrOffline is returned when the user has no connection on this instance.
var ErrOffline = errors.New("realtime: user is not connected")

// Envelope is the frame written to and read from sockets.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks this instance's sockets and records who is online in the
// presence store.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	presence presence.Store
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHub accepts upgrades from allowedOrigins; an empty list allows any.
func NewHub(store presence.Store, logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		clients:  make(map[string]*client),
		presence: store,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, o := range allowedOrigins {
				if strings.EqualFold(o, origin) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeWS authenticates the caller, upgrades the connection and registers it.
// The token comes from the Authorization header or the token query value.
func (h *Hub) ServeWS(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Authorization token required")
		return
	}
	userID, _, err := utils.ExtractClaims(token)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	if err := h.register(context.Background(), cl); err != nil {
		h.logger.Error("failed to register connection", zap.String("user", userID), zap.Error(err))
		_ = conn.Close()
		return
	}

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) register(ctx context.Context, cl *client) error {
	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()
	if err := h.presence.Set(ctx, cl.userID, cl.id); err != nil {
		h.mu.Lock()
		delete(h.clients, cl.id)
		h.mu.Unlock()
		return err
	}
	h.logger.Debug("socket connected", zap.String("user", cl.userID), zap.String("conn", cl.id))
	return nil
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl.id)
	close(cl.send)
	h.mu.Unlock()

	if err := h.presence.RemoveConnection(context.Background(), cl.id); err != nil {
		h.logger.Warn("failed to clear presence", zap.String("conn", cl.id), zap.Error(err))
	}
	h.logger.Debug("socket disconnected", zap.String("user", cl.userID), zap.String("conn", cl.id))
}

// EmitToUser queues an event for the user's current connection.
func (h *Hub) EmitToUser(ctx context.Context, userID, event string, payload interface{}) error {
	connID, ok, err := h.presence.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOffline
	}
	msg, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	cl, ok := h.clients[connID]
	if !ok {
		return ErrOffline
	}
	select {
	case cl.send <- msg:
		return nil
	default:
		return errors.New("realtime: send buffer full")
	}
}

// Connections reports how many sockets this instance holds.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection, used on shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for _, cl := range h.clients {
		conns = append(conns, cl.conn)
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		_ = cl.conn.Close()
	}()
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in Envelope
		if err := cl.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("socket read failed", zap.String("conn", cl.id), zap.Error(err))
			}
			return
		}
		if in.Event == "ping" {
			h.reply(cl, Envelope{Event: "pong"})
		}
	}
}

func (h *Hub) reply(cl *client, env Envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[cl.id]; !ok {
		return
	}
	select {
	case cl.send <- msg:
	default:
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
