package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	hub    *Hub
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type delivery struct {
	userID  string
	payload []byte
}

// Hub keeps the open sockets of each user and delivers in-app notifications
// to them.
type Hub struct {
	clients    map[string]map[*Client]bool
	publish    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the single loop that owns the client set. It returns when ctx is
// canceled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.String("userId", client.userID))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.String("userId", client.userID))
		case d := <-h.publish:
			h.mu.Lock()
			for client := range h.clients[d.userID] {
				select {
				case client.send <- d.payload:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// Publish queues payload for every open socket of userID and reports how many
// sockets were open. A user without sockets is not an error.
func (h *Hub) Publish(userID string, payload []byte) int {
	h.mu.RLock()
	n := len(h.clients[userID])
	h.mu.RUnlock()
	if n == 0 {
		return 0
	}

	select {
	case h.publish <- delivery{userID: userID, payload: payload}:
	default:
		h.logger.Warn("websocket publish queue full, dropping message", zap.String("userId", userID))
		return 0
	}
	return n
}

func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", zap.String("userId", c.userID), zap.Error(err))
			}
			return
		}
	}
}

// Handler upgrades authenticated requests. The token comes from the token
// query parameter and its sub claim names the user.
func (h *Hub) Handler(secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticate(r.URL.Query().Get("token"), secret)
		if err != nil {
			h.logger.Warn("websocket connection rejected", zap.Error(err))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		// The server's request deadlines carry over to the hijacked conn.
		_ = conn.SetReadDeadline(time.Time{})

		client := &Client{hub: h, userID: userID, conn: conn, send: make(chan []byte, 64)}
		select {
		case h.register <- client:
		case <-h.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

func authenticate(tokenString string, secret []byte) (string, error) {
	if tokenString == "" {
		return "", jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", jwt.ErrTokenInvalidSubject
	}

	return sub, nil
}
