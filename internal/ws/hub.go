package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

// Client is one websocket connection bound to a contact session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type envelope struct {
	sessionID string
	payload   []byte
}

// Hub fans events out to the connections of each session.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	drop       chan string
	done       chan struct{}
	mu         sync.Mutex

	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHub builds a hub accepting upgrades from allowedOrigin ("*" or empty
// accepts any origin).
func NewHub(allowedOrigin string, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		drop:       make(chan string, 16),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for id, set := range h.clients {
			for client := range set {
				close(client.send)
			}
			delete(h.clients, id)
		}
		h.mu.Unlock()
	}()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.sessionID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.sessionID] = set
			}
			set[client] = true
			h.mu.Unlock()
			h.logger.Debug().Str("session_id", client.sessionID).Msg("websocket client registered")
		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		case sessionID := <-h.drop:
			h.mu.Lock()
			for client := range h.clients[sessionID] {
				h.removeLocked(client)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.sessionID] {
				select {
				case client.send <- msg.payload:
				default:
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.sessionID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.logger.Debug().Str("session_id", client.sessionID).Msg("websocket client unregistered")
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publish sends an event to every connection of sessionID. It never
// blocks once the hub has stopped.
func (h *Hub) Publish(sessionID, eventType string, data interface{}) {
	payload, err := sonic.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.logger.Error().Err(err).Msg("error marshaling ws event")
		return
	}
	select {
	case h.broadcast <- envelope{sessionID: sessionID, payload: payload}:
	case <-h.done:
	}
}

// DropSession disconnects every client of sessionID.
func (h *Hub) DropSession(sessionID string) {
	select {
	case h.drop <- sessionID:
	case <-h.done:
	}
}

// ClientCount reports how many connections sessionID has.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// ServeWs upgrades the request and binds the connection to sessionID.
// initial, when non-nil, is sent before any published event.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, sessionID string, initial *Event) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), sessionID: sessionID}
	if initial != nil {
		if payload, err := sonic.Marshal(initial); err == nil {
			client.send <- payload
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// Nothing is expected from the page; reading keeps control frames
		// flowing and notices disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
