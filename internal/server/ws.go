package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ayusman/theremin/internal/session"
)

const (
	// writeWait is how long to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is the per-client outbound queue. A client that falls
	// this far behind is dropped rather than backpressuring the loop.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event names on the wire.
const (
	EventSignal = "audio_update"
	EventFrame  = "video_frame"
	EventStart  = "start_tracking"
)

// envelope is the wire format for both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// frameData carries one published video frame.
type frameData struct {
	Frame string `json:"frame"`
}

// Hub fans broadcast events out to all connected WebSocket clients and
// turns inbound events into session triggers. It implements
// session.Publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool

	onStart      func()
	onDisconnect func()
}

// client is one viewer connection. All writes to conn go through the
// send channel and a single writer goroutine.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub with no clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
	}
}

// OnStart sets the callback invoked when any client requests tracking.
func (h *Hub) OnStart(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStart = fn
}

// OnDisconnect sets the callback invoked when any client disconnects.
// The session is shared: one viewer leaving stops the stream for all.
func (h *Hub) OnDisconnect(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDisconnect = fn
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("Client %s connected (%d total)", c.id, count)

	go c.writePump()
	h.readPump(c) // blocks until the connection closes
}

// readPump consumes inbound events and detects disconnection.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.drop(c)
		c.conn.Close()

		h.mu.RLock()
		onDisconnect := h.onDisconnect
		count := len(h.clients)
		h.mu.RUnlock()

		log.Printf("Client %s disconnected (%d remaining)", c.id, count)
		if onDisconnect != nil {
			onDisconnect()
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Printf("Client %s sent malformed event: %v", c.id, err)
			continue
		}

		switch env.Event {
		case EventStart:
			h.mu.RLock()
			onStart := h.onStart
			h.mu.RUnlock()
			if onStart != nil {
				onStart()
			}
		default:
			log.Printf("Client %s sent unknown event %q", c.id, env.Event)
		}
	}
}

// writePump is the sole writer for one connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drop unregisters a client and closes its send channel.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast sends a named event to every connected client. Clients whose
// send buffer is full are dropped as too slow.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Broadcast marshal error for %s: %v", event, err)
		return
	}
	msg, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("Broadcast marshal error for %s: %v", event, err)
		return
	}

	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("Dropping slow client %s", c.id)
		h.drop(c)
		c.conn.Close()
	}
}

// PublishSignal broadcasts the per-tick audio control payload.
func (h *Hub) PublishSignal(p session.SignalPayload) {
	h.Broadcast(EventSignal, p)
}

// PublishFrame broadcasts one base64-encoded JPEG frame.
func (h *Hub) PublishFrame(jpegBase64 string) {
	h.Broadcast(EventFrame, frameData{Frame: jpegBase64})
}
