package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
	// broadcastBufferSize absorbs a full draw animation without blocking the engine
	broadcastBufferSize = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Viewer screens may be served from another origin
	},
}

// SnapshotFunc builds the state sent to a client when it connects
type SnapshotFunc func(ctx context.Context) models.Snapshot

// Hub maintains the set of active clients and broadcasts messages to the clients.
// Every broadcast carries a sequence number; a client registered after
// snapshot N never receives messages numbered N or lower.
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	snapshot   SnapshotFunc
	stopped    chan struct{}

	seqMu sync.Mutex
	seq   uint64
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
	// since is the last sequence number covered by the client's snapshot
	since uint64
}

// outbound is a broadcast stamped with its sequence number
type outbound struct {
	seq     uint64
	message models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, snapshot SnapshotFunc) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, broadcastBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		snapshot:   snapshot,
		stopped:    make(chan struct{}),
	}
}

// Run handles client registration/unregistration and message broadcasting
// until ctx is canceled. Remaining clients are disconnected on exit.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("WebSocket hub stopped")
			return

		case client := <-h.register:
			// Snapshot inline so nothing queued after it can overtake it.
			// Providers may take the draw engine lock; Broadcast never blocks on
			// the hub, so this cannot deadlock.
			if h.snapshot != nil {
				client.since = h.currentSeq()
				client.send <- models.WSMessage{
					Type:    models.MsgSnapshot,
					Payload: h.snapshot(ctx),
				}
			}

			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", total)

		case out := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if out.seq <= client.since {
					continue // already reflected in its snapshot
				}
				select {
				case client.send <- out.message:
				default:
					// Client's send channel is full, unregister
					go h.drop(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Broadcast queues a message for all connected clients. It never blocks;
// if the hub is backed up the message is dropped. Implements services.Broadcaster.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	h.seqMu.Lock()
	defer h.seqMu.Unlock()

	h.seq++
	select {
	case h.broadcast <- outbound{seq: h.seq, message: models.WSMessage{Type: msgType, Payload: payload}}:
	default:
		h.log.Warn("WebSocket broadcast dropped", "type", msgType)
	}
}

func (h *Hub) currentSeq() uint64 {
	h.seqMu.Lock()
	defer h.seqMu.Unlock()
	return h.seq
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Viewers are read-only; incoming messages are only logged
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
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

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
