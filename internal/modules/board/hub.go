package board

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"museo/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// WSEvent is a real-time event pushed to watching dashboards.
type WSEvent struct {
	Type    string      `json:"type"`
	Date    string      `json:"date"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventVisitCreated = "visit_created"
	EventVisitUpdated = "visit_updated"
	EventVisitDeleted = "visit_deleted"
)

// connection represents a single dashboard client. An empty dates set means
// the client watches every day.
type connection struct {
	accountID int64
	conn      *websocket.Conn
	send      chan []byte
	dates     map[string]bool
}

// Hub fans visit lifecycle events out to connected dashboards. It satisfies
// the event sink the visit service broadcasts through.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*connection]bool),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
	}
}

// VisitCreated implements the visit event sink.
func (h *Hub) VisitCreated(v *domain.Visit) {
	h.broadcast(&WSEvent{
		Type:    EventVisitCreated,
		Date:    v.VisitDate.Format("2006-01-02"),
		Payload: v,
	})
}

func (h *Hub) VisitStatusChanged(v *domain.Visit) {
	h.broadcast(&WSEvent{
		Type:    EventVisitUpdated,
		Date:    v.VisitDate.Format("2006-01-02"),
		Payload: v,
	})
}

func (h *Hub) VisitDeleted(id int64, blockID string) {
	h.broadcast(&WSEvent{
		Type:    EventVisitDeleted,
		Date:    dateFromBlockID(blockID),
		Payload: map[string]int64{"id": id},
	})
}

// broadcast delivers the event to every client watching its date.
func (h *Hub) broadcast(event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if len(c.dates) > 0 && !c.dates[event.Date] {
			continue
		}
		select {
		case c.send <- data:
		default:
			// client too slow, skip
		}
	}
}

// dateFromBlockID recovers "YYYY-MM-DD" from a "YYYYMMDD-HHMM" block key.
func dateFromBlockID(blockID string) string {
	if len(blockID) < 8 {
		return ""
	}
	return blockID[:4] + "-" + blockID[4:6] + "-" + blockID[6:8]
}

// ServeWS registers a new connection and starts read/write loops.
func (h *Hub) ServeWS(conn *websocket.Conn, accountID int64, initialDates []string) {
	c := &connection{
		accountID: accountID,
		conn:      conn,
		send:      make(chan []byte, 256),
		dates:     make(map[string]bool),
	}
	for _, d := range initialDates {
		c.dates[d] = true
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c) // blocks until disconnect
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var event struct {
			Type string `json:"type"`
			Date string `json:"date"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "watch":
			h.mu.Lock()
			c.dates[event.Date] = true
			h.mu.Unlock()
		case "unwatch":
			h.mu.Lock()
			delete(c.dates, event.Date)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
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
