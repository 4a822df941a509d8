package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans server-pushed events out to every authenticated realtime
// connection.
type Hub struct {
	validate func(token string) bool

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(validate func(token string) bool) *Hub {
	return &Hub{
		validate: validate,
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type authFrame struct {
	Auth struct {
		Token string `json:"token"`
	} `json:"auth"`
}

// Handle upgrades the connection and waits for the auth frame before
// adding it to the broadcast set.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return
	}

	var frame authFrame
	if err := conn.ReadJSON(&frame); err != nil || !h.validate(frame.Auth.Token) {
		log.Printf("realtime: rejecting unauthenticated connection")
		conn.Close()
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	log.Printf("realtime: client connected (%d total)", h.count())

	// Drain until the client hangs up; the server never expects more
	// input after the auth frame.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Broadcast pushes one event to every connected client.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame := map[string]interface{}{"event": event}
	if payload != nil {
		frame["payload"] = payload
	}
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("realtime: failed to marshal %s: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.conns, conn)
}

func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
