package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"cloud_drive_agent/internal/pkg/metrics"
)

// Event names emitted by the backend. The client only listens; it never
// emits domain events.
const (
	EventFileCreated   = "file:created"
	EventFileDeleted   = "file:deleted"
	EventFileRestored  = "file:restored"
	EventFileUpdated   = "file:updated"
	EventFolderCreated = "folder:created"
	EventShareCreated  = "share:created"
	EventShareRevoked  = "share:revoked"
)

// Frame is the wire envelope for server-pushed events.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type authFrame struct {
	Auth struct {
		Token string `json:"token"`
	} `json:"auth"`
}

// Handler receives the raw payload of a single event occurrence.
type Handler func(payload json.RawMessage)

// Subscription is the capability to undo a Subscribe call. Cancel is
// idempotent.
type Subscription struct {
	channel *Channel
	event   string
	id      int
}

func (s *Subscription) Cancel() {
	if s == nil || s.channel == nil {
		return
	}
	s.channel.mu.Lock()
	defer s.channel.mu.Unlock()
	if handlers, ok := s.channel.handlers[s.event]; ok {
		delete(handlers, s.id)
	}
}

// Channel is one live connection to the backend event stream. Handles are
// read-only to everything but the Manager that created them.
type Channel struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	handlers  map[string]map[int]Handler
	nextID    int
	done      chan struct{}
	closeOnce sync.Once
}

func newChannel(conn *websocket.Conn) *Channel {
	return &Channel{
		conn:     conn,
		handlers: make(map[string]map[int]Handler),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for one event kind and returns the
// subscription used to tear it down again.
func (c *Channel) Subscribe(event string, fn Handler) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]Handler)
	}
	c.nextID++
	id := c.nextID
	c.handlers[event][id] = fn

	return &Subscription{channel: c, event: event, id: id}
}

// Done is closed when the channel is torn down or the connection drops.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

func (c *Channel) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump decodes frames and dispatches them until the connection dies.
// Dispatch runs on this goroutine; handlers must not block.
func (c *Channel) readPump() {
	defer c.close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.IsClosed() {
				log.Printf("realtime: connection closed: %v", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("realtime: dropping malformed frame: %v", err)
			continue
		}
		if frame.Event == "" {
			continue
		}

		metrics.CountRealtimeEvent(frame.Event)
		c.dispatch(frame)
	}
}

func (c *Channel) dispatch(frame Frame) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.handlers[frame.Event]))
	for _, fn := range c.handlers[frame.Event] {
		handlers = append(handlers, fn)
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(frame.Payload)
	}
}
