package realtime

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cloud_drive_agent/internal/pkg/metrics"
)

const authWriteTimeout = 10 * time.Second

// Manager owns the single realtime connection for this process. The
// channel's authentication is bound at connect time, so every token
// rotation goes through Connect again; there are never two live channels.
type Manager struct {
	url string

	mu       sync.Mutex
	channel  *Channel
	onChange []func(*Channel)
}

// NewManager takes the websocket endpoint, e.g. ws://localhost:4000/realtime.
func NewManager(wsURL string) *Manager {
	return &Manager{url: wsURL}
}

// Connect tears down any existing channel, then opens a new connection
// authenticated with token. Failures are logged and returned; there is no
// automatic retry here — a later login/logout supersedes a dead channel.
func (m *Manager) Connect(token string) (*Channel, error) {
	m.mu.Lock()

	if m.channel != nil {
		m.channel.close()
		m.channel = nil
		metrics.CountRealtimeDisconnect()
	}

	conn, _, err := websocket.DefaultDialer.Dial(m.url, nil)
	if err != nil {
		m.mu.Unlock()
		m.notifyChange(nil)
		log.Printf("realtime: connect error: %v", err)
		return nil, fmt.Errorf("failed to connect realtime channel: %v", err)
	}

	frame := authFrame{}
	frame.Auth.Token = token
	conn.SetWriteDeadline(time.Now().Add(authWriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		conn.Close()
		m.mu.Unlock()
		m.notifyChange(nil)
		log.Printf("realtime: auth write error: %v", err)
		return nil, fmt.Errorf("failed to authenticate realtime channel: %v", err)
	}
	conn.SetWriteDeadline(time.Time{})

	channel := newChannel(conn)
	m.channel = channel
	metrics.CountRealtimeConnect()
	m.mu.Unlock()

	go channel.readPump()
	m.notifyChange(channel)

	return channel, nil
}

// Disconnect tears down the live channel. Calling it with no channel is
// a no-op, never an error.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	channel := m.channel
	m.channel = nil
	m.mu.Unlock()

	if channel == nil {
		return
	}
	channel.close()
	metrics.CountRealtimeDisconnect()
	m.notifyChange(nil)
}

// Current returns the live channel handle, or nil when disconnected or
// the connection has since died.
func (m *Manager) Current() *Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.channel == nil || m.channel.IsClosed() {
		return nil
	}
	return m.channel
}

// OnChange registers a callback invoked with the new channel (nil on
// teardown) whenever the live channel is replaced. Used to rebind event
// subscriptions after reconnection.
func (m *Manager) OnChange(fn func(*Channel)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

func (m *Manager) notifyChange(channel *Channel) {
	m.mu.Lock()
	callbacks := make([]func(*Channel), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(channel)
	}
}
