package baas

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/gorilla/websocket"
	json "github.com/json-iterator/go"
)

// ErrRealtimeClosed is returned when using a closed realtime connection
var ErrRealtimeClosed = errors.New("realtime connection closed")

// Event is a change notification pushed on a subscribed channel
type Event struct {
	Events    []string        `json:"events"`
	Channels  []string        `json:"channels"`
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Decode unmarshals the event payload into v
func (e Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Is reports whether any event name ends with the given action, e.g.
// "create", "update" or "delete".
func (e Event) Is(action string) bool {
	for _, name := range e.Events {
		if strings.HasSuffix(name, "."+action) {
			return true
		}
	}
	return false
}

type realtimeMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type realtimeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DocumentsChannel is the channel carrying every document event of a collection
func DocumentsChannel(databaseID, collectionID string) string {
	return fmt.Sprintf("databases.%s.collections.%s.documents", databaseID, collectionID)
}

// DocumentChannel is the channel carrying events of a single document
func DocumentChannel(databaseID, collectionID, documentID string) string {
	return fmt.Sprintf("databases.%s.collections.%s.documents.%s", databaseID, collectionID, documentID)
}

// RealtimeConfig tunes the realtime connection
type RealtimeConfig struct {
	HeartbeatInterval    time.Duration
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
	MaxReconnectAttempts int // negative means unlimited
}

// DefaultRealtimeConfig returns the settings used by the CLI
func DefaultRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		HeartbeatInterval:    20 * time.Second,
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		MaxReconnectAttempts: -1,
	}
}

// RealtimeStats holds connection statistics
type RealtimeStats struct {
	EventsReceived int64
	ReconnectCount int
	LastError      string
	ConnectedAt    time.Time
}

// Realtime is a websocket subscription to a fixed set of channels. It
// reconnects with exponential backoff until closed.
type Realtime struct {
	client   *Client
	config   RealtimeConfig
	channels []string

	mu      sync.Mutex
	conn    *websocket.Conn
	closed  bool
	writeMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   map[int64]func(Event)
	nextID      int64

	connected atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}

	statsMu sync.Mutex
	stats   RealtimeStats
}

// NewRealtime creates an unconnected realtime subscription
func NewRealtime(client *Client, cfg RealtimeConfig, channels ...string) *Realtime {
	return &Realtime{
		client:    client,
		config:    cfg,
		channels:  channels,
		listeners: make(map[int64]func(Event)),
		done:      make(chan struct{}),
	}
}

// URL returns the websocket URL for the subscription
func (r *Realtime) URL() (string, error) {
	cfg := r.client.config
	raw := cfg.RealtimeEndpoint
	if raw == "" {
		raw = cfg.Endpoint + "/realtime"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse realtime endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	q := u.Query()
	q.Set("project", cfg.Project)
	for _, ch := range r.channels {
		q.Add("channels[]", ch)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect dials the realtime endpoint and starts delivering events. The
// connection lives until ctx is cancelled or Close is called.
func (r *Realtime) Connect(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	conn, err := r.dial()
	if err != nil {
		r.recordError(err)
		r.cancel()
		close(r.done)
		return err
	}
	if !r.setConn(conn) {
		r.cancel()
		close(r.done)
		return ErrRealtimeClosed
	}

	go r.run(conn)
	go r.heartbeatLoop()

	logger.Debug("Realtime connected", "channels", r.channels)
	return nil
}

// Close stops the subscription and waits for the read loop to exit
func (r *Realtime) Close() error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()

	r.mu.Lock()
	r.closed = true
	if r.conn != nil {
		_ = r.conn.Close()
	}
	r.mu.Unlock()

	<-r.done
	logger.Debug("Realtime disconnected")
	return nil
}

// Done is closed once the subscription has stopped for good
func (r *Realtime) Done() <-chan struct{} {
	return r.done
}

// IsConnected reports whether a websocket is currently open
func (r *Realtime) IsConnected() bool {
	return r.connected.Load()
}

// On registers fn for every event and returns a function that removes it.
// Listeners run on the read loop, in arrival order.
func (r *Realtime) On(fn func(Event)) func() {
	r.listenersMu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.listenersMu.Unlock()

	return func() {
		r.listenersMu.Lock()
		delete(r.listeners, id)
		r.listenersMu.Unlock()
	}
}

// Stats returns connection statistics
func (r *Realtime) Stats() RealtimeStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

func (r *Realtime) dial() (*websocket.Conn, error) {
	u, err := r.URL()
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(r.ctx, 15*time.Second)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	if secret := r.client.Session(); secret != "" {
		auth := map[string]interface{}{
			"type": "authentication",
			"data": map[string]string{"session": secret},
		}
		if err := r.writeJSON(conn, auth); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("authenticate realtime: %w", err)
		}
	}
	return conn, nil
}

// setConn publishes conn as the live connection. Once Close has run a new
// conn is closed instead and setConn returns false.
func (r *Realtime) setConn(conn *websocket.Conn) bool {
	r.mu.Lock()
	if r.closed && conn != nil {
		r.mu.Unlock()
		_ = conn.Close()
		return false
	}
	r.conn = conn
	r.mu.Unlock()
	r.connected.Store(conn != nil)
	if conn != nil {
		r.statsMu.Lock()
		r.stats.ConnectedAt = time.Now()
		r.statsMu.Unlock()
	}
	return true
}

func (r *Realtime) writeJSON(conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// run reads from conn, reconnecting on failure, until the context ends.
func (r *Realtime) run(conn *websocket.Conn) {
	defer close(r.done)
	for {
		r.readLoop(conn)
		r.setConn(nil)
		_ = conn.Close()

		if r.ctx.Err() != nil {
			return
		}

		next, ok := r.reconnect()
		if !ok {
			return
		}
		conn = next
	}
}

func (r *Realtime) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if r.ctx.Err() == nil {
				r.recordError(err)
				logger.Warn("Realtime read error", "error", err)
			}
			return
		}

		var msg realtimeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("Ignoring malformed realtime message", "error", err)
			continue
		}

		switch msg.Type {
		case "event":
			var ev Event
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				logger.Debug("Ignoring malformed realtime event", "error", err)
				continue
			}
			r.statsMu.Lock()
			r.stats.EventsReceived++
			r.statsMu.Unlock()
			r.emit(ev)
		case "error":
			var rerr realtimeError
			_ = json.Unmarshal(msg.Data, &rerr)
			r.recordError(fmt.Errorf("realtime error %d: %s", rerr.Code, rerr.Message))
			logger.Warn("Realtime error", "code", rerr.Code, "message", rerr.Message)
		case "connected", "response", "pong":
			logger.Debug("Realtime message", "type", msg.Type)
		}
	}
}

func (r *Realtime) emit(ev Event) {
	r.listenersMu.RLock()
	fns := make([]func(Event), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (r *Realtime) reconnect() (*websocket.Conn, bool) {
	delay := r.config.ReconnectBaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	for attempt := 0; r.config.MaxReconnectAttempts < 0 || attempt < r.config.MaxReconnectAttempts; attempt++ {
		jitter := time.Duration(rand.Int63n(int64(delay/2) + 1))
		wait := delay + jitter
		logger.Debug("Reconnecting realtime", "attempt", attempt+1, "wait_ms", wait.Milliseconds())

		select {
		case <-r.ctx.Done():
			return nil, false
		case <-time.After(wait):
		}

		conn, err := r.dial()
		if err != nil {
			r.recordError(err)
			delay *= 2
			if delay > r.config.ReconnectMaxDelay {
				delay = r.config.ReconnectMaxDelay
			}
			continue
		}

		if !r.setConn(conn) {
			return nil, false
		}
		r.statsMu.Lock()
		r.stats.ReconnectCount++
		r.statsMu.Unlock()
		logger.Debug("Realtime reconnected")
		return conn, true
	}

	logger.Error("Max realtime reconnection attempts reached")
	return nil, false
}

func (r *Realtime) heartbeatLoop() {
	if r.config.HeartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(r.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			conn := r.conn
			r.mu.Unlock()
			if conn == nil {
				continue
			}
			if err := r.writeJSON(conn, realtimeMessage{Type: "ping"}); err != nil {
				logger.Debug("Failed to send realtime ping", "error", err)
			}
		}
	}
}

func (r *Realtime) recordError(err error) {
	r.statsMu.Lock()
	r.stats.LastError = err.Error()
	r.statsMu.Unlock()
}
