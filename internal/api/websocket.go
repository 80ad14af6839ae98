package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
)

const (
	writeWait       = 2 * time.Second
	broadcastPeriod = 100 * time.Millisecond // 10 updates per second
	defaultMaxPerIP = 10
)

// HubConfig bounds the viewers a hub accepts.
type HubConfig struct {
	MaxClients int      // Total connections
	MaxPerIP   int      // Connections per client IP
	Origins    []string // Allowed browser origins, nil = DefaultOrigins
}

// HubFromLimits builds a hub config from the resource limits.
func HubFromLimits(l config.ResourceLimits, origins []string) HubConfig {
	return HubConfig{
		MaxClients: l.MaxWSClients,
		MaxPerIP:   l.MaxWSPerIP,
		Origins:    origins,
	}
}

// SnapshotSource is where the broadcast loop reads battle state.
type SnapshotSource interface {
	Snapshot() *battle.Snapshot
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub fans battle updates out to viewers with DoS protection
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	stop       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	cfg       HubConfig
	upgrader  websocket.Upgrader
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub. Call Run to start it.
func NewWebSocketHub(cfg HubConfig) *WebSocketHub {
	if cfg.Origins == nil {
		cfg.Origins = DefaultOrigins
	}
	if cfg.MaxPerIP <= 0 {
		cfg.MaxPerIP = defaultMaxPerIP
	}
	h := &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stop:       make(chan struct{}),
		cfg:        cfg,
		wsLimiter:  NewWebSocketRateLimiter(cfg.MaxPerIP),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if IsAllowedOrigin(origin, h.cfg.Origins) {
		return true
	}
	log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
	RecordConnectionRejected("origin")
	return false
}

// Run serves registrations and broadcasts until Stop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stop:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Viewer connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			if h.remove(conn) {
				count := h.ClientCount()
				log.Printf("📱 Viewer disconnected (%d remaining)", count)
				UpdateWSConnections(count)
			}

		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

// send writes message to every viewer and drops the ones that fail.
func (h *WebSocketHub) send(message []byte) {
	var failed []*websocket.Conn

	h.mu.RLock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range failed {
		h.remove(conn)
	}
	if len(failed) > 0 {
		UpdateWSConnections(h.ClientCount())
	}
	IncrementWSMessages()
}

func (h *WebSocketHub) remove(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[conn]
	if !ok {
		return false
	}
	h.wsLimiter.Release(client.ip)
	delete(h.clients, conn)
	conn.Close()
	return true
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, client := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
	}
	UpdateWSConnections(0)
}

// Stop closes every connection and ends Run and the broadcast loop.
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Broadcast queues a {"event", "data"} message for every viewer
func (h *WebSocketHub) Broadcast(event string, data any) {
	msg := map[string]any{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️ Cannot encode %s: %v", event, err)
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop publishes "battle:turn" whenever the battle has
// advanced since the last tick.
func (h *WebSocketHub) StartBroadcastLoop(source SnapshotSource, period time.Duration) {
	if period <= 0 {
		period = broadcastPeriod
	}
	ticker := time.NewTicker(period)

	go func() {
		defer ticker.Stop()
		var last *battle.Snapshot

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := source.Snapshot()
			// Every turn publishes a new snapshot
			if snap == nil || snap == last {
				continue
			}
			last = snap
			h.Broadcast("battle:turn", snap)
		}
	}()
}

// HandleWebSocket upgrades a viewer connection after the DoS checks
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if total := h.ClientCount(); h.cfg.MaxClients > 0 && total >= h.cfg.MaxClients {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.stop:
		conn.Close()
		h.wsLimiter.Release(ip)
		return
	}

	// Viewers only listen; reading drains control frames and notices hangups
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stop:
			}
		}()

		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
