package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
)

type fakeSource struct {
	snap atomic.Pointer[battle.Snapshot]
}

func (f *fakeSource) Snapshot() *battle.Snapshot { return f.snap.Load() }

func startHub(t *testing.T, cfg HubConfig) (*WebSocketHub, string) {
	t.Helper()
	hub := NewWebSocketHub(cfg)
	go hub.Run()
	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(func() {
		hub.Stop()
		ts.Close()
	})
	return hub, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(url, origin string) (*websocket.Conn, *http.Response, error) {
	return websocket.DefaultDialer.Dial(url, http.Header{"Origin": {origin}})
}

func waitForClients(t *testing.T, hub *WebSocketHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsNewTurns(t *testing.T) {
	hub, url := startHub(t, HubConfig{MaxClients: 10, MaxPerIP: 2})

	conn, _, err := dial(url, "http://localhost:3000")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	src := &fakeSource{}
	hub.StartBroadcastLoop(src, 10*time.Millisecond)
	src.snap.Store(&battle.Snapshot{Sequence: 7, Round: 1, Turn: 42})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var msg struct {
		Event string          `json:"event"`
		Data  battle.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Bad message %s: %v", data, err)
	}
	if msg.Event != "battle:turn" || msg.Data.Sequence != 7 || msg.Data.Turn != 42 {
		t.Errorf("Unexpected message: %s", data)
	}

	// The same snapshot is not sent twice
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Errorf("Unexpected repeat: %s", data)
	}
}

func TestHubBroadcastEnvelope(t *testing.T) {
	hub, url := startHub(t, HubConfig{MaxClients: 10, MaxPerIP: 2})

	conn, _, err := dial(url, "http://localhost:3000")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	hub.Broadcast("battle:round", map[string]any{"round": 2, "placing": []string{"Tracker", "SittingDuck"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event string `json:"event"`
		Data  struct {
			Round   int      `json:"round"`
			Placing []string `json:"placing"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if msg.Event != "battle:round" || msg.Data.Round != 2 || msg.Data.Placing[0] != "Tracker" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestHubLimitsConnectionsPerIP(t *testing.T) {
	hub, url := startHub(t, HubConfig{MaxClients: 10, MaxPerIP: 1})

	first, _, err := dial(url, "http://localhost:3000")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	waitForClients(t, hub, 1)

	_, resp, err := dial(url, "http://localhost:3000")
	if err == nil {
		t.Fatal("Second connection from the same IP should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %v", resp)
	}

	// Hanging up frees the slot
	first.Close()
	waitForClients(t, hub, 0)

	again, _, err := dial(url, "http://localhost:3000")
	if err != nil {
		t.Fatalf("Reconnect failed: %v", err)
	}
	again.Close()
}

func TestHubLimitsTotalConnections(t *testing.T) {
	hub, url := startHub(t, HubConfig{MaxClients: 1, MaxPerIP: 5})

	first, _, err := dial(url, "http://localhost:3000")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer first.Close()
	waitForClients(t, hub, 1)

	_, resp, err := dial(url, "http://localhost:3000")
	if err == nil {
		t.Fatal("Connection over the total limit should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %v", resp)
	}
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	_, url := startHub(t, HubConfig{MaxClients: 10, MaxPerIP: 1, Origins: []string{"https://arena.example.com"}})

	_, resp, err := dial(url, "https://evil.example.org")
	if err == nil {
		t.Fatal("Foreign origin should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", resp)
	}

	// The rejected upgrade must not hold the IP slot
	conn, _, err := dial(url, "https://arena.example.com")
	if err != nil {
		t.Fatalf("Allowed origin failed: %v", err)
	}
	conn.Close()
}

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"https://arena.example.com", "https://*.robots.dev"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://localhost.evil.com", false},
		{"https://arena.example.com", true},
		{"https://arena.example.com.evil.com", false},
		{"https://team.robots.dev", true},
		{"http://team.robots.dev", false},
		{"https://robots.dev", false},
		{"https://evil.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := IsAllowedOrigin(tt.origin, allowed); got != tt.want {
				t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}

	if !IsAllowedOrigin("https://anything.example", []string{"*"}) {
		t.Error("Wildcard should allow every origin")
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("1.2.3.4") || !wrl.Allow("1.2.3.4") {
		t.Fatal("First two connections should be allowed")
	}
	if wrl.Allow("1.2.3.4") {
		t.Error("Third connection should be rejected")
	}
	if !wrl.Allow("5.6.7.8") {
		t.Error("Other IPs have their own budget")
	}

	wrl.Release("1.2.3.4")
	if got := wrl.GetConnectionCount("1.2.3.4"); got != 1 {
		t.Errorf("Expected 1 connection, got %d", got)
	}
	wrl.Release("1.2.3.4")
	wrl.Release("1.2.3.4") // extra release is harmless
	if got := wrl.GetConnectionCount("1.2.3.4"); got != 0 {
		t.Errorf("Expected 0 connections, got %d", got)
	}
	if wrl.GetStats()["rejected"] != 1 {
		t.Errorf("Expected 1 rejection, got %d", wrl.GetStats()["rejected"])
	}
}

func TestIPRateLimiterCleanup(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("First request should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Second request should be limited")
	}

	rl.cleanup(time.Now().Add(time.Hour))
	if !rl.Allow("10.0.0.1") {
		t.Error("A dropped limiter starts with a full bucket")
	}

	stats := rl.GetStats()
	if stats["allowed"] != 2 || stats["rejected"] != 1 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestRateLimitFromLimits(t *testing.T) {
	cfg := RateLimitFromLimits(config.ResourceLimits{RequestsPerSecond: 3})
	if cfg.RequestsPerSecond != 3 || cfg.Burst != DefaultRateLimitConfig.Burst {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.1:80", "198.51.100.7"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
