package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robo-code/robocode-sub000/internal/arena"
	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
	"github.com/robo-code/robocode-sub000/internal/event"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with a hub streaming battle updates.
type Server struct {
	arena       *arena.Arena
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	http        *http.Server
}

// NewServer wires the arena to the router, hub and metrics.
// It starts nothing; call Start.
func NewServer(a *arena.Arena, srv config.ServerConfig, limits config.ResourceLimits) *Server {
	s := &Server{
		arena:       a,
		wsHub:       NewWebSocketHub(HubFromLimits(limits, srv.CORSOrigins)),
		rateLimiter: NewIPRateLimiter(RateLimitFromLimits(limits)),
	}

	s.router = NewRouter(RouterConfig{
		Battles:     a,
		RateLimiter: s.rateLimiter,
		CORSOrigins: srv.CORSOrigins,
		AdminToken:  srv.AdminToken,
	})
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	a.SetCallbacks(s.callbacks())
	return s
}

// callbacks chains the metrics observers with viewer notifications.
func (s *Server) callbacks() battle.Callbacks {
	cb := MetricsCallbacks()

	roundEnded := cb.OnRoundEnded
	cb.OnRoundEnded = func(round int, placing []string) {
		roundEnded(round, placing)
		s.wsHub.Broadcast("battle:round", map[string]any{
			"round":   round,
			"placing": placing,
		})
	}

	battleEnded := cb.OnBattleEnded
	cb.OnBattleEnded = func(results []event.BattleResults, aborted bool) {
		battleEnded(results, aborted)

		lines := make([]event.ScoreLine, 0, len(results))
		for i := range results {
			lines = append(lines, results[i].Rounded())
		}
		s.wsHub.Broadcast("battle:ended", map[string]any{
			"aborted": aborted,
			"results": lines,
		})

		if stats := s.arena.RecorderStats(); stats != nil {
			total, _ := stats["total"].(uint64)
			dropped, _ := stats["dropped"].(uint64)
			UpdateRecorderStats(total, dropped)
		}
	}
	return cb
}

// Start runs the hub and serves HTTP until Shutdown.
// This is the ONLY method that starts goroutines or opens listeners.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.arena, broadcastPeriod)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("📺 Viewers: ws://localhost%s/ws", addr)

	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the viewer hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Shutdown aborts the battle, disconnects viewers and drains HTTP.
func (s *Server) Shutdown(ctx context.Context) error {
	s.arena.Stop()
	s.wsHub.Stop()
	s.rateLimiter.Stop()

	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
