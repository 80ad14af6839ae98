package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/event"
)

// Metrics with bounded cardinality (no per-robot labels: robot names come
// from API callers)
var (
	// Battle engine metrics
	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "battle_turn_duration_seconds",
		Help:    "Time spent in one battle turn, including waiting for robots",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	robotsAlive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "battle_robots_alive",
		Help: "Robots alive in the current round",
	})

	skippedTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battle_skipped_turns_total",
		Help: "Turns robots missed by not committing in time",
	})

	robotDeaths = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battle_robot_deaths_total",
		Help: "Robots destroyed",
	})

	roundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battle_rounds_total",
		Help: "Rounds played",
	})

	battlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battle_battles_total",
		Help: "Battles finished",
	}, []string{"outcome"}) // Bounded: "completed", "aborted"

	// Battle log metrics
	recordEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "battle_record_entries",
		Help: "Entries recorded in the last battle log",
	})

	recordDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "battle_record_dropped",
		Help: "Entries dropped from the last battle log by rate limiting or buffer overflow",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "unauthorized", "ws_ip_limit", "ws_total_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // Localhost unless ALLOW_DEBUG_EXTERNAL=true
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// DebugMux serves pprof, metrics and a health check.
func DebugMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// StartDebugServer starts the internal observability server.
// pprof can be abused for DoS, so it binds to localhost by default.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if !isLocalAddr(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Println("⚠️ Debug server forced to localhost for security")
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	var handler http.Handler = DebugMux()
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, handler)
	}

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

func isLocalAddr(addr string) bool {
	for _, prefix := range []string{"127.0.0.1:", "localhost:", "[::1]:"} {
		if len(addr) > len(prefix) && addr[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MetricsCallbacks feeds battle progress into the metrics.
func MetricsCallbacks() battle.Callbacks {
	return battle.Callbacks{
		OnTurn: func(s *battle.Snapshot, d time.Duration) {
			RecordTurn(d)
			robotsAlive.Set(float64(s.AliveCount))
		},
		OnSkippedTurn: func(string, int64) { skippedTurns.Inc() },
		OnDeath:       func(string, int) { robotDeaths.Inc() },
		OnRoundEnded:  func(int, []string) { roundsTotal.Inc() },
		OnBattleEnded: func(_ []event.BattleResults, aborted bool) {
			outcome := "completed"
			if aborted {
				outcome = "aborted"
			}
			battlesTotal.WithLabelValues(outcome).Inc()
		},
	}
}

// RecordTurn records turn timing for metrics
func RecordTurn(duration time.Duration) {
	turnDuration.Observe(duration.Seconds())
}

// UpdateRecorderStats publishes battle log counters.
func UpdateRecorderStats(total, dropped uint64) {
	recordEntries.Set(float64(total))
	recordDropped.Set(float64(dropped))
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of the bounded values listed on connectionRejected
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
