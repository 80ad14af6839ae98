// Package config provides centralized configuration management.
// Defaults live here; environment variables and battle files override them.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robo-code/robocode-sub000/internal/battle"
)

// =============================================================================
// BATTLE CONFIGURATION
// =============================================================================

// BattleConfig holds the rules of a battle.
type BattleConfig struct {
	FieldWidth     int           // Battlefield width in pixels
	FieldHeight    int           // Battlefield height in pixels
	NumRounds      int           // Rounds in a battle
	GunCoolingRate float64       // Gun heat lost per turn
	MaxTurns       int           // Undecided rounds end after this many turns
	TurnTimeout    time.Duration // How long a robot may think per turn
	TPS            int           // Turns per second when watched (0 = unpaced)
	Seed           int64         // Placement seed (0 = random)
}

// DefaultBattle returns the default battle rules.
func DefaultBattle() BattleConfig {
	return BattleConfig{
		FieldWidth:     800,
		FieldHeight:    600,
		NumRounds:      10,
		GunCoolingRate: 0.1,
		MaxTurns:       10000,
		TurnTimeout:    50 * time.Millisecond,
		TPS:            30,
	}
}

// BattleFromEnv returns battle rules with environment variable overrides.
func BattleFromEnv() BattleConfig {
	cfg := DefaultBattle()

	if w := getEnvInt("BATTLE_WIDTH", 0); w > 0 {
		cfg.FieldWidth = w
	}
	if h := getEnvInt("BATTLE_HEIGHT", 0); h > 0 {
		cfg.FieldHeight = h
	}
	if n := getEnvInt("BATTLE_ROUNDS", 0); n > 0 {
		cfg.NumRounds = n
	}
	if r := getEnvFloat("GUN_COOLING_RATE", 0); r > 0 {
		cfg.GunCoolingRate = r
	}
	if t := getEnvInt("MAX_TURNS", 0); t > 0 {
		cfg.MaxTurns = t
	}
	if d := getEnvDuration("TURN_TIMEOUT", 0); d > 0 {
		cfg.TurnTimeout = d
	}
	if tps := getEnvInt("BATTLE_TPS", -1); tps >= 0 {
		cfg.TPS = tps
	}
	if s := getEnvInt("BATTLE_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// Engine converts the rules to the engine's configuration.
func (c BattleConfig) Engine() battle.Config {
	cfg := battle.DefaultConfig()
	cfg.FieldWidth = float64(c.FieldWidth)
	cfg.FieldHeight = float64(c.FieldHeight)
	cfg.NumRounds = c.NumRounds
	cfg.GunCoolingRate = c.GunCoolingRate
	cfg.MaxTurns = c.MaxTurns
	cfg.TurnTimeout = c.TurnTimeout
	cfg.TPS = c.TPS
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	DebugPort   int      // pprof and metrics, bound to localhost (0 = disabled)
	AdminToken  string   // Bearer token for battle control routes (empty = open)
	CORSOrigins []string // nil = local development origins
	RecordPath  string   // Battle log file (empty = memory only)
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		DebugPort: 6060,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if p := getEnvInt("DEBUG_PORT", -1); p >= 0 {
		cfg.DebugPort = p
	}
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS")
	cfg.RecordPath = os.Getenv("BATTLE_LOG")

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection on the public surface.
type ResourceLimits struct {
	RequestsPerSecond float64 // Per-IP API rate
	Burst             int     // Per-IP API burst
	MaxWSPerIP        int     // Concurrent websocket viewers per IP
	MaxWSClients      int     // Concurrent websocket viewers in total
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		RequestsPerSecond: 10,
		Burst:             20,
		MaxWSPerIP:        5,
		MaxWSClients:      1000,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if r := getEnvFloat("RATE_LIMIT_RPS", 0); r > 0 {
		cfg.RequestsPerSecond = r
	}
	if b := getEnvInt("RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}
	if n := getEnvInt("MAX_WS_PER_IP", 0); n > 0 {
		cfg.MaxWSPerIP = n
	}
	if n := getEnvInt("MAX_WS_CLIENTS", 0); n > 0 {
		cfg.MaxWSClients = n
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Battle BattleConfig
	Server ServerConfig
	Limits ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Battle: BattleFromEnv(),
		Server: ServerFromEnv(),
		Limits: LimitsFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated variable, or returns nil if unset.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
