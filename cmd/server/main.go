package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/robo-code/robocode-sub000/internal/api"
	"github.com/robo-code/robocode-sub000/internal/arena"
	"github.com/robo-code/robocode-sub000/internal/config"
)

func main() {
	battleFile := flag.String("battle", os.Getenv("BATTLE_FILE"), "battle file to start on boot")
	flag.Parse()

	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🤖 ================================")
	log.Println("🤖  ROBOT BATTLE SERVER")
	log.Println("🤖 ================================")

	appConfig := config.Load()
	rules := appConfig.Battle
	serverCfg := appConfig.Server
	limits := appConfig.Limits

	log.Printf("🛡️ Resource limits: %.0f req/s (burst %d), %d viewers (%d per IP)",
		limits.RequestsPerSecond, limits.Burst, limits.MaxWSClients, limits.MaxWSPerIP)
	if serverCfg.RecordPath != "" {
		log.Printf("📝 Battle log: %s", serverCfg.RecordPath)
	}
	if serverCfg.AdminToken == "" {
		log.Println("⚠️ ADMIN_TOKEN not set - battle control is open to anyone")
	} else {
		log.Println("🔐 Battle control requires a bearer token")
	}

	// Start debug server
	if serverCfg.DebugPort > 0 && os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = fmt.Sprintf("127.0.0.1:%d", serverCfg.DebugPort)
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// A battle file's rules replace the environment's for the whole run
	var bf *config.BattleFile
	if *battleFile != "" {
		var err error
		if bf, err = config.LoadBattleFile(*battleFile); err != nil {
			log.Fatalf("❌ %v", err)
		}
		rules = bf.Apply(rules)
	}
	log.Printf("🎮 Rules: %dx%d, %d rounds, %d TPS, turn timeout %v",
		rules.FieldWidth, rules.FieldHeight, rules.NumRounds, rules.TPS, rules.TurnTimeout)

	ar := arena.New(rules, serverCfg.RecordPath)
	server := api.NewServer(ar, serverCfg, limits)

	if bf != nil {
		if err := ar.Start(arena.Request{Robots: bf.Robots}); err != nil {
			log.Printf("⚠️ Battle file not started: %v", err)
		} else {
			log.Printf("⚔️ Started %s with %d robots", *battleFile, len(bf.Robots))
		}
	}

	addr := fmt.Sprintf(":%d", serverCfg.Port)
	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
	log.Println("👋 Goodbye!")
}
