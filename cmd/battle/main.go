// =============================================================================
// ROBOT BATTLE - HEADLESS RUNNER
// =============================================================================
// Plays a battle without the HTTP server and prints the results table.
//
// USAGE:
//   go run ./cmd/battle -battle battles/melee.yaml
//   go run ./cmd/battle -robots tracker,crawler,duck -rounds 5
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ttacon/chalk"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/samples"
)

func main() {
	battleFile := flag.String("battle", os.Getenv("BATTLE_FILE"), "battle file (YAML)")
	robots := flag.String("robots", "", "comma separated sample ids, used without -battle")
	rounds := flag.Int("rounds", 0, "number of rounds (0 = from rules)")
	record := flag.String("log", "", "write the battle log to this file")
	quiet := flag.Bool("quiet", false, "hide robot console output")
	flag.Parse()

	if err := godotenv.Load(".env"); err == nil {
		log.Println("✅ Loaded environment from .env")
	}

	rules := config.BattleFromEnv()

	var roster []config.RosterEntry
	switch {
	case *battleFile != "":
		bf, err := config.LoadBattleFile(*battleFile)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		rules = bf.Apply(rules)
		roster = bf.Robots
	case *robots != "":
		for _, id := range strings.Split(*robots, ",") {
			if id = strings.TrimSpace(id); id != "" {
				roster = append(roster, config.RosterEntry{Robot: id})
			}
		}
	default:
		printSamples()
		os.Exit(2)
	}
	if *rounds > 0 {
		rules.NumRounds = *rounds
	}
	// Nobody is watching; run as fast as the robots allow
	rules.TPS = 0

	contestants, err := samples.Contestants(roster)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	cfg := rules.Engine()
	if *quiet {
		cfg.Output = io.Discard
	}
	engine, err := battle.NewEngine(cfg, contestants)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	engine.SetCallbacks(battle.Callbacks{
		OnRoundEnded: func(round int, placing []string) {
			if len(placing) > 0 {
				log.Printf("🏁 Round %d: %s first", round+1, placing[0])
			}
		},
	})

	if *record != "" {
		if err := engine.StartRecorder(*record); err != nil {
			log.Fatalf("❌ Battle log: %v", err)
		}
		defer engine.StopRecorder()
		log.Printf("📝 Battle log: %s", *record)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("⚔️ %d robots, %d rounds on %dx%d", len(contestants), rules.NumRounds, rules.FieldWidth, rules.FieldHeight)
	results, err := engine.Run(ctx)
	aborted := err != nil
	if aborted {
		log.Printf("🛑 Battle aborted: %v", err)
	}

	printResults(os.Stdout, results, aborted)
}

func printSamples() {
	fmt.Fprintln(os.Stderr, "Usage: battle -battle FILE | -robots ID,ID,...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Sample robots:")
	for _, s := range samples.All() {
		team := ""
		if s.Team {
			team = " (team)"
		}
		fmt.Fprintf(os.Stderr, "  %-8s %s%s\n", s.ID, s.Description, team)
	}
}

const rowFormat = "%-4s %-20s %13s %8s %10s %10s %12s %9s %9s %4s %4s %4s"

func printResults(w io.Writer, results []event.BattleResults, aborted bool) {
	title := "Results"
	if aborted {
		title += " (aborted)"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, chalk.Bold.TextStyle(title))

	header := fmt.Sprintf(rowFormat, "Rank", "Robot Name", "Total Score", "Survival", "Surv Bonus",
		"Bullet Dmg", "Bullet Bonus", "Ram Dmg", "Ram Bonus", "1sts", "2nds", "3rds")
	fmt.Fprintln(w, chalk.Cyan.Color(header))

	var total float64
	for _, r := range results {
		total += r.Score
	}

	for i := range results {
		s := results[i].Rounded()
		share := 0.0
		if total > 0 {
			share = 100 * results[i].Score / total
		}
		line := fmt.Sprintf(rowFormat,
			ordinal(s.Rank), s.Name,
			fmt.Sprintf("%d (%.0f%%)", s.Score, share),
			itoa(s.Survival), itoa(s.LastSurvivorBonus),
			itoa(s.BulletDamage), itoa(s.BulletDamageBonus),
			itoa(s.RamDamage), itoa(s.RamDamageBonus),
			itoa(s.Firsts), itoa(s.Seconds), itoa(s.Thirds))

		switch s.Rank {
		case 1:
			line = chalk.Green.Color(line)
		case 2:
			line = chalk.Yellow.Color(line)
		}
		fmt.Fprintln(w, line)
	}
}

func itoa(v int) string { return fmt.Sprint(v) }

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
