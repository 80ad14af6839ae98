// Package arena hosts one battle at a time for the server: it builds
// engines from rosters, runs them in the background and keeps the last
// results around after a battle ends.
package arena

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/robo-code/robocode-sub000/internal/battle"
	"github.com/robo-code/robocode-sub000/internal/config"
	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/samples"
)

var ErrNoBattle = errors.New("no battle has been started")

// Request describes a battle to start. Zero rules fields keep the arena
// defaults.
type Request struct {
	Robots []config.RosterEntry `json:"robots"`
	Rounds int                  `json:"rounds"`
	TPS    *int                 `json:"tps,omitempty"`
}

// Arena owns the current battle engine.
type Arena struct {
	mu        sync.RWMutex
	rules     config.BattleConfig
	record    string
	callbacks battle.Callbacks

	engine  *battle.Engine
	results []event.BattleResults
	aborted bool
	battles int
}

// New creates an arena with default rules. record is the battle log path;
// empty keeps the log in memory.
func New(rules config.BattleConfig, record string) *Arena {
	return &Arena{rules: rules, record: record}
}

// SetCallbacks sets the observers attached to every battle started from
// now on.
func (a *Arena) SetCallbacks(cb battle.Callbacks) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = cb
}

// Start builds a battle from req and runs it in the background.
func (a *Arena) Start(req Request) error {
	contestants, err := samples.Contestants(req.Robots)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil && a.engine.Running() {
		return battle.ErrRunning
	}

	rules := a.rules
	if req.Rounds > 0 {
		rules.NumRounds = req.Rounds
	}
	if req.TPS != nil && *req.TPS >= 0 {
		rules.TPS = *req.TPS
	}

	engine, err := battle.NewEngine(rules.Engine(), contestants)
	if err != nil {
		return fmt.Errorf("new battle: %w", err)
	}

	cb := a.callbacks
	ended := cb.OnBattleEnded
	cb.OnBattleEnded = func(results []event.BattleResults, aborted bool) {
		a.mu.Lock()
		a.results = results
		a.aborted = aborted
		a.mu.Unlock()
		if ended != nil {
			ended(results, aborted)
		}
	}
	engine.SetCallbacks(cb)

	if err := engine.StartRecorder(a.record); err != nil {
		log.Printf("⚠️ Battle log disabled: %v", err)
	}
	if err := engine.Start(); err != nil {
		engine.StopRecorder()
		return err
	}

	a.engine = engine
	a.results = nil
	a.aborted = false
	a.battles++

	go func() {
		<-engine.Done()
		engine.StopRecorder()
		log.Printf("🏁 Battle %d finished", a.Battles())
	}()
	return nil
}

// Stop aborts the running battle, if any.
func (a *Arena) Stop() {
	a.mu.RLock()
	engine := a.engine
	a.mu.RUnlock()
	if engine != nil {
		engine.Stop()
	}
}

// Running reports whether a battle is in progress.
func (a *Arena) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine != nil && a.engine.Running()
}

// Snapshot returns the latest state of the current or last battle.
func (a *Arena) Snapshot() *battle.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.engine == nil {
		return nil
	}
	return a.engine.Snapshot()
}

// Results returns the final results of the last battle, or the running
// totals of the current one.
func (a *Arena) Results() ([]event.BattleResults, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	switch {
	case a.results != nil:
		return a.results, a.aborted, nil
	case a.engine != nil:
		return a.engine.Results(), false, nil
	default:
		return nil, false, ErrNoBattle
	}
}

// Contestants names the robots of the current or last battle.
func (a *Arena) Contestants() []battle.Contestant {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.engine == nil {
		return nil
	}
	return a.engine.Contestants()
}

// RecorderStats returns the battle log counters, or nil before the first
// battle.
func (a *Arena) RecorderStats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.engine == nil {
		return nil
	}
	return a.engine.RecorderStats()
}

// Rules returns the default battle rules.
func (a *Arena) Rules() config.BattleConfig {
	return a.rules
}

// Battles counts the battles started so far.
func (a *Arena) Battles() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.battles
}
