// Package battle runs robots against each other. The engine owns the
// physics and drives every robot through the turn protocol: a robot's
// goroutine commits its commands, the engine advances the world one turn
// and answers each commit with that robot's status and events.
package battle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robo-code/robocode-sub000/internal/battle/spatial"
	"github.com/robo-code/robocode-sub000/internal/event"
	"github.com/robo-code/robocode-sub000/internal/robot"
	"github.com/robo-code/robocode-sub000/internal/rules"
	"github.com/robo-code/robocode-sub000/internal/wire"
)

// Contestant is one robot entered in a battle. New is called once per
// round to get a fresh robot.
type Contestant struct {
	Name string
	Team string
	New  func() robot.Bot
}

// Config controls a battle.
type Config struct {
	FieldWidth     float64
	FieldHeight    float64
	NumRounds      int
	GunCoolingRate float64
	// MaxTurns ends a round that has not been decided.
	MaxTurns int
	// TurnTimeout is how long the engine waits for a robot to commit.
	TurnTimeout time.Duration
	// TPS paces turns when positive; zero runs as fast as robots commit.
	TPS  int
	Seed int64
	// Output receives robot console output.
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		FieldWidth:     800,
		FieldHeight:    600,
		NumRounds:      10,
		GunCoolingRate: 0.1,
		MaxTurns:       10000,
		TurnTimeout:    50 * time.Millisecond,
		Seed:           time.Now().UnixNano(),
	}
}

// Callbacks observe the battle. They run on the engine goroutine with no
// engine lock held and must not block.
type Callbacks struct {
	OnTurn        func(s *Snapshot, d time.Duration)
	OnSkippedTurn func(robot string, turn int64)
	OnDeath       func(robot string, round int)
	OnRoundEnded  func(round int, placing []string)
	OnBattleEnded func(results []event.BattleResults, aborted bool)
}

var (
	ErrNoContestants = errors.New("battle: no contestants")
	ErrRunning       = errors.New("battle: already running")
)

// Engine runs one battle.
type Engine struct {
	mu          sync.RWMutex
	cfg         Config
	contestants []Contestant
	peers       []*peer
	bullets     []*projectile
	deaths      []*peer
	grid        *spatial.Grid
	rng         *rand.Rand
	scores      *scoreboard

	round      int
	turn       int64
	totalTurns int64
	roundOver  bool
	finished   bool
	aborted    bool
	// roundPlacing names the robots of the last ended round, first to last.
	roundPlacing []string

	running  atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
	sequence uint64
	snapshot atomic.Pointer[Snapshot]

	recorder  *Recorder
	callbacks Callbacks
	console   io.Writer
}

// NewEngine validates the contestants and prepares a battle. Duplicate
// names are numbered "Name (2)", "Name (3)".
func NewEngine(cfg Config, contestants []Contestant) (*Engine, error) {
	if len(contestants) == 0 {
		return nil, ErrNoContestants
	}
	def := DefaultConfig()
	if cfg.FieldWidth < rules.RobotSize*2 || cfg.FieldHeight < rules.RobotSize*2 {
		return nil, fmt.Errorf("battle: field %vx%v is too small", cfg.FieldWidth, cfg.FieldHeight)
	}
	if cfg.NumRounds <= 0 {
		cfg.NumRounds = 1
	}
	if cfg.GunCoolingRate <= 0 {
		cfg.GunCoolingRate = def.GunCoolingRate
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = def.MaxTurns
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = def.TurnTimeout
	}

	entries := slices.Clone(contestants)
	seen := make(map[string]int)
	names := make([]string, len(entries))
	for i, c := range entries {
		if c.New == nil {
			return nil, fmt.Errorf("battle: contestant %q has no constructor", c.Name)
		}
		seen[c.Name]++
		if n := seen[c.Name]; n > 1 {
			entries[i].Name = fmt.Sprintf("%s (%d)", c.Name, n)
		}
		names[i] = entries[i].Name
	}

	console := cfg.Output
	if console == nil {
		console = os.Stdout
	}

	return &Engine{
		cfg:         cfg,
		contestants: entries,
		grid:        spatial.NewGrid(cfg.FieldWidth, cfg.FieldHeight, rules.RobotSize*2, len(entries)),
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		scores:      newScoreboard(names),
		round:       -1,
		recorder:    NewRecorder(),
		console:     console,
		done:        make(chan struct{}),
	}, nil
}

// SetCallbacks sets battle observers. Call before Run or Start.
func (e *Engine) SetCallbacks(cb Callbacks) {
	e.callbacks = cb
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Contestants returns the robots entered, with their final names.
func (e *Engine) Contestants() []Contestant { return slices.Clone(e.contestants) }

// ═══════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ═══════════════════════════════════════════════════════════════════════════

// Start runs the battle in the background.
func (e *Engine) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	go func() {
		defer close(e.done)
		if _, err := e.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("⚠️ Battle ended with error: %v", err)
		}
	}()

	log.Printf("🎮 Battle started: %d robots, %d rounds", len(e.contestants), e.cfg.NumRounds)
	return nil
}

// Stop aborts a battle started with Start and waits for it to wind down.
func (e *Engine) Stop() {
	if !e.running.Load() || e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
	log.Println("🛑 Battle stopped")
}

// Done is closed when a battle started with Start has ended.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Run plays every round and returns the final results. Cancelling ctx
// aborts the battle at the next turn; the results so far are returned with
// the context's error.
func (e *Engine) Run(ctx context.Context) ([]event.BattleResults, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrRunning
	}
	defer close(e.done)
	return e.run(ctx)
}

func (e *Engine) run(ctx context.Context) ([]event.BattleResults, error) {
	var ticker *time.Ticker
	if e.cfg.TPS > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TPS))
		defer ticker.Stop()
	}

	for round := 0; round < e.cfg.NumRounds && !e.aborted; round++ {
		e.startRound(round)
		for {
			if ticker != nil {
				select {
				case <-ticker.C:
				case <-ctx.Done():
				}
			}
			if e.step(ctx.Err() != nil) {
				break
			}
		}
		e.endRound()
	}

	results := e.Results()
	if e.callbacks.OnBattleEnded != nil {
		e.callbacks.OnBattleEnded(results, e.aborted)
	}
	if e.aborted {
		return results, ctx.Err()
	}
	return results, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// ROUNDS
// ═══════════════════════════════════════════════════════════════════════════

func (e *Engine) startRound(round int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.round = round
	e.turn = 0
	e.roundOver = false
	e.bullets = e.bullets[:0]
	e.deaths = e.deaths[:0]
	e.peers = make([]*peer, len(e.contestants))

	for i, c := range e.contestants {
		var mates []string
		for _, o := range e.contestants {
			if c.Team != "" && o.Team == c.Team && o.Name != c.Name {
				mates = append(mates, o.Name)
			}
		}
		p := newPeer(i, c, mates)
		e.place(p, e.peers[:i])
		e.peers[i] = p
	}

	for i, p := range e.peers {
		e.launch(p, e.contestants[i])
	}
}

// place puts p at a random heading and a random spot clear of placed.
func (e *Engine) place(p *peer, placed []*peer) {
	const half = rules.RobotHalfSize
	for attempt := 0; ; attempt++ {
		p.x = half + e.rng.Float64()*(e.cfg.FieldWidth-2*half)
		p.y = half + e.rng.Float64()*(e.cfg.FieldHeight-2*half)
		if attempt > 100 || !slices.ContainsFunc(placed, p.overlaps) {
			break
		}
	}
	p.heading = e.rng.Float64() * 2 * math.Pi
	p.gunHeading = p.heading
	p.radarHeading = p.heading
	p.lastRadarHeading = p.heading
}

// launch starts the robot's goroutine for this round.
func (e *Engine) launch(p *peer, c Contestant) {
	setup := robot.Setup{
		Name:           p.name,
		Teammates:      p.teammates,
		FieldWidth:     e.cfg.FieldWidth,
		FieldHeight:    e.cfg.FieldHeight,
		GunCoolingRate: e.cfg.GunCoolingRate,
		Status:         p.status(0, len(e.peers)-1, e.round, e.cfg.NumRounds),
		Output:         e.console,
	}
	proxy := robot.NewProxy(setup, p.gate)
	bot := c.New()
	if err := robot.Attach(bot, proxy); err != nil {
		log.Printf("⚠️ Robot %s cannot run: %v", p.name, err)
		p.alive = false
		p.connected = false
		close(p.exited)
		return
	}

	go func() {
		defer close(p.exited)
		if err := proxy.Run(bot); err != nil {
			log.Printf("🤖 Robot %s stopped: %v", p.name, err)
		}
	}()
}

// endRound waits for the robots to leave and disconnects the stragglers.
func (e *Engine) endRound() {
	expired := make(chan struct{})
	t := time.AfterFunc(max(2*e.cfg.TurnTimeout, 100*time.Millisecond), func() { close(expired) })
	defer t.Stop()

	for _, p := range e.peers {
		select {
		case <-p.exited:
		case <-expired:
		}
		// A robot stuck in its own code keeps its goroutine until it
		// returns; closing the gate only ends its exchanges.
		p.gate.close()
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// TURN LOOP
// ═══════════════════════════════════════════════════════════════════════════

// step plays one turn and reports whether the round is over.
func (e *Engine) step(abort bool) bool {
	start := time.Now()
	e.collect()

	e.mu.Lock()
	e.turn++
	e.totalTurns++
	e.simulate()
	if abort {
		e.aborted = true
	}
	e.checkRoundOver()
	deliveries := e.deliver()
	snap := e.produceSnapshot()
	over := e.roundOver
	e.mu.Unlock()

	for _, d := range deliveries {
		d.peer.gate.results <- d.result
	}
	e.notify(snap, time.Since(start))
	return over
}

type delivery struct {
	peer   *peer
	result *robot.TurnResult
}

// collect waits for every connected robot to commit, up to the turn
// timeout. Robots that miss it skip the turn.
func (e *Engine) collect() {
	deadline := time.NewTimer(e.cfg.TurnTimeout)
	defer deadline.Stop()
	expired := false

	for _, p := range e.peers {
		if !p.connected {
			continue
		}
		if expired {
			select {
			case c := <-p.gate.commits:
				e.accept(p, c)
			case <-p.exited:
				p.connected = false
			default:
				e.skip(p)
			}
			continue
		}
		select {
		case c := <-p.gate.commits:
			e.accept(p, c)
		case <-p.exited:
			p.connected = false
		case <-deadline.C:
			expired = true
			e.skip(p)
		}
	}
}

func (e *Engine) accept(p *peer, c *robot.Commands) {
	p.accept(c)
	if !p.alive {
		return
	}
	for _, m := range c.Messages {
		e.route(p, m)
	}
}

// route delivers a team message to its recipients on the next turn.
func (e *Engine) route(from *peer, m robot.TeamMessage) {
	for _, o := range e.peers {
		if o == from || !o.alive || !from.sameTeam(o) {
			continue
		}
		if m.Recipient == "" || m.Recipient == o.name {
			o.messages = append(o.messages, m)
		}
	}
}

func (e *Engine) skip(p *peer) {
	if !p.alive {
		return
	}
	p.skipped++
	p.queue(event.NewSkippedTurnEvent(e.turn + 1))
	if e.callbacks.OnSkippedTurn != nil {
		e.callbacks.OnSkippedTurn(p.name, e.turn+1)
	}
	if p.skipped >= MaxSkippedTurns {
		log.Printf("⚠️ Robot %s skipped %d turns in a row, removing it", p.name, p.skipped)
		p.skipped = 0
		p.pendingRemoval = true
	}
}

// simulate advances the world one turn. Caller holds e.mu.
func (e *Engine) simulate() {
	for _, p := range e.peers {
		if reason, ok := p.gate.takeDisabled(); ok && p.alive {
			log.Printf("⚠️ Robot %s disabled: %s", p.name, reason)
			p.disabled = true
			p.energy = 0
		}
		if p.pendingRemoval {
			p.pendingRemoval = false
			e.kill(p, nil, false)
		}
	}

	e.updateBullets()

	for _, p := range e.peers {
		if !p.alive {
			continue
		}
		p.lastRadarHeading = p.radarHeading
		p.coolGun(e.cfg.GunCoolingRate)
		if p.energy <= 0 {
			// Out of energy: the robot can still aim but not move or fire.
			p.velocity = 0
			p.cmds.Distance = 0
			p.cmds.BodyTurn = 0
			p.turnGun()
			p.turnRadar()
			continue
		}
		e.fire(p)
		p.turnBody()
		p.turnGun()
		p.turnRadar()
		p.move()
		if bearing, damage, ok := p.hitWall(e.cfg.FieldWidth, e.cfg.FieldHeight); ok {
			p.energy = math.Max(0, p.energy-damage)
			p.queue(event.NewHitWallEvent(bearing))
		}
	}

	e.collideRobots()
	e.scan()

	for _, p := range e.peers {
		p.cmds.Scan = false
		p.cmds.Fire = nil
		p.cmds.Messages = nil
	}
}

// fire launches the committed bullet if the gun is cool.
func (e *Engine) fire(p *peer) {
	f := p.cmds.Fire
	if f == nil || p.gunHeat > 0 || p.energy <= 0 || len(e.bullets) >= MaxBullets {
		return
	}
	power := math.Min(p.energy, math.Min(math.Max(f.Power, rules.MinBulletPower), rules.MaxBulletPower))
	p.energy -= power
	p.gunHeat = rules.GunHeat(power)
	e.bullets = append(e.bullets, newProjectile(p, f.ID, power))
}

func (e *Engine) rebuildGrid() {
	e.grid.Clear()
	for i, p := range e.peers {
		if p.alive {
			e.grid.Insert(uint32(i), p.x, p.y)
		}
	}
}

// updateBullets moves bullets and resolves what they hit. Spent bullets
// report their final state once and are removed.
func (e *Engine) updateBullets() {
	e.rebuildGrid()

	for _, b := range e.bullets {
		b.update()
	}

	for i, b := range e.bullets {
		if !b.active() {
			continue
		}
		for _, o := range e.bullets[i+1:] {
			if o.active() && b.crosses(o) {
				b.state, o.state = bulletHitBullet, bulletHitBullet
				b.owner.queue(event.NewBulletHitBulletEvent(b.bullet(), o.bullet()))
				o.owner.queue(event.NewBulletHitBulletEvent(o.bullet(), b.bullet()))
				break
			}
		}
		if !b.active() {
			continue
		}

		minX, maxX := math.Min(b.lastX, b.x), math.Max(b.lastX, b.x)
		minY, maxY := math.Min(b.lastY, b.y), math.Max(b.lastY, b.y)
		const half = rules.RobotHalfSize
		for _, id := range e.grid.QueryRect(minX-half, minY-half, maxX+half, maxY+half) {
			victim := e.peers[id]
			if victim == b.owner || !victim.alive || !b.hits(victim) {
				continue
			}
			e.bulletHit(b, victim)
			break
		}
		if b.active() && b.outside(e.cfg.FieldWidth, e.cfg.FieldHeight) {
			b.state = bulletHitWall
			b.owner.queue(event.NewBulletMissedEvent(b.bullet()))
		}
	}

	n := 0
	for _, b := range e.bullets {
		b.owner.updates = append(b.owner.updates, b.status())
		if b.active() {
			e.bullets[n] = b
			n++
		}
	}
	clear(e.bullets[n:])
	e.bullets = e.bullets[:n]
}

func (e *Engine) bulletHit(b *projectile, victim *peer) {
	b.state = bulletHitRobot
	b.victim = victim

	damage := rules.BulletDamage(b.power)
	owner := b.owner
	dealt := math.Min(damage, victim.energy)
	if !owner.sameTeam(victim) {
		owner.score.bulletDamage += dealt
	}
	victim.bulletDamage[owner.index] += dealt
	killed := victim.damage(damage)
	if owner.alive {
		owner.energy += rules.BulletHitBonus(b.power)
	}

	victim.queue(event.NewHitByBulletEvent(
		rules.NormalRelativeAngle(b.heading+math.Pi-victim.heading), b.bullet()))
	owner.queue(event.NewBulletHitEvent(victim.name, victim.energy, b.bullet()))

	if killed {
		e.kill(victim, owner, false)
	}
}

// collideRobots resolves robots driving into each other. The robot that
// drove into the other is at fault: it is pushed back and stopped.
func (e *Engine) collideRobots() {
	e.rebuildGrid()
	for _, p := range e.peers {
		if !p.alive || p.velocity == 0 {
			continue
		}
		for _, id := range e.grid.QueryRadius(p.x, p.y, rules.RobotSize) {
			o := e.peers[id]
			if o == p || !o.alive || !p.overlaps(o) || !p.rams(o) {
				continue
			}
			e.ram(p, o)
			break
		}
	}
}

func (e *Engine) ram(p, o *peer) {
	p.x -= p.velocity * math.Sin(p.heading)
	p.y -= p.velocity * math.Cos(p.heading)
	p.velocity = 0
	p.cmds.Distance = 0
	p.overDriving = false

	if !p.sameTeam(o) {
		p.score.ramDamage += rules.RobotHitDamage * RamDamageScoreRatio
	}
	o.ramDamage[p.index] += rules.RobotHitDamage
	oDead := o.damage(rules.RobotHitDamage)
	pDead := p.damage(rules.RobotHitDamage)

	p.queue(event.NewHitRobotEvent(o.name, p.bearingTo(o), o.energy, true))
	o.queue(event.NewHitRobotEvent(p.name, o.bearingTo(p), p.energy, false))

	if oDead {
		e.kill(o, p, true)
	}
	if pDead {
		e.kill(p, o, true)
	}
}

// scan reports every robot inside each radar's sweep.
func (e *Engine) scan() {
	for _, p := range e.peers {
		if !p.alive || !p.scanning() {
			continue
		}
		for _, o := range e.peers {
			if o != p && o.alive && p.sees(o) {
				p.queue(p.scanEvent(o))
			}
		}
	}
}

// kill removes p from play. Survivors earn survival score and the killer,
// if any, its kill bonus.
func (e *Engine) kill(p, killer *peer, rammed bool) {
	if !p.alive {
		return
	}
	p.alive = false
	p.energy = 0
	p.velocity = 0
	e.deaths = append(e.deaths, p)

	if killer != nil && !killer.sameTeam(p) {
		if rammed {
			killer.score.ramKillBonus += p.ramDamage[killer.index] * RamDamageScoreRatio * RamKillBonusRatio
		} else {
			killer.score.bulletKillBonus += p.bulletDamage[killer.index] * BulletKillBonusRatio
		}
	}

	p.queue(event.NewDeathEvent())
	for _, o := range e.peers {
		if o == p || !o.alive {
			continue
		}
		if !o.sameTeam(p) {
			o.score.survival += SurvivalScore
		}
		o.queue(event.NewRobotDeathEvent(p.name))
	}

	e.recorder.Emit(Entry{Type: EntryDeath, Round: e.round, Turn: e.turn, Robot: p.name})
}

// checkRoundOver ends the round once at most one team is left standing,
// the turn limit is reached or the battle is aborted. Caller holds e.mu.
func (e *Engine) checkRoundOver() {
	var alive []*peer
	for _, p := range e.peers {
		if p.alive {
			alive = append(alive, p)
		}
	}
	decided := len(alive) <= 1 || !slices.ContainsFunc(alive[1:], func(o *peer) bool { return !alive[0].sameTeam(o) })
	if !decided && e.turn < int64(e.cfg.MaxTurns) && !e.aborted {
		return
	}
	e.roundOver = true

	if decided && !e.aborted {
		for _, p := range alive {
			p.score.lastSurvivorBonus += LastSurvivorBonusScore * float64(len(e.peers)-len(alive))
			p.queue(event.NewWinEvent())
		}
	}

	order := placing(e.peers, e.deaths)
	names := make([]string, len(order))
	for i, idx := range order {
		names[i] = e.contestants[idx].Name
	}

	e.scores.addRound(e.peers, order)
	for _, p := range e.peers {
		p.score = roundScore{}
	}

	last := e.round == e.cfg.NumRounds-1 || e.aborted
	var results []event.BattleResults
	if last {
		e.finished = true
		results = e.scores.current()
	}
	for _, p := range e.peers {
		p.queue(event.NewRoundEndedEvent(e.round, int(e.turn), int(e.totalTurns)))
		if last {
			for i := range results {
				if results[i].TeamLeaderName == p.name {
					r := results[i]
					p.queue(event.NewBattleEndedEvent(e.aborted, &r))
				}
			}
		}
	}

	e.recorder.Emit(Entry{Type: EntryRoundEnded, Round: e.round, Turn: e.turn})
	if last {
		e.recorder.Emit(Entry{Type: EntryBattleEnded, Round: e.round, Turn: e.turn})
	}
	e.roundPlacing = names
}

// deliver builds a turn result for every robot that committed this turn.
// Events cross the boundary as wire copies, so robots never share engine
// objects. Caller holds e.mu.
func (e *Engine) deliver() []delivery {
	others := -1
	for _, p := range e.peers {
		if p.alive {
			others++
		}
	}

	var out []delivery
	for _, p := range e.peers {
		if !p.connected || !p.committed {
			continue
		}
		events, updates, messages := p.drain()

		copied := make([]event.Event, 0, len(events))
		for _, ev := range events {
			e.recorder.EmitEvent(e.round, e.turn, p.name, ev)
			c, err := wire.CopyEvent(ev)
			if err != nil {
				c = ev
			}
			copied = append(copied, c)
		}

		n := others
		if !p.alive {
			n++
		}
		out = append(out, delivery{
			peer: p,
			result: &robot.TurnResult{
				Status:   p.status(e.turn, max(n, 0), e.round, e.cfg.NumRounds),
				Events:   copied,
				Bullets:  updates,
				Messages: messages,
				Halt:     !p.alive,
				Final:    e.roundOver,
			},
		})
	}
	return out
}

func (e *Engine) notify(snap *Snapshot, d time.Duration) {
	cb := e.callbacks
	if cb.OnTurn != nil {
		cb.OnTurn(snap, d)
	}
	if cb.OnDeath != nil {
		for _, p := range e.peers {
			if !p.alive && !p.reported {
				p.reported = true
				cb.OnDeath(p.name, e.round)
			}
		}
	}
	if snap.RoundOver && cb.OnRoundEnded != nil {
		cb.OnRoundEnded(e.round, e.roundPlacing)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// QUERIES
// ═══════════════════════════════════════════════════════════════════════════

// Snapshot returns the state after the latest turn, or nil before the
// first turn.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Results returns the scores so far, best first. The current round counts
// once it has ended.
func (e *Engine) Results() []event.BattleResults {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scores.current()
}

// Round returns the current round, or -1 before the first.
func (e *Engine) Round() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.round
}

func (e *Engine) Running() bool {
	select {
	case <-e.done:
		return false
	default:
		return e.running.Load()
	}
}

// StartRecorder begins writing the battle log to path.
func (e *Engine) StartRecorder(path string) error {
	return e.recorder.Start(path)
}

// StartRecorderWriter begins writing the battle log to w.
func (e *Engine) StartRecorderWriter(w io.Writer) error {
	return e.recorder.StartWriter(w)
}

// StopRecorder flushes and closes the battle log.
func (e *Engine) StopRecorder() {
	e.recorder.Stop()
}

// RecorderStats returns battle log counters for monitoring.
func (e *Engine) RecorderStats() map[string]any {
	return e.recorder.Stats()
}
