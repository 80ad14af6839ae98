package robot

import (
	"math"
	"slices"

	"github.com/robo-code/robocode-sub000/internal/event"
)

// noTopPriority means no handler is running.
const noTopPriority = math.MinInt

// Manager owns a robot's event queue and custom conditions and dispatches
// events to the robot's handlers in priority order.
//
// Dispatch nests: a handler that calls Execute processes the events of the
// next turn from inside that call, but only events of strictly higher
// priority than the running handler are delivered there. An event of equal
// priority interrupts the running handler instead, if that priority was
// marked interruptible.
type Manager struct {
	queue      *event.Queue
	conditions []*event.Condition
	handlers   *handlerTable
	console    event.Printer
	now        func() int64

	interruptible [event.MaxPriority + 1]bool
	topPriority   int
	topEvent      event.Event

	// testing is set while a Condition is being evaluated.
	testing bool
	// skipConditions suspends custom condition evaluation, e.g. during WaitFor.
	skipConditions bool

	dispatched uint64
}

func NewManager(owner string, console event.Printer, now func() int64) *Manager {
	return &Manager{
		queue:       event.NewQueue(owner, console),
		handlers:    new(handlerTable),
		console:     console,
		now:         now,
		topPriority: noTopPriority,
	}
}

// Queue exposes the pending events.
func (m *Manager) Queue() *event.Queue { return m.queue }

// Priorities is the robot's default priority table.
func (m *Manager) Priorities() *event.Priorities { return m.queue.Priorities() }

// Add queues e for the current turn.
func (m *Manager) Add(e event.Event) bool {
	return m.queue.Add(e, m.now())
}

// AddCondition registers c. Registering the same condition twice is a no-op.
func (m *Manager) AddCondition(c *event.Condition) {
	if c == nil {
		m.console.Printf("SYSTEM: addCustomEvent ignored, the condition cannot be nil")
		return
	}
	if slices.Contains(m.conditions, c) {
		return
	}
	c.SetConsole(m.console)
	m.conditions = append(m.conditions, c)
}

// RemoveCondition unregisters c. Events it already produced stay queued.
func (m *Manager) RemoveCondition(c *event.Condition) {
	if i := slices.Index(m.conditions, c); i >= 0 {
		m.conditions = slices.Delete(m.conditions, i, i+1)
	}
}

func (m *Manager) Conditions() []*event.Condition {
	return slices.Clone(m.conditions)
}

// ClearAll drops pending events, keeping critical ones unless
// includingSystem is set.
func (m *Manager) ClearAll(includingSystem bool) {
	m.queue.Clear(includingSystem)
}

// TopPriority is the priority of the handler currently running.
func (m *Manager) TopPriority() int { return m.topPriority }

// TopEvent is the event whose handler is currently running, if any.
func (m *Manager) TopEvent() event.Event { return m.topEvent }

// Dispatched counts the events handed to handlers so far.
func (m *Manager) Dispatched() uint64 { return m.dispatched }

// SetInterruptible marks whether a handler of the given priority may be
// interrupted by a new event of the same priority.
func (m *Manager) SetInterruptible(priority int, interruptible bool) {
	if priority < 0 || priority > event.MaxPriority {
		return
	}
	m.interruptible[priority] = interruptible
}

func (m *Manager) IsInterruptible(priority int) bool {
	if priority < 0 || priority > event.MaxPriority {
		return false
	}
	return m.interruptible[priority]
}

// Process runs one turn of event handling: it discards stale events,
// tests custom conditions, then dispatches everything that outranks the
// running handler.
func (m *Manager) Process() {
	now := m.now()
	m.queue.ClearOlderThan(now - event.MaxEventStack)

	if !m.skipConditions {
		for _, c := range slices.Clone(m.conditions) {
			if m.test(c) {
				m.queue.Add(event.NewCustomEvent(c), now)
			}
		}
	}

	m.queue.Sort()

	for e := m.queue.Peek(); e != nil && e.Priority() >= m.topPriority; e = m.queue.Peek() {
		if e.Priority() == m.topPriority {
			if m.topPriority > noTopPriority && m.IsInterruptible(m.topPriority) {
				m.SetInterruptible(m.topPriority, false)
				panic(interruptSignal{priority: e.Priority()})
			}
			break
		}
		m.handle(e)
	}
}

func (m *Manager) handle(e event.Event) {
	old := m.topPriority
	m.topPriority = e.Priority()
	m.topEvent = e
	m.queue.Remove(e)

	defer func() {
		m.topPriority = old
		if r := recover(); r != nil {
			m.topEvent = nil
			if _, ok := r.(interruptSignal); ok {
				return
			}
			panic(r)
		}
	}()

	m.dispatch(e)
	m.SetInterruptible(m.topPriority, false)
}

// dispatch calls the robot's handler for e. Handler panics are reported on
// the console and swallowed unless they carry robot control flow.
func (m *Manager) dispatch(e event.Event) {
	if e.Time() <= m.now()-event.MaxEventStack && !e.Kind().IsCritical() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			if isControl(r) {
				panic(r)
			}
			m.console.Printf("SYSTEM: %v occurred on %s", r, e.Kind())
		}
	}()

	m.dispatched++
	m.handlers.call(e)
}

func (m *Manager) test(c *event.Condition) bool {
	m.testing = true
	defer func() { m.testing = false }()
	return c.Test()
}

// Reset clears all events, conditions and dispatch state.
func (m *Manager) Reset() {
	m.queue.Clear(true)
	m.conditions = nil
	m.interruptible = [event.MaxPriority + 1]bool{}
	m.topPriority = noTopPriority
	m.topEvent = nil
}
