// Package event defines the events a robot receives, their ordering, the
// per-robot event queue and priority table, custom conditions and bullets.
package event

import (
	"cmp"
	"log"
)

const (
	MinPriority = 0
	MaxPriority = 99
)

// Printer receives console warnings. *log.Logger satisfies it.
type Printer interface {
	Printf(format string, v ...any)
}

// Event is implemented by every concrete event type. The set is closed:
// only types embedding Base satisfy it. Events must be built with their
// New* constructors so the kind and default priority are set.
type Event interface {
	Kind() Kind
	Time() int64
	Priority() int
	SetTime(t int64)
	SetPriority(p int)

	base() *Base
}

// Base holds the state common to all events. Time and priority are frozen
// once the event has been added to a queue.
type Base struct {
	kind     Kind
	time     int64
	priority int
	queued   bool
	console  Printer
}

func newBase(k Kind) Base {
	return Base{kind: k, priority: k.DefaultPriority()}
}

func (b *Base) base() *Base { return b }

// Kind returns the event variant.
func (b *Base) Kind() Kind { return b.kind }

// Time returns the turn the event occurred in.
func (b *Base) Time() int64 { return b.time }

// Priority returns the event's priority.
func (b *Base) Priority() int { return b.priority }

// SetTime sets the event time. Rejected with a warning once queued.
func (b *Base) SetTime(t int64) {
	if b.queued {
		b.warnf("SYSTEM: The time of an event cannot be changed after it has been added to the event queue.")
		return
	}
	b.time = t
}

// SetPriority sets the event priority, clamped to [0, 99]. Rejected with a
// warning once queued.
func (b *Base) SetPriority(p int) {
	if b.queued {
		b.warnf("SYSTEM: The priority of an event cannot be changed after it has been added to the event queue.")
		return
	}
	b.priority = clampPriority(p, b.kind.String(), b.console)
}

func (b *Base) warnf(format string, v ...any) {
	printTo(b.console, format, v...)
}

// stamp records the enqueue time. Time only moves forward so that an event
// a robot timestamped into the future keeps its time.
func (b *Base) stamp(now int64, console Printer) {
	if b.time < now {
		b.time = now
	}
	b.queued = true
	b.console = console
}

// assignPriority sets a priority, bypassing the queued check.
func assignPriority(e Event, p int) {
	e.base().priority = p
}

// IsQueued reports whether e has been added to a queue.
func IsQueued(e Event) bool { return e.base().queued }

// Compare orders events by time ascending, then priority descending, then a
// kind specific tie-break. It returns 0 for otherwise equal events so a
// stable sort keeps insertion order.
func Compare(a, b Event) int {
	if c := cmp.Compare(a.Time(), b.Time()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Priority(), a.Priority()); c != 0 {
		return c
	}

	switch x := a.(type) {
	case *HitRobotEvent:
		if y, ok := b.(*HitRobotEvent); ok {
			return cmp.Compare(faultRank(x.AtFault), faultRank(y.AtFault))
		}
	case *ScannedRobotEvent:
		if y, ok := b.(*ScannedRobotEvent); ok {
			return cmp.Compare(x.Distance, y.Distance)
		}
	}
	return 0
}

func faultRank(atFault bool) int {
	if atFault {
		return -1
	}
	return 0
}

func clampPriority(p int, name string, console Printer) int {
	switch {
	case p < MinPriority:
		printTo(console, "SYSTEM: Priority must be between %d and %d", MinPriority, MaxPriority)
		printTo(console, "SYSTEM: Priority for %s will be %d", name, MinPriority)
		return MinPriority
	case p > MaxPriority:
		printTo(console, "SYSTEM: Priority must be between %d and %d", MinPriority, MaxPriority)
		printTo(console, "SYSTEM: Priority for %s will be %d", name, MaxPriority)
		return MaxPriority
	}
	return p
}

func printTo(console Printer, format string, v ...any) {
	if console == nil {
		log.Printf(format, v...)
		return
	}
	console.Printf(format, v...)
}
