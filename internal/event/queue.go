package event

import "slices"

const (
	// MaxQueueSize bounds the events a robot may have pending.
	MaxQueueSize = 256
	// MaxEventStack is how many turns an unhandled event may age before it
	// is discarded.
	MaxEventStack = 2
)

// Queue is a robot's pending events, kept in Compare order by Sort. It is
// owned by a single robot goroutine and is not safe for concurrent use.
type Queue struct {
	events     []Event
	priorities *Priorities
	owner      string
	console    Printer
}

func NewQueue(owner string, console Printer) *Queue {
	return &Queue{
		events:     make([]Event, 0, 32),
		priorities: NewPriorities(console),
		owner:      owner,
		console:    console,
	}
}

// Priorities returns the table used to assign priorities on Add.
func (q *Queue) Priorities() *Priorities { return q.priorities }

// Add stamps e with the current turn and the robot's priority for its kind,
// then appends it. Critical events bypass the size limit. It reports
// whether the event was queued.
func (q *Queue) Add(e Event, now int64) bool {
	k := e.Kind()
	if !k.IsCritical() && len(q.events) >= MaxQueueSize {
		printTo(q.console, "Not adding to %s's queue, exceeded %d events in queue.", q.owner, MaxQueueSize)
		return false
	}
	if !k.IsCritical() && k != KindCustom {
		assignPriority(e, q.priorities.Get(k))
	}
	e.base().stamp(now, q.console)
	q.events = append(q.events, e)
	return true
}

// Sort orders the queue. Ties keep insertion order.
func (q *Queue) Sort() {
	slices.SortStableFunc(q.events, Compare)
}

// Peek returns the first event, or nil if the queue is empty.
func (q *Queue) Peek() Event {
	if len(q.events) == 0 {
		return nil
	}
	return q.events[0]
}

// Remove deletes e from the queue by identity.
func (q *Queue) Remove(e Event) bool {
	for i, x := range q.events {
		if x == e {
			q.events = slices.Delete(q.events, i, i+1)
			return true
		}
	}
	return false
}

func (q *Queue) Len() int { return len(q.events) }

// Events returns a copy of the pending events in queue order.
func (q *Queue) Events() []Event {
	return slices.Clone(q.events)
}

// OfKind returns the pending events of kind k.
func (q *Queue) OfKind(k Kind) []Event {
	var out []Event
	for _, e := range q.events {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// ClearOlderThan drops non-critical events with time <= t.
func (q *Queue) ClearOlderThan(t int64) {
	q.filter(func(e Event) bool {
		return e.Time() > t || e.Kind().IsCritical()
	})
}

// Clear drops all events, keeping critical ones unless includingSystem.
func (q *Queue) Clear(includingSystem bool) {
	if includingSystem {
		clear(q.events)
		q.events = q.events[:0]
		return
	}
	q.filter(func(e Event) bool { return e.Kind().IsCritical() })
}

// filter keeps the events for which keep returns true, in place.
func (q *Queue) filter(keep func(Event) bool) {
	n := 0
	for _, e := range q.events {
		if keep(e) {
			q.events[n] = e
			n++
		}
	}
	clear(q.events[n:])
	q.events = q.events[:n]
}
