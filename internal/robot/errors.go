package robot

import (
	"errors"
	"fmt"
)

var (
	// ErrUninitialized is the panic value (wrapped) when a control or query
	// method is called on a robot that has not been attached to a peer.
	ErrUninitialized = errors.New("robot is not initialized; control methods may only be called from Run and event handlers")

	// ErrDisabled means the robot exceeded its per-turn call budget and its
	// energy is drained for the rest of the round.
	ErrDisabled = errors.New("robot disabled")

	// ErrActionInCondition is raised when Condition.Test tries to act.
	ErrActionInCondition = errors.New("you cannot take action inside Condition.Test()")

	// ErrNotTeamMember is returned by team messaging outside a team.
	ErrNotTeamMember = errors.New("robot is not a member of a team")
)

func uninitialized(op string) error {
	return fmt.Errorf("%s: %w", op, ErrUninitialized)
}

// haltSignal unwinds a robot's goroutine when it dies, the round ends or
// the engine disconnects it.
type haltSignal struct {
	reason string
}

// interruptSignal unwinds an event handler so a newer event of the same
// priority can be dispatched.
type interruptSignal struct {
	priority int
}

// isControl reports whether a recovered panic value must keep unwinding
// past event dispatch rather than being logged as a handler failure.
func isControl(v any) bool {
	switch x := v.(type) {
	case haltSignal, interruptSignal:
		return true
	case error:
		return errors.Is(x, ErrDisabled) || errors.Is(x, ErrUninitialized) || errors.Is(x, ErrActionInCondition)
	}
	return false
}
