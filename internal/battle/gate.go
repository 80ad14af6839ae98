package battle

import (
	"sync/atomic"

	"github.com/robo-code/robocode-sub000/internal/robot"
)

// gate is the engine end of one robot's isolation boundary. The robot's
// goroutine blocks in Exchange until the engine answers its commit, so
// robot code only ever runs between two turns.
type gate struct {
	commits chan *robot.Commands
	results chan *robot.TurnResult
	done    chan struct{}
	closed  atomic.Bool

	disabled atomic.Pointer[string]
}

func newGate() *gate {
	return &gate{
		commits: make(chan *robot.Commands),
		results: make(chan *robot.TurnResult, 1),
		done:    make(chan struct{}),
	}
}

// Exchange implements robot.Host.
func (g *gate) Exchange(c *robot.Commands) (*robot.TurnResult, bool) {
	select {
	case g.commits <- c.Clone():
	case <-g.done:
		return nil, false
	}

	select {
	case res := <-g.results:
		return res, true
	case <-g.done:
		return nil, false
	}
}

// Disable implements robot.Host. The engine drains the robot's energy on
// the next turn.
func (g *gate) Disable(reason string) {
	g.disabled.Store(&reason)
}

// takeDisabled returns the pending disable reason once.
func (g *gate) takeDisabled() (string, bool) {
	r := g.disabled.Swap(nil)
	if r == nil {
		return "", false
	}
	return *r, true
}

// close disconnects the robot. Blocked and future exchanges return false.
func (g *gate) close() {
	if g.closed.CompareAndSwap(false, true) {
		close(g.done)
	}
}
