package event

import (
	"fmt"
	"strings"
)

// DefaultConditionPriority is the priority of a new Condition.
const DefaultConditionPriority = 80

// Tester is the predicate behind a Condition. Test must not have side
// effects and must not take robot actions.
type Tester interface {
	Test() bool
}

// TestFunc adapts a function to Tester.
type TestFunc func() bool

func (f TestFunc) Test() bool { return f() }

// Condition is a named, prioritized predicate. Registered with a robot it
// produces a CustomEvent on every turn Test returns true, until removed.
type Condition struct {
	name     string
	priority int
	tester   Tester
	console  Printer
}

// NewCondition creates a condition with the default priority. An empty
// name defaults to the tester's type name.
func NewCondition(name string, t Tester) *Condition {
	if name == "" {
		name = typeName(t)
	}
	return &Condition{name: name, priority: DefaultConditionPriority, tester: t}
}

// NewConditionFunc is NewCondition for a plain function.
func NewConditionFunc(name string, f func() bool) *Condition {
	return NewCondition(name, TestFunc(f))
}

func typeName(t Tester) string {
	if _, ok := t.(TestFunc); ok || t == nil {
		return "Condition"
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", t), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (c *Condition) Name() string  { return c.name }
func (c *Condition) Priority() int { return c.priority }

// Test evaluates the predicate. A nil tester never fires.
func (c *Condition) Test() bool {
	if c.tester == nil {
		return false
	}
	return c.tester.Test()
}

func (c *Condition) SetName(name string) {
	c.name = name
}

// SetPriority changes the priority of CustomEvents created from now on.
// Values outside [0, 99] are clamped with a console warning.
func (c *Condition) SetPriority(p int) {
	c.priority = clampPriority(p, c.name, c.console)
}

// SetConsole routes the condition's warnings to a robot console.
func (c *Condition) SetConsole(p Printer) {
	c.console = p
}
