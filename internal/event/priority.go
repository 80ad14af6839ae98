package event

// Priorities is a robot's table of default priorities per event kind.
type Priorities struct {
	values  [numKinds]int
	console Printer
}

func NewPriorities(console Printer) *Priorities {
	p := &Priorities{console: console}
	for k := Kind(0); k < numKinds; k++ {
		p.values[k] = k.DefaultPriority()
	}
	return p
}

// Get returns the priority new events of kind k will be given.
func (p *Priorities) Get(k Kind) int {
	if k >= numKinds {
		return -1
	}
	return p.values[k]
}

// Set overrides the default priority for kind k. Reserved kinds keep their
// priority and the call only logs a warning.
func (p *Priorities) Set(k Kind, priority int) {
	switch {
	case k == KindUnknown || k >= numKinds:
		printTo(p.console, "SYSTEM: Unknown event class, setEventPriority ignored.")
		return
	case k == KindCustom:
		printTo(p.console, "SYSTEM: Set the priority of a CustomEvent through its Condition, setEventPriority ignored.")
		return
	case k.IsReserved():
		printTo(p.console, "SYSTEM: You may not change the priority of %s, setEventPriority ignored.", k)
		return
	}
	p.values[k] = clampPriority(priority, k.String(), p.console)
}

// GetByName is Get addressed by event class name. Unknown names return -1.
func (p *Priorities) GetByName(name string) int {
	k, ok := KindByName(name)
	if !ok {
		printTo(p.console, "SYSTEM: Unknown event class %q", name)
		return -1
	}
	return p.Get(k)
}

// SetByName is Set addressed by event class name.
func (p *Priorities) SetByName(name string, priority int) {
	k, _ := KindByName(name)
	p.Set(k, priority)
}
