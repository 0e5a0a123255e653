package workflow

import (
	"context"
	"fmt"
)

// Reserved pseudo-steps marking the boundaries of a graph.
const (
	Start = "__start__"
	End   = "__end__"
)

// StepContext carries per-invocation configuration into a step.
type StepContext struct {
	ThreadID string
	UserID   string
	// Resume holds the decision supplied to Resume. It is non-nil only for
	// the step that raised the interrupt, on its first re-execution.
	Resume *string
}

// StepFunc is a single workflow step: a pure function of the current state
// and invocation context returning a partial state update.
type StepFunc func(ctx context.Context, s *State, sc StepContext) (*Update, error)

// RouterFunc selects the next step after a conditional transition.
// It must return a step name defined in the graph, or End.
type RouterFunc func(s *State) string

// Definition is an immutable workflow graph: an ordered step list plus a
// transition table, built once at startup and passed by reference into the
// executor. There is no process-wide registry.
type Definition struct {
	entry  string
	order  []string
	steps  map[string]StepFunc
	next   map[string]string
	routes map[string]RouterFunc
}

// Builder assembles a Definition. Zero value is not usable; use NewBuilder.
type Builder struct {
	def *Definition
	err error
}

// NewBuilder creates a graph builder with the given entry step name.
func NewBuilder(entry string) *Builder {
	return &Builder{def: &Definition{
		entry:  entry,
		steps:  make(map[string]StepFunc),
		next:   make(map[string]string),
		routes: make(map[string]RouterFunc),
	}}
}

// AddStep registers a named step. Names must be unique and not reserved.
func (b *Builder) AddStep(name string, fn StepFunc) *Builder {
	if b.err != nil {
		return b
	}
	switch {
	case name == Start || name == End:
		b.err = fmt.Errorf("%w: %s", ErrReservedName, name)
	case fn == nil:
		b.err = fmt.Errorf("%w: %s", ErrNilStep, name)
	default:
		if _, exists := b.def.steps[name]; exists {
			b.err = fmt.Errorf("%w: %s", ErrDuplicateStep, name)
			return b
		}
		b.def.steps[name] = fn
		b.def.order = append(b.def.order, name)
	}
	return b
}

// AddEdge registers an unconditional transition from one step to another
// (or to End).
func (b *Builder) AddEdge(from, to string) *Builder {
	if b.err != nil {
		return b
	}
	b.def.next[from] = to
	return b
}

// AddConditionalEdge registers a router deciding the successor of a step
// at run time.
func (b *Builder) AddConditionalEdge(from string, route RouterFunc) *Builder {
	if b.err != nil {
		return b
	}
	b.def.routes[from] = route
	return b
}

// Build validates the assembled graph and returns the immutable definition.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := b.def
	if d.entry == "" {
		return nil, ErrNoEntryPoint
	}
	if _, ok := d.steps[d.entry]; !ok {
		return nil, fmt.Errorf("%w: entry %s", ErrUnknownStep, d.entry)
	}
	for from, to := range d.next {
		if _, ok := d.steps[from]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrDanglingEdge, from)
		}
		if to != End {
			if _, ok := d.steps[to]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrDanglingEdge, from, to)
			}
		}
	}
	for from := range d.routes {
		if _, ok := d.steps[from]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrDanglingEdge, from)
		}
	}
	// Every step needs a way out.
	for name := range d.steps {
		if _, ok := d.next[name]; ok {
			continue
		}
		if _, ok := d.routes[name]; ok {
			continue
		}
		return nil, fmt.Errorf("%w: %s", ErrNoTransition, name)
	}
	b.def = nil
	return d, nil
}

// Entry returns the entry step name.
func (d *Definition) Entry() string {
	return d.entry
}

// Steps returns the step names in registration order.
func (d *Definition) Steps() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Step looks up a step function by name.
func (d *Definition) Step(name string) (StepFunc, bool) {
	fn, ok := d.steps[name]
	return fn, ok
}

// NextAfter resolves the successor of a step against the current state.
// Conditional routes take precedence over static edges.
func (d *Definition) NextAfter(name string, s *State) (string, error) {
	if route, ok := d.routes[name]; ok {
		to := route(s)
		if to != End {
			if _, defined := d.steps[to]; !defined {
				return "", fmt.Errorf("%w: router for %s returned %s", ErrUnknownStep, name, to)
			}
		}
		return to, nil
	}
	if to, ok := d.next[name]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoTransition, name)
}
