// Package automaton implements a pushdown state machine for keyboard-driven
// interfaces. One state is active at a time; states suspended in favour of a
// child wait on a stack until the child finishes (pop) or yields (signal).
//
// The machine is single threaded. Step runs fully synchronously: the declared
// effect of a hook is interpreted, and any effect declared by a hook invoked
// during interpretation is interpreted in turn, before Step returns.
package automaton

import "fmt"

// State is one unit of application behaviour. A is the machine-wide action
// alphabet and D the machine-wide shared data; I is the value the state
// expects back when a pushed child finishes or yields, and R the value the
// state itself produces when it finishes.
//
// Hooks left nil default to declaring no effect, except Act: a state without
// an Act hook exists only to receive a continuation, and routing an action to
// it is a programming error.
type State[A, D, I, R any] struct {
	// Act handles one action while the state is active.
	Act func(data *D, action A) Effect[A, D]

	// Resume receives the value a pushed child finished with.
	Resume func(data *D, value I) Effect[A, D]

	// OnYield receives a value from a still-suspended child.
	OnYield func(data *D, value I) Effect[A, D]

	// OnEnter runs right after the state becomes active. It may declare a
	// further effect, so a state can delegate to a child immediately.
	OnEnter func(data *D) Effect[A, D]

	// OnExit runs right before the state stops being active for any reason
	// other than suspension. Cleanup only; it cannot declare an effect.
	OnExit func(data *D)
}

// Effect describes a stack mutation declared by a hook and applied by the
// machine. The zero value declares no effect.
type Effect[A, D any] struct {
	kind  effectKind
	next  frame[A, D]
	value any
}

type effectKind uint8

const (
	effectNone effectKind = iota
	effectTransition
	effectReplace
	effectPush
	effectFinish
	effectYield
)

// Transition replaces the active state with next and clears the suspension
// stack, exiting the active state and then every suspended state from the
// most recently suspended down.
func Transition[A, D, I, R any](next *State[A, D, I, R]) Effect[A, D] {
	return Effect[A, D]{kind: effectTransition, next: unit[A, D, I, R]{next}}
}

// Replace swaps the active state for next at the same stack depth. The
// replacement produces the caller's result type, so a later Finish still
// delivers what the suspended parent expects.
func Replace[A, D, I, R, NI any](from *State[A, D, I, R], next *State[A, D, NI, R]) Effect[A, D] {
	_ = from
	return Effect[A, D]{kind: effectReplace, next: unit[A, D, NI, R]{next}}
}

// Push suspends the calling state and activates child. The child produces
// the caller's input type: when the child finishes, the caller's Resume
// receives that value. The suspended state is not exited.
func Push[A, D, I, R, CI any](from *State[A, D, I, R], child *State[A, D, CI, I]) Effect[A, D] {
	_ = from
	return Effect[A, D]{kind: effectPush, next: unit[A, D, CI, I]{child}}
}

// Finish pops the calling state, reactivating the most recently suspended
// state and delivering value to its Resume. Fatal if the stack is empty.
func Finish[A, D, I, R any](from *State[A, D, I, R], value R) Effect[A, D] {
	_ = from
	return Effect[A, D]{kind: effectFinish, value: value}
}

// Yield delivers value to the suspended parent's OnYield without popping.
// Fatal if the calling frame has no parent.
func Yield[A, D, I, R any](from *State[A, D, I, R], value R) Effect[A, D] {
	_ = from
	return Effect[A, D]{kind: effectYield, value: value}
}

// frame erases a state's I and R so states of differing shapes can share the
// machine's stack. Values cross frames as any and are reasserted on delivery.
type frame[A, D any] interface {
	act(data *D, action A) Effect[A, D]
	resume(data *D, value any) Effect[A, D]
	onYield(data *D, value any) Effect[A, D]
	onEnter(data *D) Effect[A, D]
	onExit(data *D)
}

type unit[A, D, I, R any] struct {
	s *State[A, D, I, R]
}

func (u unit[A, D, I, R]) act(data *D, action A) Effect[A, D] {
	if u.s.Act == nil {
		panic("automaton: action routed to a state without an Act hook")
	}
	return u.s.Act(data, action)
}

func (u unit[A, D, I, R]) resume(data *D, value any) Effect[A, D] {
	if u.s.Resume == nil {
		return Effect[A, D]{}
	}
	return u.s.Resume(data, accept[I](value, "resumed"))
}

func (u unit[A, D, I, R]) onYield(data *D, value any) Effect[A, D] {
	if u.s.OnYield == nil {
		return Effect[A, D]{}
	}
	return u.s.OnYield(data, accept[I](value, "yielded to"))
}

func (u unit[A, D, I, R]) onEnter(data *D) Effect[A, D] {
	if u.s.OnEnter == nil {
		return Effect[A, D]{}
	}
	return u.s.OnEnter(data)
}

func (u unit[A, D, I, R]) onExit(data *D) {
	if u.s.OnExit != nil {
		u.s.OnExit(data)
	}
}

// accept reasserts a delivered value as the receiving state's input type.
// A mismatch means a Push was paired with an incompatible Finish or Yield,
// which the Effect constructors make unreachable; it is a fatal authoring
// bug, not a runtime condition.
func accept[I any](value any, how string) I {
	v, ok := value.(I)
	if !ok {
		panic(fmt.Sprintf("automaton: state %s with %T, want %T", how, value, v))
	}
	return v
}

// Machine owns the active state and the stack of suspended parents. It never
// inspects the shared data it threads through hooks.
type Machine[A, D any] struct {
	active frame[A, D]
	stack  []frame[A, D]
}

// New returns a machine with root active and an empty stack.
func New[A, D, I, R any](root *State[A, D, I, R]) *Machine[A, D] {
	return &Machine[A, D]{active: unit[A, D, I, R]{root}}
}

// Depth reports how many states are suspended beneath the active one.
func (m *Machine[A, D]) Depth() int {
	return len(m.stack)
}

// Step routes one action to the active state and applies whatever effects
// cascade from it. All observable results land in data and in the machine's
// state/stack configuration.
func (m *Machine[A, D]) Step(data *D, action A) {
	m.apply(data, m.active.act(data, action), len(m.stack))
}

// apply interprets effects until one hook declares nothing. pos is the frame
// index the current effect was declared at: yields address the parent at
// pos-1, and each hand-off up the stack decrements it. A loop rather than
// call recursion, so a long transition chain cannot grow the call stack.
func (m *Machine[A, D]) apply(data *D, eff Effect[A, D], pos int) {
	for {
		switch eff.kind {
		case effectNone:
			return

		case effectTransition:
			m.active.onExit(data)
			for i := len(m.stack) - 1; i >= 0; i-- {
				m.stack[i].onExit(data)
			}
			m.stack = m.stack[:0]
			m.active = eff.next
			eff, pos = m.active.onEnter(data), 0

		case effectReplace:
			m.active.onExit(data)
			m.active = eff.next
			eff = m.active.onEnter(data)

		case effectPush:
			m.stack = append(m.stack, m.active)
			m.active = eff.next
			eff, pos = m.active.onEnter(data), len(m.stack)

		case effectFinish:
			if len(m.stack) == 0 {
				panic("automaton: finished on an empty stack")
			}
			m.active.onExit(data)
			m.active = m.stack[len(m.stack)-1]
			m.stack = m.stack[:len(m.stack)-1]
			eff, pos = m.active.resume(data, eff.value), pos-1

		case effectYield:
			if pos == 0 {
				panic("automaton: yielded at the bottom of the stack")
			}
			eff, pos = m.stack[pos-1].onYield(data, eff.value), pos-1
		}
	}
}
