package automaton_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jasktask/internal/automaton"
)

type action struct {
	name string
	n    int
}

type world struct {
	value int
	log   []string
}

type eff = automaton.Effect[action, world]

func (w *world) note(s string) { w.log = append(w.log, s) }

// begin pushes a collector on "begin" and, once resumed with the collected
// number, transitions to a terminal state carrying it.
func begin() *automaton.State[action, world, int, struct{}] {
	s := &automaton.State[action, world, int, struct{}]{}
	s.Act = func(w *world, a action) eff {
		if a.name == "begin" {
			return automaton.Push(s, collect())
		}
		return eff{}
	}
	s.Resume = func(w *world, v int) eff {
		w.note("resume begin")
		return automaton.Transition(terminal(v))
	}
	s.OnExit = func(w *world) { w.note("exit begin") }
	return s
}

func collect() *automaton.State[action, world, struct{}, int] {
	s := &automaton.State[action, world, struct{}, int]{}
	s.Act = func(w *world, a action) eff {
		if a.name == "set" {
			return automaton.Finish(s, a.n)
		}
		return eff{}
	}
	s.OnEnter = func(w *world) eff { w.note("enter collect"); return eff{} }
	s.OnExit = func(w *world) { w.note("exit collect") }
	return s
}

func terminal(v int) *automaton.State[action, world, struct{}, struct{}] {
	s := &automaton.State[action, world, struct{}, struct{}]{}
	s.Act = func(w *world, a action) eff { return eff{} }
	s.OnEnter = func(w *world) eff {
		w.note("enter terminal")
		w.value = v
		return eff{}
	}
	return s
}

func TestPushFinishTransition(t *testing.T) {
	t.Parallel()

	m := automaton.New(begin())
	w := &world{}

	m.Step(w, action{name: "begin"})
	require.Equal(t, 1, m.Depth())

	m.Step(w, action{name: "set", n: 10})
	require.Equal(t, 10, w.value)
	require.Equal(t, 0, m.Depth())
	require.Equal(t, []string{
		"enter collect",
		"exit collect",
		"resume begin",
		"exit begin",
		"enter terminal",
	}, w.log)
}

// echo is a generic intermediate state: it pushes another echo on "push",
// finishes with its tag on "pop", and yields its tag on "yield". Resumed
// values are recorded so parentage is observable.
func echo(tag string) *automaton.State[action, world, string, string] {
	s := &automaton.State[action, world, string, string]{}
	s.Act = func(w *world, a action) eff {
		switch a.name {
		case "push":
			return automaton.Push(s, echo(tag+"+"))
		case "pop":
			return automaton.Finish(s, tag)
		case "yield":
			return automaton.Yield(s, tag)
		case "mark":
			w.note("act " + tag)
		}
		return eff{}
	}
	s.Resume = func(w *world, v string) eff {
		w.note("resume " + tag + " <- " + v)
		return eff{}
	}
	s.OnYield = func(w *world, v string) eff {
		w.note("onyield " + tag + " <- " + v)
		return eff{}
	}
	s.OnExit = func(w *world) { w.note("exit " + tag) }
	return s
}

func TestStackDepthConservation(t *testing.T) {
	t.Parallel()

	root := &automaton.State[action, world, string, struct{}]{}
	root.Act = func(w *world, a action) eff {
		switch a.name {
		case "push":
			return automaton.Push(root, echo("a"))
		case "mark":
			w.note("act root")
		}
		return eff{}
	}
	root.Resume = func(w *world, v string) eff {
		w.note("resume root <- " + v)
		return eff{}
	}

	m := automaton.New(root)
	w := &world{}

	for i := 0; i < 3; i++ {
		m.Step(w, action{name: "push"})
	}
	require.Equal(t, 3, m.Depth())

	for i := 0; i < 3; i++ {
		m.Step(w, action{name: "pop"})
	}
	require.Equal(t, 0, m.Depth())

	// The original root is active again.
	m.Step(w, action{name: "mark"})
	require.Contains(t, w.log, "act root")
	require.Contains(t, w.log, "resume root <- a")
}

// resetter pushes a deeper copy of itself on "push" and declares a full
// transition on "reset", from whatever depth it is active at.
func resetter(tag string) *automaton.State[action, world, struct{}, struct{}] {
	s := &automaton.State[action, world, struct{}, struct{}]{}
	s.Act = func(w *world, a action) eff {
		switch a.name {
		case "push":
			return automaton.Push(s, resetter(tag+"+"))
		case "reset":
			return automaton.Transition(terminal(99))
		}
		return eff{}
	}
	s.OnExit = func(w *world) { w.note("exit " + tag) }
	return s
}

func TestTransitionClearsStack(t *testing.T) {
	t.Parallel()

	m := automaton.New(resetter("r"))
	w := &world{}
	m.Step(w, action{name: "push"})
	m.Step(w, action{name: "push"})
	require.Equal(t, 2, m.Depth())

	m.Step(w, action{name: "reset"})
	require.Equal(t, 0, m.Depth())
	require.Equal(t, 99, w.value)

	// Active first, then the suspended states from most recent to oldest.
	require.Equal(t, []string{"exit r++", "exit r+", "exit r", "enter terminal"}, w.log)
}

func TestReplacePreservesParentage(t *testing.T) {
	t.Parallel()

	root := &automaton.State[action, world, string, struct{}]{}
	root.Act = func(w *world, a action) eff {
		if a.name == "push" {
			return automaton.Push(root, swapper("first"))
		}
		return eff{}
	}
	root.Resume = func(w *world, v string) eff {
		w.note("resume root <- " + v)
		return eff{}
	}

	m := automaton.New(root)
	w := &world{}
	m.Step(w, action{name: "push"})
	require.Equal(t, 1, m.Depth())

	m.Step(w, action{name: "swap"})
	require.Equal(t, 1, m.Depth(), "replace keeps stack depth")
	require.Contains(t, w.log, "exit first")

	// Finishing the replacement resumes the same parent.
	m.Step(w, action{name: "pop"})
	require.Equal(t, 0, m.Depth())
	require.Contains(t, w.log, "resume root <- second")
}

// swapper replaces itself with a second swapper on "swap" and finishes with
// its tag on "pop".
func swapper(tag string) *automaton.State[action, world, struct{}, string] {
	s := &automaton.State[action, world, struct{}, string]{}
	s.Act = func(w *world, a action) eff {
		switch a.name {
		case "swap":
			return automaton.Replace(s, swapper("second"))
		case "pop":
			return automaton.Finish(s, tag)
		}
		return eff{}
	}
	s.OnExit = func(w *world) { w.note("exit " + tag) }
	return s
}

func TestYieldPreservesDepthAndActive(t *testing.T) {
	t.Parallel()

	root := &automaton.State[action, world, string, struct{}]{}
	root.Act = func(w *world, a action) eff {
		if a.name == "push" {
			return automaton.Push(root, echo("a"))
		}
		return eff{}
	}
	root.OnYield = func(w *world, v string) eff {
		w.note("onyield root <- " + v)
		return eff{}
	}

	m := automaton.New(root)
	w := &world{}
	m.Step(w, action{name: "push"})
	m.Step(w, action{name: "yield"})
	require.Equal(t, 1, m.Depth(), "yield keeps stack depth")
	require.Contains(t, w.log, "onyield root <- a")
	require.NotContains(t, w.log, "exit a")

	// The child is still active and can yield again.
	m.Step(w, action{name: "yield"})
	require.Equal(t, 1, m.Depth())
}

func TestEnterCascades(t *testing.T) {
	t.Parallel()

	// inner finishes immediately on any action.
	inner := &automaton.State[action, world, struct{}, string]{}
	inner.Act = func(w *world, a action) eff {
		return automaton.Finish(inner, "done")
	}
	inner.OnEnter = func(w *world) eff { w.note("enter inner"); return eff{} }

	// middle exists only to own a continuation: no Act hook, and entering it
	// immediately delegates to inner.
	middle := &automaton.State[action, world, string, string]{}
	middle.OnEnter = func(w *world) eff {
		w.note("enter middle")
		return automaton.Push(middle, inner)
	}
	middle.Resume = func(w *world, v string) eff {
		return automaton.Finish(middle, v+"!")
	}

	root := &automaton.State[action, world, string, struct{}]{}
	root.Act = func(w *world, a action) eff {
		if a.name == "go" {
			return automaton.Push(root, middle)
		}
		return eff{}
	}
	root.Resume = func(w *world, v string) eff {
		w.note("resume root <- " + v)
		return eff{}
	}

	m := automaton.New(root)
	w := &world{}

	// A single step cascades: push middle, whose OnEnter pushes inner.
	m.Step(w, action{name: "go"})
	require.Equal(t, 2, m.Depth())
	require.Equal(t, []string{"enter middle", "enter inner"}, w.log)

	// One more step unwinds the whole chain: inner finishes, middle's
	// Resume finishes in turn, root gets the decorated value.
	m.Step(w, action{name: "anything"})
	require.Equal(t, 0, m.Depth())
	require.Contains(t, w.log, "resume root <- done!")
}

func TestFinishOnEmptyStackPanics(t *testing.T) {
	t.Parallel()

	s := &automaton.State[action, world, struct{}, struct{}]{}
	s.Act = func(w *world, a action) eff {
		return automaton.Finish(s, struct{}{})
	}
	m := automaton.New(s)
	w := &world{}
	require.PanicsWithValue(t, "automaton: finished on an empty stack", func() {
		m.Step(w, action{})
	})
}

func TestYieldAtBottomPanics(t *testing.T) {
	t.Parallel()

	s := &automaton.State[action, world, struct{}, struct{}]{}
	s.Act = func(w *world, a action) eff {
		return automaton.Yield(s, struct{}{})
	}
	m := automaton.New(s)
	w := &world{}
	require.PanicsWithValue(t, "automaton: yielded at the bottom of the stack", func() {
		m.Step(w, action{})
	})
}

func TestActionWithoutActHookPanics(t *testing.T) {
	t.Parallel()

	s := &automaton.State[action, world, struct{}, struct{}]{}
	m := automaton.New(s)
	w := &world{}
	require.PanicsWithValue(t, "automaton: action routed to a state without an Act hook", func() {
		m.Step(w, action{})
	})
}
