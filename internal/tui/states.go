package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jasktask/internal/automaton"
	"github.com/jask/jasktask/internal/database/repository"
)

type eff = automaton.Effect[tea.KeyMsg, Session]

type state[I, R any] = automaton.State[tea.KeyMsg, Session, I, R]

// normal is the root state: task list navigation.
func normal() *state[struct{}, struct{}] {
	s := &state[struct{}, struct{}]{}
	s.Act = func(d *Session, msg tea.KeyMsg) eff {
		switch msg.String() {
		case "n":
			return automaton.Push(s, quickCreate())
		case "f":
			return automaton.Push(s, filterMenu())
		case "up", "k":
			d.list.MoveUp()
		case "down", "j":
			d.list.MoveDown()
		case "enter":
			if t := d.list.Selected(); t != nil {
				return automaton.Transition(taskView(t.ID))
			}
		case " ":
			if t := d.list.Selected(); t != nil {
				d.toggleStatus(t.ID)
			}
		case "e":
			if t := d.list.Selected(); t != nil {
				return automaton.Push(s, describe(t.ID))
			}
		case "p":
			if t := d.list.Selected(); t != nil {
				return automaton.Push(s, pomodoroMenu(t.ID))
			}
		}
		return eff{}
	}
	s.OnEnter = func(d *Session) eff {
		d.pane = paneMain
		d.detail = nil
		d.reload()
		return eff{}
	}
	return s
}

// taskView shows one task with its linked tasks.
func taskView(id string) *state[struct{}, struct{}] {
	s := &state[struct{}, struct{}]{}
	s.Act = func(d *Session, msg tea.KeyMsg) eff {
		if d.detail == nil {
			// the task vanished underneath us; only way out is back
			return automaton.Transition(normal())
		}
		switch msg.String() {
		case "esc":
			return automaton.Transition(normal())
		case "n":
			return automaton.Push(s, quickCreate())
		case "up", "k":
			d.detail.Links.MoveUp()
		case "down", "j":
			d.detail.Links.MoveDown()
		case "enter":
			if t := d.detail.Links.Selected(); t != nil {
				return automaton.Transition(taskView(t.ID))
			}
		case " ":
			d.toggleStatus(id)
		case "l":
			return automaton.Push(s, addLink(id))
		case "e":
			return automaton.Push(s, describe(id))
		case "p":
			return automaton.Push(s, pomodoroMenu(id))
		}
		return eff{}
	}
	s.OnEnter = func(d *Session) eff {
		d.openDetail(id)
		return eff{}
	}
	return s
}

// quickCreate owns the create-task continuation: it delegates to an input
// dialog and creates the task from whatever comes back.
func quickCreate() *state[*string, struct{}] {
	s := &state[*string, struct{}]{}
	s.OnEnter = func(d *Session) eff {
		return automaton.Push(s, inputDialog("Title", "", false))
	}
	s.Resume = func(d *Session, title *string) eff {
		if title != nil && *title != "" {
			task, err := d.repo.Create(d.ctx, *title)
			if err != nil {
				d.fail(err)
			} else {
				d.reload()
				d.selectTask(task.ID)
			}
		}
		return automaton.Finish(s, struct{}{})
	}
	return s
}

// describe edits a task's description through an input dialog prefilled
// with the current text.
func describe(id string) *state[*string, struct{}] {
	s := &state[*string, struct{}]{}
	s.OnEnter = func(d *Session) eff {
		current := ""
		if task, err := d.repo.Get(d.ctx, id); err != nil {
			d.fail(err)
		} else if task != nil {
			current = task.Description
		}
		return automaton.Push(s, inputDialog("Description", current, false))
	}
	s.Resume = func(d *Session, text *string) eff {
		if text != nil {
			if err := d.repo.SetDescription(d.ctx, id, *text); err != nil {
				d.fail(err)
			}
			d.reload()
			d.refreshDetail()
		}
		return automaton.Finish(s, struct{}{})
	}
	return s
}

// addLink links another task, found via the search dialog, to id.
func addLink(id string) *state[*string, struct{}] {
	s := &state[*string, struct{}]{}
	s.OnEnter = func(d *Session) eff {
		return automaton.Push(s, searchDialog("Link a task"))
	}
	s.Resume = func(d *Session, otherID *string) eff {
		if otherID != nil && *otherID != id {
			if err := d.repo.Link(d.ctx, id, *otherID); err != nil {
				d.fail(err)
			}
			d.refreshDetail()
		}
		return automaton.Finish(s, struct{}{})
	}
	return s
}

// filterMenu picks a filter via the hotkey menu. Choosing a title filter
// replaces this state with the interactive one.
func filterMenu() *state[*string, struct{}] {
	s := &state[*string, struct{}]{}
	s.OnEnter = func(d *Session) eff {
		return automaton.Push(s, selectDialog("Filter", []Choice{
			{'t', "Title"},
			{'d', "Todo"},
			{'D', "Done"},
			{'c', "Clear"},
		}))
	}
	s.Resume = func(d *Session, choice *string) eff {
		if choice != nil {
			switch *choice {
			case "Title":
				return automaton.Replace(s, titleFilter())
			case "Todo":
				todo := repository.StatusTodo
				d.filter.Status = &todo
			case "Done":
				done := repository.StatusDone
				d.filter.Status = &done
			case "Clear":
				d.filter = repository.Filter{}
			}
			d.reload()
		}
		return automaton.Finish(s, struct{}{})
	}
	return s
}

// titleFilter narrows the list interactively: the input dialog yields on
// every keystroke and the list refreshes without closing the dialog.
func titleFilter() *state[*string, struct{}] {
	s := &state[*string, struct{}]{}
	s.OnEnter = func(d *Session) eff {
		return automaton.Push(s, inputDialog("Filter [Title]", d.filter.Title, true))
	}
	s.OnYield = func(d *Session, text *string) eff {
		if text != nil {
			d.filter.Title = *text
			d.reload()
		}
		return eff{}
	}
	s.Resume = func(d *Session, text *string) eff {
		return automaton.Finish(s, struct{}{})
	}
	return s
}

// pomodoroMenu starts or clears the countdown for a task.
func pomodoroMenu(id string) *state[*string, struct{}] {
	s := &state[*string, struct{}]{}
	s.OnEnter = func(d *Session) eff {
		return automaton.Push(s, selectDialog("Pomodoro", []Choice{
			{'p', "Start"},
			{'b', "Short break"},
			{'B', "Long break"},
			{'t', "Test"},
			{'c', "Clear"},
		}))
	}
	s.Resume = func(d *Session, choice *string) eff {
		if choice != nil {
			now := time.Now()
			switch *choice {
			case "Start":
				d.timer = &Timer{
					Title: "WORK",
					At:    now.Add(d.cfg.Pomodoro.Work),
					OnDone: func(d *Session) {
						if err := d.repo.IncrementPomodoros(d.ctx, id); err != nil {
							d.fail(err)
							return
						}
						d.reload()
						d.refreshDetail()
					},
				}
			case "Short break":
				d.timer = &Timer{Title: "BREAK", At: now.Add(d.cfg.Pomodoro.ShortBreak)}
			case "Long break":
				d.timer = &Timer{Title: "BREAK", At: now.Add(d.cfg.Pomodoro.LongBreak)}
			case "Test":
				d.timer = &Timer{Title: "TEST", At: now.Add(d.cfg.Pomodoro.Test)}
			case "Clear":
				d.timer = nil
			}
		}
		return automaton.Finish(s, struct{}{})
	}
	return s
}
