package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jasktask/internal/automaton"
)

// inputDialog collects one line of text. It finishes with the entered text
// on enter and with nil on escape. In continuous mode every edit is also
// yielded to the parent, which is how the interactive title filter narrows
// the list while the dialog stays open.
func inputDialog(title, text string, continuous bool) *state[struct{}, *string] {
	s := &state[struct{}, *string]{}
	buf := text
	s.Act = func(d *Session, msg tea.KeyMsg) eff {
		edited := false
		switch msg.Type {
		case tea.KeyRunes:
			buf += string(msg.Runes)
			edited = true
		case tea.KeySpace:
			buf += " "
			edited = true
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(buf) > 0 {
				r := []rune(buf)
				buf = string(r[:len(r)-1])
			}
			edited = true
		}
		if edited {
			d.input.Text = buf
			if continuous {
				v := buf
				return automaton.Yield(s, &v)
			}
			return eff{}
		}
		switch msg.String() {
		case "enter":
			v := buf
			return automaton.Finish(s, &v)
		case "esc":
			return automaton.Finish(s, (*string)(nil))
		}
		return eff{}
	}
	s.OnEnter = func(d *Session) eff {
		d.input = &QuickInput{Title: title, Text: buf}
		return eff{}
	}
	s.OnExit = func(d *Session) {
		d.input = nil
	}
	return s
}

// selectDialog offers hotkey choices. It finishes with the chosen label, or
// nil on escape.
func selectDialog(title string, choices []Choice) *state[struct{}, *string] {
	s := &state[struct{}, *string]{}
	s.Act = func(d *Session, msg tea.KeyMsg) eff {
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			for _, c := range choices {
				if c.Key == msg.Runes[0] {
					v := c.Label
					return automaton.Finish(s, &v)
				}
			}
		}
		if msg.String() == "esc" {
			return automaton.Finish(s, (*string)(nil))
		}
		return eff{}
	}
	s.OnEnter = func(d *Session) eff {
		d.choices = &QuickSelect{Title: title, Choices: choices}
		return eff{}
	}
	s.OnExit = func(d *Session) {
		d.choices = nil
	}
	return s
}

// searchDialog finds a task by fuzzy title search. Every keystroke re-ranks
// the candidate list. It finishes with the selected task id, or nil when
// escaped or when nothing matched.
func searchDialog(title string) *state[struct{}, *string] {
	s := &state[struct{}, *string]{}
	query := ""
	rerank := func(d *Session) {
		tasks, err := d.repo.Search(d.ctx, query)
		if err != nil {
			d.fail(err)
			return
		}
		d.search.List.Tasks = tasks
		d.search.List.Cursor = 0
	}
	s.Act = func(d *Session, msg tea.KeyMsg) eff {
		edited := false
		switch msg.Type {
		case tea.KeyRunes:
			query += string(msg.Runes)
			edited = true
		case tea.KeySpace:
			query += " "
			edited = true
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(query) > 0 {
				r := []rune(query)
				query = string(r[:len(r)-1])
			}
			edited = true
		}
		if edited {
			d.input.Text = query
			rerank(d)
			return eff{}
		}
		switch msg.String() {
		case "up":
			d.search.List.MoveUp()
		case "down":
			d.search.List.MoveDown()
		case "enter":
			if t := d.search.List.Selected(); t != nil {
				id := t.ID
				return automaton.Finish(s, &id)
			}
			return automaton.Finish(s, (*string)(nil))
		case "esc":
			return automaton.Finish(s, (*string)(nil))
		}
		return eff{}
	}
	s.OnEnter = func(d *Session) eff {
		d.input = &QuickInput{Title: "Search"}
		d.search = &SearchView{List: TaskListView{Title: title}}
		rerank(d)
		return eff{}
	}
	s.OnExit = func(d *Session) {
		d.input = nil
		d.search = nil
	}
	return s
}
