package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jasktask/internal/automaton"
	"github.com/jask/jasktask/internal/config"
	"github.com/jask/jasktask/internal/database/repository"
)

// App adapts the pushdown machine to bubbletea: key messages become machine
// steps, ticks drive the pomodoro countdown, and View renders the Session
// the states have been mutating.
type App struct {
	session Session
	machine *automaton.Machine[tea.KeyMsg, Session]
	now     func() time.Time
}

func New(ctx context.Context, cfg config.Config, repo *repository.TaskRepo, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	a := &App{
		session: Session{ctx: ctx, cfg: cfg, repo: repo, tz: tz, pane: paneMain},
		machine: automaton.New(normal()),
		now:     time.Now,
	}
	a.session.reload()
	return a
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Init() tea.Cmd {
	return tick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.session.width, a.session.height = m.Width, m.Height
	case tickMsg:
		a.session.tickTimer(time.Time(m))
		return a, tick()
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.machine.Step(&a.session, m)
	}
	return a, nil
}

func (a *App) View() string {
	s := &a.session
	var b strings.Builder

	if s.pane == paneDetail && s.detail != nil {
		b.WriteString(renderDetail(s.detail, s.cfg.UI.DateFormat, s.tz))
	} else {
		b.WriteString(renderTaskList(&s.list, s.listRows()))
		if t := s.list.Selected(); t != nil && t.Description != "" {
			b.WriteString(dimStyle.Render(t.Description) + "\n")
		}
	}

	if s.search != nil {
		b.WriteString("\n" + renderTaskList(&s.search.List, 0))
	}
	if s.choices != nil {
		b.WriteString("\n" + renderSelect(s.choices))
	}
	if s.input != nil {
		b.WriteString("\n" + renderInput(s.input))
	}
	if s.timer != nil {
		b.WriteString("\n" + renderTimer(s.timer, a.now()))
	}
	if s.status != "" {
		b.WriteString("\n" + statusStyle.Render(s.status))
	}
	b.WriteString("\n" + helpStyle.Render(a.helpLine()))
	out := b.String()
	if s.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(s.width).Render(out)
	}
	return out
}

func (a *App) helpLine() string {
	s := &a.session
	switch {
	case s.input != nil && s.search != nil:
		return "[enter] Select  [esc] Cancel"
	case s.input != nil:
		return "[enter] Save  [esc] Cancel"
	case s.choices != nil:
		return "[esc] Cancel"
	case s.pane == paneDetail:
		return "[l] Link  [e] Describe  [n] New  [space] Toggle  [esc] Back  [ctrl+c] Quit"
	default:
		return "[n] New  [f] Filter  [e] Describe  [p] Pomodoro  [space] Toggle  [enter] Open  [ctrl+c] Quit"
	}
}
