package tui

import (
	"context"
	"time"

	"github.com/jask/jasktask/internal/config"
	"github.com/jask/jasktask/internal/database/repository"
)

type pane string

const (
	paneMain   pane = "main"
	paneDetail pane = "detail"
)

// Session is the shared context every state hook mutates. The machine
// threads it through hooks without ever inspecting it; everything the
// renderer needs lives here.
type Session struct {
	ctx  context.Context
	cfg  config.Config
	repo *repository.TaskRepo
	tz   *time.Location

	pane   pane
	list   TaskListView
	detail *TaskDetail
	filter repository.Filter

	input   *QuickInput
	choices *QuickSelect
	search  *SearchView
	timer   *Timer

	status string
	width  int
	height int
}

// TaskListView is a scrollable list of task rows.
type TaskListView struct {
	Title  string
	Tasks  []repository.Task
	Cursor int
}

// Selected returns the task under the cursor, or nil on an empty list.
func (l *TaskListView) Selected() *repository.Task {
	if l.Cursor < 0 || l.Cursor >= len(l.Tasks) {
		return nil
	}
	return &l.Tasks[l.Cursor]
}

func (l *TaskListView) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

func (l *TaskListView) MoveDown() {
	if l.Cursor+1 < len(l.Tasks) {
		l.Cursor++
	}
}

func (l *TaskListView) clamp() {
	if l.Cursor >= len(l.Tasks) {
		l.Cursor = len(l.Tasks) - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

// TaskDetail is the one-task pane: the task itself plus its linked tasks.
type TaskDetail struct {
	Task  repository.Task
	Links TaskListView
}

// QuickInput is the single-line input overlay at the bottom of the screen.
type QuickInput struct {
	Title string
	Text  string
}

// Choice is one hotkey option in a QuickSelect.
type Choice struct {
	Key   rune
	Label string
}

// QuickSelect is the hotkey menu overlay.
type QuickSelect struct {
	Title   string
	Choices []Choice
}

// SearchView is the incremental task search overlay.
type SearchView struct {
	List TaskListView
}

// Timer is a running pomodoro countdown. OnDone fires once when the
// deadline passes.
type Timer struct {
	Title     string
	At        time.Time
	Triggered bool
	OnDone    func(*Session)
}

// Remaining reports time left on the countdown, floored at zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	d := t.At.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// listRows reports how many task rows fit in the main pane once the title,
// status, help, and overlay lines are accounted for. 0 means unbounded (no
// window size received yet).
func (s *Session) listRows() int {
	if s.height <= 0 {
		return 0
	}
	rows := s.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

// fail surfaces a repository error on the status line. States treat stored
// data failures as recoverable; only machine contract violations are fatal.
func (s *Session) fail(err error) {
	s.status = "error: " + err.Error()
}

// reload refreshes the main list from the store under the current filter,
// keeping the cursor in range.
func (s *Session) reload() {
	tasks, err := s.repo.List(s.ctx, s.filter)
	if err != nil {
		s.fail(err)
		return
	}
	s.list.Tasks = tasks
	s.list.clamp()
}

// selectTask moves the main list cursor onto the task with the given id.
func (s *Session) selectTask(id string) {
	for i := range s.list.Tasks {
		if s.list.Tasks[i].ID == id {
			s.list.Cursor = i
			return
		}
	}
}

// openDetail loads the one-task pane for id.
func (s *Session) openDetail(id string) {
	task, err := s.repo.Get(s.ctx, id)
	if err != nil {
		s.fail(err)
		return
	}
	if task == nil {
		s.status = "task no longer exists"
		return
	}
	links, err := s.repo.Links(s.ctx, id)
	if err != nil {
		s.fail(err)
		return
	}
	s.pane = paneDetail
	s.detail = &TaskDetail{
		Task:  *task,
		Links: TaskListView{Title: "Linked tasks", Tasks: links},
	}
}

// refreshDetail re-reads the open detail pane from the store.
func (s *Session) refreshDetail() {
	if s.detail != nil {
		s.openDetail(s.detail.Task.ID)
	}
}

func (s *Session) toggleStatus(id string) {
	if err := s.repo.ToggleStatus(s.ctx, id); err != nil {
		s.fail(err)
		return
	}
	s.reload()
	s.refreshDetail()
}

// tickTimer fires the countdown callback once its deadline passes.
func (s *Session) tickTimer(now time.Time) {
	if s.timer == nil || s.timer.Triggered || now.Before(s.timer.At) {
		return
	}
	s.timer.Triggered = true
	// the callback may fail; its error must stay visible over this message
	s.status = s.timer.Title + " timer finished"
	if s.timer.OnDone != nil {
		s.timer.OnDone(s)
	}
}
