package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	todoStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	timerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func statusLabel(s string) string {
	if s == "done" {
		return doneStyle.Render("DONE")
	}
	return todoStyle.Render("TODO")
}

// renderTaskList renders at most maxRows rows, scrolled to keep the cursor
// visible. maxRows <= 0 renders every row.
func renderTaskList(l *TaskListView, maxRows int) string {
	title := l.Title
	if title == "" {
		title = "Tasks"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	if len(l.Tasks) == 0 {
		b.WriteString(dimStyle.Render("  (no tasks)") + "\n")
		return b.String()
	}
	start, end := 0, len(l.Tasks)
	if maxRows > 0 && len(l.Tasks) > maxRows {
		start = l.Cursor - maxRows/2
		if start+maxRows > len(l.Tasks) {
			start = len(l.Tasks) - maxRows
		}
		if start < 0 {
			start = 0
		}
		end = start + maxRows
	}
	for i := start; i < end; i++ {
		t := l.Tasks[i]
		marker := "  "
		if i == l.Cursor {
			marker = cursorStyle.Render("▶") + " "
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, statusLabel(string(t.Status)), t.Title))
	}
	return b.String()
}

func renderDetail(d *TaskDetail, dateFormat string, tz *time.Location) string {
	if dateFormat == "" {
		dateFormat = "02/01"
	}
	if tz == nil {
		tz = time.UTC
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Task.Title) + "\n")
	b.WriteString("Status: " + statusLabel(string(d.Task.Status)) + "\n")
	b.WriteString(dimStyle.Render("Created: "+d.Task.CreatedAt.In(tz).Format(dateFormat)) + "\n")
	if d.Task.Pomodoros > 0 {
		b.WriteString(fmt.Sprintf("Pomodoros: %d\n", d.Task.Pomodoros))
	}
	if d.Task.Description != "" {
		b.WriteString(d.Task.Description + "\n")
	}
	b.WriteString("\n" + renderTaskList(&d.Links, 0))
	return b.String()
}

func renderInput(in *QuickInput) string {
	return fmt.Sprintf("%s: %s▌", in.Title, in.Text)
}

func renderSelect(q *QuickSelect) string {
	parts := make([]string, 0, len(q.Choices)+1)
	parts = append(parts, q.Title+":")
	for _, c := range q.Choices {
		parts = append(parts, fmt.Sprintf("[%c] %s", c.Key, c.Label))
	}
	return strings.Join(parts, " ")
}

func renderTimer(t *Timer, now time.Time) string {
	rem := t.Remaining(now)
	return timerStyle.Render(fmt.Sprintf("%s %02d:%02d", t.Title, int(rem.Minutes()), int(rem.Seconds())%60))
}
