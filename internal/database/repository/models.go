package repository

import "time"

// Status enumerates task states.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Task represents a task row.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Pomodoros   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows task listings. Title matches as a case-insensitive
// substring; a nil Status matches any.
type Filter struct {
	Title  string
	Status *Status
}
