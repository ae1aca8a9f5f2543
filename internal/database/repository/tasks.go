package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/jasktask/internal/database"
)

// TaskRepo handles tasks and the links between them.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

// Create inserts a new task with the given title and returns it.
func (r *TaskRepo) Create(ctx context.Context, title string) (Task, error) {
	now := database.Now()
	t := Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tasks(id, title, description, status, pomodoros, created_at, updated_at)
	VALUES (?, ?, '', ?, 0, ?, ?);
	`, t.ID, t.Title, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

// Get returns one task, or nil when no such row exists.
func (r *TaskRepo) Get(ctx context.Context, id string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, title, description, status, pomodoros, created_at, updated_at
	FROM tasks WHERE id = ?`, id)
	var t Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Pomodoros, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// SetDescription replaces a task's description.
func (r *TaskRepo) SetDescription(ctx context.Context, id, description string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE tasks SET description = ?, updated_at = ? WHERE id = ?`,
		description, database.Now(), id)
	return err
}

// ToggleStatus flips a task between todo and done.
func (r *TaskRepo) ToggleStatus(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE tasks
	SET status = CASE status WHEN 'todo' THEN 'done' ELSE 'todo' END,
	    updated_at = ?
	WHERE id = ?`, database.Now(), id)
	return err
}

// IncrementPomodoros records one completed work interval.
func (r *TaskRepo) IncrementPomodoros(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE tasks SET pomodoros = pomodoros + 1, updated_at = ? WHERE id = ?`,
		database.Now(), id)
	return err
}

// Link records a bidirectional link between two tasks. Linking a pair twice
// is a no-op.
func (r *TaskRepo) Link(ctx context.Context, id, otherID string) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, pair := range [][2]string{{id, otherID}, {otherID, id}} {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_links(task_id, linked_id) VALUES (?, ?)
			ON CONFLICT(task_id, linked_id) DO NOTHING;
			`, pair[0], pair[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Links returns the tasks linked to id, ordered by title.
func (r *TaskRepo) Links(ctx context.Context, id string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT t.id, t.title, t.description, t.status, t.pomodoros, t.created_at, t.updated_at
	FROM task_links l JOIN tasks t ON t.id = l.linked_id
	WHERE l.task_id = ?
	ORDER BY t.title`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// List returns tasks matching the filter, oldest first.
func (r *TaskRepo) List(ctx context.Context, f Filter) ([]Task, error) {
	q := `
	SELECT id, title, description, status, pomodoros, created_at, updated_at
	FROM tasks WHERE 1=1`
	var args []any
	if f.Title != "" {
		q += ` AND title LIKE ?`
		args = append(args, "%"+f.Title+"%")
	}
	if f.Status != nil {
		q += ` AND status = ?`
		args = append(args, *f.Status)
	}
	q += ` ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// Search returns all tasks ranked by how close their title is to query,
// closest first. An empty query degrades to List ordering.
func (r *TaskRepo) Search(ctx context.Context, query string) ([]Task, error) {
	tasks, err := r.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return tasks, nil
	}
	q := strings.ToLower(query)
	rank := func(t Task) int {
		title := strings.ToLower(t.Title)
		if strings.Contains(title, q) {
			return strings.Index(title, q)
		}
		return len(title) + levenshtein.ComputeDistance(q, title)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return rank(tasks[i]) < rank(tasks[j]) })
	return tasks, nil
}

func scanTasks(rows *sql.Rows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Pomodoros, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
