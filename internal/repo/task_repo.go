package repo

import (
	"context"
	"strconv"
	"strings"
	"time"

	dom "taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, user_id, title, description, priority, due_date, is_completed, category, created_at, updated_at`

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db pgQuerier
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.DueDate,
		&t.IsCompleted, &t.Category, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func collectTasks(rows pgx.Rows) ([]dom.Task, error) {
	defer rows.Close()
	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, priority, due_date, is_completed, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, string(t.Priority), t.DueDate, t.IsCompleted, t.Category,
		t.CreatedAt, t.UpdatedAt,
	))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	t, err := scanTask(r.db.QueryRow(ctx, query, id, userID))
	return t, pgNotFound(err)
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if f.Priority != nil {
		args = append(args, string(*f.Priority))
		conditions = append(conditions, "priority = $"+strconv.Itoa(len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		conditions = append(conditions, "is_completed = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *PGTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, priority = $5, due_date = $6,
			is_completed = $7, category = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, string(t.Priority), t.DueDate,
		t.IsCompleted, t.Category, t.UpdatedAt,
	))
	return out, pgNotFound(err)
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGTaskRepo) DueBetween(ctx context.Context, userID int64, from, to time.Time) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND is_completed = FALSE AND due_date IS NOT NULL
			AND due_date BETWEEN $2 AND $3
		ORDER BY due_date ASC, id ASC`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}
