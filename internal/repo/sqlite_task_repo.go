package repo

import (
	"context"
	"strings"
	"time"

	dom "taskmanager/internal/domain"

	"github.com/jmoiron/sqlx"
)

type sqliteTaskRepo struct {
	db sqlx.ExtContext
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (r *sqliteTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	var id int64
	err := sqlx.GetContext(ctx, r.db, &id, `
		INSERT INTO tasks (user_id, title, description, priority, due_date, is_completed, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		t.UserID, t.Title, t.Description, string(t.Priority), utcPtr(t.DueDate), t.IsCompleted, t.Category,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return dom.Task{}, err
	}
	// Re-read so DATETIME columns come back typed.
	return r.GetByID(ctx, t.UserID, id)
}

func (r *sqliteTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	var t dom.Task
	err := sqlx.GetContext(ctx, r.db, &t,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	return t, sqlNotFound(err)
}

func (r *sqliteTaskRepo) List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}
	if f.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(*f.Priority))
	}
	if f.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *f.Category)
	}
	if f.Completed != nil {
		conditions = append(conditions, "is_completed = ?")
		args = append(args, *f.Completed)
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	list := []dom.Task{}
	if err := sqlx.SelectContext(ctx, r.db, &list, query, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *sqliteTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, priority = ?, due_date = ?,
			is_completed = ?, category = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, string(t.Priority), utcPtr(t.DueDate),
		t.IsCompleted, t.Category, t.UpdatedAt.UTC(),
		t.ID, t.UserID,
	)
	if err != nil {
		return dom.Task{}, err
	}
	if err := rowsAffected(res); err != nil {
		return dom.Task{}, err
	}
	return r.GetByID(ctx, t.UserID, t.ID)
}

func (r *sqliteTaskRepo) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *sqliteTaskRepo) DueBetween(ctx context.Context, userID int64, from, to time.Time) ([]dom.Task, error) {
	list := []dom.Task{}
	err := sqlx.SelectContext(ctx, r.db, &list, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND is_completed = 0 AND due_date IS NOT NULL
			AND due_date BETWEEN ? AND ?
		ORDER BY due_date ASC, id ASC`,
		userID, from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	return list, nil
}
