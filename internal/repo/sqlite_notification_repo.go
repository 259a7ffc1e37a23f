package repo

import (
	"context"
	"database/sql"
	"errors"

	dom "taskmanager/internal/domain"

	"github.com/jmoiron/sqlx"
)

const sqliteNotificationSelect = `
	SELECT n.id, n.user_id, n.task_id, n.title, n.message, n.is_read, n.created_at, t.title AS task_title
	FROM notifications n LEFT JOIN tasks t ON t.id = n.task_id`

type sqliteNotificationRepo struct {
	db sqlx.ExtContext
}

func (r *sqliteNotificationRepo) get(ctx context.Context, userID, id int64) (dom.Notification, error) {
	var n dom.Notification
	err := sqlx.GetContext(ctx, r.db, &n, sqliteNotificationSelect+` WHERE n.id = ? AND n.user_id = ?`, id, userID)
	return n, sqlNotFound(err)
}

func (r *sqliteNotificationRepo) List(ctx context.Context, userID int64) ([]dom.Notification, error) {
	list := []dom.Notification{}
	err := sqlx.SelectContext(ctx, r.db, &list,
		sqliteNotificationSelect+` WHERE n.user_id = ? ORDER BY n.created_at DESC, n.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *sqliteNotificationRepo) HasUnread(ctx context.Context, userID, taskID int64) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE user_id = ? AND task_id = ? AND is_read = 0)`,
		userID, taskID)
	return ok, err
}

func (r *sqliteNotificationRepo) Create(ctx context.Context, n dom.Notification) (dom.Notification, bool, error) {
	out := n
	err := sqlx.GetContext(ctx, r.db, &out.ID, `
		INSERT INTO notifications (user_id, task_id, title, message, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT DO NOTHING
		RETURNING id`,
		n.UserID, n.TaskID, n.Title, n.Message, n.CreatedAt.UTC(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return dom.Notification{}, false, nil
	}
	if err != nil {
		return dom.Notification{}, false, err
	}
	out.IsRead = false
	return out, true, nil
}

func (r *sqliteNotificationRepo) MarkRead(ctx context.Context, userID, id int64) (dom.Notification, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return dom.Notification{}, err
	}
	if err := rowsAffected(res); err != nil {
		return dom.Notification{}, err
	}
	return r.get(ctx, userID, id)
}

func (r *sqliteNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sqliteNotificationRepo) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}
