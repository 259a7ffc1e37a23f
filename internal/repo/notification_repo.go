package repo

import (
	"context"
	"errors"

	dom "taskmanager/internal/domain"

	"github.com/jackc/pgx/v5"
)

const notificationColumns = `n.id, n.user_id, n.task_id, n.title, n.message, n.is_read, n.created_at, t.title`

// PGNotificationRepo implements NotificationRepo with Postgres.
type PGNotificationRepo struct {
	db pgQuerier
}

func scanNotification(row pgx.Row) (dom.Notification, error) {
	var n dom.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt, &n.TaskTitle)
	return n, err
}

func (r *PGNotificationRepo) List(ctx context.Context, userID int64) ([]dom.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n LEFT JOIN tasks t ON t.id = n.task_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *PGNotificationRepo) HasUnread(ctx context.Context, userID, taskID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE user_id = $1 AND task_id = $2 AND is_read = FALSE)`,
		userID, taskID,
	).Scan(&ok)
	return ok, err
}

func (r *PGNotificationRepo) Create(ctx context.Context, n dom.Notification) (dom.Notification, bool, error) {
	query := `
		INSERT INTO notifications (user_id, task_id, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		ON CONFLICT DO NOTHING
		RETURNING id`
	out := n
	err := r.db.QueryRow(ctx, query, n.UserID, n.TaskID, n.Title, n.Message, n.CreatedAt).Scan(&out.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Notification{}, false, nil
	}
	if err != nil {
		return dom.Notification{}, false, err
	}
	out.IsRead = false
	return out, true, nil
}

func (r *PGNotificationRepo) MarkRead(ctx context.Context, userID, id int64) (dom.Notification, error) {
	query := `
		WITH n AS (
			UPDATE notifications SET is_read = TRUE
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + notificationColumns + ` FROM n LEFT JOIN tasks t ON t.id = n.task_id`
	n, err := scanNotification(r.db.QueryRow(ctx, query, id, userID))
	return n, pgNotFound(err)
}

func (r *PGNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGNotificationRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
