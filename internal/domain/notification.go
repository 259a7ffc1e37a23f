package domain

import "time"

// Notification is a due-date reminder for one task. At most one unread
// notification exists per (user, task).
type Notification struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	TaskID    int64     `db:"task_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`

	// TaskTitle is filled from the referenced task when listing.
	TaskTitle *string `db:"task_title"`
}
