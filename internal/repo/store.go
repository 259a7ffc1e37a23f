package repo

import (
	"context"
	"errors"
	"time"

	dom "taskmanager/internal/domain"
)

// ErrNotFound is returned when no row matches, including rows that exist
// but belong to another user.
var ErrNotFound = errors.New("record not found")

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
}

// TaskRepo provides task persistence. Every method is scoped to a user.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error)
	// Update writes every mutable column of t, matched on t.UserID and t.ID.
	Update(ctx context.Context, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	// DueBetween returns incomplete tasks with from <= due_date <= to.
	DueBetween(ctx context.Context, userID int64, from, to time.Time) ([]dom.Task, error)
}

// NotificationRepo provides notification persistence. Every method is
// scoped to a user.
type NotificationRepo interface {
	List(ctx context.Context, userID int64) ([]dom.Notification, error)
	HasUnread(ctx context.Context, userID, taskID int64) (bool, error)
	// Create inserts n unless an unread notification for the same task
	// already exists, in which case it reports false and no error.
	Create(ctx context.Context, n dom.Notification) (dom.Notification, bool, error)
	MarkRead(ctx context.Context, userID, id int64) (dom.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Store groups the repositories over one database handle. Repositories
// obtained from the Store passed to WithTx's callback run inside that
// transaction.
type Store interface {
	Users() UserRepo
	Tasks() TaskRepo
	Notifications() NotificationRepo
	// WithTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise. Nested calls reuse the outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}
