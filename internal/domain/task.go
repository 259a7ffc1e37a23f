package domain

import "time"

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

const DefaultCategory = "personal"

// Task is owned by exactly one user and is only ever read or written
// through queries scoped to that user.
type Task struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Priority    Priority   `db:"priority"`
	DueDate     *time.Time `db:"due_date"`
	IsCompleted bool       `db:"is_completed"`
	Category    string     `db:"category"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TaskFilter narrows an owner's task list. Nil fields are ignored.
type TaskFilter struct {
	Priority  *Priority
	Category  *string
	Completed *bool
}

// IsZero reports whether no filter field is set.
func (f TaskFilter) IsZero() bool {
	return f.Priority == nil && f.Category == nil && f.Completed == nil
}
