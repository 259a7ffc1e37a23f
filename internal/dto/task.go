package dto

import (
	"time"

	dom "taskmanager/internal/domain"
)

// TaskRequest is the JSON body for POST /tasks and PUT /tasks/{id}.
// Keys left out of the body are not touched; "description" and "due_date"
// may be null to clear them. due_date is ISO-8601 ("2026-02-19" or
// "2026-02-19T15:00:00Z").
type TaskRequest struct {
	Title       dom.Optional[string] `json:"title" swaggertype:"string"`
	Description dom.Optional[string] `json:"description" swaggertype:"string"`
	Priority    dom.Optional[string] `json:"priority" swaggertype:"string" enums:"high,medium,low"`
	DueDate     dom.Optional[string] `json:"due_date" swaggertype:"string"`
	Category    dom.Optional[string] `json:"category" swaggertype:"string"`
	IsCompleted dom.Optional[bool]   `json:"is_completed" swaggertype:"boolean"`
}

type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	IsCompleted bool       `json:"is_completed"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
