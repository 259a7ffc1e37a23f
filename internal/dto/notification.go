package dto

import "time"

type NotificationResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	TaskTitle *string   `json:"task_title"`
}

// CountResponse reports how many notifications an operation touched.
type CountResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
