package models

import "time"

// Task is a to-do item owned by exactly one user. The owner is fixed at
// creation and never transfers. Description is nil when absent.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
