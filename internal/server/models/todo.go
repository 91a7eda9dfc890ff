package models

import "time"

// Todo is a single todo item owned by one user. ImageID points at an
// optional attachment.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Completed   bool
	ImageID     *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
