package domain

import "time"

// Section is a top-level, optional grouping of categories.
type Section struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Name       string     `json:"name"`
	Order      int        `json:"order"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Categories []Category `json:"categories"`
}
