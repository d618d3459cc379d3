package domain

import "time"

// User is the owner of every section, category, bookmark and setting.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	DefaultsSeeded bool      `json:"defaults_seeded"`
	CreatedAt      time.Time `json:"created_at"`
}
