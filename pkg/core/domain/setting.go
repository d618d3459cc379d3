package domain

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UserSetting holds per-user preferences. There is at most one row per user.
type UserSetting struct {
	UserID    int64     `json:"user_id"`
	Theme     Theme     `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}
