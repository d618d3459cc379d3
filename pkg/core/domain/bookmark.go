package domain

import "time"

// Bookmark is a saved URL positioned inside exactly one category.
// UserID mirrors the owning category's user at creation time.
type Bookmark struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CategoryID  int64     `json:"category_id"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	FaviconURL  *string   `json:"favicon_url"`
	Pinned      bool      `json:"pinned"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBookmark carries already validated fields for an insert.
type NewBookmark struct {
	CategoryID  int64
	URL         string
	Description *string
	FaviconURL  *string
}

// BookmarkPatch is a partial update. Nil pointers and unset Nullables are
// left untouched.
type BookmarkPatch struct {
	URL         *string          `json:"url"`
	Description Nullable[string] `json:"description"`
	FaviconURL  Nullable[string] `json:"favicon_url"`
	Pinned      *bool            `json:"pinned"`
	CategoryID  *int64           `json:"category_id"`
}

// Empty reports whether the patch changes nothing.
func (p BookmarkPatch) Empty() bool {
	return p.URL == nil && !p.Description.Set && !p.FaviconURL.Set && p.Pinned == nil && p.CategoryID == nil
}
