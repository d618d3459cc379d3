package domain

import "time"

// Category is a named, ordered collection of bookmarks. SectionID is nil
// when the category sits outside every section.
type Category struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	SectionID *int64     `json:"section_id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// DefaultCategoryNames are seeded, in this order, for a user that has never
// owned a section or a category.
var DefaultCategoryNames = []string{
	"Web Management",
	"Productivity",
	"Web Design Memberships",
	"Google Properties",
	"Financial / Business",
	"Education & Learning",
}
