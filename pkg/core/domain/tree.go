package domain

// Tree is the full organizer view of one user.
type Tree struct {
	Sections                 []Section  `json:"sections"`
	CategoriesWithoutSection []Category `json:"categories_without_section"`
	Pinned                   []Bookmark `json:"pinned"`
	Theme                    Theme      `json:"theme"`
}

// OrderItem is one entry of a flat reorder batch.
type OrderItem struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

// PinnedBookmarks walks the tree in display order (sections, then
// categories without a section) and collects pinned bookmarks.
func (t *Tree) PinnedBookmarks() []Bookmark {
	pinned := []Bookmark{}
	collect := func(cats []Category) {
		for _, c := range cats {
			for _, b := range c.Bookmarks {
				if b.Pinned {
					pinned = append(pinned, b)
				}
			}
		}
	}
	for _, s := range t.Sections {
		collect(s.Categories)
	}
	collect(t.CategoriesWithoutSection)
	return pinned
}

// Normalize replaces nil slices with empty ones so the JSON shape is stable.
func (t *Tree) Normalize() {
	if t.Sections == nil {
		t.Sections = []Section{}
	}
	if t.CategoriesWithoutSection == nil {
		t.CategoriesWithoutSection = []Category{}
	}
	for i := range t.Sections {
		if t.Sections[i].Categories == nil {
			t.Sections[i].Categories = []Category{}
		}
		normalizeCategories(t.Sections[i].Categories)
	}
	normalizeCategories(t.CategoriesWithoutSection)
	if t.Pinned == nil {
		t.Pinned = []Bookmark{}
	}
}

func normalizeCategories(cats []Category) {
	for i := range cats {
		if cats[i].Bookmarks == nil {
			cats[i].Bookmarks = []Bookmark{}
		}
	}
}
