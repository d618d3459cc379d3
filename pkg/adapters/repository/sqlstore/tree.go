package sqlstore

import (
	"context"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

// LoadTree reads the user's sections, categories and bookmarks, each level
// sorted by order then id, and nests them. Theme and the pinned view are
// left to the caller.
func (s *Store) LoadTree(ctx context.Context, userID int64) (*domain.Tree, error) {
	sections, err := s.listSections(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.listCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.listBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	categoryIdx := make(map[int64]int, len(categories))
	for i, c := range categories {
		categoryIdx[c.ID] = i
	}
	for _, b := range bookmarks {
		if i, ok := categoryIdx[b.CategoryID]; ok {
			categories[i].Bookmarks = append(categories[i].Bookmarks, b)
		}
	}

	sectionIdx := make(map[int64]int, len(sections))
	for i, sec := range sections {
		sectionIdx[sec.ID] = i
	}

	tree := &domain.Tree{Sections: sections}
	for _, c := range categories {
		if c.SectionID != nil {
			if i, ok := sectionIdx[*c.SectionID]; ok {
				tree.Sections[i].Categories = append(tree.Sections[i].Categories, c)
				continue
			}
		}
		tree.CategoriesWithoutSection = append(tree.CategoriesWithoutSection, c)
	}

	tree.Normalize()
	return tree, nil
}

func (s *Store) listSections(ctx context.Context, userID int64) ([]domain.Section, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+sectionColumns+` FROM sections WHERE user_id = ? ORDER BY sort_order ASC, id ASC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *sec)
	}
	return sections, rows.Err()
}

func (s *Store) listCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	return s.queryCategories(ctx, s.db, "user_id = ?", userID)
}

func (s *Store) listBookmarks(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	return s.queryBookmarks(ctx, s.db, "c.user_id = ?", userID)
}

func (s *Store) queryCategories(ctx context.Context, qr queryer, where string, args ...any) ([]domain.Category, error) {
	rows, err := qr.QueryContext(ctx, s.q(`SELECT `+categoryColumns+` FROM categories WHERE `+where+` ORDER BY sort_order ASC, id ASC`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) queryBookmarks(ctx context.Context, qr queryer, where string, args ...any) ([]domain.Bookmark, error) {
	rows, err := qr.QueryContext(ctx, s.q(`SELECT `+bookmarkColumns+` FROM bookmarks b
		JOIN categories c ON c.id = b.category_id
		WHERE `+where+`
		ORDER BY b.sort_order ASC, b.id ASC`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks, rows.Err()
}

// withBookmarks fills category.Bookmarks in display order.
func (s *Store) withBookmarks(ctx context.Context, qr queryer, category *domain.Category) error {
	bookmarks, err := s.queryBookmarks(ctx, qr, "b.category_id = ? AND c.user_id = ?", category.ID, category.UserID)
	if err != nil {
		return err
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	category.Bookmarks = bookmarks
	return nil
}

// withCategories fills section.Categories, each with its bookmarks.
func (s *Store) withCategories(ctx context.Context, qr queryer, section *domain.Section) error {
	categories, err := s.queryCategories(ctx, qr, "section_id = ? AND user_id = ?", section.ID, section.UserID)
	if err != nil {
		return err
	}
	for i := range categories {
		if err := s.withBookmarks(ctx, qr, &categories[i]); err != nil {
			return err
		}
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	section.Categories = categories
	return nil
}
