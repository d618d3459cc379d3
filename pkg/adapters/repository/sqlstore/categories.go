package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const categoryColumns = "id, user_id, section_id, name, sort_order, created_at, updated_at"

func scanCategory(row scanner) (*domain.Category, error) {
	var c domain.Category
	var sectionID sql.NullInt64
	if err := row.Scan(&c.ID, &c.UserID, &sectionID, &c.Name, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.SectionID = int64Ptr(sectionID)
	return &c, nil
}

func (s *Store) getCategory(ctx context.Context, qr queryer, userID, id int64) (*domain.Category, error) {
	row := qr.QueryRowContext(ctx, s.q(`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`), id, userID)
	return scanCategory(row)
}

// nextCategoryOrder is max+1 within the section scope (or the no-section
// scope when sectionID is nil), ignoring excludeID.
func (s *Store) nextCategoryOrder(ctx context.Context, qr queryer, userID int64, sectionID *int64, excludeID int64) (int, error) {
	if sectionID == nil {
		return s.nextOrder(ctx, qr, "categories", "user_id = ? AND section_id IS NULL AND id <> ?", userID, excludeID)
	}
	return s.nextOrder(ctx, qr, "categories", "user_id = ? AND section_id = ? AND id <> ?", userID, *sectionID, excludeID)
}

// CreateCategory appends the category at the end of its scope. A SectionID
// that the user does not own yields domain.ErrNotFound.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if category.SectionID != nil {
			if _, err := s.getSection(ctx, tx, category.UserID, *category.SectionID); err != nil {
				return err
			}
		}

		order, err := s.nextCategoryOrder(ctx, tx, category.UserID, category.SectionID, 0)
		if err != nil {
			return err
		}

		now := s.now()
		id, err := s.insertReturningID(ctx, tx,
			`INSERT INTO categories (user_id, section_id, name, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			category.UserID, nullInt64(category.SectionID), category.Name, order, now, now)
		if err != nil {
			return err
		}

		category.ID = id
		category.Order = order
		category.CreatedAt = now
		category.UpdatedAt = now
		return nil
	})
}

func (s *Store) GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	return s.getCategory(ctx, s.db, userID, id)
}

// RenameCategory returns the category with its bookmarks.
func (s *Store) RenameCategory(ctx context.Context, userID, id int64, name string) (*domain.Category, error) {
	var category *domain.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getCategory(ctx, tx, userID, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`UPDATE categories SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`),
			name, s.now(), id, userID)
		if err != nil {
			return err
		}
		category, err = s.getCategory(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		return s.withBookmarks(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses with domain.ErrCategoryNotEmpty while the category
// still holds bookmarks.
func (s *Store) DeleteCategory(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getCategory(ctx, tx, userID, id); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM bookmarks WHERE category_id = ?`), id).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrCategoryNotEmpty
		}

		_, err := tx.ExecContext(ctx, s.q(`DELETE FROM categories WHERE id = ? AND user_id = ?`), id, userID)
		return err
	})
}

func (s *Store) ReorderCategories(ctx context.Context, userID int64, items []domain.OrderItem) error {
	return s.reorder(ctx, userID, items,
		`SELECT COUNT(*) FROM categories WHERE user_id = ? AND id IN (%s)`,
		`UPDATE categories SET sort_order = ?, updated_at = ? WHERE id = ?`)
}

// MoveCategory reparents a category (sectionID nil means "no section") and
// places it after the last category of the destination. The old scope keeps
// its gap. The category is returned with its bookmarks.
func (s *Store) MoveCategory(ctx context.Context, userID, id int64, sectionID *int64) (*domain.Category, error) {
	var category *domain.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getCategory(ctx, tx, userID, id); err != nil {
			return err
		}
		if sectionID != nil {
			if _, err := s.getSection(ctx, tx, userID, *sectionID); err != nil {
				return err
			}
		}

		order, err := s.nextCategoryOrder(ctx, tx, userID, sectionID, id)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, s.q(`UPDATE categories SET section_id = ?, sort_order = ?, updated_at = ? WHERE id = ? AND user_id = ?`),
			nullInt64(sectionID), order, s.now(), id, userID)
		if err != nil {
			return err
		}
		category, err = s.getCategory(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		return s.withBookmarks(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}
