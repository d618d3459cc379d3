package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const bookmarkColumns = "b.id, b.user_id, b.category_id, b.url, b.description, b.favicon_url, b.pinned, b.sort_order, b.created_at, b.updated_at"

// Ownership of a bookmark follows its category.
const bookmarkOwned = "EXISTS (SELECT 1 FROM categories c WHERE c.id = b.category_id AND c.user_id = ?)"

func scanBookmark(row scanner) (*domain.Bookmark, error) {
	var b domain.Bookmark
	var description, favicon sql.NullString
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.URL, &description, &favicon, &b.Pinned, &b.Order, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	b.Description = stringPtr(description)
	b.FaviconURL = stringPtr(favicon)
	return &b, nil
}

func (s *Store) getBookmark(ctx context.Context, qr queryer, userID, id int64) (*domain.Bookmark, error) {
	row := qr.QueryRowContext(ctx, s.q(`SELECT `+bookmarkColumns+` FROM bookmarks b WHERE b.id = ? AND `+bookmarkOwned), id, userID)
	return scanBookmark(row)
}

// CreateBookmark appends a bookmark to a category owned by userID. The
// bookmark's user_id is copied from the category.
func (s *Store) CreateBookmark(ctx context.Context, userID int64, input domain.NewBookmark) (*domain.Bookmark, error) {
	var bookmark *domain.Bookmark
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		category, err := s.getCategory(ctx, tx, userID, input.CategoryID)
		if err != nil {
			return err
		}

		order, err := s.nextOrder(ctx, tx, "bookmarks", "category_id = ?", category.ID)
		if err != nil {
			return err
		}

		now := s.now()
		id, err := s.insertReturningID(ctx, tx,
			`INSERT INTO bookmarks (user_id, category_id, url, description, favicon_url, pinned, sort_order, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			category.UserID, category.ID, input.URL, nullString(input.Description), nullString(input.FaviconURL), false, order, now, now)
		if err != nil {
			return err
		}

		bookmark, err = s.getBookmark(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *Store) GetBookmark(ctx context.Context, userID, id int64) (*domain.Bookmark, error) {
	return s.getBookmark(ctx, s.db, userID, id)
}

// UpdateBookmark applies an already validated patch. Moving to another
// category places the bookmark after that category's last bookmark; pin
// changes never touch order or category.
func (s *Store) UpdateBookmark(ctx context.Context, userID, id int64, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	var bookmark *domain.Bookmark
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getBookmark(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		next := *current
		if patch.URL != nil {
			next.URL = *patch.URL
		}
		if patch.Description.Set {
			next.Description = patch.Description.Ptr()
		}
		if patch.FaviconURL.Set {
			next.FaviconURL = patch.FaviconURL.Ptr()
		}
		if patch.Pinned != nil {
			next.Pinned = *patch.Pinned
		}
		if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
			target, err := s.getCategory(ctx, tx, userID, *patch.CategoryID)
			if err != nil {
				return err
			}
			order, err := s.nextOrder(ctx, tx, "bookmarks", "category_id = ? AND id <> ?", target.ID, id)
			if err != nil {
				return err
			}
			next.CategoryID = target.ID
			next.Order = order
		}

		_, err = tx.ExecContext(ctx, s.q(`UPDATE bookmarks
			SET url = ?, description = ?, favicon_url = ?, pinned = ?, category_id = ?, sort_order = ?, updated_at = ?
			WHERE id = ?`),
			next.URL, nullString(next.Description), nullString(next.FaviconURL), next.Pinned, next.CategoryID, next.Order, s.now(), id)
		if err != nil {
			return err
		}

		bookmark, err = s.getBookmark(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM bookmarks WHERE id = ? AND EXISTS
		(SELECT 1 FROM categories c WHERE c.id = bookmarks.category_id AND c.user_id = ?)`), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ReorderBookmarks(ctx context.Context, userID int64, items []domain.OrderItem) error {
	return s.reorder(ctx, userID, items,
		`SELECT COUNT(*) FROM bookmarks b WHERE `+bookmarkOwned+` AND b.id IN (%s)`,
		`UPDATE bookmarks SET sort_order = ?, updated_at = ? WHERE id = ?`)
}
