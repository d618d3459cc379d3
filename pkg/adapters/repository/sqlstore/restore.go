package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const upsertSettingSQL = `INSERT INTO user_settings (user_id, theme, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at`

// RestoreTree appends tree to the user's organizer in one transaction, so a
// failure leaves nothing behind. Fields must already be validated; ids,
// orders, owners and timestamps in tree are ignored. Top-level sections and
// section-less categories go after the user's existing ones and children
// keep their relative order. A tree that brings any section or category
// also claims the seeding marker, since it carries its own categories. A
// non-empty Theme replaces the saved one.
func (s *Store) RestoreTree(ctx context.Context, userID int64, tree *domain.Tree) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()

		if len(tree.Sections) > 0 || len(tree.CategoriesWithoutSection) > 0 {
			_, err := tx.ExecContext(ctx,
				s.q(`UPDATE users SET defaults_seeded_at = ? WHERE id = ? AND defaults_seeded_at IS NULL`),
				now, userID)
			if err != nil {
				return err
			}
		}

		sectionOrder, err := s.nextOrder(ctx, tx, "sections", "user_id = ?", userID)
		if err != nil {
			return err
		}
		for i, sec := range tree.Sections {
			sectionID, err := s.insertReturningID(ctx, tx,
				`INSERT INTO sections (user_id, name, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
				userID, sec.Name, sectionOrder+i, now, now)
			if err != nil {
				return err
			}
			for j, c := range sec.Categories {
				if err := s.restoreCategory(ctx, tx, userID, &sectionID, j, c, now); err != nil {
					return err
				}
			}
		}

		categoryOrder, err := s.nextCategoryOrder(ctx, tx, userID, nil, 0)
		if err != nil {
			return err
		}
		for j, c := range tree.CategoriesWithoutSection {
			if err := s.restoreCategory(ctx, tx, userID, nil, categoryOrder+j, c, now); err != nil {
				return err
			}
		}

		if tree.Theme != "" {
			if _, err := tx.ExecContext(ctx, s.q(upsertSettingSQL), userID, string(tree.Theme), now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) restoreCategory(ctx context.Context, tx *sql.Tx, userID int64, sectionID *int64, order int, c domain.Category, now time.Time) error {
	categoryID, err := s.insertReturningID(ctx, tx,
		`INSERT INTO categories (user_id, section_id, name, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, nullInt64(sectionID), c.Name, order, now, now)
	if err != nil {
		return err
	}

	for k, b := range c.Bookmarks {
		_, err := s.insertReturningID(ctx, tx,
			`INSERT INTO bookmarks (user_id, category_id, url, description, favicon_url, pinned, sort_order, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, categoryID, b.URL, nullString(b.Description), nullString(b.FaviconURL), b.Pinned, k, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}
