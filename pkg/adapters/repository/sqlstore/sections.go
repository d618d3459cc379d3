package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const sectionColumns = "id, user_id, name, sort_order, created_at, updated_at"

func scanSection(row scanner) (*domain.Section, error) {
	var sec domain.Section
	if err := row.Scan(&sec.ID, &sec.UserID, &sec.Name, &sec.Order, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sec, nil
}

func (s *Store) getSection(ctx context.Context, qr queryer, userID, id int64) (*domain.Section, error) {
	row := qr.QueryRowContext(ctx, s.q(`SELECT `+sectionColumns+` FROM sections WHERE id = ? AND user_id = ?`), id, userID)
	return scanSection(row)
}

// CreateSection appends the section after the user's last one.
func (s *Store) CreateSection(ctx context.Context, section *domain.Section) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		order, err := s.nextOrder(ctx, tx, "sections", "user_id = ?", section.UserID)
		if err != nil {
			return err
		}

		now := s.now()
		id, err := s.insertReturningID(ctx, tx,
			`INSERT INTO sections (user_id, name, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			section.UserID, section.Name, order, now, now)
		if err != nil {
			return err
		}

		section.ID = id
		section.Order = order
		section.CreatedAt = now
		section.UpdatedAt = now
		return nil
	})
}

func (s *Store) GetSection(ctx context.Context, userID, id int64) (*domain.Section, error) {
	return s.getSection(ctx, s.db, userID, id)
}

// RenameSection returns the section with its categories and their bookmarks.
func (s *Store) RenameSection(ctx context.Context, userID, id int64, name string) (*domain.Section, error) {
	var section *domain.Section
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getSection(ctx, tx, userID, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`UPDATE sections SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`),
			name, s.now(), id, userID)
		if err != nil {
			return err
		}
		section, err = s.getSection(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		return s.withCategories(ctx, tx, section)
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection detaches the section's categories, then removes the row.
func (s *Store) DeleteSection(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getSection(ctx, tx, userID, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE categories SET section_id = NULL, updated_at = ? WHERE section_id = ?`),
			s.now(), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`DELETE FROM sections WHERE id = ? AND user_id = ?`), id, userID)
		return err
	})
}

func (s *Store) ReorderSections(ctx context.Context, userID int64, items []domain.OrderItem) error {
	return s.reorder(ctx, userID, items,
		`SELECT COUNT(*) FROM sections WHERE user_id = ? AND id IN (%s)`,
		`UPDATE sections SET sort_order = ?, updated_at = ? WHERE id = ?`)
}
