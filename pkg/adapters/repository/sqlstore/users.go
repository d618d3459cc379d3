package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const userColumns = "id, email, name, defaults_seeded_at, created_at"

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var seededAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &seededAt, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.DefaultsSeeded = seededAt.Valid
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = s.now()

	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO users (email, name, created_at) VALUES (?, ?, ?)`,
		user.Email, user.Name, user.CreatedAt)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+userColumns+` FROM users WHERE email = ?`),
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// SeedDefaultCategories inserts names as section-less categories at orders
// 0..n-1. It claims the user's seeding marker first, so it runs at most once
// per user, and it only inserts when the user owns no section and no
// category. It reports whether rows were inserted.
func (s *Store) SeedDefaultCategories(ctx context.Context, userID int64, names []string) (bool, error) {
	seeded := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		res, err := tx.ExecContext(ctx,
			s.q(`UPDATE users SET defaults_seeded_at = ? WHERE id = ? AND defaults_seeded_at IS NULL`),
			now, userID)
		if err != nil {
			return err
		}
		claimed, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if claimed == 0 {
			return nil
		}

		var owned int
		err = tx.QueryRowContext(ctx, s.q(`SELECT
			(SELECT COUNT(*) FROM sections WHERE user_id = ?) +
			(SELECT COUNT(*) FROM categories WHERE user_id = ?)`), userID, userID).Scan(&owned)
		if err != nil {
			return err
		}
		if owned > 0 {
			return nil
		}

		for i, name := range names {
			_, err := s.insertReturningID(ctx, tx,
				`INSERT INTO categories (user_id, section_id, name, sort_order, created_at, updated_at) VALUES (?, NULL, ?, ?, ?, ?)`,
				userID, name, i, now, now)
			if err != nil {
				return err
			}
		}
		seeded = len(names) > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
