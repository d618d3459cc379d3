package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

func (s *Store) GetSetting(ctx context.Context, userID int64) (*domain.UserSetting, error) {
	var setting domain.UserSetting
	var theme string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT user_id, theme, updated_at FROM user_settings WHERE user_id = ?`), userID).
		Scan(&setting.UserID, &theme, &setting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	setting.Theme = domain.Theme(theme)
	return &setting, nil
}

// UpsertSetting keeps exactly one settings row per user.
func (s *Store) UpsertSetting(ctx context.Context, userID int64, theme domain.Theme) (*domain.UserSetting, error) {
	now := s.now()
	_, err := s.db.ExecContext(ctx, s.q(upsertSettingSQL), userID, string(theme), now)
	if err != nil {
		return nil, err
	}
	return &domain.UserSetting{UserID: userID, Theme: theme, UpdatedAt: now}, nil
}
