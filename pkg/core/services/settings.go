package services

import (
	"context"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/validation"
)

func (s *OrganizerService) UpdateTheme(ctx context.Context, userID int64, theme string) (*domain.UserSetting, error) {
	parsed, err := validation.ParseTheme(theme)
	if err != nil {
		return nil, domain.FieldError("theme", err.Error())
	}

	setting, err := s.repo.UpsertSetting(ctx, userID, parsed)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return setting, nil
}
