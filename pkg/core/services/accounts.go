package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

// ProvisionUser returns the user registered under email, creating it on
// first sight, and makes sure the default categories exist.
func (s *OrganizerService) ProvisionUser(ctx context.Context, email, name string) (*domain.User, error) {
	user, err := s.RegisterUser(ctx, email, name)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterUser is ProvisionUser without the default categories. Restores
// use it so the defaults do not land next to the ones being imported.
func (s *OrganizerService) RegisterUser(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.FieldError("email", "the email field is required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		user = &domain.User{Email: email, Name: strings.TrimSpace(name)}
		if err = s.repo.CreateUser(ctx, user); err != nil {
			// Lost a race against a concurrent first login.
			if existing, getErr := s.repo.GetUserByEmail(ctx, email); getErr == nil {
				user, err = existing, nil
			}
		} else {
			zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Str("email", email).Msg("user created")
		}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *OrganizerService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// LookupUser finds an existing user without creating one.
func (s *OrganizerService) LookupUser(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// EnsureDefaults seeds the default categories at most once per user, and
// only while the user owns nothing. Safe to call on every request.
func (s *OrganizerService) EnsureDefaults(ctx context.Context, userID int64) error {
	seeded, err := s.repo.SeedDefaultCategories(ctx, userID, domain.DefaultCategoryNames)
	if err != nil {
		return err
	}
	if seeded {
		zerolog.Ctx(ctx).Info().Int64("user_id", userID).Int("categories", len(domain.DefaultCategoryNames)).Msg("default categories seeded")
		s.invalidate(ctx, userID)
	}
	return nil
}
