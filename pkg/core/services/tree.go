package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

// GetTree returns the user's sections, categories and bookmarks together
// with the pinned view and the theme.
func (s *OrganizerService) GetTree(ctx context.Context, userID int64) (*domain.Tree, error) {
	logger := zerolog.Ctx(ctx)

	tree, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("tree cache read failed")
	}
	if ok {
		return tree, nil
	}

	if err := s.EnsureDefaults(ctx, userID); err != nil {
		return nil, err
	}

	// The version is read before loading so that a mutation committed
	// while we load makes the write below a no-op.
	version, versionErr := s.cache.Version(ctx, userID)
	if versionErr != nil {
		logger.Warn().Err(versionErr).Int64("user_id", userID).Msg("tree cache version read failed")
	}

	tree, err = s.loadTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	if versionErr == nil {
		if err := s.cache.Set(ctx, userID, version, tree); err != nil {
			logger.Warn().Err(err).Int64("user_id", userID).Msg("tree cache write failed")
		}
	}
	return tree, nil
}

// ExportTree reads the tree straight from the store.
func (s *OrganizerService) ExportTree(ctx context.Context, userID int64) (*domain.Tree, error) {
	return s.loadTree(ctx, userID)
}

func (s *OrganizerService) PinnedBookmarks(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tree.Pinned, nil
}

func (s *OrganizerService) loadTree(ctx context.Context, userID int64) (*domain.Tree, error) {
	tree, err := s.repo.LoadTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	tree.Theme = settings.Theme
	tree.Pinned = tree.PinnedBookmarks()
	tree.Normalize()
	return tree, nil
}

// GetSettings falls back to the light theme when nothing was saved.
func (s *OrganizerService) GetSettings(ctx context.Context, userID int64) (*domain.UserSetting, error) {
	setting, err := s.repo.GetSetting(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.UserSetting{UserID: userID, Theme: domain.ThemeLight}, nil
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}
