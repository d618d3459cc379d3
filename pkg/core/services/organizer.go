// Package services holds the organizer's use cases: validation, ordering
// rules that span several rows, default seeding and tree caching.
package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
)

type OrganizerService struct {
	repo  ports.OrganizerRepository
	cache ports.TreeCache
}

// NewOrganizerService wires the service. A nil cache disables caching.
func NewOrganizerService(repo ports.OrganizerRepository, cache ports.TreeCache) *OrganizerService {
	if cache == nil {
		cache = nopCache{}
	}
	return &OrganizerService{repo: repo, cache: cache}
}

// invalidate drops the user's cached tree. The store is the source of truth,
// so a failing cache only costs a warning.
func (s *OrganizerService) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("user_id", userID).Msg("tree cache invalidate failed")
	}
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (*domain.Tree, bool, error) { return nil, false, nil }
func (nopCache) Version(context.Context, int64) (int64, error)          { return 0, nil }
func (nopCache) Set(context.Context, int64, int64, *domain.Tree) error  { return nil }
func (nopCache) Invalidate(context.Context, int64) error                { return nil }

// Ensure interface compliance
var _ ports.OrganizerService = (*OrganizerService)(nil)
