package services

import (
	"context"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/validation"
)

func (s *OrganizerService) CreateSection(ctx context.Context, userID int64, name string) (*domain.Section, error) {
	clean, err := validation.ValidateName(name)
	if err != nil {
		return nil, domain.FieldError("name", err.Error())
	}

	section := &domain.Section{UserID: userID, Name: clean, Categories: []domain.Category{}}
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return section, nil
}

func (s *OrganizerService) RenameSection(ctx context.Context, userID, id int64, name string) (*domain.Section, error) {
	clean, err := validation.ValidateName(name)
	if err != nil {
		return nil, domain.FieldError("name", err.Error())
	}

	section, err := s.repo.RenameSection(ctx, userID, id, clean)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return section, nil
}

// DeleteSection keeps the section's categories; they move to the
// no-section group with their order unchanged.
func (s *OrganizerService) DeleteSection(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteSection(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *OrganizerService) ReorderSections(ctx context.Context, userID int64, items []domain.OrderItem) error {
	if err := checkBatch("sections", items); err != nil {
		return err
	}
	if err := s.repo.ReorderSections(ctx, userID, items); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}
