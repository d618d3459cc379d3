package services

import (
	"context"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/validation"
)

// CreateCategory appends a category to a section, or to the no-section
// group when sectionID is nil.
func (s *OrganizerService) CreateCategory(ctx context.Context, userID int64, name string, sectionID *int64) (*domain.Category, error) {
	clean, err := validation.ValidateName(name)
	if err != nil {
		return nil, domain.FieldError("name", err.Error())
	}
	if sectionID != nil && *sectionID <= 0 {
		return nil, domain.ErrNotFound
	}

	category := &domain.Category{UserID: userID, Name: clean, SectionID: sectionID, Bookmarks: []domain.Bookmark{}}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return category, nil
}

func (s *OrganizerService) RenameCategory(ctx context.Context, userID, id int64, name string) (*domain.Category, error) {
	clean, err := validation.ValidateName(name)
	if err != nil {
		return nil, domain.FieldError("name", err.Error())
	}

	category, err := s.repo.RenameCategory(ctx, userID, id, clean)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return category, nil
}

// DeleteCategory fails with domain.ErrCategoryNotEmpty while bookmarks
// remain in the category.
func (s *OrganizerService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *OrganizerService) ReorderCategories(ctx context.Context, userID int64, items []domain.OrderItem) error {
	if err := checkBatch("categories", items); err != nil {
		return err
	}
	if err := s.repo.ReorderCategories(ctx, userID, items); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// MoveCategoryToSection places the category last in its new section (nil
// for no section). The previous scope is not compacted.
func (s *OrganizerService) MoveCategoryToSection(ctx context.Context, userID, id int64, sectionID *int64) (*domain.Category, error) {
	if sectionID != nil && *sectionID <= 0 {
		return nil, domain.ErrNotFound
	}
	category, err := s.repo.MoveCategory(ctx, userID, id, sectionID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return category, nil
}
