package services

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/validation"
)

// prepareBookmark validates and normalizes the user-supplied fields of a
// new bookmark.
func prepareBookmark(categoryID int64, rawURL string, description, faviconURL *string) (domain.NewBookmark, error) {
	verr := &domain.ValidationError{}
	if categoryID <= 0 {
		verr.Add("category_id", "the category id field is required")
	}
	input := cleanBookmarkFields(verr, rawURL, description, faviconURL)
	input.CategoryID = categoryID
	return input, verr.OrNil()
}

// cleanBookmarkFields normalizes the URL, sanitizes the description and
// checks the favicon, recording problems in verr.
func cleanBookmarkFields(verr *domain.ValidationError, rawURL string, description, faviconURL *string) domain.NewBookmark {
	var input domain.NewBookmark

	normalized, err := validation.NormalizeBookmarkURL(rawURL)
	if err != nil {
		verr.Add("url", err.Error())
	}
	input.URL = normalized

	if description != nil {
		clean, err := validation.SanitizeDescription(*description)
		if err != nil {
			verr.Add("description", err.Error())
		}
		input.Description = clean
	}

	if faviconURL != nil && strings.TrimSpace(*faviconURL) != "" {
		favicon := strings.TrimSpace(*faviconURL)
		if err := validation.ValidateFaviconURL(favicon); err != nil {
			verr.Add("favicon_url", err.Error())
		}
		input.FaviconURL = &favicon
	}
	return input
}

func (s *OrganizerService) CreateBookmark(ctx context.Context, userID int64, categoryID int64, url string, description, faviconURL *string) (*domain.Bookmark, error) {
	input, err := prepareBookmark(categoryID, url, description, faviconURL)
	if err != nil {
		return nil, err
	}

	bookmark, err := s.repo.CreateBookmark(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return bookmark, nil
}

// UpdateBookmark applies a partial update. Changing the category appends
// the bookmark to its new category; toggling the pin keeps its place.
func (s *OrganizerService) UpdateBookmark(ctx context.Context, userID, id int64, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	verr := &domain.ValidationError{}

	if patch.URL != nil {
		normalized, err := validation.NormalizeBookmarkURL(*patch.URL)
		if err != nil {
			verr.Add("url", err.Error())
		}
		patch.URL = &normalized
	}

	if patch.Description.Set && patch.Description.Valid {
		clean, err := validation.SanitizeDescription(patch.Description.Value)
		if err != nil {
			verr.Add("description", err.Error())
		}
		if clean == nil {
			patch.Description = domain.Null[string]()
		} else {
			patch.Description = domain.Some(*clean)
		}
	}

	if patch.FaviconURL.Set && patch.FaviconURL.Valid {
		favicon := strings.TrimSpace(patch.FaviconURL.Value)
		if favicon == "" {
			patch.FaviconURL = domain.Null[string]()
		} else {
			if err := validation.ValidateFaviconURL(favicon); err != nil {
				verr.Add("favicon_url", err.Error())
			}
			patch.FaviconURL = domain.Some(favicon)
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if patch.CategoryID != nil && *patch.CategoryID <= 0 {
		return nil, domain.ErrNotFound
	}

	if patch.Empty() {
		return s.repo.GetBookmark(ctx, userID, id)
	}

	bookmark, err := s.repo.UpdateBookmark(ctx, userID, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return bookmark, nil
}

func (s *OrganizerService) DeleteBookmark(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteBookmark(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// ReorderBookmarks applies a batch that may span several categories; each
// bookmark keeps its category.
func (s *OrganizerService) ReorderBookmarks(ctx context.Context, userID int64, items []domain.OrderItem) error {
	if err := checkBatch("bookmarks", items); err != nil {
		return err
	}
	if err := s.repo.ReorderBookmarks(ctx, userID, items); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}
