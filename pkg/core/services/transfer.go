package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/validation"
)

// ImportReport counts what ImportTree created and what it had to drop.
type ImportReport struct {
	Sections   int `json:"sections"`
	Categories int `json:"categories"`
	Bookmarks  int `json:"bookmarks"`
	Skipped    int `json:"skipped"`
}

// ImportTree appends an exported tree to the user's organizer, keeping the
// relative order of every level, the pinned flags and the theme. Ids in the
// input are ignored. Invalid entries are skipped and logged; a skipped
// section or category takes its children with it. Everything that survives
// validation is written in one transaction, so a storage error imports
// nothing.
func (s *OrganizerService) ImportTree(ctx context.Context, userID int64, tree *domain.Tree) (*ImportReport, error) {
	logger := zerolog.Ctx(ctx)
	report := &ImportReport{}
	clean := &domain.Tree{}

	for _, sec := range tree.Sections {
		name, err := validation.ValidateName(sec.Name)
		if err != nil {
			logger.Warn().Str("section", sec.Name).Err(err).Msg("skipping section")
			report.Skipped++
			for _, c := range sec.Categories {
				report.Skipped += 1 + len(c.Bookmarks)
			}
			continue
		}

		section := domain.Section{Name: name}
		for _, c := range sec.Categories {
			if category, ok := cleanImportedCategory(logger, c, report); ok {
				section.Categories = append(section.Categories, category)
			}
		}
		clean.Sections = append(clean.Sections, section)
		report.Sections++
	}

	for _, c := range tree.CategoriesWithoutSection {
		if category, ok := cleanImportedCategory(logger, c, report); ok {
			clean.CategoriesWithoutSection = append(clean.CategoriesWithoutSection, category)
		}
	}

	if tree.Theme != "" {
		theme, err := validation.ParseTheme(string(tree.Theme))
		if err != nil {
			logger.Warn().Str("theme", string(tree.Theme)).Err(err).Msg("ignoring theme")
		} else {
			clean.Theme = theme
		}
	}

	if err := s.repo.RestoreTree(ctx, userID, clean); err != nil {
		return nil, fmt.Errorf("import tree: %w", err)
	}
	s.invalidate(ctx, userID)

	logger.Info().Int64("user_id", userID).
		Int("sections", report.Sections).
		Int("categories", report.Categories).
		Int("bookmarks", report.Bookmarks).
		Int("skipped", report.Skipped).
		Str("theme", string(clean.Theme)).
		Msg("import finished")
	return report, nil
}

func cleanImportedCategory(logger *zerolog.Logger, c domain.Category, report *ImportReport) (domain.Category, bool) {
	name, err := validation.ValidateName(c.Name)
	if err != nil {
		logger.Warn().Str("category", c.Name).Err(err).Msg("skipping category")
		report.Skipped += 1 + len(c.Bookmarks)
		return domain.Category{}, false
	}

	category := domain.Category{Name: name}
	for _, b := range c.Bookmarks {
		verr := &domain.ValidationError{}
		input := cleanBookmarkFields(verr, b.URL, b.Description, b.FaviconURL)
		if err := verr.OrNil(); err != nil {
			logger.Warn().Str("url", b.URL).Err(err).Msg("skipping bookmark")
			report.Skipped++
			continue
		}
		if input.FaviconURL == nil {
			if derived := validation.FaviconFor(input.URL); derived != "" {
				input.FaviconURL = &derived
			}
		}

		category.Bookmarks = append(category.Bookmarks, domain.Bookmark{
			URL:         input.URL,
			Description: input.Description,
			FaviconURL:  input.FaviconURL,
			Pinned:      b.Pinned,
		})
		report.Bookmarks++
	}
	report.Categories++
	return category, true
}
