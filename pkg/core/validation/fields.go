package validation

import (
	"errors"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

var strictPolicy = bluemonday.StrictPolicy()

// ValidateName trims and checks a section or category name.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("the name field is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", errors.New("the name field must not be greater than 255 characters")
	}
	return name, nil
}

// ParseTheme accepts only the two known themes.
func ParseTheme(raw string) (domain.Theme, error) {
	switch domain.Theme(raw) {
	case domain.ThemeLight, domain.ThemeDark:
		return domain.Theme(raw), nil
	}
	return "", errors.New("the selected theme is invalid")
}

// SanitizeDescription strips markup from a bookmark description and keeps
// the remaining text unescaped. An empty result means there is no description.
func SanitizeDescription(raw string) (*string, error) {
	clean := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(raw)))
	if clean == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(clean) > MaxDescriptionLength {
		return nil, errors.New("the description field must not be greater than 1000 characters")
	}
	return &clean, nil
}
