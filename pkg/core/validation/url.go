package validation

import (
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
)

var (
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
	hostSuffix   = regexp.MustCompile(`(?i)\.[a-z]{2,}$`)

	errURLRequired = errors.New("url is required")
	errURLInvalid  = errors.New("please enter a valid URL")
)

// NormalizeBookmarkURL prepends https:// when the scheme is missing and
// checks that the result is an absolute http(s) URL whose host ends in a
// dot followed by at least two letters. The normalized string is what gets
// stored.
func NormalizeBookmarkURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errURLRequired
	}

	if !schemePrefix.MatchString(s) {
		s = "https://" + s
	}

	u, err := parseAbsolute(s)
	if err != nil {
		return "", errURLInvalid
	}

	// localhost and IP literals fail here on purpose.
	if !hostSuffix.MatchString(u.Hostname()) {
		return "", errURLInvalid
	}

	return s, nil
}

// ValidateFaviconURL only checks the syntax; the favicon is never fetched.
func ValidateFaviconURL(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return errURLRequired
	}
	if _, err := parseAbsolute(s); err != nil {
		return errors.New("the favicon url must be a valid URL")
	}
	return nil
}

// FaviconFor derives a favicon URL for a normalized bookmark URL.
func FaviconFor(normalizedURL string) string {
	u, err := url.Parse(normalizedURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return "https://icons.duckduckgo.com/ip3/" + u.Hostname() + ".ico"
}

func parseAbsolute(s string) (*url.URL, error) {
	if strings.IndexFunc(s, func(r rune) bool { return r <= ' ' || r == 0x7f }) >= 0 {
		return nil, errors.New("url contains whitespace or control characters")
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("unsupported scheme")
	}
	host := u.Hostname()
	if host == "" {
		return nil, errors.New("missing host")
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") || strings.Contains(host, "..") {
		return nil, errors.New("malformed host")
	}
	if ip := net.ParseIP(host); ip == nil {
		for _, label := range strings.Split(host, ".") {
			if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
				return nil, errors.New("malformed host label")
			}
			for _, r := range label {
				if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f) {
					return nil, errors.New("malformed host label")
				}
			}
		}
	}
	return u, nil
}
