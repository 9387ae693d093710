package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateText rejects empty or whitespace-only entry text before any
// network call is made.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// NormalizeBaseURL validates an API base URL and strips trailing slashes.
// Only http and https schemes are accepted.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("api base url is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("api base url %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(trimmed, "/"), nil
}
