package common

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

const maxSlugAttempts = 50

func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// UniqueSlug slugifies input and appends -2, -3, ... until exists reports the
// candidate as free.
func UniqueSlug(ctx context.Context, input, fallback string, exists func(context.Context, string) (bool, error)) (string, error) {
	base, err := Slugify(input, fallback)
	if err != nil {
		return "", err
	}

	candidate := base
	for n := 2; n < maxSlugAttempts+2; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
