package directory

import (
	"strconv"

	"resellerbot/internal/pkg/utils"
)

const (
	maxSlugLen      = 32
	placeholderSlug = "tenant"
)

// BaseSlug normalizes a raw identifier into a URL-safe slug.
func BaseSlug(raw string) string {
	s := utils.SanitizeSlug(raw)
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	if s == "" {
		return placeholderSlug
	}
	return s
}

// UniqueSlug returns the first of base, base2, base3... for which taken reports false.
func UniqueSlug(raw string, taken func(string) (bool, error)) (string, error) {
	base := BaseSlug(raw)
	slug := base
	for i := 2; ; i++ {
		exists, err := taken(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + strconv.Itoa(i)
	}
}
