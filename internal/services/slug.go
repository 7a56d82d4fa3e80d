package services

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Slugify turns a title into a URL-safe slug, falling back to "item"
// when nothing survives transliteration.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "item"
	}
	return s
}

// ensureUniqueSlug resolves collisions within (tenant, type) by appending
// -1, -2, ... to the base slug, first free suffix wins. excludeID skips
// the row being updated so an unchanged title keeps its slug.
func (s *contentService) ensureUniqueSlug(ctx context.Context, tx *gorm.DB, tenantID uint, contentType, title string, excludeID uint) (string, error) {
	base := Slugify(title)
	candidate := base
	for cursor := 1; ; cursor++ {
		taken, err := s.contentRepo.IsSlugTaken(ctx, tx, tenantID, contentType, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, cursor)
	}
}
