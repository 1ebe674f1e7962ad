package usecase

import (
	"context"
	"strconv"

	"github.com/fastygo/tracker/domain"
)

// UniqueSlug returns base, or base with the first free "_N" suffix, so that no two
// documents share a slug. Archived documents keep their slug reserved.
func UniqueSlug[T any](ctx context.Context, base string, lookup func(context.Context, string) (*T, error)) (string, error) {
	slug := base
	for n := 2; ; n++ {
		_, err := lookup(ctx, slug)
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = base + "_" + strconv.Itoa(n)
	}
}
