package catalog

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// maxSlugProbes bounds the numeric suffix search. Beyond this many
// same-named products in one locale the caller gets ErrSlugExhausted
// instead of an unbounded probe loop.
const maxSlugProbes = 50

// ResolveUniqueSlug returns candidate unchanged when (locale, candidate) is
// free, otherwise the first free candidate-N. Rows with excludeID do not
// count as taken, so re-slugging an existing record is stable.
func ResolveUniqueSlug(ctx context.Context, store Store, locale, candidate string, excludeID int64) (string, error) {
	slug := candidate
	for i := 0; i <= maxSlugProbes; i++ {
		if i > 0 {
			slug = fmt.Sprintf("%s-%d", candidate, i)
		}
		taken, err := store.SlugTaken(ctx, locale, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", errors.Wrapf(ErrSlugExhausted, "locale %s slug %s", locale, candidate)
}
