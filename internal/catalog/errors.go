package catalog

import "github.com/pkg/errors"

// Engine error taxonomy. Callers dispatch with errors.Is; the admin API
// maps these onto HTTP statuses.
var (
	// ErrUnsupportedLocale rejects locale codes outside the storefront set.
	ErrUnsupportedLocale = errors.New("unsupported locale")

	// ErrDefaultLocale rejects lazy materialization of the eagerly created
	// default locales.
	ErrDefaultLocale = errors.New("default locale is created with the product")

	// ErrProductNotFound means the product id does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoSourceLocale means a product has neither of the source-capable
	// locales. Given eager creation this indicates inconsistent data.
	ErrNoSourceLocale = errors.New("no source locale available")

	// ErrSlugExhausted means slug probing ran out of suffix candidates.
	ErrSlugExhausted = errors.New("slug candidates exhausted")

	// ErrPersistenceConflict is a storage-level unique constraint hit, e.g.
	// a slug race that slipped past the resolver.
	ErrPersistenceConflict = errors.New("persistence conflict")
)
