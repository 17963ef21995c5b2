package catalog

import "github.com/craftista/storefront/internal/domain"

// sourcePreference orders the locales eligible as translation input. Eager
// creation guarantees every product has at least one of these.
var sourcePreference = []string{"en", "tr"}

// SelectSource picks the locale whose content is translated from when a new
// locale is materialized. Failing here means the catalog lost a default
// locale; that is surfaced, never papered over.
func SelectSource(locales []domain.ProductLocale) (*domain.ProductLocale, error) {
	for _, pref := range sourcePreference {
		for i := range locales {
			if locales[i].Locale == pref {
				return &locales[i], nil
			}
		}
	}
	return nil, ErrNoSourceLocale
}
