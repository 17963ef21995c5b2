package domain

// SupportedLocales is the fixed set of storefront languages.
var SupportedLocales = []string{"tr", "en", "de", "fr", "es", "it", "ru", "ar", "zh", "pt"}

// DefaultLocales are created eagerly with every product and are never
// targets of lazy materialization.
var DefaultLocales = []string{"tr", "en"}

// localeCurrency maps a locale to its conventional storefront currency.
// Locales without an entry inherit the source locale's currency.
var localeCurrency = map[string]string{
	"tr": "TRY",
	"en": "USD",
	"de": "EUR",
	"fr": "EUR",
	"es": "EUR",
	"it": "EUR",
	"pt": "EUR",
	"ru": "RUB",
	"zh": "CNY",
}

// IsSupportedLocale reports whether code is a storefront language.
func IsSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

// IsDefaultLocale reports whether code is one of the eagerly created locales.
func IsDefaultLocale(code string) bool {
	for _, l := range DefaultLocales {
		if l == code {
			return true
		}
	}
	return false
}

// CurrencyFor returns the conventional currency for a locale, falling back
// to the given source currency when the locale has no convention.
func CurrencyFor(locale, sourceCurrency string) string {
	if c, ok := localeCurrency[locale]; ok {
		return c
	}
	return sourceCurrency
}
