// Package slug derives URL tokens from display names. Same input and locale
// always produce the same token.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const separator = '-'

// folds maps characters that survive Unicode mark stripping to their ASCII
// spelling. Covers the catalog's source languages (Turkish first).
var folds = map[rune]string{
	'ı': "i",
	'İ': "i",
	'ş': "s",
	'Ş': "s",
	'ğ': "g",
	'Ğ': "g",
	'ç': "c",
	'Ç': "c",
	'ö': "o",
	'Ö': "o",
	'ü': "u",
	'Ü': "u",
	'ß': "ss",
	'æ': "ae",
	'Æ': "ae",
	'ø': "o",
	'Ø': "o",
	'đ': "d",
	'Đ': "d",
	'ł': "l",
	'Ł': "l",
	'þ': "th",
	'Þ': "th",
	'&': "and",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make lower-cases, transliterates locale characters to ASCII, collapses
// runs of non-alphanumerics into single separators and trims the ends.
func Make(text, locale string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if folded, ok := folds[r]; ok {
			b.WriteString(folded)
			continue
		}
		b.WriteRune(r)
	}

	folded := b.String()
	if locale == "tr" {
		folded = strings.ToLowerSpecial(unicode.TurkishCase, folded)
	} else {
		folded = strings.ToLower(folded)
	}
	// Second fold pass catches lowered forms, e.g. I -> ı under Turkish case.
	if strings.ContainsRune(folded, 'ı') {
		folded = strings.ReplaceAll(folded, "ı", "i")
	}
	if stripped, _, err := transform.String(stripMarks, folded); err == nil {
		folded = stripped
	}

	var out strings.Builder
	out.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && out.Len() > 0 {
				out.WriteRune(separator)
			}
			pendingSep = false
			out.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return out.String()
}
