package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CapitalizeWords upper-cases the first character of every space separated word and
// lower-cases the rest. Runs of spaces are preserved.
func CapitalizeWords(s string) string {
	// Casers keep state between calls and cannot be shared across goroutines.
	upper, lower := cases.Upper(language.Und), cases.Lower(language.Und)

	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}
