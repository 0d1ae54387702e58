package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes drops single-character tokens.
const minTokenRunes = 2

// tokenize normalises text and splits it into word tokens of at least two
// letters, digits or underscores, skipping stop words.
func tokenize(text string, stop StopWordSet) []string {
	// cases.Caser keeps state, one per call
	folded := cases.Fold().String(norm.NFKC.String(text))

	var tokens []string
	for _, field := range strings.FieldsFunc(folded, func(r rune) bool { return !isWordRune(r) }) {
		if len([]rune(field)) < minTokenRunes {
			continue
		}
		if stop.Contains(field) {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
