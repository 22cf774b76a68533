package vectorspace

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MinTokenLength is the minimum token length in runes. Single characters carry no topic signal.
const MinTokenLength = 2

// stopWords are dropped before weighting. They appear in nearly every description
// and would otherwise dominate the shared vocabulary under the cap.
var stopWords = map[string]bool{
	"a": true, "about": true, "all": true, "also": true, "an": true, "and": true, "any": true,
	"are": true, "as": true, "at": true, "be": true, "been": true, "being": true, "but": true,
	"by": true, "can": true, "could": true, "did": true, "do": true, "does": true, "each": true,
	"for": true, "from": true, "had": true, "has": true, "have": true, "he": true, "her": true,
	"his": true, "how": true, "if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "may": true, "more": true, "most": true, "no": true, "not": true, "of": true,
	"on": true, "one": true, "or": true, "other": true, "our": true, "she": true, "should": true,
	"so": true, "some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "to": true, "too": true, "very": true, "was": true, "we": true,
	"were": true, "what": true, "when": true, "where": true, "which": true, "while": true,
	"who": true, "will": true, "with": true, "would": true, "you": true, "your": true,
}

// Tokenize splits a description into weighted terms: NFKC-normalised, case-folded,
// split on anything that is not a letter or digit, with short tokens and stop words removed.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	// A Caser is stateful, so each call gets its own.
	folded := cases.Fold().String(norm.NFKC.String(text))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < MinTokenLength || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
