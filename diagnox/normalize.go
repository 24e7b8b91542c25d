package diagnox

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode normalization and trims whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// NormalizeAll normalizes a slice of strings.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = NormalizeText(t)
	}
	return out
}

// FoldKey returns the case-folded form used for case-insensitive equality.
func FoldKey(text string) string {
	return cases.Fold().String(NormalizeText(text))
}

// CaseKey folds case and nothing else, for exact case-insensitive equality.
func CaseKey(text string) string {
	return cases.Fold().String(text)
}

// SymptomKey folds case and treats runs of spaces, underscores and hyphens
// as one separator, so "Skin Rash" and "skin_rash" share a key.
func SymptomKey(name string) string {
	fields := strings.FieldsFunc(FoldKey(name), func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	return strings.Join(fields, "_")
}

// DisplayName turns a catalog column name into a label for people.
func DisplayName(name string) string {
	fields := strings.FieldsFunc(NormalizeText(name), func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
