package domain

import "regexp"

// ReplaceFold replaces every case-insensitive occurrence of search in value
// with replacement. The search term is literal text, never a pattern.
func ReplaceFold(value, search, replacement string) string {
	if search == "" {
		return value
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(search))
	return re.ReplaceAllLiteralString(value, replacement)
}
