package material

import "strings"

// prefix → suffix rewrites, display only
var friendlyPrefixes = []struct {
	prefix string
	suffix string
}{
	{"SAV – ", " Vinyl"},
}

// Friendly relabels a category key for display and export. Cosmetic only:
// pricing and grouping always operate on the raw key. Unknown prefixes pass
// through unchanged.
func Friendly(categoryKey string) string {
	for _, p := range friendlyPrefixes {
		if rest, ok := strings.CutPrefix(categoryKey, p.prefix); ok && rest != "" {
			return rest + p.suffix
		}
	}
	return categoryKey
}
