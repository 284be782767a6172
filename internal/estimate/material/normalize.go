package material

import (
	"regexp"
	"strings"
)

// Two normal forms are used for matching:
//   - NormalizeKey: dense [a-z0-9] key, every substring rule tests against this
//   - NormalizeText: lower-cased, spaces collapsed, number+unit glued; the
//     pattern extractors run on this so "3 mm" and "3mm" extract the same token

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey lower-cases and strips everything outside [a-z0-9].
// Idempotent: NormalizeKey(NormalizeKey(x)) == NormalizeKey(x).
func NormalizeKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

const unitWord = `mm|gsm|m2|sqm`

// glue "3 mm" -> "3mm", "300  gsm" -> "300gsm"
var reAttachNumUnit = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s+(` + unitWord + `)\b`)

// NormalizeText is the lighter form used for token extraction: lower-case,
// multiplication-sign variants unified to "x", whitespace collapsed,
// digit/unit adjacency preserved by gluing split pairs.
func NormalizeText(s string) string {
	out := strings.ToLower(s)
	out = unifySeparators(out)
	out = collapseSpaces(out)
	prev := ""
	for out != prev {
		prev = out
		out = reAttachNumUnit.ReplaceAllString(out, "$1$2")
	}
	return strings.TrimSpace(out)
}

func unifySeparators(s string) string {
	b := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '×', '*':
			r = 'x'
		case ' ', ' ':
			r = ' '
		}
		b = append(b, r)
	}
	return string(b)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
