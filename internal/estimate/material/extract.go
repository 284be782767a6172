package material

import "regexp"

// Extract runs a single first-match search over s. It returns the first
// capture group when the pattern has one, otherwise the full match.
func Extract(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

var (
	reThickness = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*mm\b`)
	reWeight    = regexp.MustCompile(`\b(\d{3})\s*gsm\b`)

	// brand code families; unmatched codes fall through to the next strategy
	reAveryCode = regexp.MustCompile(`\b((?:11|21|29|33)\d{2})\b`)
	re3MCode    = regexp.MustCompile(`\b(77\d{2})\b`)
	reArlonCode = regexp.MustCompile(`\b([68]\d{3})\b`)
	reAnyCode   = regexp.MustCompile(`\b(\d{3,4})\b`)
)

// Thickness pulls a millimetre token ("3", "0.6") from lightly-normalized text.
func Thickness(text string) (string, bool) { return Extract(reThickness, text) }

// Weight pulls a three-digit gsm token from lightly-normalized text.
func Weight(text string) (string, bool) { return Extract(reWeight, text) }

// codeStrategy is one step of a brand's extraction chain, applied in order;
// first non-empty result wins.
type codeStrategy func(text string) (string, bool)

func codeFrom(re *regexp.Regexp) codeStrategy {
	return func(text string) (string, bool) { return Extract(re, text) }
}

var reM7 = regexp.MustCompile(`\bm7\b`)

// Metamark's flagship line is lettered, not numeric.
func metamarkM7(text string) (string, bool) {
	if reM7.MatchString(text) {
		return "M7", true
	}
	return "", false
}

func firstCode(text string, chain ...codeStrategy) (string, bool) {
	for _, s := range chain {
		if code, ok := s(text); ok {
			return code, true
		}
	}
	return "", false
}
