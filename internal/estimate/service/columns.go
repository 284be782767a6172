package service

import (
	"regexp"
	"strings"
)

// Default column names; alternatives separated by "|", matched against the
// actual headers case-insensitively, exact first then contains.
const (
	DefaultDimKey      = "Size|Dimensions|Dims"
	DefaultMaterialKey = "Material|Stock Description|Stock"
	DefaultVolumeKey   = "Total Volume|Volume|Quantity|Qty"
	DefaultLotKey      = "Lot|Lot ID|Lot Number"
	DefaultItemKey     = "Item Description|Item|Description"
	DefaultRunsKey     = "Runs per annum|Runs|Per annum"
)

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real header matching a wanted name. Supports "a|b|c"
// alternatives; tries exact match, then normalized match, then containment
// either way, preferring the longest overlap.
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	nAlts := make([]string, 0, len(alts))
	for _, a := range alts {
		nAlts = append(nAlts, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nAlts {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nAlts {
			if n != "" && (strings.Contains(nk, n) || strings.Contains(n, nk)) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// columnAt returns the header at a 1-based position, for positional
// fallbacks on unnamed columns.
func columnAt(headers []string, pos int) string {
	if pos < 1 || pos > len(headers) {
		return ""
	}
	return headers[pos-1]
}
