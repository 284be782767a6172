// Row-level field parsers. Everything here returns (value, ok); a field that
// does not parse contributes nothing downstream and is never an error.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumToken = regexp.MustCompile(`\d+(?:\.\d+)?`)
	rxKeepNums = regexp.MustCompile(`[^\d.\-]`)
)

// Area parses a "W x H" dimension string into square metres. Accepts x/X/×/*
// as the separator and an optional mm suffix on either side. Exactly two
// numeric tokens are required; anything else yields (0, false).
func Area(dimensionText string) (float64, bool) {
	s := strings.TrimSpace(dimensionText)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer("×", "x", "X", "x", "*", "x")
	s = repl.Replace(s)
	nums := reNumToken.FindAllString(s, -1)
	if len(nums) != 2 {
		return 0, false
	}
	w, errW := strconv.ParseFloat(nums[0], 64)
	h, errH := strconv.ParseFloat(nums[1], 64)
	if errW != nil || errH != nil {
		return 0, false
	}
	return (w / 1000) * (h / 1000), true
}

// Quantity pulls a numeric quantity out of a cell: a literal number parses
// directly, free text yields its first numeric substring after dropping
// thousands separators.
func Quantity(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	s = strings.ReplaceAll(s, ",", "")
	m := reNumToken.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	return f, err == nil
}

// Number is the lenient numeric cell parser: tolerates NBSP/thin-space
// grouping, thousands commas and stray currency symbols. Commas are
// stripped, not treated as decimal points, so "1,250" is 1250.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "", ",", "")
	s = repl.Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
