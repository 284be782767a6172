package material

import (
	"regexp"
	"strings"
)

// Classify turns a free-text stock description into a pricing-group key.
// Pure function: no state, no randomness; the same string always yields the
// same key. The cascade below is evaluated top to bottom, first match wins,
// and the order is load-bearing (see the locked tests).
func Classify(materialDesc string) string {
	c := matchCtx{
		raw:  strings.TrimSpace(materialDesc),
		text: NormalizeText(materialDesc),
		key:  NormalizeKey(materialDesc),
	}
	for _, r := range cascade {
		if key, ok := r.match(c); ok {
			return key
		}
	}
	return fallbackKey(c.raw)
}

type matchCtx struct {
	raw  string // trimmed original
	text string // NormalizeText form, extractors run on this
	key  string // NormalizeKey form, substring tests run on this
}

func (c matchCtx) has(subs ...string) bool {
	for _, s := range subs {
		if !strings.Contains(c.key, s) {
			return false
		}
	}
	return true
}

func (c matchCtx) hasAny(subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(c.key, s) {
			return true
		}
	}
	return false
}

type rule struct {
	name  string
	match func(c matchCtx) (string, bool)
}

// substrate vocabulary for the thickness branch; first listed wins when a
// description names more than one
var substrates = []struct {
	keywords []string
	label    string
}{
	{[]string{"screenboard"}, "Screenboard"},
	{[]string{"corflute", "coreflute"}, "Corflute"},
	{[]string{"acrylic"}, "Acrylic"},
	{[]string{"pvc"}, "PVC"},
	{[]string{"hips"}, "HIPS"},
	{[]string{"acm"}, "ACM"},
	{[]string{"aluminium"}, "Aluminium"},
	{[]string{"maxit"}, "Maxi-T"},
}

// paper/card finish keywords, refined only when a gsm token was found
var finishes = []struct {
	keyword string
	label   string
}{
	{"silk", "Silk"},
	{"satin", "Satin"},
	{"ecomatt", "Matt"},
	{"matt", "Matt"},
	{"gloss", "Gloss"},
	{"synthetic", "Synthetic"},
}

// SAV brands in priority order; each carries its code strategy chain.
// Avery gets no generic-digit fallback: MPI codes are restricted to the
// documented prefix families, anything else lands on the brand-only bucket.
var re3MWord = regexp.MustCompile(`\b3m\b`)

var savBrands = []struct {
	detect func(c matchCtx) bool
	label  string
	chain  []codeStrategy
}{
	{func(c matchCtx) bool { return c.hasAny("avery", "mpi") }, "Avery MPI",
		[]codeStrategy{codeFrom(reAveryCode)}},
	{func(c matchCtx) bool { return re3MWord.MatchString(c.text) }, "3M",
		[]codeStrategy{codeFrom(re3MCode), codeFrom(reAnyCode)}},
	{func(c matchCtx) bool { return c.has("metamark") }, "Metamark",
		[]codeStrategy{metamarkM7, codeFrom(reAnyCode)}},
	{func(c matchCtx) bool { return c.has("arlon") }, "Arlon",
		[]codeStrategy{codeFrom(reArlonCode), codeFrom(reAnyCode)}},
}

// product codes recognized without a brand keyword
var savFamilyCodes = []string{"2126", "2903", "2904", "3302", "7725"}

var cascade = []rule{
	// 1. rigid substrate gated by a thickness token; no thickness, no match,
	// even when a substrate keyword is present
	{"thickness-substrate", func(c matchCtx) (string, bool) {
		t, ok := Thickness(c.text)
		if !ok {
			return "", false
		}
		for _, s := range substrates {
			if c.hasAny(s.keywords...) {
				return t + "mm " + s.label, true
			}
		}
		return "", false
	}},

	// 2. named rigid panels that carry no thickness token
	{"braille-acrylic", func(c matchCtx) (string, bool) {
		if c.has("braille", "acrylic") {
			return "Braille Acrylic Signs", true
		}
		return "", false
	}},
	{"anodised-aluminium", func(c matchCtx) (string, bool) {
		if c.has("anodised", "aluminium") {
			return "Anodised Aluminium", true
		}
		return "", false
	}},

	// 3. backlit / lightbox film family
	{"backlit", func(c matchCtx) (string, bool) {
		if c.hasAny("duratran", "backlit", "lightbox") {
			return "Duratran Backlit", true
		}
		return "", false
	}},

	// 4. named synthetic films, ahead of the generic paper/weight rules
	{"jellyfish-supercling", func(c matchCtx) (string, bool) {
		if c.has("jellyfish", "supercling") {
			return "Jellyfish Supercling", true
		}
		return "", false
	}},
	{"yupo", func(c matchCtx) (string, bool) {
		if c.hasAny("yupo", "yuppo") {
			return "Yupo Synthetic Paper", true
		}
		return "", false
	}},
	{"plasnet", func(c matchCtx) (string, bool) {
		if c.has("plasnet") || c.has("synthetic", "280gsm") {
			return "280gsm Synthetic (Plasnet)", true
		}
		return "", false
	}},
	{"magnetic", func(c matchCtx) (string, bool) {
		if c.has("magnetic") {
			return "0.6mm Magnetic", true
		}
		return "", false
	}},

	// 5. paper/card by weight, refined by finish
	{"paper-weight", func(c matchCtx) (string, bool) {
		w, ok := Weight(c.text)
		if !ok {
			return "", false
		}
		for _, f := range finishes {
			if c.has(f.keyword) {
				return w + "gsm " + f.label, true
			}
		}
		return w + "gsm Paper/Card", true
	}},

	// 6. SAV by brand: brand code pattern, then generic digits, then brand-only
	{"sav-brand", func(c matchCtx) (string, bool) {
		for _, b := range savBrands {
			if !b.detect(c) {
				continue
			}
			if code, ok := firstCode(c.text, b.chain...); ok {
				return "SAV – " + b.label + " " + code, true
			}
			return "SAV – " + b.label, true
		}
		return "", false
	}},

	// 7. brandless SAV: fixed code family, else the catch-all bucket
	{"sav-family", func(c matchCtx) (string, bool) {
		if !c.has("sav") {
			return "", false
		}
		for _, code := range savFamilyCodes {
			if c.has(code) {
				return "SAV – " + code, true
			}
		}
		return "SAV – Other", true
	}},

	// 8. glass films (reachable only when the literal "sav" is absent)
	{"glass-decor", func(c matchCtx) (string, bool) {
		if c.has("mactac", "glassdecor") {
			return "Mactac Glass Decor Dusted", true
		}
		return "", false
	}},
	{"frosted-glass", func(c matchCtx) (string, bool) {
		if c.has("frosted", "glass") || c.has("dusted", "glass") {
			return "Frosted/Dusted Glass Film", true
		}
		return "", false
	}},
	{"ultra-clear", func(c matchCtx) (string, bool) {
		if c.has("ultra", "clear") {
			return "Ultra Clear Film", true
		}
		return "", false
	}},

	// 9. composite colour + product-line tests
	{"matt-black-ccv900", func(c matchCtx) (string, bool) {
		if c.has("matt", "black", "ccv900") {
			return "Matt Black CCV 900 Series", true
		}
		return "", false
	}},
	{"cool-grey", func(c matchCtx) (string, bool) {
		if c.has("cool", "grey") {
			return "Cool Grey SAV", true
		}
		return "", false
	}},
}

var (
	reParens    = regexp.MustCompile(`\([^)]*\)`)
	reWordToken = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// fallbackKey strips parenthetical text and returns the first two alphanumeric
// tokens, the single token, or the trimmed input when nothing tokenizes.
func fallbackKey(raw string) string {
	cleaned := reParens.ReplaceAllString(raw, " ")
	tokens := reWordToken.FindAllString(cleaned, 3)
	switch {
	case len(tokens) >= 2:
		return tokens[0] + " " + tokens[1]
	case len(tokens) == 1:
		return tokens[0]
	default:
		return raw
	}
}
