// Package normalize rewrites raw user queries into the vocabulary of
// the indexed corpus: unit conversion, domain-synonym expansion and
// strain-name canonicalization. Normalize is a pure rewrite and a
// fixed point after one pass: normalize(normalize(q)) == normalize(q).
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rewriteRule pairs a case-insensitive pattern with a pure rewrite of
// its submatches. Rules share no state and are applied in order.
type rewriteRule struct {
	re      *regexp.Regexp
	rewrite func(groups []string) string
}

// rules are applied in family order: temporal, weight, temperature,
// domain synonyms, strain canonicalization.
//
// Numeric rewrites round to a stable precision (integer grams, one
// decimal Celsius) so repeated normalization cannot drift.
var rules = []rewriteRule{
	// Temporal: weeks to days.
	{regexp.MustCompile(`(\d+)\s*semaines?\b`), func(g []string) string {
		return itoaMul(g[1], 7) + " jours"
	}},
	{regexp.MustCompile(`(\d+)\s*weeks?\b`), func(g []string) string {
		return itoaMul(g[1], 7) + " days"
	}},
	// Abbreviated French weeks. The leading digit requirement is the
	// guard that keeps a bare "s" from matching strain names: "ross"
	// has no digit prefix, so it can never be claimed by this rule.
	{regexp.MustCompile(`(\d+)\s*sem\b`), func(g []string) string {
		return itoaMul(g[1], 7) + " jours"
	}},

	// Weight: everything to integer grams.
	{regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*kgs?\b`), func(g []string) string {
		return grams(g[1], 1000)
	}},
	{regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*lbs?\b`), func(g []string) string {
		return grams(g[1], 453.59237)
	}},
	{regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*oz\b`), func(g []string) string {
		return grams(g[1], 28.3495)
	}},

	// Temperature: Fahrenheit to one-decimal Celsius.
	{regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*°?\s*f\b`), func(g []string) string {
		f := atof(g[1])
		c := (f - 32) * 5 / 9
		return strconv.FormatFloat(math.Round(c*10)/10, 'f', 1, 64) + "°c"
	}},

	// Domain synonyms: technical abbreviations to canonical phrases.
	{regexp.MustCompile(`\bic\b`), func([]string) string { return "indice de consommation" }},
	{regexp.MustCompile(`\bfcr\b`), func([]string) string { return "indice de consommation" }},
	{regexp.MustCompile(`\bgmq\b`), func([]string) string { return "gain moyen quotidien" }},
	{regexp.MustCompile(`\bpv\b`), func([]string) string { return "poids vif" }},

	// Strain canonicalization. The optional already-expanded suffix is
	// consumed and re-emitted, which keeps the rule idempotent.
	{regexp.MustCompile(`ross\s*(\d{3})( poulet de chair)?`), func(g []string) string {
		return "ross " + g[1] + " poulet de chair"
	}},
	{regexp.MustCompile(`cobb\s*(\d{3})( poulet de chair)?`), func(g []string) string {
		return "cobb " + g[1] + " poulet de chair"
	}},
	{regexp.MustCompile(`isa\s*brown( poule pondeuse)?`), func([]string) string {
		return "isa brown poule pondeuse"
	}},
	{regexp.MustCompile(`lohmann\s*(brown|white)( poule pondeuse)?`), func(g []string) string {
		return "lohmann " + g[1] + " poule pondeuse"
	}},
}

// Normalize rewrites a raw user query into indexed-corpus vocabulary.
// The result is lowercase with whitespace collapsed to single spaces.
func Normalize(query string) string {
	s := strings.ToLower(query)

	for _, rule := range rules {
		s = replaceSubmatchFunc(rule.re, s, rule.rewrite)
	}

	return strings.Join(strings.Fields(s), " ")
}

// replaceSubmatchFunc is ReplaceAllStringFunc with submatch access.
func replaceSubmatchFunc(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		return fn(re.FindStringSubmatch(m))
	})
}

// atof parses a number accepting both decimal separators.
func atof(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return v
}

// itoaMul parses an integer and multiplies it.
func itoaMul(s string, factor int) string {
	n, _ := strconv.Atoi(s)
	return strconv.Itoa(n * factor)
}

// grams converts a quantity to integer grams.
func grams(s string, factor float64) string {
	return strconv.Itoa(int(math.Round(atof(s)*factor))) + " g"
}
