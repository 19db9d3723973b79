// Package species infers the poultry production category of a query
// from weighted keyword sets, so the router can pick a dedicated index.
package species

import (
	"strings"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// DefaultAmbiguityDelta is the minimum lead (in points) the top
// species must have over the runner-up. A narrower lead returns no
// species with halved confidence: an ambiguous signal must not
// silently commit to the wrong index.
const DefaultAmbiguityDelta = 2.0

// Keyword weights by specificity.
const (
	weightStrain       = 3.0 // exact strain names
	weightCategory     = 2.0 // category words
	weightAbbreviation = 1.0 // generic abbreviations and short terms
)

// weightedKeyword pairs a lowercase substring with its weight.
type weightedKeyword struct {
	kw     string
	weight float64
}

// signals are matched as case-insensitive substrings of the query.
var signals = map[domain.Species][]weightedKeyword{
	domain.SpeciesBroiler: {
		{"ross 308", weightStrain}, {"ross", weightStrain},
		{"cobb 500", weightStrain}, {"cobb", weightStrain},
		{"hubbard", weightStrain},
		{"broiler", weightCategory}, {"poulet de chair", weightCategory},
		{"chair", weightCategory},
		{"griller", weightAbbreviation},
	},
	domain.SpeciesLayer: {
		{"lohmann", weightStrain}, {"isa brown", weightStrain},
		{"hy-line", weightStrain}, {"novogen", weightStrain},
		{"layer", weightCategory}, {"pondeuse", weightCategory},
		{"ponte", weightCategory}, {"poule", weightCategory},
		{"egg", weightAbbreviation}, {"oeuf", weightAbbreviation},
	},
	domain.SpeciesBreeder: {
		{"parent stock", weightStrain},
		{"breeder", weightCategory}, {"reproducteur", weightCategory},
		{"reproductrice", weightCategory},
	},
	domain.SpeciesDuck: {
		{"pekin", weightStrain}, {"mulard", weightStrain}, {"barbarie", weightStrain},
		{"duck", weightCategory}, {"canard", weightCategory},
	},
	domain.SpeciesTurkey: {
		{"hybrid converter", weightStrain}, {"but 6", weightStrain},
		{"turkey", weightCategory}, {"dinde", weightCategory},
		{"dindon", weightCategory},
	},
}

// order fixes iteration so equal scores resolve identically every run.
var order = []domain.Species{
	domain.SpeciesBroiler, domain.SpeciesLayer, domain.SpeciesBreeder,
	domain.SpeciesDuck, domain.SpeciesTurkey,
}

// Classifier scores queries against the per-species signal tables.
type Classifier struct {
	ambiguityDelta float64
}

// Option configures the classifier.
type Option func(*Classifier)

// WithAmbiguityDelta overrides the ambiguity guard threshold.
// The default matches observed production behaviour; treat it as
// tunable configuration, not derived truth.
func WithAmbiguityDelta(delta float64) Option {
	return func(c *Classifier) {
		if delta >= 0 {
			c.ambiguityDelta = delta
		}
	}
}

// New creates a classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{ambiguityDelta: DefaultAmbiguityDelta}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Infer returns the best-guess species for the query and a confidence
// in [0, 1]. An empty species with non-zero confidence signals an
// ambiguous query; an empty species with zero confidence signals no
// species evidence at all.
func (c *Classifier) Infer(query string) (domain.Species, float64) {
	q := strings.ToLower(query)

	var best domain.Species
	var bestScore, secondScore float64

	for _, sp := range order {
		var score float64
		for _, sig := range signals[sp] {
			if strings.Contains(q, sig.kw) {
				score += sig.weight
			}
		}
		switch {
		case score > bestScore:
			secondScore = bestScore
			best, bestScore = sp, score
		case score > secondScore:
			secondScore = score
		}
	}

	if bestScore <= 0 {
		return "", 0
	}

	confidence := bestScore / 10
	if confidence > 1.0 {
		confidence = 1.0
	}

	if bestScore-secondScore < c.ambiguityDelta {
		return "", confidence / 2
	}

	return best, confidence
}
