// Package enrich scans chunk text and filenames for species, strain,
// production-phase and domain signals, producing confidence-scored
// chunk metadata. All detections are independent and best-effort:
// absence of a signal omits the field, it never guesses a default.
package enrich

import (
	"path/filepath"
	"strings"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// longKeywordBonus is added to a keyword's weight when it is specific
// enough (long) to be a strong signal on its own.
const longKeywordBonus = 0.5

// longKeywordLen is the length from which the bonus applies.
const longKeywordLen = 9

// Enricher classifies chunks against static keyword tables.
// The zero value is not usable; call New.
type Enricher struct{}

// New creates an enricher.
func New() *Enricher {
	return &Enricher{}
}

// Enrich scans filePath and text for classification signals.
// When domainHint is non-empty it is taken as-is with full confidence,
// skipping domain detection (directory-supplied hints outrank scanning).
func (e *Enricher) Enrich(filePath, text string, chunkType domain.ChunkType, domainHint domain.Domain) domain.ChunkMetadata {
	haystack := strings.ToLower(filepath.Base(filePath) + " " + text)

	meta := domain.ChunkMetadata{
		Source:    filePath,
		ChunkType: chunkType,
	}

	meta.Species = detectSpecies(haystack)
	meta.Strain = detectStrain(haystack)
	meta.Phase = detectPhase(haystack)
	meta.Language = detectLanguage(text)

	if domainHint != "" {
		meta.Domain = domainHint
		meta.DomainConfidence = 1.0
	} else {
		meta.Domain, meta.DomainConfidence = detectDomain(haystack)
	}

	return meta
}

// keywordScore sums per-keyword weights over matches in haystack and
// normalizes by the keyword-set size, capped at 1.0.
func keywordScore(haystack string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			w := float64(len(kw)) / 10
			if len(kw) >= longKeywordLen {
				w += longKeywordBonus
			}
			score += w
		}
	}
	score /= float64(len(keywords))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func detectSpecies(haystack string) domain.Species {
	var best domain.Species
	var bestScore float64
	for _, sp := range speciesOrder {
		score := keywordScore(haystack, speciesKeywords[sp])
		if score > bestScore {
			best, bestScore = sp, score
		}
	}
	if bestScore <= 0 {
		return ""
	}
	return best
}

func detectDomain(haystack string) (domain.Domain, float64) {
	var best domain.Domain
	var bestScore float64
	for _, d := range domainOrder {
		score := keywordScore(haystack, domainKeywords[d])
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	if bestScore <= 0 {
		return "", 0
	}
	confidence := bestScore * 2
	if confidence > 1.0 {
		confidence = 1.0
	}
	return best, confidence
}

func detectStrain(haystack string) string {
	for _, p := range strainPatterns {
		if m := p.re.FindStringSubmatchIndex(haystack); m != nil {
			return string(p.re.ExpandString(nil, p.format, haystack, m))
		}
	}
	for _, kw := range strainFallbackOrder {
		if strings.Contains(haystack, kw) {
			return strainFallbacks[kw]
		}
	}
	return ""
}

func detectPhase(haystack string) domain.ProductionPhase {
	var best domain.ProductionPhase
	bestCount := 0
	for _, phase := range phaseOrder {
		count := 0
		for _, kw := range phaseKeywords[phase] {
			count += strings.Count(haystack, kw)
		}
		if count > bestCount {
			best, bestCount = phase, count
		}
	}
	if bestCount == 0 {
		return ""
	}
	return best
}

func detectLanguage(text string) domain.Language {
	var best domain.Language
	bestCount := 0
	for _, lang := range languageOrder {
		count := 0
		for _, r := range languageMarkers[lang] {
			count += strings.Count(text, string(r))
		}
		if count > bestCount {
			best, bestCount = lang, count
		}
	}
	if bestCount == 0 {
		return domain.LanguageEN
	}
	return best
}
