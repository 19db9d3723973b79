package perftables

import (
	"strings"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// sexAliases maps raw table or query values onto the sex enum.
// Commercial tables mix English, French and unicode sex symbols.
var sexAliases = map[string]domain.Sex{
	"male":         domain.SexMale,
	"males":        domain.SexMale,
	"m":            domain.SexMale,
	"mâle":         domain.SexMale,
	"mâles":        domain.SexMale,
	"♂":            domain.SexMale,
	"female":       domain.SexFemale,
	"females":      domain.SexFemale,
	"f":            domain.SexFemale,
	"femelle":      domain.SexFemale,
	"femelles":     domain.SexFemale,
	"♀":            domain.SexFemale,
	"as_hatched":   domain.SexAsHatched,
	"as hatched":   domain.SexAsHatched,
	"as-hatched":   domain.SexAsHatched,
	"ah":           domain.SexAsHatched,
	"mixed":        domain.SexAsHatched,
	"mixte":        domain.SexAsHatched,
	"straight run": domain.SexAsHatched,
}

var unitAliases = map[string]domain.Unit{
	"metric":   domain.UnitMetric,
	"métrique": domain.UnitMetric,
	"si":       domain.UnitMetric,
	"imperial": domain.UnitImperial,
	"imp":      domain.UnitImperial,
	"us":       domain.UnitImperial,
}

// CanonSex maps a raw sex value to the enum. Unknown values fall back
// to as-hatched, the usual default of published growth curves.
func CanonSex(raw string) domain.Sex {
	if sex, ok := sexAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return sex
	}
	return domain.SexAsHatched
}

// CanonUnit maps a raw unit value to the enum, defaulting to metric.
func CanonUnit(raw string) domain.Unit {
	if unit, ok := unitAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return unit
	}
	return domain.UnitMetric
}

// CanonLine slugs a commercial line name: lowercased with separators
// stripped, so "Cobb 500", "cobb-500" and "COBB_500" all key the same
// table.
func CanonLine(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '-', '_', '.', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
