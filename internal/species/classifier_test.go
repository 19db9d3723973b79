package species

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

func TestInfer_StrainWins(t *testing.T) {
	c := New()

	sp, conf := c.Infer("poids Ross 308 à 2 semaines")
	assert.Equal(t, domain.SpeciesBroiler, sp)
	assert.Greater(t, conf, 0.0)
}

func TestInfer_CategoryWords(t *testing.T) {
	c := New()

	tests := []struct {
		query string
		want  domain.Species
	}{
		{"programme lumineux pondeuse en ponte", domain.SpeciesLayer},
		{"vaccination canard de barbarie", domain.SpeciesDuck},
		{"densité dinde au démarrage", domain.SpeciesTurkey},
		{"gestion du parent stock reproducteur", domain.SpeciesBreeder},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			sp, conf := c.Infer(tt.query)
			assert.Equal(t, tt.want, sp)
			assert.Greater(t, conf, 0.0)
		})
	}
}

func TestInfer_NoSignal(t *testing.T) {
	c := New()

	sp, conf := c.Infer("what is the meaning of life")
	assert.Empty(t, sp)
	assert.Zero(t, conf)
}

func TestInfer_AmbiguityGuard(t *testing.T) {
	c := New()

	// "dinde" and "canard" score 2 each: a dead heat must not commit.
	sp, conf := c.Infer("comparaison dinde et canard")
	assert.Empty(t, sp)
	assert.Greater(t, conf, 0.0)
	assert.LessOrEqual(t, conf, 0.5*1.0)

	// Confidence is half of what the winner would have scored.
	assert.InDelta(t, 0.1, conf, 1e-9)
}

func TestInfer_ConfidenceCapped(t *testing.T) {
	c := New()

	sp, conf := c.Infer("ross 308 cobb 500 hubbard broiler poulet de chair griller")
	assert.Equal(t, domain.SpeciesBroiler, sp)
	assert.Equal(t, 1.0, conf)
}

func TestInfer_CustomDelta(t *testing.T) {
	c := New(WithAmbiguityDelta(0))

	// With a zero delta the tie resolves to the fixed species order.
	sp, _ := c.Infer("comparaison dinde et canard")
	assert.Equal(t, domain.SpeciesDuck, sp)
}
