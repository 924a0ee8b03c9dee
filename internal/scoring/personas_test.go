package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePersona(t *testing.T) {
	personas := DefaultPersonas()

	t.Run("known persona", func(t *testing.T) {
		p, err := ResolvePersona(personas, "salaried_prime")
		require.NoError(t, err)
		assert.Equal(t, "salaried_prime", p.ID)
		assert.Equal(t, DomainConsumer, p.Domain)
	})

	t.Run("unknown persona", func(t *testing.T) {
		_, err := ResolvePersona(personas, "freelance_astronaut")
		assert.ErrorIs(t, err, ErrUnknownPersona)
	})

	t.Run("empty persona", func(t *testing.T) {
		_, err := ResolvePersona(personas, "")
		assert.ErrorIs(t, err, ErrUnknownPersona)
	})
}

func TestPersonaSubscore(t *testing.T) {
	weights := PersonaWeights{
		CategoryIdentity:       0.5,
		CategoryBankingConduct: 0.5,
	}

	tests := []struct {
		name   string
		scores map[Category]float64
		want   float64
	}{
		{
			name:   "weighted mix",
			scores: map[Category]float64{CategoryIdentity: 1.0, CategoryBankingConduct: 0.5},
			want:   0.75,
		},
		{
			name:   "all neutral",
			scores: map[Category]float64{CategoryIdentity: 0.5, CategoryBankingConduct: 0.5},
			want:   0.5,
		},
		{
			name:   "missing categories read zero",
			scores: map[Category]float64{CategoryIdentity: 1.0},
			want:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PersonaSubscore(tt.scores, weights), 1e-12)
		})
	}
}

func TestDefaultPersonaWeightsSumToOne(t *testing.T) {
	personas := DefaultPersonas()
	require.Len(t, personas, 10)

	for id, p := range personas {
		sum := 0.0
		for _, w := range p.Weights {
			assert.GreaterOrEqual(t, w, 0.0, "persona %s", id)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, weightSumTolerance, "persona %s weights must sum to 1", id)
		assert.Len(t, p.Weights, 7, "persona %s must weight all seven categories", id)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}
