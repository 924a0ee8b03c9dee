package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackProbabilityDeterministic(t *testing.T) {
	features := map[string]float64{
		"business_age_years":      3,
		"gstin_verified":          1,
		"previous_defaults_count": 1,
	}

	first := FallbackProbability(features)
	second := FallbackProbability(features)
	assert.Equal(t, first, second)
}

func TestFallbackProbabilityBounds(t *testing.T) {
	tests := []struct {
		name     string
		features map[string]float64
	}{
		{"empty vector", map[string]float64{}},
		{
			"best case clamps to floor",
			map[string]float64{
				"business_age_years":      10,
				"gstin_verified":          1,
				"pan_verified":            1,
				"previous_defaults_count": 0,
				"bounced_cheques_count":   0,
				"avg_monthly_balance":     100000,
			},
		},
		{
			"worst case clamps to ceiling",
			map[string]float64{
				"business_age_years":      0,
				"previous_defaults_count": 5,
				"bounced_cheques_count":   8,
				"legal_proceedings_flag":  1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FallbackProbability(tt.features)
			assert.GreaterOrEqual(t, p, fallbackFloor)
			assert.LessOrEqual(t, p, fallbackCeiling)
		})
	}
}

func TestFallbackProbabilityOrdering(t *testing.T) {
	clean := FallbackProbability(map[string]float64{
		"business_age_years":      8,
		"gstin_verified":          1,
		"pan_verified":            1,
		"previous_defaults_count": 0,
		"bounced_cheques_count":   0,
		"avg_monthly_balance":     80000,
	})
	risky := FallbackProbability(map[string]float64{
		"business_age_years":      0.5,
		"previous_defaults_count": 2,
		"bounced_cheques_count":   3,
		"legal_proceedings_flag":  1,
	})

	assert.Less(t, clean, risky)
	assert.Equal(t, fallbackFloor, clean, "a fully clean profile bottoms out at the floor")
}

func TestFallbackUsesConsumerTenure(t *testing.T) {
	// employment_tenure_years substitutes for business age on consumer
	// profiles.
	withTenure := FallbackProbability(map[string]float64{"employment_tenure_years": 6})
	without := FallbackProbability(map[string]float64{})

	assert.Less(t, withTenure, without)
}
