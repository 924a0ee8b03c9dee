package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultArtifactValidates(t *testing.T) {
	require.NoError(t, DefaultArtifact().Validate())
}

func TestPredictRange(t *testing.T) {
	artifact := DefaultArtifact()

	vectors := []map[string]float64{
		{},
		{"previous_defaults_count": 0, "pan_verified": 1, "gstin_verified": 1, "business_age_years": 8},
		{"previous_defaults_count": 3, "bounced_cheques_count": 5, "legal_proceedings_flag": 1},
		{"previous_defaults_count": 1, "bounced_cheques_count": 1, "business_age_years": 1},
	}

	for _, features := range vectors {
		p := artifact.Predict(features)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestPredictOrdersRisk(t *testing.T) {
	artifact := DefaultArtifact()

	clean := artifact.Predict(map[string]float64{
		"previous_defaults_count": 0,
		"bounced_cheques_count":   0,
		"pan_verified":            1,
		"gstin_verified":          1,
		"business_age_years":      8,
	})
	derogatory := artifact.Predict(map[string]float64{
		"previous_defaults_count": 3,
		"bounced_cheques_count":   5,
		"legal_proceedings_flag":  1,
		"business_age_years":      0.5,
	})

	assert.Less(t, clean, derogatory)
}

func TestPredictWithAttributionIsAdditive(t *testing.T) {
	artifact := DefaultArtifact()

	vectors := []map[string]float64{
		{},
		{"previous_defaults_count": 0, "pan_verified": 1, "gstin_verified": 1, "business_age_years": 8},
		{"previous_defaults_count": 2, "bounced_cheques_count": 3, "legal_proceedings_flag": 1},
	}

	for _, features := range vectors {
		prob, base, contributions, exact := artifact.PredictWithAttribution(features)
		require.True(t, exact)

		sum := base
		for _, c := range contributions {
			sum += c
		}
		assert.InDelta(t, prob, sum, 1e-12, "base + contributions must equal the probability")

		// Attribution must agree with plain inference.
		assert.InDelta(t, artifact.Predict(features), prob, 1e-12)
	}
}

func TestPredictWithAttributionFlagsClamping(t *testing.T) {
	artifact := &Artifact{
		Version:   "test_clamp",
		BaseScore: -0.5,
		Trees: []Tree{
			{Nodes: []Node{{Left: -1, Right: -1, Value: 0.1}}},
		},
	}
	require.NoError(t, artifact.Validate())

	prob, _, _, exact := artifact.PredictWithAttribution(nil)
	assert.Equal(t, 0.0, prob)
	assert.False(t, exact, "clamped output must not claim an exact decomposition")
}

func TestArtifactValidateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
	}{
		{
			name:     "missing version",
			artifact: Artifact{Trees: []Tree{{Nodes: []Node{{Left: -1, Right: -1}}}}},
		},
		{
			name:     "no trees",
			artifact: Artifact{Version: "v1"},
		},
		{
			name:     "empty tree",
			artifact: Artifact{Version: "v1", Trees: []Tree{{}}},
		},
		{
			name: "internal node without feature",
			artifact: Artifact{Version: "v1", Trees: []Tree{
				{Nodes: []Node{{Left: 1, Right: 2}, {Left: -1, Right: -1}, {Left: -1, Right: -1}}},
			}},
		},
		{
			name: "child index out of range",
			artifact: Artifact{Version: "v1", Trees: []Tree{
				{Nodes: []Node{{Feature: "x", Left: 1, Right: 5}, {Left: -1, Right: -1}}},
			}},
		},
		{
			name: "child index not after parent",
			artifact: Artifact{Version: "v1", Trees: []Tree{
				{Nodes: []Node{{Feature: "x", Left: 0, Right: 1}, {Left: -1, Right: -1}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.artifact.Validate())
		})
	}
}
