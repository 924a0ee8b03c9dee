package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		raw         float64
		spec        FeatureSpec
		wantValue   float64
		wantClamped bool
	}{
		{
			name:      "midpoint higher is better",
			raw:       5,
			spec:      FeatureSpec{MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
			wantValue: 0.5,
		},
		{
			name:      "midpoint lower is better inverts",
			raw:       5,
			spec:      FeatureSpec{MinBound: 0, MaxBound: 10, Direction: LowerIsBetter},
			wantValue: 0.5,
		},
		{
			name:      "max bound higher is better",
			raw:       10,
			spec:      FeatureSpec{MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
			wantValue: 1,
		},
		{
			name:      "max bound lower is better",
			raw:       10,
			spec:      FeatureSpec{MinBound: 0, MaxBound: 10, Direction: LowerIsBetter},
			wantValue: 0,
		},
		{
			name:        "above max clamps",
			raw:         25,
			spec:        FeatureSpec{MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
			wantValue:   1,
			wantClamped: true,
		},
		{
			name:        "below min clamps",
			raw:         -3,
			spec:        FeatureSpec{MinBound: 0, MaxBound: 10, Direction: HigherIsBetter},
			wantValue:   0,
			wantClamped: true,
		},
		{
			name:        "negative beyond bound with inversion",
			raw:         -1,
			spec:        FeatureSpec{MinBound: 0, MaxBound: 10, Direction: LowerIsBetter},
			wantValue:   1,
			wantClamped: true,
		},
		{
			name:      "boolean true higher is better",
			raw:       1,
			spec:      FeatureSpec{IsBoolean: true, Direction: HigherIsBetter},
			wantValue: 1,
		},
		{
			name:      "boolean nonzero counts as true",
			raw:       7,
			spec:      FeatureSpec{IsBoolean: true, Direction: HigherIsBetter},
			wantValue: 1,
		},
		{
			name:      "boolean true lower is better",
			raw:       1,
			spec:      FeatureSpec{IsBoolean: true, Direction: LowerIsBetter},
			wantValue: 0,
		},
		{
			name:      "boolean false lower is better",
			raw:       0,
			spec:      FeatureSpec{IsBoolean: true, Direction: LowerIsBetter},
			wantValue: 1,
		},
		{
			name:      "degenerate span is neutral",
			raw:       42,
			spec:      FeatureSpec{MinBound: 5, MaxBound: 5, Direction: HigherIsBetter},
			wantValue: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, clamped := Normalize(tt.raw, tt.spec)
			assert.InDelta(t, tt.wantValue, value, 1e-12)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	schema := Schema{
		"income": {Key: "income", MinBound: 0, MaxBound: 100, Direction: HigherIsBetter},
		"flag":   {Key: "flag", IsBoolean: true, Direction: LowerIsBetter},
	}

	normalized, clamped := NormalizeAll(map[string]float64{
		"income":  150, // clamps
		"flag":    0,
		"unknown": 99, // skipped
	}, schema)

	assert.Equal(t, 1, clamped)
	assert.Len(t, normalized, 2)
	assert.InDelta(t, 1.0, normalized["income"], 1e-12)
	assert.InDelta(t, 1.0, normalized["flag"], 1e-12)
	assert.NotContains(t, normalized, "unknown")
}
