package scoring

// Direction declares which way a raw feature points on the risk axis.
type Direction string

const (
	HigherIsBetter Direction = "higher_is_better"
	LowerIsBetter  Direction = "lower_is_better"
)

// FeatureSpec declares how a raw feature maps to [0,1] goodness.
type FeatureSpec struct {
	Key       string    `yaml:"key" json:"key"`
	MinBound  float64   `yaml:"min_bound" json:"min_bound"`
	MaxBound  float64   `yaml:"max_bound" json:"max_bound"`
	Direction Direction `yaml:"direction" json:"direction"`
	IsBoolean bool      `yaml:"is_boolean" json:"is_boolean"`
}

// Schema is the versioned feature schema for one domain.
type Schema map[string]FeatureSpec

// Normalize maps a raw value to [0,1] goodness ("higher = lower
// risk"). Out-of-bound values clamp rather than error; the clamped
// return flag feeds the data-confidence metadata.
func Normalize(raw float64, spec FeatureSpec) (value float64, clamped bool) {
	if spec.IsBoolean {
		v := 0.0
		if raw != 0 {
			v = 1.0
		}
		if spec.Direction == LowerIsBetter {
			v = 1 - v
		}
		return v, false
	}

	span := spec.MaxBound - spec.MinBound
	if span <= 0 {
		return 0.5, false
	}
	v := (raw - spec.MinBound) / span
	if v < 0 {
		v, clamped = 0, true
	}
	if v > 1 {
		v, clamped = 1, true
	}
	if spec.Direction == LowerIsBetter {
		v = 1 - v
	}
	return v, clamped
}

// NormalizeAll normalizes every raw feature the schema knows about.
// Unknown keys are skipped so schemas can evolve ahead of upstream
// extractors. Returns the goodness map and how many raw values had to
// be clamped.
func NormalizeAll(features map[string]float64, schema Schema) (map[string]float64, int) {
	out := make(map[string]float64, len(features))
	clampedCount := 0
	for key, raw := range features {
		spec, ok := schema[key]
		if !ok {
			continue
		}
		v, clamped := Normalize(raw, spec)
		if clamped {
			clampedCount++
		}
		out[key] = v
	}
	return out, clampedCount
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
