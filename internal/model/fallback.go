package model

// FallbackVersion tags responses produced by the rule-based estimate
// so downstream consumers can distinguish heuristic scores from
// model-based ones.
const FallbackVersion = "local_fallback_v1"

// Fallback probability bounds. The heuristic never claims certainty
// in either direction.
const (
	fallbackFloor   = 0.01
	fallbackCeiling = 0.95
)

// FallbackProbability is the deterministic rule-based default
// estimate used when the model artifact is unavailable. It reads a
// documented subset of the raw features: vintage, verification flags,
// cash position, prior defaults and bounced payments. Missing keys
// read as 0.
func FallbackProbability(features map[string]float64) float64 {
	p := 0.30

	age := features["business_age_years"]
	if tenure := features["employment_tenure_years"]; tenure > age {
		age = tenure
	}
	switch {
	case age >= 5:
		p -= 0.08
	case age >= 2:
		p -= 0.04
	case age < 1:
		p += 0.08
	}

	if features["gstin_verified"] != 0 {
		p -= 0.05
	}
	if features["pan_verified"] != 0 {
		p -= 0.05
	}

	defaults := features["previous_defaults_count"]
	if defaults > 0 {
		penalty := 0.12 * defaults
		if penalty > 0.36 {
			penalty = 0.36
		}
		p += penalty
	} else {
		p -= 0.08
	}

	bounced := features["bounced_cheques_count"]
	if bounced > 0 {
		penalty := 0.05 * bounced
		if penalty > 0.25 {
			penalty = 0.25
		}
		p += penalty
	} else {
		p -= 0.05
	}

	if features["legal_proceedings_flag"] != 0 {
		p += 0.15
	}
	if features["avg_monthly_balance"] >= 50_000 {
		p -= 0.05
	}

	if p < fallbackFloor {
		p = fallbackFloor
	}
	if p > fallbackCeiling {
		p = fallbackCeiling
	}
	return p
}
