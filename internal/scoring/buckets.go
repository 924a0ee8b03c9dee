package scoring

// Thresholds are the inclusive lower score bounds of the four upper
// risk buckets; everything below High is very-high risk. Products can
// override them per domain.
type Thresholds struct {
	VeryLow int `yaml:"very_low" json:"very_low"`
	Low     int `yaml:"low" json:"low"`
	Medium  int `yaml:"medium" json:"medium"`
	High    int `yaml:"high" json:"high"`
}

// DefaultThresholds returns the documented bucket boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{VeryLow: 750, Low: 650, Medium: 550, High: 450}
}

func (t Thresholds) validate() error {
	if !(t.VeryLow > t.Low && t.Low > t.Medium && t.Medium > t.High) {
		return errThresholdOrder
	}
	return nil
}

// Categorize maps a score to its risk bucket and recommended
// decision. Total over the whole score domain: every integer maps to
// exactly one bucket.
func (t Thresholds) Categorize(score int) (RiskCategory, Decision) {
	switch {
	case score >= t.VeryLow:
		return RiskVeryLow, DecisionFastTrack
	case score >= t.Low:
		return RiskLow, DecisionApprove
	case score >= t.Medium:
		return RiskMedium, DecisionConditional
	case score >= t.High:
		return RiskHigh, DecisionReview
	default:
		return RiskVeryHigh, DecisionDecline
	}
}
