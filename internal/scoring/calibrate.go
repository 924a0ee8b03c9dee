package scoring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Score range of the calibrated output.
const (
	ScoreFloor   = 300
	ScoreCeiling = 900
)

// Anchor fixes one point of the probability-to-score curve.
type Anchor struct {
	Prob  float64 `yaml:"prob" json:"prob"`
	Score float64 `yaml:"score" json:"score"`
}

// DefaultAnchors map expected default-rate buckets to score levels.
// The endpoints pin the curve to the full [300,900] range.
func DefaultAnchors() []Anchor {
	return []Anchor{
		{Prob: 0.00, Score: 900},
		{Prob: 0.02, Score: 850},
		{Prob: 0.05, Score: 750},
		{Prob: 0.10, Score: 650},
		{Prob: 0.20, Score: 550},
		{Prob: 0.35, Score: 400},
		{Prob: 1.00, Score: 300},
	}
}

// Calibrator maps a final default probability to an integer credit
// score via monotone piecewise-linear interpolation between anchors.
type Calibrator struct {
	curve   interp.PiecewiseLinear
	minProb float64
	maxProb float64
}

// NewCalibrator validates the anchors (strictly increasing
// probability, non-increasing score) and fits the curve.
func NewCalibrator(anchors []Anchor) (*Calibrator, error) {
	if len(anchors) < 2 {
		return nil, fmt.Errorf("calibration needs at least 2 anchors, got %d", len(anchors))
	}
	xs := make([]float64, len(anchors))
	ys := make([]float64, len(anchors))
	for i, a := range anchors {
		if a.Prob < 0 || a.Prob > 1 {
			return nil, fmt.Errorf("anchor %d: probability %.4f outside [0,1]", i, a.Prob)
		}
		if a.Score < ScoreFloor || a.Score > ScoreCeiling {
			return nil, fmt.Errorf("anchor %d: score %.0f outside [%d,%d]", i, a.Score, ScoreFloor, ScoreCeiling)
		}
		if i > 0 {
			if a.Prob <= anchors[i-1].Prob {
				return nil, fmt.Errorf("anchor probabilities must be strictly increasing at index %d", i)
			}
			if a.Score > anchors[i-1].Score {
				return nil, fmt.Errorf("anchor scores must be non-increasing at index %d", i)
			}
		}
		xs[i] = a.Prob
		ys[i] = a.Score
	}

	c := &Calibrator{minProb: xs[0], maxProb: xs[len(xs)-1]}
	if err := c.curve.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fit calibration curve: %w", err)
	}
	return c, nil
}

// Calibrate maps a probability to an integer score in [300,900].
// Higher probability never yields a higher score. NaN is treated as
// maximum risk.
func (c *Calibrator) Calibrate(prob float64) int {
	if math.IsNaN(prob) {
		prob = c.maxProb
	}
	if prob < c.minProb {
		prob = c.minProb
	}
	if prob > c.maxProb {
		prob = c.maxProb
	}
	score := int(math.Round(c.curve.Predict(prob)))
	if score < ScoreFloor {
		score = ScoreFloor
	}
	if score > ScoreCeiling {
		score = ScoreCeiling
	}
	return score
}
