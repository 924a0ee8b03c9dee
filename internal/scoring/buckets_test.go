package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		score    int
		risk     RiskCategory
		decision Decision
	}{
		{900, RiskVeryLow, DecisionFastTrack},
		{750, RiskVeryLow, DecisionFastTrack},
		{749, RiskLow, DecisionApprove},
		{650, RiskLow, DecisionApprove},
		{649, RiskMedium, DecisionConditional},
		{550, RiskMedium, DecisionConditional},
		{549, RiskHigh, DecisionReview},
		{450, RiskHigh, DecisionReview},
		{449, RiskVeryHigh, DecisionDecline},
		{300, RiskVeryHigh, DecisionDecline},
	}

	for _, tt := range tests {
		risk, decision := th.Categorize(tt.score)
		assert.Equal(t, tt.risk, risk, "score %d", tt.score)
		assert.Equal(t, tt.decision, decision, "score %d", tt.score)
	}
}

func TestCategorizeTotalOverScoreRange(t *testing.T) {
	th := DefaultThresholds()

	for score := ScoreFloor; score <= ScoreCeiling; score++ {
		risk, decision := th.Categorize(score)
		assert.NotEmpty(t, risk, "score %d", score)
		assert.NotEmpty(t, decision, "score %d", score)
	}
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().validate())

	bad := Thresholds{VeryLow: 650, Low: 650, Medium: 550, High: 450}
	assert.Error(t, bad.validate())
}
