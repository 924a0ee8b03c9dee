package scoring

import "context"

// Category identifies one of the seven fixed risk-factor groupings.
type Category string

// MSME categories.
const (
	CategoryBusinessIdentity Category = "A_business_identity"
	CategoryRevenue          Category = "B_revenue"
	CategoryCashflow         Category = "C_cashflow"
	CategoryCreditRepayment  Category = "D_credit_repayment"
	CategoryCompliance       Category = "E_compliance"
	CategoryFraudSignals     Category = "F_fraud_signals"
	CategoryExternalSignals  Category = "G_external_signals"
)

// Consumer categories.
const (
	CategoryIdentity          Category = "A_identity"
	CategoryIncome            Category = "B_income"
	CategoryBankingConduct    Category = "C_banking_conduct"
	CategoryRepaymentHistory  Category = "D_repayment_history"
	CategoryObligations       Category = "E_obligations"
	CategoryFraudIndicators   Category = "F_fraud_indicators"
	CategoryExternalFootprint Category = "G_external_footprint"
)

// Domain selects which feature schema and category set apply.
type Domain string

const (
	DomainMSME     Domain = "msme"
	DomainConsumer Domain = "consumer"
)

// RiskCategory is one of the five ordered risk labels.
type RiskCategory string

const (
	RiskVeryLow  RiskCategory = "very_low"
	RiskLow      RiskCategory = "low"
	RiskMedium   RiskCategory = "medium"
	RiskHigh     RiskCategory = "high"
	RiskVeryHigh RiskCategory = "very_high"
)

// Decision is the recommended action for a risk bucket.
type Decision string

const (
	DecisionFastTrack   Decision = "fast_track_approval"
	DecisionApprove     Decision = "approve"
	DecisionConditional Decision = "conditional_approval"
	DecisionReview      Decision = "manual_review"
	DecisionDecline     Decision = "decline"
)

// Request is one scoring call. Features is the merged raw feature
// vector from the upstream extractors; keys absent from the domain
// schema are ignored.
type Request struct {
	EntityID           string
	Features           map[string]float64
	Persona            string
	Alpha              *float64
	IncludeExplanation bool
}

// FeatureContribution is one entry of the attribution report.
// Contributions are in probability space; converting them to
// score-point deltas for display is the caller's concern.
type FeatureContribution struct {
	Feature      string  `json:"feature"`
	ShapValue    float64 `json:"shap_value"`
	FeatureValue float64 `json:"feature_value"`
}

// Explanation is the additive attribution report. Available is false
// when the fallback heuristic produced the probability; callers must
// check it before rendering a waterfall.
type Explanation struct {
	Available   bool                  `json:"available"`
	BaseValue   float64               `json:"base_value"`
	TopPositive []FeatureContribution `json:"top_positive_features"`
	TopNegative []FeatureContribution `json:"top_negative_features"`
}

// Response is the complete scoring output. It is pure: two identical
// requests against the same configuration produce identical responses.
// The service layer stamps a timestamp at the boundary.
type Response struct {
	Score                 int                  `json:"score"`
	ProbDefault90DPD      float64              `json:"prob_default_90dpd"`
	RiskCategory          RiskCategory         `json:"risk_category"`
	RecommendedDecision   Decision             `json:"recommended_decision"`
	CategoryContributions map[Category]float64 `json:"category_contributions"`
	ComponentScores       map[string]float64   `json:"component_scores"`
	ModelVersion          string               `json:"model_version"`
	DataConfidence        float64              `json:"data_confidence"`
	Warnings              []string             `json:"warnings,omitempty"`
	Explanation           *Explanation         `json:"explanation,omitempty"`
}

// Prediction is what the default-probability model hands back. It is
// always fully resolved: adapters recover from model failure
// internally and report the fallback through ModelVersion.
type Prediction struct {
	Probability   float64
	ModelVersion  string
	BaseValue     float64
	Contributions map[string]float64
	Explained     bool
}

// ProbabilityModel estimates the 90dpd default probability for a raw
// feature vector. Implementations must never fail: on any internal
// error they substitute a deterministic heuristic estimate.
type ProbabilityModel interface {
	Predict(ctx context.Context, features map[string]float64) Prediction
}
