package types

import (
	"fmt"
	"time"

	"github.com/crednova/credit-engine/internal/scoring"
)

// ScoreRequest is the wire request for the score endpoint. Feature
// values may arrive as JSON numbers or booleans; booleans coerce to
// 0/1. Anything else is rejected.
type ScoreRequest struct {
	EntityID           string         `json:"entity_id" binding:"required"`
	Features           map[string]any `json:"features"`
	PersonaOrSegment   string         `json:"persona_or_segment" binding:"required"`
	Alpha              *float64       `json:"alpha,omitempty"`
	IncludeExplanation bool           `json:"include_explanation,omitempty"`
}

// ToEngineRequest validates and coerces the wire request into an
// engine request. Validation failures come back as a field→message
// map so the caller sees every problem at once.
func (r *ScoreRequest) ToEngineRequest() (scoring.Request, map[string]string) {
	problems := make(map[string]string)

	if r.EntityID == "" {
		problems["entity_id"] = "entity_id is required"
	}
	if r.PersonaOrSegment == "" {
		problems["persona_or_segment"] = "persona_or_segment is required"
	}
	if r.Alpha != nil && (*r.Alpha < 0 || *r.Alpha > 1) {
		problems["alpha"] = "alpha must be between 0 and 1"
	}

	features := make(map[string]float64, len(r.Features))
	for key, raw := range r.Features {
		switch v := raw.(type) {
		case float64:
			features[key] = v
		case bool:
			if v {
				features[key] = 1
			}
		case nil:
			// Absent value; treat as not supplied
		default:
			problems["features."+key] = fmt.Sprintf("value must be a number or boolean, got %T", raw)
		}
	}

	if len(problems) > 0 {
		return scoring.Request{}, problems
	}

	return scoring.Request{
		EntityID:           r.EntityID,
		Features:           features,
		Persona:            r.PersonaOrSegment,
		Alpha:              r.Alpha,
		IncludeExplanation: r.IncludeExplanation,
	}, nil
}

// ScoreResponse wraps the engine response with transport metadata.
// The timestamp is stamped here so the engine output stays
// deterministic for identical inputs.
type ScoreResponse struct {
	scoring.Response
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchRowResult is the outcome of one row of a batch upload
type BatchRowResult struct {
	Row      int            `json:"row"`
	EntityID string         `json:"entity_id,omitempty"`
	Result   *ScoreResponse `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// BatchResponse summarizes a processed batch upload
type BatchResponse struct {
	BatchID    string           `json:"batch_id"`
	RowCount   int              `json:"row_count"`
	ErrorCount int              `json:"error_count"`
	Results    []BatchRowResult `json:"results"`
	Timestamp  time.Time        `json:"timestamp"`
}

// PersonaInfo describes one configured persona for discovery
type PersonaInfo struct {
	ID      string             `json:"id"`
	Domain  string             `json:"domain"`
	Weights map[string]float64 `json:"weights"`
}

// WeightsUpdateRequest is the admin request to hot-swap persona
// weights. Weights for each persona must cover every category of its
// domain and sum to 1.
type WeightsUpdateRequest struct {
	Personas map[string]PersonaWeightsUpdate `json:"personas" binding:"required"`
}

// PersonaWeightsUpdate carries replacement weights for one persona
type PersonaWeightsUpdate struct {
	Weights map[string]float64 `json:"weights" binding:"required"`
}
