package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
)

var errThresholdOrder = errors.New("risk thresholds must be strictly decreasing from very_low to high")

// TopKContributors is how many contributors each direction of the
// explanation carries.
const TopKContributors = 5

// Config is the complete, immutable scoring configuration: feature
// schemas, category structures, persona weight tables, calibration
// anchors and risk thresholds. It is constructed once, validated, and
// injected into the engine; replacing it is a whole-table atomic swap.
type Config struct {
	Schemas      map[Domain]Schema           `yaml:"schemas" json:"schemas"`
	Categories   map[Domain][]CategorySpec   `yaml:"categories" json:"categories"`
	Personas     map[string]Persona          `yaml:"personas" json:"personas"`
	Anchors      []Anchor                    `yaml:"anchors" json:"anchors"`
	Thresholds   map[Domain]Thresholds       `yaml:"thresholds" json:"thresholds"`
	DefaultAlpha float64                     `yaml:"default_alpha" json:"default_alpha"`
}

// Validate enforces every load-time invariant: persona and weight
// tables sum to 1.0, categories reference schema features, anchors
// form a monotone curve and thresholds are ordered. A Config that
// fails validation must never reach the engine.
func (c *Config) Validate() error {
	if c.DefaultAlpha < 0 || c.DefaultAlpha > 1 {
		return fmt.Errorf("default alpha %.4f outside [0,1]", c.DefaultAlpha)
	}
	for domain, specs := range c.Categories {
		schema, ok := c.Schemas[domain]
		if !ok {
			return fmt.Errorf("domain %q has categories but no schema", domain)
		}
		for _, spec := range specs {
			if err := validateCategory(spec, schema); err != nil {
				return err
			}
		}
		thresholds, ok := c.Thresholds[domain]
		if !ok {
			return fmt.Errorf("domain %q has no risk thresholds", domain)
		}
		if err := thresholds.validate(); err != nil {
			return fmt.Errorf("domain %q: %w", domain, err)
		}
	}
	for id, p := range c.Personas {
		if id != p.ID {
			return fmt.Errorf("persona table key %q does not match persona id %q", id, p.ID)
		}
		specs, ok := c.Categories[p.Domain]
		if !ok {
			return fmt.Errorf("persona %q references unknown domain %q", id, p.Domain)
		}
		if err := p.validate(specs); err != nil {
			return err
		}
	}
	if _, err := NewCalibrator(c.Anchors); err != nil {
		return err
	}
	return nil
}

func validateCategory(spec CategorySpec, schema Schema) error {
	if len(spec.Groups) == 0 {
		return fmt.Errorf("category %q has no parameter groups", spec.ID)
	}
	groupSum := 0.0
	for _, g := range spec.Groups {
		if len(g.Features) == 0 {
			return fmt.Errorf("category %q group %q has no features", spec.ID, g.Name)
		}
		groupSum += g.Weight
		featureSum := 0.0
		for _, f := range g.Features {
			if _, ok := schema[f.Key]; !ok {
				return fmt.Errorf("category %q group %q references feature %q missing from schema", spec.ID, g.Name, f.Key)
			}
			featureSum += f.Weight
		}
		if err := validateWeightSum(featureSum, fmt.Sprintf("category %q group %q", spec.ID, g.Name)); err != nil {
			return err
		}
	}
	return validateWeightSum(groupSum, fmt.Sprintf("category %q group", spec.ID))
}

type engineState struct {
	cfg        *Config
	calibrator *Calibrator
}

// Engine runs the scoring pipeline: normalize → aggregate → persona
// subscore ∥ model probability → blend → calibrate → bucket, plus the
// attribution report. Scoring is pure and lock-free; the configuration
// is shared read-only and replaced atomically on hot swap.
type Engine struct {
	state atomic.Pointer[engineState]
	model ProbabilityModel
}

// NewEngine validates the configuration and wires the default
// probability model.
func NewEngine(cfg *Config, model ProbabilityModel) (*Engine, error) {
	if model == nil {
		return nil, errors.New("engine requires a probability model")
	}
	e := &Engine{model: model}
	if err := e.SwapConfig(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// SwapConfig validates and atomically installs a new configuration.
// In-flight requests finish against the table set they started with.
func (e *Engine) SwapConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil scoring config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	calibrator, err := NewCalibrator(cfg.Anchors)
	if err != nil {
		return err
	}
	e.state.Store(&engineState{cfg: cfg, calibrator: calibrator})
	return nil
}

// Config returns the currently installed configuration.
func (e *Engine) Config() *Config {
	return e.state.Load().cfg
}

// Personas lists the configured personas sorted by identifier.
func (e *Engine) Personas() []Persona {
	cfg := e.state.Load().cfg
	out := make([]Persona, 0, len(cfg.Personas))
	for _, p := range cfg.Personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Score runs one scoring request through the full pipeline. It fails
// only before any computation begins (unknown persona); once past
// validation it always returns a complete, in-range response.
func (e *Engine) Score(ctx context.Context, req Request) (*Response, error) {
	state := e.state.Load()
	cfg := state.cfg

	persona, err := ResolvePersona(cfg.Personas, req.Persona)
	if err != nil {
		return nil, err
	}

	schema := cfg.Schemas[persona.Domain]
	specs := cfg.Categories[persona.Domain]

	normalized, clampedCount := NormalizeAll(req.Features, schema)
	categoryScores, withData := AggregateAll(normalized, specs)
	subscore := PersonaSubscore(categoryScores, persona.Weights)

	prediction := e.model.Predict(ctx, req.Features)

	alpha := cfg.DefaultAlpha
	if req.Alpha != nil {
		alpha = clamp01(*req.Alpha)
	}
	finalProb := Blend(prediction.Probability, subscore, alpha)
	score := state.calibrator.Calibrate(finalProb)
	risk, decision := cfg.Thresholds[persona.Domain].Categorize(score)

	resp := &Response{
		Score:                 score,
		ProbDefault90DPD:      finalProb,
		RiskCategory:          risk,
		RecommendedDecision:   decision,
		CategoryContributions: categoryContributions(categoryScores, persona.Weights),
		ComponentScores: map[string]float64{
			"persona_subscore":    subscore,
			"gbm_probability":     prediction.Probability,
			"blended_probability": finalProb,
			"alpha":               alpha,
		},
		ModelVersion:   prediction.ModelVersion,
		DataConfidence: dataConfidence(withData, len(specs), clampedCount),
		Warnings:       dataWarnings(withData, len(specs), clampedCount),
	}
	if req.IncludeExplanation {
		resp.Explanation = buildExplanation(prediction, req.Features)
	}
	return resp, nil
}

// categoryContributions renders the persona-weighted category scores
// as non-negative shares that sum to 1.0 for display. When every
// category score is zero the raw persona weights are reported instead.
func categoryContributions(scores map[Category]float64, weights PersonaWeights) map[Category]float64 {
	out := make(map[Category]float64, len(weights))
	total := 0.0
	for cat, w := range weights {
		total += w * scores[cat]
	}
	if total == 0 {
		for cat, w := range weights {
			out[cat] = w
		}
		return out
	}
	for cat, w := range weights {
		out[cat] = w * scores[cat] / total
	}
	return out
}

// dataConfidence summarizes input quality: coverage across categories
// minus a small penalty per clamped raw value. Recorded as metadata,
// never a failure.
func dataConfidence(withData, totalCategories, clampedCount int) float64 {
	if totalCategories == 0 {
		return 0
	}
	coverage := float64(withData) / float64(totalCategories)
	conf := 0.3 + 0.7*coverage - 0.02*float64(clampedCount)
	return clamp01(conf)
}

func dataWarnings(withData, totalCategories, clampedCount int) []string {
	var warnings []string
	if clampedCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%d feature value(s) outside expected bounds were clamped", clampedCount))
	}
	if missing := totalCategories - withData; missing > 0 {
		warnings = append(warnings, fmt.Sprintf("%d categorie(s) had no contributing data; neutral default applied", missing))
	}
	return warnings
}

// buildExplanation extracts the top-K positive and negative
// contributors from the model attribution. Contributions are in
// probability space and, together with the base value, sum to the
// model probability.
func buildExplanation(p Prediction, features map[string]float64) *Explanation {
	if !p.Explained {
		return &Explanation{Available: false}
	}

	all := make([]FeatureContribution, 0, len(p.Contributions))
	for feature, contribution := range p.Contributions {
		all = append(all, FeatureContribution{
			Feature:      feature,
			ShapValue:    contribution,
			FeatureValue: features[feature],
		})
	}
	sort.Slice(all, func(i, j int) bool {
		ai, aj := abs(all[i].ShapValue), abs(all[j].ShapValue)
		if ai != aj {
			return ai > aj
		}
		return all[i].Feature < all[j].Feature
	})

	exp := &Explanation{
		Available:   true,
		BaseValue:   p.BaseValue,
		TopPositive: []FeatureContribution{},
		TopNegative: []FeatureContribution{},
	}
	for _, fc := range all {
		switch {
		case fc.ShapValue > 0 && len(exp.TopPositive) < TopKContributors:
			exp.TopPositive = append(exp.TopPositive, fc)
		case fc.ShapValue < 0 && len(exp.TopNegative) < TopKContributors:
			exp.TopNegative = append(exp.TopNegative, fc)
		}
	}
	return exp
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
