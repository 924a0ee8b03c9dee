package scoring

import (
	"errors"
	"fmt"
	"math"
)

// weightSumTolerance is the allowed drift from 1.0 for any weight
// table.
const weightSumTolerance = 1e-6

// ErrUnknownPersona is returned when a persona identifier is not in
// the configured table. Callers are expected to supply a default
// persona instead of letting this propagate silently.
var ErrUnknownPersona = errors.New("unknown persona or segment")

// PersonaWeights maps categories to their share of the persona
// subscore. Weights for a persona sum to 1.0.
type PersonaWeights map[Category]float64

// Persona is one borrower archetype (consumer) or business segment
// (MSME) with its category weight vector.
type Persona struct {
	ID      string         `yaml:"id" json:"id"`
	Domain  Domain         `yaml:"domain" json:"domain"`
	Weights PersonaWeights `yaml:"weights" json:"weights"`
}

// ResolvePersona looks up a persona by identifier.
func ResolvePersona(personas map[string]Persona, id string) (Persona, error) {
	p, ok := personas[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	return p, nil
}

// PersonaSubscore combines category scores with persona weights into
// one goodness value in [0,1] (higher means lower risk).
func PersonaSubscore(categoryScores map[Category]float64, weights PersonaWeights) float64 {
	s := 0.0
	for cat, w := range weights {
		s += w * categoryScores[cat]
	}
	return clamp01(s)
}

// validateWeightSum checks the sum-to-1.0 invariant shared by persona
// weights, category group weights and intra-group feature weights.
func validateWeightSum(sum float64, what string) error {
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%s weights sum to %.9f, want 1.0", what, sum)
	}
	return nil
}

func (p Persona) validate(categories []CategorySpec) error {
	if len(p.Weights) == 0 {
		return fmt.Errorf("persona %q has no weights", p.ID)
	}
	known := make(map[Category]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	sum := 0.0
	for cat, w := range p.Weights {
		if !known[cat] {
			return fmt.Errorf("persona %q references unknown category %q", p.ID, cat)
		}
		if w < 0 {
			return fmt.Errorf("persona %q has negative weight for %q", p.ID, cat)
		}
		sum += w
	}
	return validateWeightSum(sum, fmt.Sprintf("persona %q", p.ID))
}
