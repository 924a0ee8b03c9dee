package scoring

// DefaultAlpha is the default mixing coefficient between the model
// probability and the domain-knowledge subscore.
const DefaultAlpha = 0.7

// Blend mixes the model default probability with the persona subscore
// into a final default probability:
//
//	final = alpha*gbmProb + (1-alpha)*(1-subscore)
//
// alpha=1.0 disables domain-knowledge blending entirely; alpha=0.0
// disables the model component entirely. All inputs are clamped to
// [0,1], so the result is always in [0,1]. Pure and deterministic.
//
// Treating (1 - subscore) as a probability substitute assumes the two
// operands are on comparable scales; alpha is a tunable policy
// parameter, not a calibrated quantity.
func Blend(gbmProb, personaSubscore, alpha float64) float64 {
	alpha = clamp01(alpha)
	gbmProb = clamp01(gbmProb)
	personaSubscore = clamp01(personaSubscore)
	return alpha*gbmProb + (1-alpha)*(1-personaSubscore)
}
