package model

// Predict runs ensemble inference over a raw feature vector and
// returns the estimated 90dpd default probability in [0,1]. Features
// missing from the vector read as 0, matching the schema's documented
// neutral default.
func (a *Artifact) Predict(features map[string]float64) float64 {
	return clampProb(a.margin(features))
}

// PredictWithAttribution additionally decomposes the prediction into
// a base value plus per-feature contributions in probability space
// (path attribution: each split shifts the running expectation, and
// the shift is credited to the split feature). The decomposition is
// exact: base + sum(contributions) == probability. exact is false when
// the raw ensemble output had to be clamped into [0,1], in which case
// callers must not report the attribution.
func (a *Artifact) PredictWithAttribution(features map[string]float64) (prob, base float64, contributions map[string]float64, exact bool) {
	contributions = make(map[string]float64)
	base = a.BaseScore
	raw := a.BaseScore
	for _, tree := range a.Trees {
		leaf := tree.walk(features, contributions)
		base += tree.Nodes[0].Value
		raw += leaf
	}
	prob = clampProb(raw)
	return prob, base, contributions, prob == raw
}

func (a *Artifact) margin(features map[string]float64) float64 {
	sum := a.BaseScore
	for _, tree := range a.Trees {
		sum += tree.walk(features, nil)
	}
	return sum
}

// walk routes the feature vector to a leaf. When contributions is
// non-nil, every step credits the change in node expectation to the
// split feature, so that leaf value == root value + credited deltas.
func (t Tree) walk(features map[string]float64, contributions map[string]float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf() {
			return node.Value
		}
		next := node.Right
		if features[node.Feature] < node.Threshold {
			next = node.Left
		}
		if contributions != nil {
			contributions[node.Feature] += t.Nodes[next].Value - node.Value
		}
		idx = next
	}
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
