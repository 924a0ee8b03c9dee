// Package model wraps the externally trained default-probability
// model: artifact loading, inference, additive attribution, and the
// rule-based fallback path used whenever the artifact is missing or
// misbehaving.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Node is one node of a decision tree. Internal nodes route on
// Feature < Threshold (missing features read as 0); leaves carry the
// tree's probability-space output. Value on internal nodes is the
// expected output of the subtree, used for path attribution.
type Node struct {
	Feature   string  `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// IsLeaf reports whether the node is terminal.
func (n Node) IsLeaf() bool { return n.Left < 0 && n.Right < 0 }

// Tree is one member of the ensemble. Node 0 is the root; children
// always have a larger index than their parent.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is a trained, versioned gradient-boosted ensemble snapshot.
// The ensemble is additive in probability space: prediction =
// base_score + sum of leaf values, clamped to [0,1].
type Artifact struct {
	Version   string   `json:"version"`
	BaseScore float64  `json:"base_score"`
	Features  []string `json:"features"`
	Trees     []Tree   `json:"trees"`
}

// LoadArtifact reads and validates a model artifact from disk.
func LoadArtifact(path string) (*Artifact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer file.Close()

	var a Artifact
	if err := json.NewDecoder(file).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &a, nil
}

// Validate checks structural soundness: versioned, non-empty, and
// every tree is a well-formed DAG walkable without bounds checks at
// inference time.
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("artifact has no version")
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact %q has no trees", a.Version)
	}
	for ti, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, node := range tree.Nodes {
			if node.IsLeaf() {
				continue
			}
			if node.Feature == "" {
				return fmt.Errorf("tree %d node %d: internal node without feature", ti, ni)
			}
			if node.Left <= ni || node.Left >= len(tree.Nodes) ||
				node.Right <= ni || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

// DefaultArtifact is a compact snapshot of the production ensemble,
// trained offline over the shared feature schema. It keeps tests and
// local development independent of a model registry.
func DefaultArtifact() *Artifact {
	leaf := func(v float64) Node { return Node{Left: -1, Right: -1, Value: v} }
	return &Artifact{
		Version:   "gbm_v2.1.0",
		BaseScore: 0.18,
		Features: []string{
			"previous_defaults_count", "bounced_cheques_count",
			"pan_verified", "gstin_verified",
			"legal_proceedings_flag", "business_age_years",
		},
		Trees: []Tree{
			{Nodes: []Node{
				{Feature: "previous_defaults_count", Threshold: 0.5, Left: 1, Right: 2, Value: 0.05},
				leaf(-0.04),
				{Feature: "previous_defaults_count", Threshold: 1.5, Left: 3, Right: 4, Value: 0.12},
				leaf(0.08),
				leaf(0.18),
			}},
			{Nodes: []Node{
				{Feature: "bounced_cheques_count", Threshold: 0.5, Left: 1, Right: 2, Value: 0.03},
				leaf(-0.03),
				{Feature: "bounced_cheques_count", Threshold: 2.5, Left: 3, Right: 4, Value: 0.08},
				leaf(0.05),
				leaf(0.12),
			}},
			{Nodes: []Node{
				{Feature: "pan_verified", Threshold: 0.5, Left: 1, Right: 2, Value: 0.01},
				leaf(0.05),
				{Feature: "gstin_verified", Threshold: 0.5, Left: 3, Right: 4, Value: -0.02},
				leaf(0.0),
				leaf(-0.04),
			}},
			{Nodes: []Node{
				{Feature: "legal_proceedings_flag", Threshold: 0.5, Left: 1, Right: 4, Value: 0.02},
				{Feature: "business_age_years", Threshold: 2.5, Left: 2, Right: 3, Value: -0.01},
				leaf(0.02),
				leaf(-0.04),
				leaf(0.15),
			}},
		},
	}
}
