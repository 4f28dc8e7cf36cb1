package ml

import (
	"encoding/json"
	"fmt"
	"os"

	"vibrodiag/internal/features"
)

// forestArtifact is the on-disk JSON layout of an exported pre-fit
// random forest: flattened node arrays per tree, indexed children, and
// per-node class counts. Leaves are marked with feature index -1.
type forestArtifact struct {
	FeatureNames []string   `json:"feature_names"`
	Classes      []int      `json:"classes"`
	Trees        []treeSpec `json:"trees"`
}

type treeSpec struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"children_left"`
	Right     []int       `json:"children_right"`
	Value     [][]float64 `json:"value"`
}

// Forest is a pre-fit decision-tree ensemble loaded from an artifact
// file. It is read-only after load and safe for concurrent use.
type Forest struct {
	featureNames []string
	classes      []int
	trees        []treeSpec
}

// LoadForest reads and validates a forest artifact from path.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact forestArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if len(artifact.FeatureNames) == 0 {
		return nil, fmt.Errorf("model artifact %s has no feature names", path)
	}
	if len(artifact.Classes) == 0 {
		return nil, fmt.Errorf("model artifact %s has no classes", path)
	}
	if len(artifact.Trees) == 0 {
		return nil, fmt.Errorf("model artifact %s has no trees", path)
	}
	for ti, tree := range artifact.Trees {
		n := len(tree.Feature)
		if len(tree.Threshold) != n || len(tree.Left) != n || len(tree.Right) != n || len(tree.Value) != n {
			return nil, fmt.Errorf("model artifact %s: tree %d has inconsistent node arrays", path, ti)
		}
		for _, row := range tree.Value {
			if len(row) != len(artifact.Classes) {
				return nil, fmt.Errorf("model artifact %s: tree %d node value width mismatch", path, ti)
			}
		}
		for i := 0; i < n; i++ {
			if tree.Feature[i] >= len(artifact.FeatureNames) {
				return nil, fmt.Errorf("model artifact %s: tree %d node %d references feature %d beyond the %d-column schema",
					path, ti, i, tree.Feature[i], len(artifact.FeatureNames))
			}
			if tree.Feature[i] < 0 {
				continue // leaf, children ignored
			}
			// Children must exist and strictly advance, so every
			// traversal terminates at a leaf.
			left, right := tree.Left[i], tree.Right[i]
			if left <= i || left >= n || right <= i || right >= n {
				return nil, fmt.Errorf("model artifact %s: tree %d node %d has out-of-range or non-advancing children [%d, %d]",
					path, ti, i, left, right)
			}
		}
	}

	return &Forest{
		featureNames: artifact.FeatureNames,
		classes:      artifact.Classes,
		trees:        artifact.Trees,
	}, nil
}

// FeatureNames returns the training schema column order.
func (f *Forest) FeatureNames() []string {
	out := make([]string, len(f.featureNames))
	copy(out, f.featureNames)
	return out
}

// Classes returns the ordered class codes the probability vector is
// aligned to.
func (f *Forest) Classes() []int {
	out := make([]int, len(f.classes))
	copy(out, f.classes)
	return out
}

// Predict returns the class code with the highest averaged vote.
func (f *Forest) Predict(vec *features.Vector) (int, error) {
	probs, err := f.PredictProba(vec)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return f.classes[best], nil
}

// PredictProba averages each tree's leaf class distribution. The
// feature vector must contain every name in the training schema; a
// missing column is reported explicitly since it would otherwise be a
// silent schema drift.
func (f *Forest) PredictProba(vec *features.Vector) ([]float64, error) {
	row := make([]float64, len(f.featureNames))
	for i, name := range f.featureNames {
		val, ok := vec.Get(name)
		if !ok {
			return nil, fmt.Errorf("feature %q expected by model is missing from input", name)
		}
		row[i] = val
	}

	probs := make([]float64, len(f.classes))
	for _, tree := range f.trees {
		leaf := f.traverse(tree, row)
		var total float64
		for _, c := range tree.Value[leaf] {
			total += c
		}
		if total == 0 {
			continue
		}
		for i, c := range tree.Value[leaf] {
			probs[i] += c / total
		}
	}
	for i := range probs {
		probs[i] /= float64(len(f.trees))
	}
	return probs, nil
}

// traverse walks one tree to a leaf. NaN feature values follow the
// right branch, matching the convention the artifacts were exported
// under.
func (f *Forest) traverse(tree treeSpec, row []float64) int {
	node := 0
	for tree.Feature[node] >= 0 {
		if row[tree.Feature[node]] <= tree.Threshold[node] {
			node = tree.Left[node]
		} else {
			node = tree.Right[node]
		}
	}
	return node
}
