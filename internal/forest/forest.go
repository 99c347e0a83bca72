// Package forest implements a bootstrap-aggregated ensemble of CART decision
// trees with balanced class weighting and impurity-based feature importances.
package forest

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Config holds the ensemble hyperparameters
type Config struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Classes         int
	Seed            uint64
}

// Forest is a fitted ensemble. It is immutable after Train and safe for
// concurrent readers.
type Forest struct {
	cfg         Config
	trees       []*node
	importances []float64
	features    int
}

// Train fits the ensemble on the given samples. Class weights are balanced:
// each class contributes equal total weight regardless of its sample count.
func Train(cfg Config, features [][]float64, labels []int) (*Forest, error) {
	if len(features) == 0 {
		return nil, errors.New("no training samples")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("feature/label length mismatch: %d vs %d", len(features), len(labels))
	}
	if cfg.Trees <= 0 || cfg.Classes <= 0 {
		return nil, errors.New("tree and class counts must be positive")
	}

	nFeatures := len(features[0])
	weights, err := balancedWeights(labels, cfg.Classes)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))

	f := &Forest{
		cfg:      cfg,
		trees:    make([]*node, 0, cfg.Trees),
		features: nFeatures,
	}

	accumulated := make([]float64, nFeatures)
	for t := 0; t < cfg.Trees; t++ {
		indices := bootstrap(rng, len(features))

		builder := &treeBuilder{
			cfg:         cfg,
			features:    features,
			labels:      labels,
			weights:     weights,
			rng:         rng,
			importances: make([]float64, nFeatures),
		}
		_, builder.rootWeight = builder.classWeights(indices)

		f.trees = append(f.trees, builder.build(indices, 0))

		normalize(builder.importances)
		floats.Add(accumulated, builder.importances)
	}

	floats.Scale(1/float64(cfg.Trees), accumulated)
	normalize(accumulated)
	f.importances = accumulated

	return f, nil
}

// balancedWeights assigns each sample the weight n / (classes * count(label))
func balancedWeights(labels []int, classes int) ([]float64, error) {
	counts := make([]float64, classes)
	for _, label := range labels {
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("label %d outside class range [0,%d)", label, classes)
		}
		counts[label]++
	}
	for c, count := range counts {
		if count == 0 {
			return nil, fmt.Errorf("class %d has no training samples", c)
		}
	}

	n := float64(len(labels))
	weights := make([]float64, len(labels))
	for i, label := range labels {
		weights[i] = n / (float64(classes) * counts[label])
	}
	return weights, nil
}

// bootstrap draws n sample indices with replacement
func bootstrap(rng *rand.Rand, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.IntN(n)
	}
	return indices
}

func normalize(values []float64) {
	sum := floats.Sum(values)
	if sum <= 0 {
		return
	}
	floats.Scale(1/sum, values)
}

// Probabilities averages the per-tree leaf distributions for one feature vector
func (f *Forest) Probabilities(features []float64) ([]float64, error) {
	if len(features) != f.features {
		return nil, fmt.Errorf("expected %d features, got %d", f.features, len(features))
	}

	sums := make([]float64, f.cfg.Classes)
	for _, tree := range f.trees {
		floats.Add(sums, tree.probabilities(features))
	}
	floats.Scale(1/float64(len(f.trees)), sums)
	return sums, nil
}

// Predict returns the class with the highest averaged probability; ties go to
// the lowest class index.
func (f *Forest) Predict(features []float64) (int, error) {
	probs, err := f.Probabilities(features)
	if err != nil {
		return 0, err
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best, nil
}

// Importances returns the normalized impurity-decrease feature importances
func (f *Forest) Importances() []float64 {
	out := make([]float64, len(f.importances))
	copy(out, f.importances)
	return out
}

// Trees returns the number of fitted trees
func (f *Forest) Trees() int {
	return len(f.trees)
}
