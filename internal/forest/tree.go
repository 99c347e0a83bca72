package forest

import (
	"math/rand/v2"
	"sort"
)

// node is one decision node; leaves carry a class-probability distribution
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	probs     []float64
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// treeBuilder grows one CART tree on a bootstrap sample
type treeBuilder struct {
	cfg         Config
	features    [][]float64
	labels      []int
	weights     []float64
	rng         *rand.Rand
	rootWeight  float64
	importances []float64
}

// build grows the tree from the given sample indices
func (b *treeBuilder) build(indices []int, depth int) *node {
	counts, total := b.classWeights(indices)

	if depth >= b.cfg.MaxDepth || len(indices) < b.cfg.MinSamplesSplit || isPure(counts) {
		return leaf(counts, total)
	}

	feature, threshold, decrease, ok := b.bestSplit(indices, counts, total)
	if !ok {
		return leaf(counts, total)
	}

	var left, right []int
	for _, i := range indices {
		if b.features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.importances[feature] += total / b.rootWeight * decrease

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// classWeights sums the sample weights per class over the given indices
func (b *treeBuilder) classWeights(indices []int) ([]float64, float64) {
	counts := make([]float64, b.cfg.Classes)
	total := 0.0
	for _, i := range indices {
		counts[b.labels[i]] += b.weights[i]
		total += b.weights[i]
	}
	return counts, total
}

func isPure(counts []float64) bool {
	seen := false
	for _, c := range counts {
		if c > 0 {
			if seen {
				return false
			}
			seen = true
		}
	}
	return true
}

func leaf(counts []float64, total float64) *node {
	probs := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			probs[i] = c / total
		}
	}
	return &node{probs: probs}
}

// splitCandidate is one sample projected onto the candidate feature
type splitCandidate struct {
	value  float64
	weight float64
	label  int
}

// bestSplit searches a random feature subset for the threshold with the
// largest weighted Gini impurity decrease, honoring the minimum leaf size.
func (b *treeBuilder) bestSplit(indices []int, counts []float64, total float64) (feature int, threshold, decrease float64, ok bool) {
	parentGini := gini(counts, total)

	bestDecrease := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	order := b.rng.Perm(len(b.features[0]))
	subset := order
	if b.cfg.MaxFeatures > 0 && b.cfg.MaxFeatures < len(order) {
		subset = order[:b.cfg.MaxFeatures]
	}

	candidates := make([]splitCandidate, len(indices))
	for _, f := range subset {
		for pos, i := range indices {
			candidates[pos] = splitCandidate{
				value:  b.features[i][f],
				weight: b.weights[i],
				label:  b.labels[i],
			}
		}
		sort.Slice(candidates, func(a, c int) bool { return candidates[a].value < candidates[c].value })

		leftCounts := make([]float64, b.cfg.Classes)
		leftWeight := 0.0

		for pos := 0; pos < len(candidates)-1; pos++ {
			leftCounts[candidates[pos].label] += candidates[pos].weight
			leftWeight += candidates[pos].weight

			// Split only between distinct values
			if candidates[pos].value == candidates[pos+1].value {
				continue
			}

			leftSize := pos + 1
			rightSize := len(candidates) - leftSize
			if leftSize < b.cfg.MinSamplesLeaf || rightSize < b.cfg.MinSamplesLeaf {
				continue
			}

			rightWeight := total - leftWeight
			if leftWeight <= 0 || rightWeight <= 0 {
				continue
			}

			rightCounts := make([]float64, b.cfg.Classes)
			for c := range rightCounts {
				rightCounts[c] = counts[c] - leftCounts[c]
			}

			childGini := leftWeight/total*gini(leftCounts, leftWeight) + rightWeight/total*gini(rightCounts, rightWeight)
			d := parentGini - childGini
			if d > bestDecrease {
				bestDecrease = d
				bestFeature = f
				bestThreshold = (candidates[pos].value + candidates[pos+1].value) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestDecrease, true
}

// gini computes the weighted Gini impurity of a class distribution
func gini(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := c / total
		impurity -= p * p
	}
	return impurity
}

// probabilities walks the tree to the leaf distribution for one feature vector
func (n *node) probabilities(features []float64) []float64 {
	current := n
	for !current.isLeaf() {
		if features[current.feature] <= current.threshold {
			current = current.left
		} else {
			current = current.right
		}
	}
	return current.probs
}
