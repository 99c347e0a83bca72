package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableSamples builds two well separated clusters in two dimensions.
func separableSamples() ([][]float64, []int) {
	var features [][]float64
	var labels []int

	for i := 0; i < 20; i++ {
		offset := float64(i) * 0.05
		features = append(features, []float64{offset, 1 + offset})
		labels = append(labels, 0)
		features = append(features, []float64{10 + offset, 11 + offset})
		labels = append(labels, 1)
	}

	return features, labels
}

func separableConfig() Config {
	return Config{
		Trees:           25,
		MaxDepth:        5,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Classes:         2,
		Seed:            7,
	}
}

func TestTrain_InputValidation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		features    [][]float64
		labels      []int
		expectedErr string
	}{
		{
			name:        "no samples",
			cfg:         separableConfig(),
			features:    nil,
			labels:      nil,
			expectedErr: "no training samples",
		},
		{
			name:        "length mismatch",
			cfg:         separableConfig(),
			features:    [][]float64{{1, 2}, {3, 4}},
			labels:      []int{0},
			expectedErr: "feature/label length mismatch: 2 vs 1",
		},
		{
			name:        "no trees",
			cfg:         Config{Trees: 0, Classes: 2},
			features:    [][]float64{{1, 2}},
			labels:      []int{0},
			expectedErr: "tree and class counts must be positive",
		},
		{
			name:        "no classes",
			cfg:         Config{Trees: 5, Classes: 0},
			features:    [][]float64{{1, 2}},
			labels:      []int{0},
			expectedErr: "tree and class counts must be positive",
		},
		{
			name:        "label outside class range",
			cfg:         Config{Trees: 5, Classes: 2},
			features:    [][]float64{{1, 2}, {3, 4}},
			labels:      []int{0, 5},
			expectedErr: "label 5 outside class range [0,2)",
		},
		{
			name:        "class without samples",
			cfg:         Config{Trees: 5, Classes: 3},
			features:    [][]float64{{1, 2}, {3, 4}},
			labels:      []int{0, 2},
			expectedErr: "class 1 has no training samples",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Train(tt.cfg, tt.features, tt.labels)

			assert.Nil(t, f)
			assert.EqualError(t, err, tt.expectedErr)
		})
	}
}

func TestTrain_SeparatesClasses(t *testing.T) {
	features, labels := separableSamples()

	f, err := Train(separableConfig(), features, labels)
	require.NoError(t, err)

	assert.Equal(t, 25, f.Trees())

	tests := []struct {
		name          string
		probe         []float64
		expectedClass int
	}{
		{name: "first cluster", probe: []float64{0.5, 1.5}, expectedClass: 0},
		{name: "second cluster", probe: []float64{10.5, 11.5}, expectedClass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, err := f.Predict(tt.probe)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedClass, class)

			probs, err := f.Probabilities(tt.probe)
			require.NoError(t, err)
			assert.Greater(t, probs[tt.expectedClass], 0.99)
		})
	}
}

func TestTrain_IsDeterministic(t *testing.T) {
	features, labels := separableSamples()

	first, err := Train(separableConfig(), features, labels)
	require.NoError(t, err)
	second, err := Train(separableConfig(), features, labels)
	require.NoError(t, err)

	assert.Equal(t, first.Importances(), second.Importances())

	probe := []float64{5, 6}
	firstProbs, err := first.Probabilities(probe)
	require.NoError(t, err)
	secondProbs, err := second.Probabilities(probe)
	require.NoError(t, err)
	assert.Equal(t, firstProbs, secondProbs)
}

func TestProbabilities_FeatureCountMismatch(t *testing.T) {
	features, labels := separableSamples()

	f, err := Train(separableConfig(), features, labels)
	require.NoError(t, err)

	probs, err := f.Probabilities([]float64{1, 2, 3})
	assert.Nil(t, probs)
	assert.EqualError(t, err, "expected 2 features, got 3")

	_, err = f.Predict([]float64{1})
	assert.EqualError(t, err, "expected 2 features, got 1")
}

func TestImportances(t *testing.T) {
	features, labels := separableSamples()

	f, err := Train(separableConfig(), features, labels)
	require.NoError(t, err)

	importances := f.Importances()
	require.Len(t, importances, 2)

	sum := 0.0
	for _, imp := range importances {
		assert.GreaterOrEqual(t, imp, 0.0)
		sum += imp
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// The returned slice is a copy.
	importances[0] = -1
	assert.GreaterOrEqual(t, f.Importances()[0], 0.0)
}
