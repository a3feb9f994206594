package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"chaff/pkg/model"
)

// trackingClassifier remembers the feature rows it was trained on and
// predicts "seen" or "unseen" accordingly.
type trackingClassifier struct {
	trained map[string]bool
}

func (c *trackingClassifier) Fit(features [][]float64, labels []string) error {
	c.trained = map[string]bool{}
	for _, row := range features {
		c.trained[fmt.Sprint(row)] = true
	}
	return nil
}

func (c *trackingClassifier) Predict(features [][]float64) ([]string, error) {
	result := make([]string, len(features))
	for i, row := range features {
		if c.trained[fmt.Sprint(row)] {
			result[i] = "seen"
		} else {
			result[i] = "unseen"
		}
	}
	return result, nil
}

type failingClassifier struct{ err error }

func (c *failingClassifier) Fit([][]float64, []string) error       { return c.err }
func (c *failingClassifier) Predict([][]float64) ([]string, error) { return nil, c.err }

func trackingFactory() model.Classifier { return &trackingClassifier{} }

func uniqueRows(n int) ([][]float64, []string) {
	features := make([][]float64, n)
	labels := make([]string, n)
	for i := range features {
		features[i] = []float64{float64(i)}
		labels[i] = "REAL"
		if i%2 == 0 {
			labels[i] = "FAKE"
		}
	}
	return features, labels
}

func TestSliceBounds(t *testing.T) {
	require.Equal(t, []int{10}, sliceBounds(10, 1))
	require.Equal(t, []int{10}, sliceBounds(10, -1))
	require.Equal(t, []int{5, 10}, sliceBounds(10, 2))
	require.Equal(t, []int{3, 5, 7}, sliceBounds(7, 3))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sliceBounds(10, 10))

	for _, steps := range []int{1, 2, 3, 4, 7} {
		bounds := sliceBounds(50, steps)
		require.Len(t, bounds, steps)
		for i := 1; i < len(bounds); i++ {
			require.Greater(t, bounds[i], bounds[i-1])
		}
		require.Equal(t, 50, bounds[len(bounds)-1])
	}
}

func TestFoldBounds(t *testing.T) {
	bounds := foldBounds(10, 5)
	require.Len(t, bounds, 5)
	for i, fold := range bounds {
		require.Equal(t, 2, fold.end-fold.start)
		if i > 0 {
			require.Equal(t, bounds[i-1].end, fold.start)
		}
	}

	bounds = foldBounds(7, 5)
	sizes := make([]int, len(bounds))
	for i, fold := range bounds {
		sizes[i] = fold.end - fold.start
	}
	require.Equal(t, []int{2, 2, 1, 1, 1}, sizes)
	require.Equal(t, 7, bounds[len(bounds)-1].end)
}

func TestCrossValPredictNeverPredictsTrainedRows(t *testing.T) {
	features, labels := uniqueRows(10)
	predictions, err := CrossValPredict(trackingFactory, features, labels, 5, 2)
	require.NoError(t, err)
	require.Len(t, predictions, 10)
	for i, p := range predictions {
		require.Equal(t, "unseen", p, "record %d was predicted by a model trained on it", i)
	}
}

func TestCrossValPredictInsufficientData(t *testing.T) {
	features, labels := uniqueRows(4)
	_, err := CrossValPredict(trackingFactory, features, labels, 5, 2)
	require.True(t, errors.Is(err, ErrInsufficientData))
}

func TestCrossValPredictSurfacesClassifierError(t *testing.T) {
	boom := errors.New("fit exploded")
	factory := func() model.Classifier { return &failingClassifier{err: boom} }
	features, labels := uniqueRows(10)
	_, err := CrossValPredict(factory, features, labels, 5, 2)
	require.True(t, errors.Is(err, boom))
}

func TestCrossValPredictParallelismDoesNotChangeOutput(t *testing.T) {
	features, labels := uniqueRows(23)
	sequential, err := CrossValPredict(trackingFactory, features, labels, 5, 1)
	require.NoError(t, err)
	parallel, err := CrossValPredict(trackingFactory, features, labels, 5, 8)
	require.NoError(t, err)
	require.Equal(t, sequential, parallel)
}

func TestEvaluateLearningCurve(t *testing.T) {
	features, labels := uniqueRows(10)

	predictions, err := EvaluateLearningCurve(trackingFactory, features, labels, 1, 5, 2)
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	require.Len(t, predictions[0], 10)

	predictions, err = EvaluateLearningCurve(trackingFactory, features, labels, 2, 5, 2)
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	require.Len(t, predictions[0], 5)
	require.Len(t, predictions[1], 10)

	predictions, err = EvaluateLearningCurve(trackingFactory, features, labels, -1, 5, 2)
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	require.Len(t, predictions[0], 10)
}

func TestEvaluateLearningCurveInsufficientSlice(t *testing.T) {
	features, labels := uniqueRows(10)
	// The first of 5 slices only holds 2 records, fewer than the fold count.
	_, err := EvaluateLearningCurve(trackingFactory, features, labels, 5, 5, 2)
	require.True(t, errors.Is(err, ErrInsufficientData))
}
