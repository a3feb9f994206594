package pkg

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"chaff/pkg/model"
)

var ErrInsufficientData = errors.New("not enough records for cross-validation")

// ClassifierFactory constructs a fresh, untrained classifier. The evaluator
// calls it once per fold so trained state is never shared between folds.
type ClassifierFactory func() model.Classifier

// EvaluateLearningCurve runs k-fold cross-validated prediction over
// increasing prefixes of the dataset. With steps >= 1 it produces one
// prediction sequence per prefix of length ceil(i*n/steps); steps < 1 means
// no curve, a single pass over the full dataset. The last sequence always
// covers all records and is the one used for miss detection downstream.
func EvaluateLearningCurve(factory ClassifierFactory, features [][]float64, labels []string, steps, folds, parallelism int) ([][]string, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("%w: %d feature rows for %d labels", ErrShapeMismatch, len(features), len(labels))
	}

	bounds := sliceBounds(len(labels), steps)
	predictions := make([][]string, 0, len(bounds))
	for _, bound := range bounds {
		log.Info().Msgf("cross validating with %.0f%% of corpus", float64(bound)/float64(len(labels))*100)
		p, err := CrossValPredict(factory, features[:bound], labels[:bound], folds, parallelism)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// sliceBounds returns the prefix lengths for the learning curve: the i-th
// bound is ceil(i*n/steps), so the last bound is always n.
func sliceBounds(n, steps int) []int {
	if steps < 1 {
		return []int{n}
	}
	bounds := make([]int, steps)
	for i := 1; i <= steps; i++ {
		bounds[i-1] = (i*n + steps - 1) / steps
	}
	return bounds
}

// CrossValPredict produces one prediction per record: the records are
// partitioned into contiguous folds, and each fold is predicted by a
// classifier trained on the remaining folds. Fold tasks run concurrently,
// bounded by parallelism; results are merged by index so the output does not
// depend on scheduling.
func CrossValPredict(factory ClassifierFactory, features [][]float64, labels []string, folds, parallelism int) ([]string, error) {
	n := len(labels)
	if folds < 2 {
		return nil, fmt.Errorf("invalid fold count %d", folds)
	}
	if n < folds {
		return nil, fmt.Errorf("%w: %d records for %d folds", ErrInsufficientData, n, folds)
	}
	if parallelism < 1 {
		parallelism = 1
	}

	predictions := make([]string, n)
	var group errgroup.Group
	group.SetLimit(parallelism)

	for _, fold := range foldBounds(n, folds) {
		fold := fold
		group.Go(func() error {
			trainSize := n - (fold.end - fold.start)
			trainFeatures := make([][]float64, 0, trainSize)
			trainFeatures = append(trainFeatures, features[:fold.start]...)
			trainFeatures = append(trainFeatures, features[fold.end:]...)
			trainLabels := make([]string, 0, trainSize)
			trainLabels = append(trainLabels, labels[:fold.start]...)
			trainLabels = append(trainLabels, labels[fold.end:]...)

			classifier := factory()
			if err := classifier.Fit(trainFeatures, trainLabels); err != nil {
				return err
			}
			predicted, err := classifier.Predict(features[fold.start:fold.end])
			if err != nil {
				return err
			}
			if len(predicted) != fold.end-fold.start {
				return fmt.Errorf("%w: %d predictions for a fold of %d records", ErrShapeMismatch, len(predicted), fold.end-fold.start)
			}
			copy(predictions[fold.start:fold.end], predicted)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return predictions, nil
}

type foldBound struct {
	start, end int
}

// foldBounds splits n records into k contiguous groups; the first n%k groups
// hold one extra record.
func foldBounds(n, k int) []foldBound {
	bounds := make([]foldBound, k)
	base := n / k
	extra := n % k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		bounds[i] = foldBound{start: start, end: start + size}
		start += size
	}
	return bounds
}
