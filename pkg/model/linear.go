package model

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
)

// LinearClassifier is a binary linear margin classifier trained with
// stochastic subgradient descent on the L2-regularized hinge loss.
type LinearClassifier struct {
	LearningRate   float64
	Epochs         int
	Regularization float64
	Seed           int64

	weights []float64
	bias    float64
	classes NameMap
	trained bool
}

func NewLinearClassifier() *LinearClassifier {
	return &LinearClassifier{
		LearningRate:   0.01,
		Epochs:         100,
		Regularization: 0.0001,
		Seed:           time.Now().UnixNano(),
	}
}

func (c *LinearClassifier) Fit(features [][]float64, labels []string) error {
	columns, err := checkTrainingData(features, labels)
	if err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	c.classes = classesOf(labels)
	if c.classes.Size() != 2 {
		return fmt.Errorf("linear: need exactly 2 classes, got %d", c.classes.Size())
	}

	// Class index 0 maps to -1, index 1 to +1.
	targets := make([]float64, len(labels))
	indexes, err := classIndexes(c.classes, labels)
	if err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	for i, index := range indexes {
		targets[i] = float64(2*index - 1)
	}

	c.weights = make([]float64, columns)
	c.bias = 0

	rnd := rand.New(rand.NewSource(c.Seed))
	for epoch := 0; epoch < c.Epochs; epoch++ {
		for _, i := range rnd.Perm(len(features)) {
			margin := targets[i] * (floats.Dot(c.weights, features[i]) + c.bias)
			floats.Scale(1-c.LearningRate*c.Regularization, c.weights)
			if margin < 1 {
				floats.AddScaled(c.weights, c.LearningRate*targets[i], features[i])
				c.bias += c.LearningRate * targets[i]
			}
		}
	}
	c.trained = true
	return nil
}

func (c *LinearClassifier) Predict(features [][]float64) ([]string, error) {
	if !c.trained {
		return nil, fmt.Errorf("linear: predict called before fit")
	}
	result := make([]string, len(features))
	for i, row := range features {
		if len(row) != len(c.weights) {
			return nil, fmt.Errorf("linear: feature row %d has %d columns, expected %d", i, len(row), len(c.weights))
		}
		index := 0
		if floats.Dot(c.weights, row)+c.bias >= 0 {
			index = 1
		}
		result[i] = c.classes.IndexToName[index]
	}
	return result, nil
}
