package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NaiveBayesClassifier is a multinomial naive Bayes classifier with Laplace
// smoothing. Features are treated as non-negative event counts.
type NaiveBayesClassifier struct {
	Alpha float64

	classes       NameMap
	logPrior      []float64
	logLikelihood [][]float64 // [class][feature]
}

func NewNaiveBayesClassifier() *NaiveBayesClassifier {
	return &NaiveBayesClassifier{Alpha: 1.0}
}

func (c *NaiveBayesClassifier) Fit(features [][]float64, labels []string) error {
	columns, err := checkTrainingData(features, labels)
	if err != nil {
		return fmt.Errorf("naive bayes: %w", err)
	}
	c.classes = classesOf(labels)
	indexes, err := classIndexes(c.classes, labels)
	if err != nil {
		return fmt.Errorf("naive bayes: %w", err)
	}

	numClasses := c.classes.Size()
	classCounts := make([]float64, numClasses)
	featureSums := make([][]float64, numClasses)
	for class := range featureSums {
		featureSums[class] = make([]float64, columns)
	}

	for i, row := range features {
		for j, value := range row {
			if value < 0 {
				return fmt.Errorf("naive bayes: negative feature value %g in row %d column %d", value, i, j)
			}
		}
		class := indexes[i]
		classCounts[class]++
		floats.Add(featureSums[class], row)
	}

	c.logPrior = make([]float64, numClasses)
	c.logLikelihood = make([][]float64, numClasses)
	total := float64(len(features))
	for class := 0; class < numClasses; class++ {
		c.logPrior[class] = math.Log(classCounts[class] / total)
		classTotal := floats.Sum(featureSums[class]) + c.Alpha*float64(columns)
		c.logLikelihood[class] = make([]float64, columns)
		for j := 0; j < columns; j++ {
			c.logLikelihood[class][j] = math.Log((featureSums[class][j] + c.Alpha) / classTotal)
		}
	}
	return nil
}

func (c *NaiveBayesClassifier) Predict(features [][]float64) ([]string, error) {
	if c.logPrior == nil {
		return nil, fmt.Errorf("naive bayes: predict called before fit")
	}
	result := make([]string, len(features))
	for i, row := range features {
		best := 0
		bestScore := math.Inf(-1)
		for class := range c.logPrior {
			if len(row) != len(c.logLikelihood[class]) {
				return nil, fmt.Errorf("naive bayes: feature row %d has %d columns, expected %d", i, len(row), len(c.logLikelihood[class]))
			}
			score := c.logPrior[class] + floats.Dot(c.logLikelihood[class], row)
			if score > bestScore {
				best = class
				bestScore = score
			}
		}
		result[i] = c.classes.IndexToName[best]
	}
	return result, nil
}
