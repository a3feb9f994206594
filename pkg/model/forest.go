package model

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RandomForestClassifier is a bagged ensemble of CART trees with majority
// voting. Trees are trained concurrently; each tree gets its own bootstrap
// sample and random source.
type RandomForestClassifier struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 means sqrt(number of features)
	Seed            int64

	classes NameMap
	columns int
	trees   []*decisionTree
}

func NewRandomForestClassifier() *RandomForestClassifier {
	return &RandomForestClassifier{
		NumTrees:        100,
		MinSamplesSplit: 2,
		Seed:            time.Now().UnixNano(),
	}
}

func (c *RandomForestClassifier) Fit(features [][]float64, labels []string) error {
	columns, err := checkTrainingData(features, labels)
	if err != nil {
		return fmt.Errorf("random forest: %w", err)
	}
	c.classes = classesOf(labels)
	indexes, err := classIndexes(c.classes, labels)
	if err != nil {
		return fmt.Errorf("random forest: %w", err)
	}

	c.columns = columns

	maxFeatures := c.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Sqrt(float64(columns)))
	}

	n := len(features)
	c.trees = make([]*decisionTree, c.NumTrees)
	var wg sync.WaitGroup
	for i := range c.trees {
		wg.Add(1)
		go func(treeIndex int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(c.Seed + int64(treeIndex)))
			sample := make([]int, n)
			for j := range sample {
				sample[j] = rnd.Intn(n)
			}
			tree := &decisionTree{
				maxDepth:        c.MaxDepth,
				minSamplesSplit: c.MinSamplesSplit,
				maxFeatures:     maxFeatures,
				numClasses:      c.classes.Size(),
			}
			tree.fit(features, indexes, sample, rnd)
			c.trees[treeIndex] = tree
		}(i)
	}
	wg.Wait()
	return nil
}

func (c *RandomForestClassifier) Predict(features [][]float64) ([]string, error) {
	if c.trees == nil {
		return nil, fmt.Errorf("random forest: predict called before fit")
	}
	result := make([]string, len(features))
	for i, row := range features {
		if len(row) != c.columns {
			return nil, fmt.Errorf("random forest: feature row %d has %d columns, expected %d", i, len(row), c.columns)
		}
		votes := make([]int, c.classes.Size())
		for _, tree := range c.trees {
			votes[tree.predict(row)]++
		}
		result[i] = c.classes.IndexToName[argmaxInt(votes)]
	}
	return result, nil
}
