package model

import (
	"math/rand"
	"sort"
)

// decisionTree is a CART-style tree over integer class indexes, used as the
// base estimator of the random forest. Splits minimize Gini impurity.
type decisionTree struct {
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	maxFeatures     int // 0 means all features
	numClasses      int
	root            *treeNode
}

type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode
}

// fit trains the tree on the rows of X selected by idx. Index-based training
// lets the forest bootstrap-sample without copying the data.
func (t *decisionTree) fit(X [][]float64, y []int, idx []int, rnd *rand.Rand) {
	t.root = t.buildNode(X, y, idx, 0, rnd)
}

func (t *decisionTree) buildNode(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *treeNode {
	counts := make([]int, t.numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	majority := argmaxInt(counts)

	if len(idx) < t.minSamplesSplit || counts[majority] == len(idx) ||
		(t.maxDepth > 0 && depth >= t.maxDepth) {
		return &treeNode{leaf: true, class: majority}
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, counts, rnd)
	if !ok {
		return &treeNode{leaf: true, class: majority}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, class: majority}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.buildNode(X, y, left, depth+1, rnd),
		right:     t.buildNode(X, y, right, depth+1, rnd),
	}
}

// bestSplit scans candidate features for the threshold with the lowest
// weighted Gini impurity. Features are subsampled when maxFeatures is set.
func (t *decisionTree) bestSplit(X [][]float64, y []int, idx []int, counts []int, rnd *rand.Rand) (int, float64, bool) {
	numFeatures := len(X[idx[0]])
	features := rnd.Perm(numFeatures)
	if t.maxFeatures > 0 && t.maxFeatures < numFeatures {
		features = features[:t.maxFeatures]
	}

	parentGini := giniFromCounts(counts, len(idx))
	bestGain := 0.0
	bestFeature, bestThreshold := -1, 0.0

	order := make([]int, len(idx))
	for _, feature := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][feature] < X[order[b]][feature] })

		leftCounts := make([]int, t.numClasses)
		rightCounts := make([]int, t.numClasses)
		copy(rightCounts, counts)

		for pos := 0; pos < len(order)-1; pos++ {
			class := y[order[pos]]
			leftCounts[class]++
			rightCounts[class]--

			value := X[order[pos]][feature]
			next := X[order[pos+1]][feature]
			if value == next {
				continue
			}
			nLeft := pos + 1
			nRight := len(order) - nLeft
			gini := (float64(nLeft)*giniFromCounts(leftCounts, nLeft) +
				float64(nRight)*giniFromCounts(rightCounts, nRight)) / float64(len(order))
			if gain := parentGini - gini; gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = (value + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (t *decisionTree) predict(row []float64) int {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.class
}

func giniFromCounts(counts []int, total int) float64 {
	gini := 1.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		gini -= p * p
	}
	return gini
}

func argmaxInt(values []int) int {
	maxInd := 0
	for i := range values {
		if values[i] > values[maxInd] {
			maxInd = i
		}
	}
	return maxInd
}
