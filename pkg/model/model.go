package model

import (
	"fmt"
)

// Classifier is the capability the evaluation pipeline consumes: train on a
// feature matrix with parallel labels, then predict labels for new rows.
// Implementations keep their trained state private and are never shared
// between concurrent training tasks.
type Classifier interface {
	Fit(features [][]float64, labels []string) error
	Predict(features [][]float64) ([]string, error)
}

// Kind identifies one of the registered classifier implementations.
type Kind int

const (
	Linear Kind = iota
	NaiveBayes
	RandomForest
	MLP
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "Linear"
	case NaiveBayes:
		return "NaiveBayes"
	case RandomForest:
		return "RandomForest"
	case MLP:
		return "MLP"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a command-line classifier name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "naive_bayes":
		return NaiveBayes, nil
	case "randomforest":
		return RandomForest, nil
	case "mlp":
		return MLP, nil
	}
	return 0, fmt.Errorf("unknown classifier %q", name)
}

// AllKinds returns every registered kind except MLP, which is only evaluated
// when requested explicitly.
func AllKinds() []Kind {
	return []Kind{Linear, NaiveBayes, RandomForest}
}

// New returns a freshly constructed classifier of the given kind with default
// hyperparameters.
func New(kind Kind) Classifier {
	switch kind {
	case Linear:
		return NewLinearClassifier()
	case NaiveBayes:
		return NewNaiveBayesClassifier()
	case RandomForest:
		return NewRandomForestClassifier()
	case MLP:
		return NewMLPClassifier()
	}
	panic(fmt.Sprintf("no classifier registered for %s", kind))
}

func errUnknownLabel(label string) error {
	return fmt.Errorf("unknown label %q", label)
}

func checkTrainingData(features [][]float64, labels []string) (int, error) {
	if len(features) == 0 {
		return 0, fmt.Errorf("empty feature matrix")
	}
	if len(features) != len(labels) {
		return 0, fmt.Errorf("feature count %d does not match label count %d", len(features), len(labels))
	}
	columns := len(features[0])
	for i := range features {
		if len(features[i]) != columns {
			return 0, fmt.Errorf("feature row %d has %d columns, expected %d", i, len(features[i]), columns)
		}
	}
	return columns, nil
}
