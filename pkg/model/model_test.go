package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for name, expected := range map[string]Kind{
		"linear":       Linear,
		"naive_bayes":  NaiveBayes,
		"randomforest": RandomForest,
		"mlp":          MLP,
	} {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		require.Equal(t, expected, kind)
	}

	_, err := ParseKind("svc")
	require.Error(t, err)
}

func TestAllKindsExcludesMLP(t *testing.T) {
	kinds := AllKinds()
	require.Equal(t, []Kind{Linear, NaiveBayes, RandomForest}, kinds)
	require.NotContains(t, kinds, MLP)
}

func TestNewReturnsFreshInstances(t *testing.T) {
	for _, kind := range []Kind{Linear, NaiveBayes, RandomForest, MLP} {
		first := New(kind)
		second := New(kind)
		require.NotNil(t, first)
		require.NotSame(t, first, second)
	}
}

func TestClassesOf(t *testing.T) {
	classes := classesOf([]string{"REAL", "FAKE", "REAL", "FAKE", "REAL"})
	require.Equal(t, 2, classes.Size())

	// Class indexes follow sorted name order regardless of input order.
	index, ok := classes.ContainsName("FAKE")
	require.True(t, ok)
	require.Equal(t, 0, index)
	index, ok = classes.ContainsName("REAL")
	require.True(t, ok)
	require.Equal(t, 1, index)
}
