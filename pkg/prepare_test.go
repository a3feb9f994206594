package pkg

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"chaff/pkg/io"
)

func testTable(n int) *io.Table {
	table := &io.Table{Columns: []string{"alpha", "beta", "Tag"}}
	for i := 0; i < n; i++ {
		label := "REAL"
		if i >= n/2 {
			label = "FAKE"
		}
		table.Index = append(table.Index, fmt.Sprintf("r%d", i))
		table.Rows = append(table.Rows, []string{fmt.Sprintf("%d", i), "0.5", label})
	}
	return table
}

func TestPrepareKeepsCorrespondence(t *testing.T) {
	table := testTable(10)
	dataset, err := Prepare(table, "Tag", rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Equal(t, 10, dataset.Size())
	require.Len(t, dataset.Features, 10)
	require.Len(t, dataset.Labels, 10)
	require.Len(t, dataset.IDs, 10)

	// The alpha feature encodes the original row number, so after shuffling
	// each row must still carry its own id and label.
	for i := range dataset.IDs {
		row := int(dataset.Features[i][0])
		require.Equal(t, fmt.Sprintf("r%d", row), dataset.IDs[i])
		expected := "REAL"
		if row >= 5 {
			expected = "FAKE"
		}
		require.Equal(t, expected, dataset.Labels[i])
		require.Len(t, dataset.Features[i], 2)
	}
}

func TestPrepareLabelDistributionUnchanged(t *testing.T) {
	dataset, err := Prepare(testTable(10), "Tag", rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	counts := map[string]int{}
	for _, label := range dataset.Labels {
		counts[label]++
	}
	require.Equal(t, map[string]int{"REAL": 5, "FAKE": 5}, counts)
}

func TestPrepareMissingLabelColumn(t *testing.T) {
	_, err := Prepare(testTable(4), "Label", rand.New(rand.NewSource(1)))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingColumn))
}

func TestPrepareShapeMismatch(t *testing.T) {
	table := testTable(4)
	table.Index = table.Index[:3]
	_, err := Prepare(table, "Tag", rand.New(rand.NewSource(1)))
	require.True(t, errors.Is(err, ErrShapeMismatch))

	table = testTable(4)
	table.Rows[2] = []string{"1", "REAL"}
	_, err = Prepare(table, "Tag", rand.New(rand.NewSource(1)))
	require.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestPrepareNonNumericFeature(t *testing.T) {
	table := testTable(4)
	table.Rows[1][0] = "not-a-number"
	_, err := Prepare(table, "Tag", rand.New(rand.NewSource(1)))
	require.Error(t, err)
}
