package pkg

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"chaff/pkg/io"
)

var (
	ErrMissingColumn = errors.New("label column not found")
	ErrShapeMismatch = errors.New("parallel sequences have different lengths")
)

// Dataset holds the three parallel sequences produced by Prepare. The value
// at index i of each slice always refers to the same record.
type Dataset struct {
	Features [][]float64
	Labels   []string
	IDs      []string
}

func (d *Dataset) Size() int {
	return len(d.Labels)
}

// Prepare splits a table into a feature matrix, a label sequence and a
// row-key sequence, then applies one random permutation to all three. Passing
// a nil rng gives a time-seeded shuffle; a caller that needs a reproducible
// order supplies its own source.
func Prepare(table *io.Table, labelColumn string, rng *rand.Rand) (*Dataset, error) {
	labelIndex, ok := table.Column(labelColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, labelColumn)
	}
	if len(table.Index) != len(table.Rows) {
		return nil, fmt.Errorf("%w: %d row keys for %d rows", ErrShapeMismatch, len(table.Index), len(table.Rows))
	}

	n := table.Size()
	features := make([][]float64, n)
	labels := make([]string, n)
	ids := make([]string, n)

	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns", ErrShapeMismatch, i, len(row), len(table.Columns))
		}
		labels[i] = row[labelIndex]
		ids[i] = table.Index[i]
		featureRow := make([]float64, 0, len(row)-1)
		for column, cell := range row {
			if column == labelIndex {
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %s: error parsing feature %s: %w", table.Index[i], table.Columns[column], err)
			}
			featureRow = append(featureRow, value)
		}
		features[i] = featureRow
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	shuffled := &Dataset{
		Features: make([][]float64, n),
		Labels:   make([]string, n),
		IDs:      make([]string, n),
	}
	for to, from := range rng.Perm(n) {
		shuffled.Features[to] = features[from]
		shuffled.Labels[to] = labels[from]
		shuffled.IDs[to] = ids[from]
	}
	return shuffled, nil
}
