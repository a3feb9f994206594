package io

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadTable(t *testing.T) {
	table, dataErrors, err := LoadTable("testdata/news.csv")
	require.NoError(t, err)
	require.Empty(t, dataErrors)

	require.Equal(t, []string{"alpha", "beta", "Tag"}, table.Columns)
	require.Equal(t, 10, table.Size())
	require.Equal(t, "n01", table.Index[0])
	require.Equal(t, []string{"9", "1", "REAL"}, table.Rows[0])
	require.Equal(t, "n10", table.Index[9])

	column, ok := table.Column("Tag")
	require.True(t, ok)
	require.Equal(t, 2, column)

	_, ok = table.Column("Missing")
	require.False(t, ok)
}

func TestLoadTableMalformedLines(t *testing.T) {
	table, dataErrors, err := LoadTable("testdata/malformed.csv")
	require.NoError(t, err)

	// Line 3 has too few cells and must be skipped, not aborted on.
	require.Equal(t, 2, table.Size())
	require.Equal(t, []string{"r1", "r3"}, table.Index)
	require.Len(t, dataErrors, 1)
	require.Equal(t, 3, dataErrors[0].Line)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, _, err := LoadTable("testdata/no-such-file.csv")
	require.Error(t, err)
}

func TestReadTableHeaderTooShort(t *testing.T) {
	_, _, err := ReadTable(strings.NewReader("Id\nr1\n"))
	require.Error(t, err)
}
