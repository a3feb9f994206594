package io

import (
	"encoding/csv"
	"fmt"
	gio "io"
	"os"
)

// Table is a row-indexed table loaded from a CSV file. The first CSV column
// holds the row keys, every other column is addressed by its header name.
type Table struct {
	Columns []string
	Index   []string
	Rows    [][]string
}

func (t *Table) Size() int {
	return len(t.Rows)
}

// Column returns the position of the named column, or false if absent.
func (t *Table) Column(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

type DataError struct {
	Line  int
	Error string
}

// LoadTable reads a CSV file with a header row into a Table. Lines that
// cannot be parsed are skipped and reported as DataErrors; a missing or
// unreadable header is fatal.
func LoadTable(fileName string) (*Table, []DataError, error) {
	inputFile, err := os.Open(fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()
	return ReadTable(inputFile)
}

// ReadTable parses CSV data from the given reader. The first header cell
// names the row-key column and is not part of Table.Columns.
func ReadTable(r gio.Reader) (*Table, []DataError, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading data header: %w", err)
	}
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("header has %d columns, need a row key and at least one value column", len(header))
	}

	table := &Table{Columns: header[1:]}
	var errors []DataError

	currentLine := 1
	for {
		record, err := reader.Read()
		if err == gio.EOF {
			break
		}
		currentLine++
		if err != nil {
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		table.Index = append(table.Index, record[0])
		table.Rows = append(table.Rows, record[1:])
	}

	return table, errors, nil
}
