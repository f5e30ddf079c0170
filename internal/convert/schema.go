package convert

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Schema resolves column names to their positional index in a row. It is
// built once per batch from the header and shared by reference across all
// row operations; header order is preserved for CSV output.
type Schema struct {
	labels []string
	index  map[string]int
}

// NewSchema builds a Schema from the header row.
func NewSchema(labels []string) *Schema {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[strings.TrimSpace(label)] = i
	}
	return &Schema{labels: labels, index: index}
}

// Labels returns the header in its original column order.
func (s *Schema) Labels() []string { return s.labels }

// Get returns the cell value for the named column.
func (s *Schema) Get(row []string, column string) (string, error) {
	i, ok := s.index[column]
	if !ok {
		return "", eris.Wrapf(ErrUnknownColumn, "convert: column %q not in header", column)
	}
	if i >= len(row) {
		return "", eris.Wrapf(ErrMalformedRow, "convert: column %q at index %d, row has %d cells", column, i, len(row))
	}
	return row[i], nil
}

// Set writes value into the named column of row, in place.
func (s *Schema) Set(row []string, column, value string) error {
	i, ok := s.index[column]
	if !ok {
		return eris.Wrapf(ErrUnknownColumn, "convert: column %q not in header", column)
	}
	if i >= len(row) {
		return eris.Wrapf(ErrMalformedRow, "convert: column %q at index %d, row has %d cells", column, i, len(row))
	}
	row[i] = value
	return nil
}
