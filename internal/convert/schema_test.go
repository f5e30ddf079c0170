package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaGet(t *testing.T) {
	s := NewSchema([]string{"Record ID", "Address", "X Coordinate"})
	row := []string{"42", "NE WEIDLER ST", "7647471.016"}

	v, err := s.Get(row, "Address")
	require.NoError(t, err)
	assert.Equal(t, "NE WEIDLER ST", v)

	v, err = s.Get(row, "Record ID")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestSchemaGetUnknownColumn(t *testing.T) {
	s := NewSchema([]string{"Record ID"})

	_, err := s.Get([]string{"42"}, "Address")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestSchemaGetMalformedRow(t *testing.T) {
	s := NewSchema([]string{"Record ID", "Address"})

	_, err := s.Get([]string{"42"}, "Address")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRow))
}

func TestSchemaSet(t *testing.T) {
	s := NewSchema([]string{"X Coordinate", "Y Coordinate"})
	row := []string{"7647471.016", "688344.450"}

	require.NoError(t, s.Set(row, "X Coordinate", "-122.664695"))
	require.NoError(t, s.Set(row, "Y Coordinate", "45.534357"))
	assert.Equal(t, []string{"-122.664695", "45.534357"}, row)
}

func TestSchemaSetUnknownColumn(t *testing.T) {
	s := NewSchema([]string{"X Coordinate"})

	err := s.Set([]string{"1"}, "Z Coordinate", "0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestSchemaSetMalformedRow(t *testing.T) {
	s := NewSchema([]string{"X Coordinate", "Y Coordinate"})

	err := s.Set([]string{"1"}, "Y Coordinate", "0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRow))
}

func TestSchemaTrimsHeaderWhitespace(t *testing.T) {
	s := NewSchema([]string{" Record ID ", "Address"})

	v, err := s.Get([]string{"42", "x"}, "Record ID")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestSchemaLabelsPreserveOrder(t *testing.T) {
	labels := []string{"B", "A", "C"}
	s := NewSchema(labels)
	assert.Equal(t, labels, s.Labels())
}
