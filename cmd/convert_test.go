package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/crimetools/internal/convert"
)

var testLabels = []string{
	"Record ID", "Report Date", "Report Time", "Major Offense Type", "Address",
	"Neighborhood", "Police Precinct", "Police District", "X Coordinate",
	"Y Coordinate",
}

type stubTransformer struct{}

func (stubTransformer) Transform(_, _ float64) (float64, float64, error) {
	return -122.5, 45.5, nil
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crime.csv")
	content := "Record ID,Address\n1,\"NE WEIDLER ST, PORTLAND\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := readCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Record ID", "Address"}, rows[0])
	assert.Equal(t, []string{"1", "NE WEIDLER ST, PORTLAND"}, rows[1])
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := readCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestWriteCSVRemovesEmptyOutput(t *testing.T) {
	bad := []string{
		"1", "12/01/2011", "01:00:00", "Liquor Laws", "NE WEIDLER ST",
		"LLOYD", "PORTLAND PREC NO", "690", "not a number", "688344.450",
	}
	conv, err := convert.New([][]string{testLabels, bad}, stubTransformer{}, convert.Options{NormalizeWGS84: true})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	total, skipped, err := writeCSV(conv, path)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, 1, skipped)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteCSVKeepsNonEmptyOutput(t *testing.T) {
	row := []string{
		"1", "12/01/2011", "01:00:00", "Liquor Laws", "NE WEIDLER ST",
		"LLOYD", "PORTLAND PREC NO", "690", "7647471.016", "688344.450",
	}
	conv, err := convert.New([][]string{testLabels, row}, stubTransformer{}, convert.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	total, skipped, err := writeCSV(conv, path)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, skipped)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Record ID")
	assert.Contains(t, string(data), "NE WEIDLER ST")
}

func TestWriteGeoJSONSkipsEmptyResult(t *testing.T) {
	bad := []string{
		"1", "12/01/2011", "Bad Time", "Liquor Laws", "NE WEIDLER ST",
		"LLOYD", "PORTLAND PREC NO", "690", "7647471.016", "688344.450",
	}
	conv, err := convert.New([][]string{testLabels, bad}, stubTransformer{}, convert.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.geojson")
	total, skipped, err := writeGeoJSON(conv, path)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, 1, skipped)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteGeoJSONWritesResult(t *testing.T) {
	row := []string{
		"1", "12/01/2011", "01:00:00", "Liquor Laws", "NE WEIDLER ST",
		"LLOYD", "PORTLAND PREC NO", "690", "7647471.016", "688344.450",
	}
	conv, err := convert.New([][]string{testLabels, row}, stubTransformer{}, convert.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.geojson")
	total, skipped, err := writeGeoJSON(conv, path)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, skipped)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FeatureCollection"`)
	assert.Contains(t, string(data), `"coordinates":[-122.5,45.5]`)
}

func TestConvertRejectsUnknownCity(t *testing.T) {
	orig := convertCity
	t.Cleanup(func() { convertCity = orig })
	convertCity = "gotham"

	err := convertCmd.RunE(convertCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no location handler")
}
