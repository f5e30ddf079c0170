// Package convert turns City of Portland crime-incident rows into either a
// GeoJSON FeatureCollection or a coordinate-normalized CSV.
//
// The expected column labels (the first row of a Portland export) are:
//
//	"Record ID", "Report Date", "Report Time", "Major Offense Type",
//	"Address", "Neighborhood", "Police Precinct", "Police District",
//	"X Coordinate", "Y Coordinate"
//
// Column lookup goes through the header, so column order does not matter.
// Rows with unparseable coordinates, timestamps, or identifiers are skipped
// and counted; a header that does not match the column set above aborts the
// whole batch.
package convert

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Column labels in a City of Portland crime export.
const (
	colRecordID     = "Record ID"
	colReportDate   = "Report Date"
	colReportTime   = "Report Time"
	colOffenseType  = "Major Offense Type"
	colAddress      = "Address"
	colNeighborhood = "Neighborhood"
	colPrecinct     = "Police Precinct"
	colDistrict     = "Police District"
	colXCoordinate  = "X Coordinate"
	colYCoordinate  = "Y Coordinate"
)

// timestampLayout matches "MM/DD/YYYY HH:MM:SS" with a 24-hour clock.
const timestampLayout = "01/02/2006 15:04:05"

// reportTimeLayout is ISO-8601 at second precision, no zone offset.
const reportTimeLayout = "2006-01-02T15:04:05"

// PointTransformer converts a planar (x, y) point to geographic
// (longitude, latitude). Satisfied by projection.Reprojector.
type PointTransformer interface {
	Transform(x, y float64) (lng, lat float64, err error)
}

// Options configure a Converter.
type Options struct {
	// ColumnLabels overrides the header. When empty, the first row of the
	// input is taken as the header.
	ColumnLabels []string

	// NormalizeWGS84 rewrites the X/Y cells of CSV output to geographic
	// coordinates. GeoJSON output is always geographic regardless.
	NormalizeWGS84 bool
}

// Converter drives conversion of one batch of rows. It owns its row set
// exclusively for the duration of a batch call; batch operations never
// reorder rows.
type Converter struct {
	schema   *Schema
	reproj   PointTransformer
	rawRows  [][]string
	rows     [][]string // normalized copies when Options.NormalizeWGS84, else rawRows
	original int
}

// New builds a Converter over an already-loaded row set. When
// Options.NormalizeWGS84 is set the rows are filter-mapped once, up front:
// each row is copied with its coordinates reprojected, and rows whose
// coordinates cannot be converted are dropped from CSV output entirely.
func New(rows [][]string, reproj PointTransformer, opts Options) (*Converter, error) {
	labels := opts.ColumnLabels
	if len(labels) == 0 {
		if len(rows) == 0 {
			return nil, eris.New("convert: input has no header row")
		}
		labels, rows = rows[0], rows[1:]
	}

	c := &Converter{
		schema:   NewSchema(labels),
		reproj:   reproj,
		rawRows:  rows,
		rows:     rows,
		original: len(rows),
	}

	if opts.NormalizeWGS84 {
		normalized, err := c.normalizedRows()
		if err != nil {
			return nil, err
		}
		c.rows = normalized
	}

	return c, nil
}

// normalizedRows produces copies of the raw rows with X/Y rewritten to
// geographic coordinates, dropping rows that fail to reproject. The
// original rows are never mutated.
func (c *Converter) normalizedRows() ([][]string, error) {
	out := make([][]string, 0, len(c.rawRows))
	for _, row := range c.rawRows {
		lng, lat, err := c.parsePoint(row)
		if err != nil {
			if isRowError(err) {
				zap.L().Warn("convert: skipping row with bad coordinates",
					zap.Strings("row", row),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}

		dup := make([]string, len(row))
		copy(dup, row)
		if err := c.schema.Set(dup, colXCoordinate, formatCoordinate(lng)); err != nil {
			return nil, err
		}
		if err := c.schema.Set(dup, colYCoordinate, formatCoordinate(lat)); err != nil {
			return nil, err
		}
		out = append(out, dup)
	}
	return out, nil
}

// parsePoint reads the X/Y cells of row and reprojects them to geographic
// longitude, latitude.
func (c *Converter) parsePoint(row []string) (lng, lat float64, err error) {
	xs, err := c.schema.Get(row, colXCoordinate)
	if err != nil {
		return 0, 0, err
	}
	ys, err := c.schema.Get(row, colYCoordinate)
	if err != nil {
		return 0, 0, err
	}

	x, perr := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if perr != nil {
		return 0, 0, eris.Wrapf(ErrBadCoordinate, "convert: x coordinate %q", xs)
	}
	y, perr := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if perr != nil {
		return 0, 0, eris.Wrapf(ErrBadCoordinate, "convert: y coordinate %q", ys)
	}

	lng, lat, terr := c.reproj.Transform(x, y)
	if terr != nil {
		return 0, 0, eris.Wrapf(ErrBadCoordinate, "convert: reproject point (%f, %f): %v", x, y, terr)
	}
	return lng, lat, nil
}

// parseTimestamp joins the report date and time cells and parses them
// against the fixed MM/DD/YYYY HH:MM:SS layout.
func (c *Converter) parseTimestamp(row []string) (time.Time, error) {
	date, err := c.schema.Get(row, colReportDate)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := c.schema.Get(row, colReportTime)
	if err != nil {
		return time.Time{}, err
	}

	joined := date + " " + clock
	ts, perr := time.Parse(timestampLayout, joined)
	if perr != nil {
		return time.Time{}, eris.Wrapf(ErrBadTimestamp, "convert: report time %q", joined)
	}
	return ts, nil
}

// parseID integer-parses the named column.
func (c *Converter) parseID(row []string, column string) (int64, error) {
	s, err := c.schema.Get(row, column)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if perr != nil {
		return 0, eris.Wrapf(ErrBadIdentifier, "convert: column %q value %q", column, s)
	}
	return v, nil
}

// toFeature converts one raw row into a GeoJSON Feature. Coordinates are
// always reprojected from the row's original planar values, so the feature
// is geographic no matter how the Converter was constructed.
func (c *Converter) toFeature(row []string) (*Feature, error) {
	lng, lat, err := c.parsePoint(row)
	if err != nil {
		return nil, err
	}
	ts, err := c.parseTimestamp(row)
	if err != nil {
		return nil, err
	}
	id, err := c.parseID(row, colRecordID)
	if err != nil {
		return nil, err
	}
	district, err := c.parseID(row, colDistrict)
	if err != nil {
		return nil, err
	}

	props := make(map[string]any, 6)
	for key, column := range map[string]string{
		"crimeType":      colOffenseType,
		"address":        colAddress,
		"neighborhood":   colNeighborhood,
		"policePrecinct": colPrecinct,
	} {
		v, err := c.schema.Get(row, column)
		if err != nil {
			return nil, err
		}
		props[key] = v
	}
	props["policeDistrict"] = district
	props["reportTime"] = ts.Format(reportTimeLayout)

	return &Feature{
		ID:         id,
		Geometry:   geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326),
		Properties: props,
	}, nil
}

// ToGeoJSON converts the batch into a serialized FeatureCollection and
// returns it with the converted and skipped row counts. Rows that fail with
// a data-quality error are skipped and logged; schema-level errors abort.
// A zero-feature result still serializes as a valid empty collection.
func (c *Converter) ToGeoJSON() (string, int, int, error) {
	features := make([]*Feature, 0, len(c.rawRows))
	for _, row := range c.rawRows {
		f, err := c.toFeature(row)
		if err != nil {
			if isRowError(err) {
				zap.L().Warn("convert: skipping unconvertible row",
					zap.Strings("row", row),
					zap.Error(err),
				)
				continue
			}
			return "", 0, 0, err
		}
		features = append(features, f)
	}

	if len(features) == 0 {
		zap.L().Warn("convert: no valid features found in data")
	}

	data, err := json.Marshal(&FeatureCollection{Features: features})
	if err != nil {
		return "", 0, 0, eris.Wrap(err, "convert: serialize feature collection")
	}

	total := len(features)
	return string(data), total, c.original - total, nil
}

// ToCSV writes the header and the (possibly normalized) rows to w in input
// order and returns the converted and skipped row counts. The header is
// written even when no data rows follow; detecting and discarding such a
// functionally empty output is the caller's job, since the caller owns the
// sink.
func (c *Converter) ToCSV(w io.Writer) (int, int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(c.schema.Labels()); err != nil {
		return 0, 0, eris.Wrap(err, "convert: write csv header")
	}

	total := 0
	for _, row := range c.rows {
		if err := writer.Write(row); err != nil {
			return total, c.original - total, eris.Wrap(err, "convert: write csv row")
		}
		total++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return total, c.original - total, eris.Wrap(err, "convert: flush csv")
	}

	if total == 0 {
		zap.L().Warn("convert: no valid rows found in data")
	}
	return total, c.original - total, nil
}

// formatCoordinate renders a coordinate with the shortest decimal text that
// round-trips, so CSV cells match GeoJSON serialization of the same value.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
