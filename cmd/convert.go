package main

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicdata/crimetools/internal/convert"
	"github.com/civicdata/crimetools/internal/projection"
)

var (
	convertIn     string
	convertOut    string
	convertCity   string
	convertFormat string
	convertWGS84  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a crime-incident CSV to GeoJSON or normalized CSV",
	Long: `Reads a city crime-data CSV export and writes it back out as either a
GeoJSON FeatureCollection or a CSV with coordinates normalized to WGS84.

Examples:
  # GeoJSON output (always WGS84)
  crimetools convert -i crime.csv -o crime.geojson -f geojson

  # CSV output with original State Plane coordinates
  crimetools convert -i crime.csv -o crime_copy.csv -f csv

  # CSV output normalized to WGS84
  crimetools convert -i crime.csv -o crime_wgs84.csv -f csv --wgs84`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Only Portland data is handled for now.
		if convertCity != "portland" {
			return eris.Errorf("no location handler for %q", convertCity)
		}

		rows, err := readCSV(convertIn)
		if err != nil {
			return err
		}

		reproj, err := projection.New(cfg.Projection.SourceEPSG, cfg.Projection.TargetEPSG)
		if err != nil {
			return err
		}

		conv, err := convert.New(rows, reproj, convert.Options{NormalizeWGS84: convertWGS84})
		if err != nil {
			return eris.Wrap(err, "convert: build converter")
		}

		var total, skipped int
		switch convertFormat {
		case "geojson":
			total, skipped, err = writeGeoJSON(conv, convertOut)
		case "csv":
			total, skipped, err = writeCSV(conv, convertOut)
		default:
			return eris.Errorf("format not supported: %q", convertFormat)
		}
		if err != nil {
			return err
		}

		if total == 0 {
			cmd.Println("Could not find any valid data in the file.")
		}
		cmd.Printf("\t%d records converted\n", total)
		if skipped > 0 {
			cmd.Printf("\t%d records skipped due to bad data\n", skipped)
		}

		zap.L().Info("conversion complete",
			zap.String("in", convertIn),
			zap.String("out", convertOut),
			zap.String("format", convertFormat),
			zap.Bool("wgs84", convertWGS84),
			zap.Int("converted", total),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

// readCSV loads the whole input file into memory as rows.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "convert: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "convert: read %s", path)
	}
	return rows, nil
}

// writeGeoJSON serializes the batch and writes it to path. An empty result
// writes nothing at all.
func writeGeoJSON(conv *convert.Converter, path string) (int, int, error) {
	text, total, skipped, err := conv.ToGeoJSON()
	if err != nil {
		return 0, 0, err
	}

	if total == 0 {
		return total, skipped, nil
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return total, skipped, eris.Wrapf(err, "convert: write %s", path)
	}
	return total, skipped, nil
}

// writeCSV streams the batch into a new file at path. A file that ends up
// holding only the header row is removed again.
func writeCSV(conv *convert.Converter, path string) (int, int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "convert: create %s", path)
	}

	total, skipped, convErr := conv.ToCSV(f)
	closeErr := f.Close()
	if convErr != nil {
		return total, skipped, convErr
	}
	if closeErr != nil {
		return total, skipped, eris.Wrapf(closeErr, "convert: close %s", path)
	}

	if total == 0 {
		if err := os.Remove(path); err != nil {
			return total, skipped, eris.Wrapf(err, "convert: remove empty output %s", path)
		}
	}
	return total, skipped, nil
}

func init() {
	convertCmd.Flags().StringVarP(&convertIn, "in", "i", "", "path to the file to read data from (required)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "path to the file to write data to (required)")
	convertCmd.Flags().StringVarP(&convertCity, "city", "l", "portland", "the location converter to use")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "geojson", "output format: csv or geojson")
	convertCmd.Flags().BoolVar(&convertWGS84, "wgs84", false, "normalize CSV output coordinates to WGS84")
	_ = convertCmd.MarkFlagRequired("in")
	_ = convertCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(convertCmd)
}
