package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicdata/crimetools/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crimetools",
	Short: "Utilities for working with public crime data",
	Long:  "Converts municipal crime-incident CSV exports into a normalized CSV or a GeoJSON FeatureCollection, reprojecting State Plane coordinates to WGS84.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
