package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grazioso-salvare/shelter-cli/internal/loader"
)

var loadCSVPath string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import the outcomes CSV into the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if !e.Data.Available() {
			return eris.New("no reachable backing store to load into")
		}

		path := loadCSVPath
		if path == "" {
			path = cfg.Dataset.CSVPath
		}
		records, err := loader.LoadFile(path)
		if err != nil {
			return eris.Wrap(err, "load csv")
		}

		inserted := 0
		for _, rec := range records {
			ok, err := e.Data.Create(ctx, rec, "system")
			if err != nil {
				return eris.Wrap(err, "insert record")
			}
			if ok {
				inserted++
			}
		}

		zap.L().Info("load complete",
			zap.Int("inserted", inserted),
			zap.String("csv", path),
		)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadCSVPath, "csv", "", "path to CSV file (defaults to dataset.csv_path)")
	rootCmd.AddCommand(loadCmd)
}
