package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grazioso-salvare/shelter-cli/internal/export"
	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

var (
	exportFormats []string
	exportDir     string
	exportQuery   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export queried records to CSV, JSON, and XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		spec, err := parseJSONMap(exportQuery)
		if err != nil {
			return err
		}
		records, err := e.Data.Read(ctx, spec, "export")
		if err != nil {
			return eris.Wrap(err, "read records for export")
		}

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return eris.Wrapf(err, "create export dir %s", exportDir)
		}

		g, _ := errgroup.WithContext(ctx)
		for _, format := range exportFormats {
			g.Go(func() error { return writeExport(format, records) })
		}
		if err := g.Wait(); err != nil {
			return err
		}

		stats := export.BuildStats(records)
		zap.L().Info("export complete",
			zap.Int("records", stats.TotalRecords),
			zap.Strings("formats", exportFormats),
			zap.String("dir", exportDir),
		)
		return printJSON(stats)
	},
}

func writeExport(format string, records []model.Record) error {
	path := filepath.Join(exportDir, "animal_data."+format)
	switch format {
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create %s", path)
		}
		defer f.Close()
		return export.WriteCSV(f, records)
	case "json":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create %s", path)
		}
		defer f.Close()
		return export.WriteJSON(f, records)
	case "xlsx":
		return export.WriteXLSX(path, records)
	default:
		return eris.Errorf("unsupported export format %q", format)
	}
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportFormats, "format", []string{"csv"}, "formats to write: csv, json, xlsx")
	exportCmd.Flags().StringVar(&exportDir, "out", ".", "output directory")
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "query as a JSON mapping")
	rootCmd.AddCommand(exportCmd)
}
