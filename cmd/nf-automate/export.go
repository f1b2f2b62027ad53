// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GabrielG71/nf-automate/internal/export"
	"github.com/GabrielG71/nf-automate/internal/store"
	"github.com/GabrielG71/nf-automate/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored invoice rows to an XLSX or CSV spreadsheet",
	Long: `Export queries the local database and writes every stored line item
to a spreadsheet in the output directory. XLSX output carries a detail
sheet plus a per-material summary sheet; CSV output is the detail rows
only. A per-material totals report is printed after writing.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "xlsx", "output format: xlsx or csv")
	exportCmd.Flags().String("output-dir", "", "output directory (default \"output\")")
	exportCmd.Flags().String("out", "", "output filename (default: timestamped)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = stringOr(viper.GetString("export.output_dir"), "output")
	}
	filename, _ := cmd.Flags().GetString("out")

	cfg := types.ExportConfig{
		OutputDir: outputDir,
		Format:    types.ExportFormat(format),
		Filename:  filename,
	}
	if cfg.Format != types.FormatXLSX && cfg.Format != types.FormatCSV {
		return fmt.Errorf("unsupported format %q: use xlsx or csv", format)
	}

	st, err := store.NewStore(storeConfig(cmd), 0)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.Rows(context.Background())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no stored rows: run process first")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	name := cfg.Filename
	if name == "" {
		name = export.DefaultFilename(cfg.Format)
	}
	path := filepath.Join(cfg.OutputDir, name)

	switch cfg.Format {
	case types.FormatCSV:
		err = export.WriteCSV(rows, path)
	default:
		err = export.WriteXLSX(rows, path)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d rows to %s\n", len(rows), path)
	export.Report(rows, os.Stdout)
	return nil
}
