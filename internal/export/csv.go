// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

// WriteCSV writes rows to a CSV file at path, one line per item, headers
// from the ExportRow csv tags. An empty row set is an error.
func WriteCSV(rows []types.ExportRow, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
