package outputproviders

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/graphtools/graphtools/internal/message"
)

// CSVFileProvider writes the rows as CSV with a header line.
type CSVFileProvider struct {
	OutputPath string
}

func (cp *CSVFileProvider) Write(name string, rows []TabularRecord) error {
	filename := fmt.Sprintf("%s-%s.csv", name, GenerateShortUUID())
	fullPath := GetFullPath(filename, cp.OutputPath)

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", fullPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(rows) > 0 {
		if err := w.Write(rows[0].Header()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", fullPath, err)
	}

	message.Success("Wrote %d rows to %s", len(rows), fullPath)
	return nil
}
