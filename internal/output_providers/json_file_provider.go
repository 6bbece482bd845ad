package outputproviders

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/graphtools/graphtools/internal/message"
)

// JSONFileProvider writes the rows as a pretty-printed JSON array.
type JSONFileProvider struct {
	OutputPath string
}

func (jp *JSONFileProvider) Write(name string, rows []TabularRecord) error {
	filename := fmt.Sprintf("%s-%s.json", name, GenerateShortUUID())
	fullPath := GetFullPath(filename, jp.OutputPath)

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s results: %w", name, err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fullPath, err)
	}

	message.Success("Wrote %d rows to %s", len(rows), fullPath)
	return nil
}
