package outputproviders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/graphtools/graphtools/internal/message"
)

// YamlFileProvider writes the rows as a YAML document.
type YamlFileProvider struct {
	OutputPath string
}

func (yp *YamlFileProvider) Write(name string, rows []TabularRecord) error {
	filename := fmt.Sprintf("%s-%s.yaml", name, GenerateShortUUID())
	fullPath := GetFullPath(filename, yp.OutputPath)

	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal %s results: %w", name, err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fullPath, err)
	}

	message.Success("Wrote %d rows to %s", len(rows), fullPath)
	return nil
}
