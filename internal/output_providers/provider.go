package outputproviders

import (
	"fmt"
	"strings"
)

// TabularRecord is implemented by row types that can render themselves for
// CSV and console output.
type TabularRecord interface {
	Header() []string
	Record() []string
}

// Provider writes a named result set somewhere.
type Provider interface {
	Write(name string, rows []TabularRecord) error
}

// ForFormat returns the provider for a --format value. Console output is
// always written; file providers are returned only when outputPath is set.
func ForFormat(format, outputPath string) (Provider, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFileProvider{OutputPath: outputPath}, nil
	case "csv":
		return &CSVFileProvider{OutputPath: outputPath}, nil
	case "yaml":
		return &YamlFileProvider{OutputPath: outputPath}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected json, csv, or yaml)", format)
	}
}
