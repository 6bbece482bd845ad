package outputproviders

import (
	"fmt"
	"strings"

	"github.com/graphtools/graphtools/internal/message"
)

// ConsoleProvider renders rows as aligned text on stdout.
type ConsoleProvider struct{}

func (cp *ConsoleProvider) Write(name string, rows []TabularRecord) error {
	if len(rows) == 0 {
		message.Info("%s: no results", name)
		return nil
	}

	message.Section(name)

	header := rows[0].Header()
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := row.Record()
		for i, v := range rec {
			if i < len(widths) && len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		records = append(records, rec)
	}

	fmt.Println(formatRow(header, widths))
	fmt.Println(strings.Repeat("-", rowWidth(widths)))
	for _, rec := range records {
		fmt.Println(formatRow(rec, widths))
	}
	return nil
}

func formatRow(values []string, widths []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		width := len(v)
		if i < len(widths) {
			width = widths[i]
		}
		parts[i] = fmt.Sprintf("%-*s", width, v)
	}
	return strings.Join(parts, "  ")
}

func rowWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	if total >= 2 {
		total -= 2
	}
	return total
}
