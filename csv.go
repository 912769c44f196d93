package main

import "strings"

// parseCSV turns a raw CSV export into rows of trimmed cells. Commas inside
// quoted fields are preserved; a single pair of surrounding quotes is
// stripped from each cell. Blank lines are dropped. Rows with the wrong
// cell count are passed through as-is, so downstream code treats a missing
// cell as an empty string via cell().
func parseCSV(raw string) [][]string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitCSVLine(line))
	}
	if len(rows) == 0 {
		return nil
	}
	return rows
}

func splitCSVLine(line string) []string {
	var cells []string
	var field strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			field.WriteRune(r)
		case r == ',' && !inQuotes:
			cells = append(cells, cleanCell(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	cells = append(cells, cleanCell(field.String()))
	return cells
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// cell returns row[i], or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
