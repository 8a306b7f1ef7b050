// Package csvimport turns broker CSV exports into normalized ledger rows.
//
// The pipeline has three stages: Tokenize splits raw text into rows of
// cells, the header resolver maps raw column names onto canonical fields,
// and Parse validates every data row into a Row or a RowError. All stages
// are pure functions over in-memory data.
package csvimport

import "strings"

const utf8BOM = "\uFEFF"

// DetectDelimiter picks ';' when the first line holds strictly more
// semicolons than commas, and ',' otherwise.
func DetectDelimiter(text string) rune {
	firstLine := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		firstLine = text[:i]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// Tokenize splits CSV text into rows of cells. Quoted fields may contain
// the delimiter, line breaks and doubled quotes. Rows whose cells are all
// blank are dropped.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, utf8BOM)
	delimiter := DetectDelimiter(text)

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	flushRow := func() {
		row = append(row, field.String())
		field.Reset()
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == delimiter && !inQuotes:
			row = append(row, field.String())
			field.Reset()
		case (ch == '\n' || ch == '\r') && !inQuotes:
			if ch == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			flushRow()
		default:
			field.WriteRune(ch)
		}
	}
	flushRow()

	return rows
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
