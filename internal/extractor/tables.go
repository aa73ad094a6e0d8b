package extractor

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// Table is the structured form of one extracted <table>.
type Table struct {
	Caption string     `json:"-"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// extractTables walks the container and returns every table node in
// document order together with its structured form. Columns whose header
// is empty and whose data is empty in every row are dropped.
func extractTables(container *html.Node) map[*html.Node]Table {
	tables := make(map[*html.Node]Table)
	forEachElement(container, func(n *html.Node) bool {
		if isElement(n, "table") {
			tables[n] = parseTable(n)
			return false
		}
		return true
	})
	return tables
}

// parseTable captures a table's caption, header cells and body rows.
func parseTable(table *html.Node) Table {
	caption := ""
	if cap := findElement(table, func(n *html.Node) bool { return isElement(n, "caption") }); cap != nil {
		caption = strings.TrimSpace(textContent(cap))
	}

	headerRow, fromThead := findHeaderRow(table)
	var headers []string
	if headerRow != nil {
		if fromThead {
			headers = cellTexts(headerRow, "th")
		} else {
			headers = cellTexts(headerRow, "th", "td")
		}
	}

	var rows [][]string
	forEachElement(table, func(n *html.Node) bool {
		if isElement(n, "tr") {
			if n != headerRow {
				rows = append(rows, cellTexts(n, "td"))
			}
			return false
		}
		return true
	})

	return pruneEmptyColumns(Table{Caption: caption, Headers: headers, Rows: rows})
}

// findHeaderRow prefers the first <thead> row, else the table's first row.
func findHeaderRow(table *html.Node) (*html.Node, bool) {
	if thead := findElement(table, func(n *html.Node) bool { return isElement(n, "thead") }); thead != nil {
		if row := findElement(thead, func(n *html.Node) bool { return isElement(n, "tr") }); row != nil {
			return row, true
		}
	}
	return findElement(table, func(n *html.Node) bool { return isElement(n, "tr") }), false
}

// cellTexts returns the trimmed text of the row's cells with any of the
// given tags, in order.
func cellTexts(row *html.Node, tags ...string) []string {
	var texts []string
	forEachElement(row, func(n *html.Node) bool {
		for _, tag := range tags {
			if isElement(n, tag) {
				texts = append(texts, strings.TrimSpace(textContent(n)))
				return false
			}
		}
		return true
	})
	return texts
}

// pruneEmptyColumns drops any column whose header is empty or whose data
// is empty in every row. Headers and rows keep equal, reduced width.
func pruneEmptyColumns(t Table) Table {
	doomed := make(map[int]bool)
	for i, header := range t.Headers {
		emptyHeader := header == ""
		emptyData := true
		for _, row := range t.Rows {
			if i < len(row) && row[i] != "" {
				emptyData = false
				break
			}
		}
		if emptyHeader || emptyData {
			doomed[i] = true
		}
	}
	if len(doomed) == 0 {
		return t
	}

	headers := make([]string, 0, len(t.Headers)-len(doomed))
	for i, header := range t.Headers {
		if !doomed[i] {
			headers = append(headers, header)
		}
	}

	rows := make([][]string, len(t.Rows))
	for ri, row := range t.Rows {
		kept := make([]string, 0, len(row))
		for i, cell := range row {
			if !doomed[i] {
				kept = append(kept, cell)
			}
		}
		rows[ri] = kept
	}

	return Table{Caption: t.Caption, Headers: headers, Rows: rows}
}

// serialize renders the table as a caption tag followed by a JSON
// headers/rows block, matching the structured text format.
func (t Table) serialize() string {
	data, err := json.Marshal(t)
	if err != nil {
		// Headers and rows are plain strings; marshalling cannot fail.
		data = []byte(`{"headers":[],"rows":[]}`)
	}

	var sb strings.Builder
	sb.WriteString("\n<TABLE-CAPTION>")
	sb.WriteString(t.Caption)
	sb.WriteString("</TABLE-CAPTION>\n")
	sb.WriteString("<TABLE>\n<TABLE-DATA>")
	sb.Write(data)
	sb.WriteString("</TABLE-DATA>\n</TABLE>\n\n")
	return sb.String()
}
