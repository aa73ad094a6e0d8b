package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, fragment string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return root
}

func TestParseTable_FirstRowHeaders(t *testing.T) {
	root := parseFragment(t, `<table>
		<tr><th>Name</th><th>Score</th></tr>
		<tr><td>Alice</td><td>10</td></tr>
		<tr><td>Bob</td><td>12</td></tr>
	</table>`)
	table := findElement(root, func(n *html.Node) bool { return isElement(n, "table") })
	require.NotNil(t, table)

	parsed := parseTable(table)
	assert.Equal(t, []string{"Name", "Score"}, parsed.Headers)
	assert.Equal(t, [][]string{{"Alice", "10"}, {"Bob", "12"}}, parsed.Rows)
}

func TestParseTable_TheadHeaders(t *testing.T) {
	root := parseFragment(t, `<table>
		<thead><tr><th>City</th><th>Country</th></tr></thead>
		<tbody><tr><td>Bern</td><td>CH</td></tr></tbody>
	</table>`)
	table := findElement(root, func(n *html.Node) bool { return isElement(n, "table") })
	require.NotNil(t, table)

	parsed := parseTable(table)
	assert.Equal(t, []string{"City", "Country"}, parsed.Headers)
	assert.Equal(t, [][]string{{"Bern", "CH"}}, parsed.Rows)
}

func TestParseTable_Caption(t *testing.T) {
	root := parseFragment(t, `<table>
		<caption>Population</caption>
		<tr><th>City</th></tr>
		<tr><td>Bern</td></tr>
	</table>`)
	table := findElement(root, func(n *html.Node) bool { return isElement(n, "table") })
	require.NotNil(t, table)

	assert.Equal(t, "Population", parseTable(table).Caption)
}

func TestPruneEmptyColumns_EmptyHeaderDropped(t *testing.T) {
	pruned := pruneEmptyColumns(Table{
		Headers: []string{"Name", "", "Score"},
		Rows: [][]string{
			{"Alice", "x", "10"},
			{"Bob", "y", "12"},
		},
	})

	assert.Equal(t, []string{"Name", "Score"}, pruned.Headers)
	assert.Equal(t, [][]string{{"Alice", "10"}, {"Bob", "12"}}, pruned.Rows)
}

func TestPruneEmptyColumns_AllEmptyDataDropped(t *testing.T) {
	pruned := pruneEmptyColumns(Table{
		Headers: []string{"Name", "Badge", "Score"},
		Rows: [][]string{
			{"Alice", "", "10"},
			{"Bob", "", "12"},
		},
	})

	assert.Equal(t, []string{"Name", "Score"}, pruned.Headers)
	assert.Equal(t, [][]string{{"Alice", "10"}, {"Bob", "12"}}, pruned.Rows)
}

func TestPruneEmptyColumns_PartialDataKept(t *testing.T) {
	table := Table{
		Headers: []string{"Name", "Note"},
		Rows: [][]string{
			{"Alice", ""},
			{"Bob", "captain"},
		},
	}

	assert.Equal(t, table, pruneEmptyColumns(table))
}

func TestTableSerialize(t *testing.T) {
	table := Table{
		Caption: "Squad",
		Headers: []string{"Name"},
		Rows:    [][]string{{"Alice"}},
	}

	out := table.serialize()
	assert.Contains(t, out, "<TABLE-CAPTION>Squad</TABLE-CAPTION>")
	assert.Contains(t, out, `<TABLE-DATA>{"headers":["Name"],"rows":[["Alice"]]}</TABLE-DATA>`)
}
