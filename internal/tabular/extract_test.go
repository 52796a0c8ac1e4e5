package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/sanctionlistflow/internal/pdfpage"
)

func testSchema() Schema {
	return Schema{
		Name:    "test",
		Markers: []string{"(1)", "(2)"},
		Columns: 2,
	}
}

// listPage builds a page carrying one ruled two-column table: a marker
// header plus one row per entry. Banner words land above the table as free
// page text.
func listPage(entries [][2]string, banner ...string) pdfpage.Page {
	xs := []float64{70, 150, 300}
	top := 700.0
	ys := []float64{top}
	for i := 0; i <= len(entries); i++ {
		ys = append(ys, top-20*float64(i+1))
	}

	page := pdfpage.Page{Rules: gridRules(xs, ys)}
	add := func(text string, x, y float64) {
		page.Words = append(page.Words, word(text, x, y))
	}

	add("no.", 75, top-14)
	add("(1)", 95, top-14)
	add("name", 155, top-14)
	add("(2)", 190, top-14)
	for i, e := range entries {
		y := top - 20*float64(i+1) - 14
		add(e[0], 75, y)
		add(e[1], 155, y)
	}
	for i, b := range banner {
		add(b, 72+30*float64(i), top+40)
	}
	return page
}

func TestHarvestRequiresAllMarkers(t *testing.T) {
	table := [][]string{
		{"no. (1)", "name (2)"},
		{"1.", "ALI"},
	}
	rows := harvest(table, testSchema())
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ID)

	missing := [][]string{
		{"no. (1)", "something else"},
		{"1.", "ALI"},
	}
	assert.Empty(t, harvest(missing, testSchema()))
}

func TestHarvestRejectsHeaderOnlyTables(t *testing.T) {
	assert.Empty(t, harvest([][]string{{"no. (1)", "name (2)"}}, testSchema()))
	assert.Empty(t, harvest(nil, testSchema()))
}

func TestHarvestDropsNonNumericRows(t *testing.T) {
	table := [][]string{
		{"no. (1)", "name (2)"},
		{"1.", "ALI"},
		{"TOTAL", "2 records"},
		{"", "continuation text"},
		{"2", "BABA"},
	}

	rows := harvest(table, testSchema())

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 2, rows[1].ID)
}

func TestHarvestNormalizesRowWidth(t *testing.T) {
	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	schema := Schema{
		Markers:    []string{"(1)"},
		Columns:    4,
		Transforms: []Transform{nil, dash, dash, dash},
	}
	table := [][]string{
		{"no. (1)", "a", "b", "c"},
		{"1.", "ALI"},
		{"2.", "BABA", "x", "y", "overflow"},
	}

	rows := harvest(table, schema)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1.", "ALI", "-", "-"}, rows[0].Cells)
	assert.Equal(t, []string{"2.", "BABA", "x", "y"}, rows[1].Cells)
}

func TestHarvestFlattensMultilineCells(t *testing.T) {
	table := [][]string{
		{"no.\n(1)", "name\n(2)"},
		{"7.", "ALI\nBIN\nBABA"},
	}

	rows := harvest(table, testSchema())

	require.Len(t, rows, 1)
	assert.Equal(t, "ALI BIN BABA", rows[0].Cells[1])
}

func TestHarvestTransformsSkipIDColumn(t *testing.T) {
	schema := testSchema()
	schema.Transforms = []Transform{strings.ToUpper, strings.ToUpper}
	table := [][]string{
		{"no. (1)", "name (2)"},
		{"3.", "ali"},
	}

	rows := harvest(table, schema)

	require.Len(t, rows, 1)
	assert.Equal(t, "3.", rows[0].Cells[0])
	assert.Equal(t, "ALI", rows[0].Cells[1])
}

func TestExtractStopsAtHeadingBeforeReadingTables(t *testing.T) {
	pages := []pdfpage.Page{
		listPage([][2]string{{"1.", "ALPHA"}, {"2.", "BRAVO"}}),
		listPage([][2]string{{"3.", "CHARLIE"}}, "B.", "GROUP"),
		listPage([][2]string{{"4.", "DELTA"}}),
	}

	rows := Extract(pages, testSchema(), Options{
		Settings:    DefaultSettings(),
		StopHeading: "B. GROUP",
		LastPage:    -1,
	})

	// The boundary page's own tables must not be read.
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 2, rows[1].ID)
}

func TestExtractPageRange(t *testing.T) {
	pages := []pdfpage.Page{
		listPage([][2]string{{"1.", "A"}}),
		listPage([][2]string{{"2.", "B"}}),
		listPage([][2]string{{"3.", "C"}}),
	}
	opts := func(first, last int) Options {
		return Options{Settings: DefaultSettings(), FirstPage: first, LastPage: last}
	}

	ids := func(rows []Row) []int {
		var out []int
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []int{2}, ids(Extract(pages, testSchema(), opts(1, 1))))
	assert.Equal(t, []int{2, 3}, ids(Extract(pages, testSchema(), opts(1, -1))))
	assert.Equal(t, []int{1, 2, 3}, ids(Extract(pages, testSchema(), opts(0, 99))))
	assert.Empty(t, Extract(pages, testSchema(), opts(5, -1)))
}

func TestExtractIsDeterministic(t *testing.T) {
	pages := []pdfpage.Page{
		listPage([][2]string{{"1.", "ALPHA"}, {"2.", "BRAVO"}}),
		listPage([][2]string{{"3.", "CHARLIE"}}),
	}
	opts := Options{Settings: DefaultSettings(), LastPage: -1}

	first := Extract(pages, testSchema(), opts)
	second := Extract(pages, testSchema(), opts)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}
