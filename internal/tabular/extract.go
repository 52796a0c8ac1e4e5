package tabular

import (
	"strconv"
	"strings"

	"github.com/Lllllllleong/sanctionlistflow/internal/pdfpage"
)

// Transform rewrites one harvested cell value.
type Transform func(string) string

// Schema describes the table shape one record type is harvested from.
type Schema struct {
	// Name identifies the schema in diagnostics.
	Name string
	// Markers are header fragments that must all appear, lowercased, in a
	// table's first row for the table to be harvested. Tables missing any
	// of them are skipped whole.
	Markers []string
	// Columns is the exact width rows are normalized to. Narrower rows are
	// right-padded with empty cells, wider ones truncated.
	Columns int
	// Transforms run per column on every harvested row. A nil entry leaves
	// the cell as extracted. Index 0 is never transformed; the first column
	// is the numeric record ID.
	Transforms []Transform
}

// Row is one harvested record. Cells always holds exactly Columns entries,
// including the ID column at index 0.
type Row struct {
	ID    int
	Cells []string
}

// Options bound one extraction pass over a document.
type Options struct {
	Settings Settings
	// StopHeading halts the pass at the first page whose text contains it,
	// before any of that page's tables are read. Empty means no boundary.
	StopHeading string
	// FirstPage and LastPage bound the pass, 0-indexed inclusive. A
	// LastPage of -1 means the document's final page.
	FirstPage int
	LastPage  int
}

// Extract harvests schema-shaped rows from the ruled tables of a page
// range. Pages yield their tables top to bottom, so row order follows
// document order.
func Extract(pages []pdfpage.Page, schema Schema, opts Options) []Row {
	first := opts.FirstPage
	if first < 0 {
		first = 0
	}
	last := opts.LastPage
	if last < 0 || last >= len(pages) {
		last = len(pages) - 1
	}

	var rows []Row
	for i := first; i <= last; i++ {
		page := pages[i]
		if opts.StopHeading != "" && strings.Contains(page.Text(), opts.StopHeading) {
			break
		}
		for _, table := range DetectTables(page, opts.Settings) {
			rows = append(rows, harvest(table, schema)...)
		}
	}
	return rows
}

// harvest pulls schema rows out of one detected table. Tables shorter than
// a header plus one row, or whose header lacks a marker, are continuation
// fragments or unrelated grids and yield nothing. Rows whose first cell is
// not numeric are headers or separators and are dropped.
func harvest(table [][]string, schema Schema) []Row {
	if len(table) < 2 {
		return nil
	}
	header := strings.ToLower(strings.ReplaceAll(strings.Join(table[0], " "), "\n", " "))
	for _, m := range schema.Markers {
		if !strings.Contains(header, m) {
			return nil
		}
	}

	var rows []Row
	for _, raw := range table[1:] {
		cells := normalizeCells(raw, schema.Columns)
		id, ok := rowID(cells[0])
		if !ok {
			continue
		}
		for col, tr := range schema.Transforms {
			if tr == nil || col == 0 || col >= len(cells) {
				continue
			}
			cells[col] = tr(cells[col])
		}
		rows = append(rows, Row{ID: id, Cells: cells})
	}
	return rows
}

// normalizeCells flattens multi-line cells and fixes the row width.
func normalizeCells(raw []string, width int) []string {
	cells := make([]string, width)
	for i := 0; i < width && i < len(raw); i++ {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(raw[i], "\n", " "))
	}
	return cells
}

// rowID reads the record number from the first cell. Trailing dots are
// tolerated ("12." numbers a record); anything non-numeric is not a record
// row.
func rowID(cell string) (int, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(cell, ".", ""))
	if cleaned == "" {
		return 0, false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return id, true
}
