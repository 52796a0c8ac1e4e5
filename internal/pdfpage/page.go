// Package pdfpage turns PDF bytes into positioned words and ruling lines,
// the raw material for table detection. Coordinates are in device space
// with the origin at the bottom-left corner, so larger Y means higher on
// the page.
package pdfpage

import (
	"sort"
	"strings"
)

// lineTolerance is the largest baseline distance at which two words still
// count as the same text line.
const lineTolerance = 3.0

// Word is one run of glyphs with its bounding box. X/Y anchor the left end
// of the baseline; H reaches up to the nominal cap height.
type Word struct {
	Text string
	X    float64
	Y    float64
	W    float64
	H    float64
}

// Rule is one axis-aligned line segment recovered from the page's vector
// graphics, normalized so X0 <= X1 and Y0 <= Y1.
type Rule struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// Horizontal reports whether the rule runs along the X axis.
func (r Rule) Horizontal() bool {
	return r.Y1-r.Y0 <= r.X1-r.X0
}

// Page holds everything extracted from one PDF page. Number is 1-based.
type Page struct {
	Number int
	Words  []Word
	Rules  []Rule
}

// Text joins the page's words in reading order: lines from top to bottom,
// words left to right, single spaces between words and newlines between
// lines.
func (p Page) Text() string {
	if len(p.Words) == 0 {
		return ""
	}

	words := append([]Word(nil), p.Words...)
	sort.SliceStable(words, func(i, j int) bool { return words[i].Y > words[j].Y })

	var lines [][]Word
	current := []Word{words[0]}
	lineY := words[0].Y
	for _, w := range words[1:] {
		if lineY-w.Y > lineTolerance {
			lines = append(lines, current)
			current = nil
			lineY = w.Y
		}
		current = append(current, w)
	}
	lines = append(lines, current)

	var b strings.Builder
	for i, line := range lines {
		sort.SliceStable(line, func(a, b int) bool { return line[a].X < line[b].X })
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range line {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
	}
	return b.String()
}
