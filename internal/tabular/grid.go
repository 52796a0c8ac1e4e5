// Package tabular recovers ruled tables from positioned page content and
// harvests schema-shaped record rows out of them.
package tabular

import (
	"sort"
	"strings"

	"github.com/Lllllllleong/sanctionlistflow/internal/pdfpage"
)

// Edge strategies.
const (
	// StrategyLines derives grid edges from the page's ruling lines.
	StrategyLines = "lines"
	// StrategyText derives grid edges from aligned word boundaries, for
	// tables drawn without rulings.
	StrategyText = "text"
)

// intersectTol is how close a horizontal and a vertical edge must come to
// count as crossing.
const intersectTol = 1.0

// Settings tune grid detection. Tolerances are in PDF points.
type Settings struct {
	VerticalStrategy   string
	HorizontalStrategy string
	// SnapTolerance clusters nearby parallel edges onto one shared grid
	// line.
	SnapTolerance float64
	// JoinTolerance merges collinear edge fragments separated by small
	// gaps, so rulings drawn cell by cell still form one edge.
	JoinTolerance float64
	// TextTolerance groups a cell's words into text lines.
	TextTolerance float64
	// MinWords is how many aligned words imply an edge under the text
	// strategy.
	MinWords int
}

// DefaultSettings is the profile both source layouts were tuned against:
// ruling-line edges with 5-point tolerances.
func DefaultSettings() Settings {
	return Settings{
		VerticalStrategy:   StrategyLines,
		HorizontalStrategy: StrategyLines,
		SnapTolerance:      5,
		JoinTolerance:      5,
		TextTolerance:      5,
		MinWords:           1,
	}
}

// edge is one grid line candidate: pos on the perpendicular axis, lo..hi
// along the parallel one.
type edge struct {
	pos, lo, hi float64
}

// DetectTables recovers every ruled table on the page as a grid of trimmed
// cell texts, header row first. Tables are ordered top to bottom. Cells
// covering no words come back as empty strings.
func DetectTables(page pdfpage.Page, s Settings) [][][]string {
	vertical := snapAndJoin(verticalEdges(page, s), s)
	horizontal := snapAndJoin(horizontalEdges(page, s), s)
	if len(vertical) < 2 || len(horizontal) < 2 {
		return nil
	}

	var tables [][][]string
	for _, g := range lattices(vertical, horizontal) {
		tables = append(tables, g.fill(page.Words, s.TextTolerance))
	}
	return tables
}

func verticalEdges(page pdfpage.Page, s Settings) []edge {
	if s.VerticalStrategy == StrategyText {
		return wordEdgesVertical(page.Words, s.MinWords)
	}
	var edges []edge
	for _, r := range page.Rules {
		if !r.Horizontal() {
			edges = append(edges, edge{pos: (r.X0 + r.X1) / 2, lo: r.Y0, hi: r.Y1})
		}
	}
	return edges
}

func horizontalEdges(page pdfpage.Page, s Settings) []edge {
	if s.HorizontalStrategy == StrategyText {
		return wordEdgesHorizontal(page.Words, s.MinWords)
	}
	var edges []edge
	for _, r := range page.Rules {
		if r.Horizontal() {
			edges = append(edges, edge{pos: (r.Y0 + r.Y1) / 2, lo: r.X0, hi: r.X1})
		}
	}
	return edges
}

// wordEdgesVertical treats columns of left-aligned words as column
// boundaries, plus one closing edge at the right of the rightmost word.
func wordEdgesVertical(words []pdfpage.Word, minWords int) []edge {
	clusters := clusterWords(words, func(w pdfpage.Word) float64 { return w.X }, minWords)
	if len(clusters) == 0 {
		return nil
	}

	lo, hi := words[0].Y, words[0].Y+words[0].H
	right := words[0].X + words[0].W
	for _, w := range words {
		lo = min(lo, w.Y)
		hi = max(hi, w.Y+w.H)
		right = max(right, w.X+w.W)
	}

	var edges []edge
	for _, c := range clusters {
		edges = append(edges, edge{pos: c, lo: lo, hi: hi})
	}
	return append(edges, edge{pos: right, lo: lo, hi: hi})
}

// wordEdgesHorizontal treats each text line of enough words as a row band,
// contributing its top and bottom as edges.
func wordEdgesHorizontal(words []pdfpage.Word, minWords int) []edge {
	if len(words) == 0 {
		return nil
	}
	idx := make([]int, len(words))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return words[idx[a]].Y < words[idx[b]].Y })

	left, right := words[0].X, words[0].X+words[0].W
	for _, w := range words {
		left = min(left, w.X)
		right = max(right, w.X+w.W)
	}

	var edges []edge
	flush := func(members []int) {
		if len(members) < minWords {
			return
		}
		bottom := words[members[0]].Y
		top := bottom
		for _, m := range members {
			bottom = min(bottom, words[m].Y)
			top = max(top, words[m].Y+words[m].H)
		}
		edges = append(edges,
			edge{pos: top, lo: left, hi: right},
			edge{pos: bottom, lo: left, hi: right})
	}

	var members []int
	for i, id := range idx {
		if i > 0 && words[id].Y-words[idx[i-1]].Y > 1 {
			flush(members)
			members = nil
		}
		members = append(members, id)
	}
	flush(members)
	return edges
}

// clusterWords single-links the words along one axis and returns the mean
// position of each cluster of at least minWords members.
func clusterWords(words []pdfpage.Word, key func(pdfpage.Word) float64, minWords int) []float64 {
	if len(words) == 0 {
		return nil
	}
	values := make([]float64, len(words))
	for i, w := range words {
		values[i] = key(w)
	}
	sort.Float64s(values)

	var out []float64
	start := 0
	for i := 1; i <= len(values); i++ {
		if i < len(values) && values[i]-values[i-1] <= 1 {
			continue
		}
		if i-start >= minWords {
			sum := 0.0
			for _, v := range values[start:i] {
				sum += v
			}
			out = append(out, sum/float64(i-start))
		}
		start = i
	}
	return out
}

// snapAndJoin aligns nearby parallel edges onto shared positions, then
// merges collinear fragments whose gaps fit within the join tolerance.
func snapAndJoin(edges []edge, s Settings) []edge {
	if len(edges) == 0 {
		return nil
	}
	sorted := append([]edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].pos < sorted[j].pos })

	var out []edge
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].pos-sorted[end-1].pos <= s.SnapTolerance {
			end++
		}
		cluster := sorted[start:end]
		sum := 0.0
		for _, e := range cluster {
			sum += e.pos
		}
		out = append(out, joinAt(sum/float64(len(cluster)), cluster, s.JoinTolerance)...)
		start = end
	}
	return out
}

// joinAt merges one snapped cluster's fragments along their shared line.
func joinAt(pos float64, cluster []edge, joinTol float64) []edge {
	frags := append([]edge(nil), cluster...)
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].lo < frags[j].lo })

	var out []edge
	merged := edge{pos: pos, lo: frags[0].lo, hi: frags[0].hi}
	for _, f := range frags[1:] {
		if f.lo <= merged.hi+joinTol {
			merged.hi = max(merged.hi, f.hi)
			continue
		}
		out = append(out, merged)
		merged = edge{pos: pos, lo: f.lo, hi: f.hi}
	}
	return append(out, merged)
}

// lattice is one table candidate: the distinct x and y grid positions of a
// connected set of edge crossings. ys run top to bottom.
type lattice struct {
	xs []float64
	ys []float64
}

// lattices intersects the edge sets and splits the crossings into connected
// components. Each component whose crossings span at least a 1x1 cell grid
// becomes a table candidate, ordered top to bottom.
func lattices(vertical, horizontal []edge) []lattice {
	type crossing struct{ v, h int }
	var crossings []crossing
	for vi, v := range vertical {
		for hi, h := range horizontal {
			if v.pos >= h.lo-intersectTol && v.pos <= h.hi+intersectTol &&
				h.pos >= v.lo-intersectTol && h.pos <= v.hi+intersectTol {
				crossings = append(crossings, crossing{v: vi, h: hi})
			}
		}
	}
	if len(crossings) == 0 {
		return nil
	}

	parent := make([]int, len(crossings))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	// Crossings sharing an edge belong to the same table.
	lastV := make(map[int]int)
	lastH := make(map[int]int)
	for i, c := range crossings {
		if j, ok := lastV[c.v]; ok {
			parent[find(i)] = find(j)
		}
		if j, ok := lastH[c.h]; ok {
			parent[find(i)] = find(j)
		}
		lastV[c.v] = i
		lastH[c.h] = i
	}

	var order []int
	components := make(map[int][]crossing)
	for i, c := range crossings {
		root := find(i)
		if _, seen := components[root]; !seen {
			order = append(order, root)
		}
		components[root] = append(components[root], c)
	}

	var out []lattice
	for _, root := range order {
		var xs, ys []float64
		for _, c := range components[root] {
			xs = append(xs, vertical[c.v].pos)
			ys = append(ys, horizontal[c.h].pos)
		}
		xs = dedupeAsc(xs)
		ys = dedupeAsc(ys)
		if len(xs) < 2 || len(ys) < 2 {
			continue
		}
		reverse(ys)
		out = append(out, lattice{xs: xs, ys: ys})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ys[0] > out[j].ys[0] })
	return out
}

// fill assigns words to the lattice cells by their center point and joins
// each cell's words in reading order.
func (g lattice) fill(words []pdfpage.Word, textTol float64) [][]string {
	rows := len(g.ys) - 1
	cols := len(g.xs) - 1
	cells := make([][][]pdfpage.Word, rows)
	for i := range cells {
		cells[i] = make([][]pdfpage.Word, cols)
	}

	for _, w := range words {
		col := columnOf(g.xs, w.X+w.W/2)
		row := rowOf(g.ys, w.Y+w.H/2)
		if col < 0 || row < 0 {
			continue
		}
		cells[row][col] = append(cells[row][col], w)
	}

	out := make([][]string, rows)
	for r := range cells {
		out[r] = make([]string, cols)
		for c := range cells[r] {
			out[r][c] = cellText(cells[r][c], textTol)
		}
	}
	return out
}

func columnOf(xs []float64, x float64) int {
	for i := 0; i+1 < len(xs); i++ {
		if x >= xs[i] && x < xs[i+1] {
			return i
		}
	}
	return -1
}

func rowOf(ys []float64, y float64) int {
	for i := 0; i+1 < len(ys); i++ {
		if y <= ys[i] && y > ys[i+1] {
			return i
		}
	}
	return -1
}

// cellText joins a cell's words: lines top to bottom separated by newlines,
// words left to right separated by spaces.
func cellText(words []pdfpage.Word, textTol float64) string {
	if len(words) == 0 {
		return ""
	}
	sorted := append([]pdfpage.Word(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var b strings.Builder
	writeLine := func(line []pdfpage.Word) {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		for i, w := range line {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
	}

	line := []pdfpage.Word{sorted[0]}
	lineY := sorted[0].Y
	for _, w := range sorted[1:] {
		if lineY-w.Y > textTol {
			writeLine(line)
			b.WriteByte('\n')
			line = line[:0]
			lineY = w.Y
		}
		line = append(line, w)
	}
	writeLine(line)
	return strings.TrimSpace(b.String())
}

func dedupeAsc(vals []float64) []float64 {
	sort.Float64s(vals)
	var out []float64
	for _, v := range vals {
		if len(out) > 0 && v == out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func reverse(vals []float64) {
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
}
