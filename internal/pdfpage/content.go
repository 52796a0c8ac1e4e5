package pdfpage

import (
	"math"
	"strconv"
	"strings"
)

// Glyph metrics are not read from font descriptors; advances are estimated
// from the font size instead. Half an em per glyph keeps word anchors close
// enough to land in the right table cell.
const (
	avgGlyphWidth = 0.5
	// tjWordGap is the TJ adjustment, in thousandths of an em, beyond which
	// a shift separates words instead of kerning glyphs.
	tjWordGap = 150
	// axisSlack is how far a stroked segment may drift off-axis and still
	// count as a ruling line.
	axisSlack = 1.0
	// thinRectMax is the largest filled-rectangle thickness collapsed to a
	// centerline rule. Rulings are often painted as thin fills.
	thinRectMax = 2.0
)

// matrix is a PDF transformation matrix [a b c d e f].
type matrix struct{ a, b, c, d, e, f float64 }

func identityMatrix() matrix { return matrix{1, 0, 0, 1, 0, 0} }

func translation(tx, ty float64) matrix { return matrix{1, 0, 0, 1, tx, ty} }

// mul returns the matrix that applies m first, then n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.b*n.c,
		b: m.a*n.b + m.b*n.d,
		c: m.c*n.a + m.d*n.c,
		d: m.c*n.b + m.d*n.d,
		e: m.e*n.a + m.f*n.c + n.e,
		f: m.e*n.b + m.f*n.d + n.f,
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

type objKind int

const (
	kindNumber objKind = iota
	kindString
	kindName
	kindArray
	kindArrayEnd
	kindDictEnd
	kindOperator
	kindOther
)

// object is one token from a content stream: an operand or an operator.
type object struct {
	kind objKind
	num  float64
	str  []byte
	arr  []object
	op   string
}

func isWhitespace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanner tokenizes a decoded content stream.
type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) next() (object, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return object{}, false
	}
	b := s.data[s.pos]
	switch {
	case b == '(':
		s.pos++
		return object{kind: kindString, str: s.literalString()}, true
	case b == '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.pos += 2
			s.skipDict()
			return object{kind: kindOther}, true
		}
		s.pos++
		return object{kind: kindString, str: s.hexString()}, true
	case b == '>':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '>' {
			s.pos += 2
			return object{kind: kindDictEnd}, true
		}
		s.pos++
		return s.next()
	case b == '[':
		s.pos++
		return object{kind: kindArray, arr: s.array()}, true
	case b == ']':
		s.pos++
		return object{kind: kindArrayEnd}, true
	case b == '/':
		s.pos++
		return object{kind: kindName, op: s.regular()}, true
	case b == '{' || b == '}':
		s.pos++
		return object{kind: kindOther}, true
	case b >= '0' && b <= '9', b == '+', b == '-', b == '.':
		tok := s.numeric()
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return object{kind: kindNumber, num: v}, true
		}
		return object{kind: kindOther}, true
	default:
		return object{kind: kindOperator, op: s.regular()}, true
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		if isWhitespace(b) {
			s.pos++
			continue
		}
		if b == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		return
	}
}

func (s *scanner) regular() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *scanner) numeric() string {
	start := s.pos
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		if b >= '0' && b <= '9' || b == '+' || b == '-' || b == '.' {
			s.pos++
			continue
		}
		break
	}
	return string(s.data[start:s.pos])
}

// literalString reads a (...) string. The opening parenthesis has been
// consumed; balanced inner parentheses and backslash escapes are handled
// per the PDF string syntax.
func (s *scanner) literalString() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		s.pos++
		switch b {
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\r':
				// Escaped newline continues the string on the next line.
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data); i++ {
						d := s.data[s.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, b)
		default:
			out = append(out, b)
		}
	}
	return out
}

// hexString reads a <...> string. An odd trailing digit is padded with zero.
func (s *scanner) hexString() []byte {
	var out []byte
	hi := -1
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		s.pos++
		if b == '>' {
			break
		}
		v := hexVal(b)
		if v < 0 {
			continue
		}
		if hi < 0 {
			hi = v
		} else {
			out = append(out, byte(hi<<4|v))
			hi = -1
		}
	}
	if hi >= 0 {
		out = append(out, byte(hi<<4))
	}
	return out
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

func (s *scanner) array() []object {
	var out []object
	for {
		obj, ok := s.next()
		if !ok || obj.kind == kindArrayEnd {
			return out
		}
		out = append(out, obj)
	}
}

func (s *scanner) skipDict() {
	for {
		obj, ok := s.next()
		if !ok || obj.kind == kindDictEnd {
			return
		}
	}
}

// skipInlineImage advances past the binary payload of a BI..ID..EI inline
// image. The payload may contain arbitrary bytes, so EI is only accepted at
// a token boundary.
func (s *scanner) skipInlineImage() {
	for i := s.pos; i+1 < len(s.data); i++ {
		if s.data[i] != 'E' || s.data[i+1] != 'I' {
			continue
		}
		if i > 0 && !isWhitespace(s.data[i-1]) {
			continue
		}
		end := i + 2
		if end < len(s.data) && !isWhitespace(s.data[end]) && !isDelimiter(s.data[end]) {
			continue
		}
		s.pos = end
		return
	}
	s.pos = len(s.data)
}

type point struct{ x, y float64 }

type segment struct{ p0, p1 point }

// deviceRect is an axis-aligned rectangle in device space, normalized so
// x0 <= x1 and y0 <= y1.
type deviceRect struct{ x0, y0, x1, y1 float64 }

// interpreter executes the subset of content-stream operators that place
// text and draw table rulings. Everything else is ignored.
type interpreter struct {
	scan scanner

	ctm   matrix
	gsave []matrix

	tm, tlm   matrix
	fontSize  float64
	charSpace float64
	wordSpace float64
	hscale    float64
	leading   float64

	operands []object

	cur      point
	subStart point
	hasCur   bool
	segs     []segment
	rects    []deviceRect

	words []Word
	rules []Rule

	word       strings.Builder
	wordStart  point
	wordHeight float64
}

// interpretContent recovers the words and ruling lines of one decoded page
// content stream.
func interpretContent(content []byte) Page {
	in := &interpreter{
		scan:   scanner{data: content},
		ctm:    identityMatrix(),
		tm:     identityMatrix(),
		tlm:    identityMatrix(),
		hscale: 1,
	}
	for {
		obj, ok := in.scan.next()
		if !ok {
			break
		}
		if obj.kind != kindOperator {
			in.operands = append(in.operands, obj)
			continue
		}
		in.exec(obj.op)
		in.operands = in.operands[:0]
	}
	in.flushWord()
	return Page{Words: in.words, Rules: in.rules}
}

func (in *interpreter) exec(op string) {
	switch op {
	case "q":
		in.gsave = append(in.gsave, in.ctm)
	case "Q":
		if n := len(in.gsave); n > 0 {
			in.ctm = in.gsave[n-1]
			in.gsave = in.gsave[:n-1]
		}
	case "cm":
		if v, ok := in.numbers(6); ok {
			in.ctm = (matrix{v[0], v[1], v[2], v[3], v[4], v[5]}).mul(in.ctm)
		}

	case "m":
		if v, ok := in.numbers(2); ok {
			in.cur = in.device(v[0], v[1])
			in.subStart = in.cur
			in.hasCur = true
		}
	case "l":
		if v, ok := in.numbers(2); ok {
			p := in.device(v[0], v[1])
			if in.hasCur {
				in.segs = append(in.segs, segment{in.cur, p})
			}
			in.cur = p
			in.hasCur = true
		}
	case "c", "v", "y":
		// Curves never form table rulings; only the current point moves.
		n := 6
		if op != "c" {
			n = 4
		}
		if v, ok := in.numbers(n); ok {
			in.cur = in.device(v[n-2], v[n-1])
			in.hasCur = true
		}
	case "h":
		in.closeSubpath()
	case "re":
		if v, ok := in.numbers(4); ok {
			in.addRect(v[0], v[1], v[2], v[3])
		}

	case "S":
		in.strokePath()
	case "s":
		in.closeSubpath()
		in.strokePath()
	case "f", "F", "f*":
		in.fillPath()
	case "B", "B*":
		in.strokePath()
	case "b", "b*":
		in.closeSubpath()
		in.strokePath()
	case "n":
		in.clearPath()

	case "BT":
		in.flushWord()
		in.tm = identityMatrix()
		in.tlm = identityMatrix()
	case "ET":
		in.flushWord()
	case "Tf":
		if v, ok := in.numbers(1); ok {
			in.fontSize = v[0]
		}
	case "Tc":
		if v, ok := in.numbers(1); ok {
			in.charSpace = v[0]
		}
	case "Tw":
		if v, ok := in.numbers(1); ok {
			in.wordSpace = v[0]
		}
	case "Tz":
		if v, ok := in.numbers(1); ok {
			in.hscale = v[0] / 100
		}
	case "TL":
		if v, ok := in.numbers(1); ok {
			in.leading = v[0]
		}
	case "Td":
		if v, ok := in.numbers(2); ok {
			in.moveText(v[0], v[1])
		}
	case "TD":
		if v, ok := in.numbers(2); ok {
			in.leading = -v[1]
			in.moveText(v[0], v[1])
		}
	case "Tm":
		if v, ok := in.numbers(6); ok {
			in.flushWord()
			in.tm = matrix{v[0], v[1], v[2], v[3], v[4], v[5]}
			in.tlm = in.tm
		}
	case "T*":
		in.moveText(0, -in.leading)

	case "Tj":
		if s, ok := in.lastString(); ok {
			in.showString(s)
		}
	case "'":
		in.moveText(0, -in.leading)
		if s, ok := in.lastString(); ok {
			in.showString(s)
		}
	case "\"":
		if len(in.operands) >= 3 {
			if aw := in.operands[len(in.operands)-3]; aw.kind == kindNumber {
				in.wordSpace = aw.num
			}
			if ac := in.operands[len(in.operands)-2]; ac.kind == kindNumber {
				in.charSpace = ac.num
			}
		}
		in.moveText(0, -in.leading)
		if s, ok := in.lastString(); ok {
			in.showString(s)
		}
	case "TJ":
		in.showArray()

	case "BI":
		in.scan.skipInlineImage()
	}
}

// numbers returns the last n operands, all of which must be numeric.
func (in *interpreter) numbers(n int) ([]float64, bool) {
	if len(in.operands) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		o := in.operands[len(in.operands)-n+i]
		if o.kind != kindNumber {
			return nil, false
		}
		out[i] = o.num
	}
	return out, true
}

func (in *interpreter) lastString() ([]byte, bool) {
	for i := len(in.operands) - 1; i >= 0; i-- {
		if in.operands[i].kind == kindString {
			return in.operands[i].str, true
		}
	}
	return nil, false
}

func (in *interpreter) device(x, y float64) point {
	dx, dy := in.ctm.apply(x, y)
	return point{dx, dy}
}

func (in *interpreter) moveText(tx, ty float64) {
	in.flushWord()
	in.tlm = translation(tx, ty).mul(in.tlm)
	in.tm = in.tlm
}

// showString draws one string operand. Bytes are read as Latin-1, which
// holds for the simple fonts the source documents use. Spaces close the
// current word; everything else extends it.
func (in *interpreter) showString(s []byte) {
	for _, b := range s {
		adv := avgGlyphWidth*in.fontSize + in.charSpace
		if b == ' ' {
			adv += in.wordSpace
		}
		adv *= in.hscale

		if b == ' ' {
			in.flushWord()
		} else {
			if in.word.Len() == 0 {
				trm := in.tm.mul(in.ctm)
				x, y := trm.apply(0, 0)
				in.wordStart = point{x, y}
				in.wordHeight = in.fontSize * math.Hypot(trm.c, trm.d)
			}
			in.word.WriteRune(rune(b))
		}
		in.tm = translation(adv, 0).mul(in.tm)
	}
}

// showArray draws a TJ operand: strings interleaved with pen adjustments.
// Negative adjustments move the pen right; anything beyond kerning range
// starts a new word.
func (in *interpreter) showArray() {
	if len(in.operands) == 0 {
		return
	}
	arr := in.operands[len(in.operands)-1]
	if arr.kind != kindArray {
		return
	}
	for _, el := range arr.arr {
		switch el.kind {
		case kindString:
			in.showString(el.str)
		case kindNumber:
			if -el.num >= tjWordGap {
				in.flushWord()
			}
			tx := -el.num / 1000 * in.fontSize * in.hscale
			in.tm = translation(tx, 0).mul(in.tm)
		}
	}
}

func (in *interpreter) flushWord() {
	if in.word.Len() == 0 {
		return
	}
	x, _ := in.tm.mul(in.ctm).apply(0, 0)
	w := x - in.wordStart.x
	if w < 0 {
		w = 0
	}
	in.words = append(in.words, Word{
		Text: in.word.String(),
		X:    in.wordStart.x,
		Y:    in.wordStart.y,
		W:    w,
		H:    in.wordHeight,
	})
	in.word.Reset()
}

func (in *interpreter) closeSubpath() {
	if in.hasCur && in.cur != in.subStart {
		in.segs = append(in.segs, segment{in.cur, in.subStart})
		in.cur = in.subStart
	}
}

func (in *interpreter) addRect(x, y, w, h float64) {
	p00 := in.device(x, y)
	p10 := in.device(x+w, y)
	p11 := in.device(x+w, y+h)
	p01 := in.device(x, y+h)

	// A rotated user space turns the rectangle into a plain quad; keep its
	// edges as segments in that case.
	if math.Abs(p00.y-p10.y) < 1e-6 && math.Abs(p00.x-p01.x) < 1e-6 {
		in.rects = append(in.rects, deviceRect{
			x0: math.Min(p00.x, p11.x),
			y0: math.Min(p00.y, p11.y),
			x1: math.Max(p00.x, p11.x),
			y1: math.Max(p00.y, p11.y),
		})
	} else {
		in.segs = append(in.segs,
			segment{p00, p10}, segment{p10, p11},
			segment{p11, p01}, segment{p01, p00})
	}
	in.cur = p00
	in.subStart = p00
	in.hasCur = true
}

func (in *interpreter) strokePath() {
	for _, seg := range in.segs {
		if r, ok := axisRule(seg); ok {
			in.rules = append(in.rules, r)
		}
	}
	for _, rc := range in.rects {
		in.rules = append(in.rules, rectBorders(rc)...)
	}
	in.clearPath()
}

// fillPath keeps only rectangles: a thin fill becomes a centerline rule,
// anything wider contributes its borders. Filled free-form paths are not
// rulings.
func (in *interpreter) fillPath() {
	for _, rc := range in.rects {
		switch {
		case rc.y1-rc.y0 <= thinRectMax:
			y := (rc.y0 + rc.y1) / 2
			in.rules = append(in.rules, Rule{X0: rc.x0, Y0: y, X1: rc.x1, Y1: y})
		case rc.x1-rc.x0 <= thinRectMax:
			x := (rc.x0 + rc.x1) / 2
			in.rules = append(in.rules, Rule{X0: x, Y0: rc.y0, X1: x, Y1: rc.y1})
		default:
			in.rules = append(in.rules, rectBorders(rc)...)
		}
	}
	in.clearPath()
}

func (in *interpreter) clearPath() {
	in.segs = in.segs[:0]
	in.rects = in.rects[:0]
	in.hasCur = false
}

func axisRule(s segment) (Rule, bool) {
	dx := math.Abs(s.p1.x - s.p0.x)
	dy := math.Abs(s.p1.y - s.p0.y)
	if dx > axisSlack && dy > axisSlack {
		return Rule{}, false
	}
	return Rule{
		X0: math.Min(s.p0.x, s.p1.x),
		Y0: math.Min(s.p0.y, s.p1.y),
		X1: math.Max(s.p0.x, s.p1.x),
		Y1: math.Max(s.p0.y, s.p1.y),
	}, true
}

func rectBorders(r deviceRect) []Rule {
	return []Rule{
		{X0: r.x0, Y0: r.y0, X1: r.x1, Y1: r.y0},
		{X0: r.x0, Y0: r.y1, X1: r.x1, Y1: r.y1},
		{X0: r.x0, Y0: r.y0, X1: r.x0, Y1: r.y1},
		{X0: r.x1, Y0: r.y0, X1: r.x1, Y1: r.y1},
	}
}
