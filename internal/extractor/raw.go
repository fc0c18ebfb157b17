package extractor

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/hex"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

// RawSource reads text straight from the file's content streams without a
// PDF object parser. It tracks the text matrix so every shown string keeps
// its origin, and decodes CID fonts through the file's ToUnicode tables.
// Every content stream that shows text counts as one page.
type RawSource struct {
	MaxPages int
}

// Pages implements Source.
func (s *RawSource) Pages(ctx context.Context, path string) ([][]models.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.pagesFromBytes(ctx, data)
}

func (s *RawSource) pagesFromBytes(ctx context.Context, data []byte) ([][]models.Fragment, error) {
	raw := extractStreams(data)
	streams := make([][]byte, len(raw))
	for i, st := range raw {
		streams[i] = tryDecompress(st)
	}
	cm := findCMaps(streams)

	var pages [][]models.Fragment
	for _, st := range streams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !bytes.Contains(st, []byte("BT")) || !(bytes.Contains(st, []byte("Tj")) || bytes.Contains(st, []byte("TJ"))) {
			continue
		}
		frags := readContentStream(st, cm)
		if len(frags) == 0 {
			continue
		}
		pages = append(pages, frags)
		if s.MaxPages > 0 && len(pages) >= s.MaxPages {
			break
		}
	}
	return pages, nil
}

// extractStreams finds every stream ... endstream body in the file.
func extractStreams(data []byte) [][]byte {
	var streams [][]byte
	startMarker := []byte("stream")
	endMarker := []byte("endstream")

	offset := 0
	for offset < len(data) {
		idx := bytes.Index(data[offset:], startMarker)
		if idx < 0 {
			break
		}
		start := offset + idx + len(startMarker)

		// "endstream" also contains "stream"; skip it.
		if idx >= 3 && bytes.Equal(data[offset+idx-3:offset+idx], []byte("end")) {
			offset = start
			continue
		}
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}

		end := bytes.Index(data[start:], endMarker)
		if end < 0 {
			break
		}
		if body := data[start : start+end]; len(body) > 0 {
			streams = append(streams, body)
		}
		offset = start + end + len(endMarker)
	}
	return streams
}

// tryDecompress inflates FlateDecode data and returns the input unchanged
// when it is not zlib.
func tryDecompress(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return data
	}
	return out
}

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// translate returns m moved by (tx, ty) in its own space.
func (m matrix) translate(tx, ty float64) matrix {
	m[4] += tx*m[0] + ty*m[2]
	m[5] += tx*m[1] + ty*m[3]
	return m
}

// textState follows the text positioning operators of one content stream.
type textState struct {
	tm, tlm  matrix
	leading  float64
	fontSize float64
	cm       *cmap

	frags   []models.Fragment
	pending *models.Fragment
}

// kernSpace is the TJ adjustment, in thousandths of an em, beyond which a
// gap is read as a space.
const kernSpace = -200

func readContentStream(data []byte, cm *cmap) []models.Fragment {
	st := &textState{tm: identity, tlm: identity, fontSize: 10, cm: cm}
	scanContent(data, st.apply)
	st.flush()
	return st.frags
}

func (st *textState) apply(op string, args []operand) {
	switch op {
	case "BT":
		st.flush()
		st.tm, st.tlm = identity, identity
	case "ET":
		st.flush()
	case "Tf":
		if n, ok := lastNumber(args); ok {
			st.fontSize = n
		}
	case "TL":
		if n, ok := lastNumber(args); ok {
			st.leading = n
		}
	case "Tm":
		if nums := numbers(args); len(nums) == 6 {
			st.flush()
			copy(st.tlm[:], nums)
			st.tm = st.tlm
		}
	case "Td", "TD":
		if nums := numbers(args); len(nums) == 2 {
			if op == "TD" {
				st.leading = -nums[1]
			}
			st.moveLine(nums[0], nums[1])
		}
	case "T*":
		st.moveLine(0, -st.leading)
	case "Tj":
		if s, ok := lastString(args); ok {
			st.show(st.decode(s))
		}
	case "'":
		st.moveLine(0, -st.leading)
		if s, ok := lastString(args); ok {
			st.show(st.decode(s))
		}
	case "\"":
		st.moveLine(0, -st.leading)
		if s, ok := lastString(args); ok {
			st.show(st.decode(s))
		}
	case "TJ":
		if len(args) == 0 || args[len(args)-1].kind != operandArray {
			return
		}
		var b strings.Builder
		for _, item := range args[len(args)-1].items {
			switch item.kind {
			case operandString:
				b.WriteString(st.decode(item))
			case operandNumber:
				if item.num <= kernSpace {
					b.WriteByte(' ')
				}
			}
		}
		st.show(b.String())
	}
}

func (st *textState) moveLine(tx, ty float64) {
	st.flush()
	st.tlm = st.tlm.translate(tx, ty)
	st.tm = st.tlm
}

// show appends text to the run that started at the current line origin.
// The text matrix is advanced by an estimate of half an em per glyph;
// real glyph widths would need the font program.
func (st *textState) show(text string) {
	if text == "" {
		return
	}
	if st.pending == nil {
		st.pending = &models.Fragment{X: st.tm[4], Y: st.tm[5]}
	}
	st.pending.Text += text
	advance := float64(utf8.RuneCountInString(text)) * st.fontSize * 0.5
	st.tm = st.tm.translate(advance, 0)
}

func (st *textState) flush() {
	if st.pending == nil {
		return
	}
	if text := strings.TrimSpace(st.pending.Text); text != "" {
		st.frags = append(st.frags, models.Fragment{Text: text, X: st.pending.X, Y: st.pending.Y})
	}
	st.pending = nil
}

func (st *textState) decode(o operand) string {
	if o.hex {
		return decodeHexString(o.str, st.cm)
	}
	return decodeLiteralString(o.str, st.cm)
}

// decodeHexString decodes the bytes of a <...> string: through the CMap
// when one matches, else as UTF-16BE, else as Latin-1.
func decodeHexString(raw []byte, cm *cmap) string {
	if s := cm.decode(raw); s != "" {
		return s
	}
	if len(raw) >= 2 && len(raw)%2 == 0 {
		var b strings.Builder
		for i := 0; i+1 < len(raw); i += 2 {
			r := rune(raw[i])<<8 | rune(raw[i+1])
			if unicode.IsPrint(r) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 && isPrintable(b.String()) {
			return b.String()
		}
	}
	return cleanString(latin1(raw))
}

// decodeLiteralString decodes the already unescaped bytes of a (...) string.
func decodeLiteralString(raw []byte, cm *cmap) string {
	if s := cm.decode(raw); s != "" && isPrintable(s) {
		return s
	}
	if utf8.Valid(raw) {
		return cleanString(string(raw))
	}
	return cleanString(latin1(raw))
}

// latin1 maps single-byte text (WinAnsi is close enough for å, ä, ö) to UTF-8.
func latin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, c := range raw {
		runes[i] = rune(c)
	}
	return string(runes)
}

func cleanString(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == ' ' {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)
}

// isPrintable reports whether more than half of s is printable.
func isPrintable(s string) bool {
	total, printable := 0, 0
	for _, r := range s {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return total > 0 && float64(printable)/float64(total) > 0.5
}

type operandKind int

const (
	operandNumber operandKind = iota
	operandString
	operandName
	operandArray
	operandOther
)

type operand struct {
	kind  operandKind
	num   float64
	str   []byte
	hex   bool
	items []operand
}

func numbers(args []operand) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		if a.kind == operandNumber {
			out = append(out, a.num)
		}
	}
	return out
}

func lastNumber(args []operand) (float64, bool) {
	for i := len(args) - 1; i >= 0; i-- {
		if args[i].kind == operandNumber {
			return args[i].num, true
		}
	}
	return 0, false
}

func lastString(args []operand) (operand, bool) {
	for i := len(args) - 1; i >= 0; i-- {
		if args[i].kind == operandString {
			return args[i], true
		}
	}
	return operand{}, false
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanContent tokenizes a content stream and calls fn for every operator
// with the operands collected since the previous one.
func scanContent(data []byte, fn func(op string, args []operand)) {
	var (
		args  []operand
		stack [][]operand
	)
	push := func(o operand) {
		if len(stack) > 0 {
			top := len(stack) - 1
			stack[top] = append(stack[top], o)
			return
		}
		args = append(args, o)
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isWhite(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteral(data, i)
			push(operand{kind: operandString, str: s})
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			end := bytes.IndexByte(data[i:], '>')
			if end < 0 {
				return
			}
			push(operand{kind: operandString, str: decodeHexBody(data[i+1 : i+end]), hex: true})
			i += end + 1
		case c == '[':
			stack = append(stack, nil)
			i++
		case c == ']':
			if len(stack) > 0 {
				items := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				push(operand{kind: operandArray, items: items})
			}
			i++
		case c == '/':
			j := i + 1
			for j < len(data) && !isWhite(data[j]) && !isDelim(data[j]) {
				j++
			}
			push(operand{kind: operandName, str: data[i+1 : j]})
			i = j
		case c == '{' || c == '}' || c == ')' || c == '>':
			i++
		default:
			j := i
			for j < len(data) && !isWhite(data[j]) && !isDelim(data[j]) {
				j++
			}
			word := string(data[i:j])
			i = j

			if n, err := strconv.ParseFloat(word, 64); err == nil {
				push(operand{kind: operandNumber, num: n})
				continue
			}
			switch word {
			case "true", "false", "null":
				push(operand{kind: operandOther})
				continue
			case "ID":
				i = skipInlineImage(data, i)
				args, stack = nil, nil
				continue
			}
			fn(word, args)
			args, stack = nil, nil
		}
	}
}

// readLiteral reads a balanced (...) string starting at data[start] and
// returns its unescaped bytes and the index after the closing paren.
func readLiteral(data []byte, start int) ([]byte, int) {
	depth := 0
	i := start
	for ; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return unescapeLiteral(data[start+1 : i]), i + 1
			}
		}
	}
	return unescapeLiteral(data[start+1:]), len(data)
}

func unescapeLiteral(s []byte) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out = append(out, s[i])
			continue
		}
		i++
		switch c := s[i]; c {
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
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			if c >= '0' && c <= '7' {
				val := int(c - '0')
				for k := 0; k < 2 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(s[i]-'0')
				}
				out = append(out, byte(val))
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func decodeHexBody(body []byte) []byte {
	clean := make([]byte, 0, len(body))
	for _, c := range body {
		if !isWhite(c) {
			clean = append(clean, c)
		}
	}
	if len(clean)%2 != 0 {
		clean = append(clean, '0')
	}
	out, err := hex.DecodeString(string(clean))
	if err != nil {
		return nil
	}
	return out
}

// skipInlineImage jumps past the binary data of an inline image (ID ... EI).
func skipInlineImage(data []byte, i int) int {
	for j := i; j+2 < len(data); j++ {
		if data[j] == 'E' && data[j+1] == 'I' && isWhite(data[j-1]) && (j+2 == len(data) || isWhite(data[j+2])) {
			return j + 2
		}
	}
	return len(data)
}
