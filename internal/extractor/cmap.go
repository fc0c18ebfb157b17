package extractor

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf16"
)

// cmap maps character codes (upper-case hex) to Unicode text, as declared in
// a font's ToUnicode stream.
type cmap struct {
	chars map[string]string

	// codeLen is the widest source code seen, in bytes.
	codeLen int
}

func newCMap() *cmap {
	return &cmap{chars: make(map[string]string)}
}

var (
	bfCharBlockRe  = regexp.MustCompile(`(?s)beginbfchar\s*(.*?)\s*endbfchar`)
	bfRangeBlockRe = regexp.MustCompile(`(?s)beginbfrange\s*(.*?)\s*endbfrange`)
	hexTokenRe     = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
)

func (cm *cmap) set(srcHex, uni string) {
	if uni == "" {
		return
	}
	srcHex = strings.ToUpper(srcHex)
	cm.chars[srcHex] = uni
	if n := (len(srcHex) + 1) / 2; n > cm.codeLen {
		cm.codeLen = n
	}
}

// parseCMap reads the bfchar and bfrange sections of a ToUnicode stream.
func parseCMap(content string) *cmap {
	cm := newCMap()

	// <src> <dst>
	for _, block := range bfCharBlockRe.FindAllStringSubmatch(content, -1) {
		tokens := hexTokenRe.FindAllStringSubmatch(block[1], -1)
		for i := 0; i+1 < len(tokens); i += 2 {
			cm.set(tokens[i][1], hexToUnicode(tokens[i+1][1]))
		}
	}

	// <start> <end> <dst> or <start> <end> [<dst1> <dst2> ...]
	for _, block := range bfRangeBlockRe.FindAllStringSubmatch(content, -1) {
		for _, line := range strings.Split(block[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.Contains(line, "[") {
				parseRangeArray(cm, line)
				continue
			}

			tokens := hexTokenRe.FindAllStringSubmatch(line, -1)
			if len(tokens) < 3 {
				continue
			}
			startHex, endHex, dstHex := tokens[0][1], tokens[1][1], tokens[2][1]
			start, end, dst := hexToInt(startHex), hexToInt(endHex), hexToInt(dstHex)
			if start < 0 || end < start || dst < 0 {
				continue
			}
			for code := start; code <= end; code++ {
				cm.set(intToHex(code, len(startHex)), hexToUnicode(intToHex(dst+code-start, len(dstHex))))
			}
		}
	}

	return cm
}

func parseRangeArray(cm *cmap, line string) {
	bracket := strings.Index(line, "[")
	tokens := hexTokenRe.FindAllStringSubmatch(line[:bracket], -1)
	if len(tokens) < 2 {
		return
	}
	startHex := tokens[0][1]
	start := hexToInt(startHex)
	if start < 0 {
		return
	}
	for i, ut := range hexTokenRe.FindAllStringSubmatch(line[bracket:], -1) {
		cm.set(intToHex(start+i, len(startHex)), hexToUnicode(ut[1]))
	}
}

// decode maps raw string bytes through the table. Codes are read at the
// widest declared length first, falling back to single bytes. Unmapped
// printable ASCII bytes pass through.
func (cm *cmap) decode(raw []byte) string {
	if cm == nil || len(cm.chars) == 0 {
		return ""
	}
	width := cm.codeLen
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	for i := 0; i < len(raw); {
		if i+width <= len(raw) {
			if uni, ok := cm.chars[strings.ToUpper(hex.EncodeToString(raw[i:i+width]))]; ok {
				b.WriteString(uni)
				i += width
				continue
			}
		}
		if width > 1 {
			if uni, ok := cm.chars[strings.ToUpper(hex.EncodeToString(raw[i:i+1]))]; ok {
				b.WriteString(uni)
				i++
				continue
			}
		}
		if raw[i] >= 32 && raw[i] < 127 && width == 1 {
			b.WriteByte(raw[i])
		}
		i++
	}
	return b.String()
}

func hexToInt(h string) int {
	val := 0
	for _, c := range strings.ToUpper(h) {
		val <<= 4
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'A' && c <= 'F':
			val += int(c-'A') + 10
		default:
			return -1
		}
	}
	return val
}

// intToHex formats val as upper-case hex, zero-padded or trimmed to hexLen.
func intToHex(val, hexLen int) string {
	h := strings.ToUpper(hex.EncodeToString([]byte{byte(val >> 24), byte(val >> 16), byte(val >> 8), byte(val)}))
	if len(h) > hexLen {
		h = h[len(h)-hexLen:]
	}
	for len(h) < hexLen {
		h = "0" + h
	}
	return h
}

// hexToUnicode reads a UTF-16BE destination value, surrogate pairs included.
func hexToUnicode(h string) string {
	if len(h)%2 != 0 {
		h = "0" + h
	}
	data, err := hex.DecodeString(h)
	if err != nil || len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		return string(rune(data[0]))
	}

	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

// findCMaps collects every ToUnicode table in the file and merges them.
// Later tables win on conflicting codes.
func findCMaps(streams [][]byte) *cmap {
	merged := newCMap()
	for _, s := range streams {
		content := string(s)
		if !strings.Contains(content, "beginbfchar") && !strings.Contains(content, "beginbfrange") {
			continue
		}
		for k, v := range parseCMap(content).chars {
			merged.set(k, v)
		}
	}
	if len(merged.chars) == 0 {
		return nil
	}
	return merged
}
