package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
2 beginbfchar
<0003> <0020>
<00E5> <00E5>
endbfchar
2 beginbfrange
<0010> <0019> <0030>
<0024> <0026> [<0041> <0042> <0043>]
endbfrange
endcmap
`

func TestParseCMap(t *testing.T) {
	cm := parseCMap(sampleCMap)

	assert.Equal(t, 2, cm.codeLen)
	assert.Equal(t, " ", cm.chars["0003"])
	assert.Equal(t, "å", cm.chars["00E5"])
	assert.Equal(t, "0", cm.chars["0010"])
	assert.Equal(t, "9", cm.chars["0019"])
	assert.Equal(t, "C", cm.chars["0026"])
}

func TestCMapDecode(t *testing.T) {
	cm := parseCMap(sampleCMap)

	got := cm.decode([]byte{0x00, 0x13, 0x00, 0x11, 0x00, 0x03, 0x00, 0x24, 0x00, 0xE5})
	assert.Equal(t, "31 Aå", got)

	var empty *cmap
	assert.Equal(t, "", empty.decode([]byte("abc")))
}

func TestHexToUnicode(t *testing.T) {
	assert.Equal(t, "A", hexToUnicode("0041"))
	assert.Equal(t, "ö", hexToUnicode("00F6"))
	assert.Equal(t, "ff", hexToUnicode("00660066"))
	assert.Equal(t, "😀", hexToUnicode("D83DDE00"))
	assert.Equal(t, "", hexToUnicode("zz"))
}

func TestIntToHex(t *testing.T) {
	assert.Equal(t, "0A", intToHex(10, 2))
	assert.Equal(t, "00FF", intToHex(255, 4))
	assert.Equal(t, "0100", intToHex(256, 4))
	assert.Equal(t, -1, hexToInt("xyz"))
}

func TestFindCMapsMerges(t *testing.T) {
	cm := findCMaps([][]byte{
		[]byte("BT (hello) Tj ET"),
		[]byte("beginbfchar <01> <0041> endbfchar"),
		[]byte("beginbfchar <02> <0042> endbfchar"),
	})
	require.NotNil(t, cm)
	assert.Equal(t, "AB", cm.decode([]byte{1, 2}))

	assert.Nil(t, findCMaps([][]byte{[]byte("nothing here")}))
}
