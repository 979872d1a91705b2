package parser

import (
	"sort"
	"sync"
	"unicode"
)

// Character classes of the MessageFormat2 grammar. Membership is fixed
// Unicode ranges, never locale data.
type classKey int

const (
	classContent classKey = iota
	classWhitespace
	classBidi
	classAlpha
	classDigit
	classNameStart
	classNameChar
	classText
	classQuoted
	classEscapable

	classCount
)

type runeRange struct {
	lo, hi rune
}

// content-char: everything except NUL, the whitespace characters, the
// structural characters . @ \ { | }, the bidi controls and the surrogate
// range. Bidi controls are kept out so that they are only ever legal where
// the grammar treats them as whitespace-like filler.
var contentRanges = []runeRange{
	{0x0001, 0x0008}, // omit NUL, HTAB, LF
	{0x000B, 0x000C}, // omit CR
	{0x000E, 0x001F}, // omit SP
	{0x0021, 0x002D}, // omit .
	{0x002F, 0x003F}, // omit @
	{0x0041, 0x005B}, // omit \
	{0x005D, 0x007A}, // omit { | }
	{0x007E, 0x061B}, // omit ALM
	{0x061D, 0x200D},
	{0x2010, 0x2065}, // omit LRM, RLM
	{0x206A, 0x2FFF}, // omit the directional isolates
	{0x3001, 0xD7FF}, // omit IDEOGRAPHIC SPACE and surrogates
	{0xE000, 0x10FFFF},
}

var whitespaceRanges = []runeRange{
	{0x0009, 0x000A},
	{0x000D, 0x000D},
	{0x0020, 0x0020},
	{0x3000, 0x3000},
}

var bidiRanges = []runeRange{
	{0x061C, 0x061C},
	{0x200E, 0x200F},
	{0x2066, 0x2069},
}

var alphaRanges = []runeRange{
	{'A', 'Z'},
	{'a', 'z'},
}

var digitRanges = []runeRange{
	{'0', '9'},
}

var nameStartRanges = []runeRange{
	{'A', 'Z'},
	{'_', '_'},
	{'a', 'z'},
	{0x00C0, 0x00D6},
	{0x00D8, 0x00F6},
	{0x00F8, 0x02FF},
	{0x0370, 0x037D},
	{0x037F, 0x061B},
	{0x061D, 0x1FFF},
	{0x200C, 0x200D},
	{0x2070, 0x218F},
	{0x2C00, 0x2FEF},
	{0x3001, 0xD7FF},
	{0xF900, 0xFDCF},
	{0xFDF0, 0xFFFC},
	{0x10000, 0xEFFFF},
}

var nameExtraRanges = []runeRange{
	{'-', '.'},
	{'0', '9'},
	{0x00B7, 0x00B7},
	{0x0300, 0x036F},
	{0x203F, 0x2040},
}

var textExtraRanges = []runeRange{
	{'.', '.'},
	{'@', '@'},
	{'|', '|'},
}

var quotedExtraRanges = []runeRange{
	{'.', '.'},
	{'@', '@'},
	{'{', '{'},
	{'}', '}'},
}

var escapableRanges = []runeRange{
	{'\\', '\\'},
	{'{', '{'},
	{'|', '|'},
	{'}', '}'},
}

// classTables builds the ten sets once, on first use. The tables are
// read-only afterwards and shared across concurrent parses.
var classTables = sync.OnceValue(func() *[classCount]*unicode.RangeTable {
	var t [classCount]*unicode.RangeTable
	t[classContent] = makeTable(contentRanges)
	t[classWhitespace] = makeTable(whitespaceRanges)
	t[classBidi] = makeTable(bidiRanges)
	t[classAlpha] = makeTable(alphaRanges)
	t[classDigit] = makeTable(digitRanges)
	t[classNameStart] = makeTable(nameStartRanges)
	t[classNameChar] = makeTable(nameStartRanges, nameExtraRanges)
	t[classText] = makeTable(contentRanges, whitespaceRanges, textExtraRanges)
	t[classQuoted] = makeTable(contentRanges, whitespaceRanges, quotedExtraRanges)
	t[classEscapable] = makeTable(escapableRanges)
	return &t
})

// makeTable merges the given range lists into a RangeTable. Overlapping and
// adjacent ranges are coalesced.
func makeTable(lists ...[]runeRange) *unicode.RangeTable {
	var all []runeRange
	for _, list := range lists {
		all = append(all, list...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].lo < all[j].lo
	})

	var merged []runeRange
	for _, r := range all {
		if n := len(merged); n > 0 && r.lo <= merged[n-1].hi+1 {
			if r.hi > merged[n-1].hi {
				merged[n-1].hi = r.hi
			}
			continue
		}
		merged = append(merged, r)
	}

	table := &unicode.RangeTable{}
	for _, r := range merged {
		if r.hi <= 0xFFFF {
			table.R16 = append(table.R16, unicode.Range16{
				Lo:     uint16(r.lo),
				Hi:     uint16(r.hi),
				Stride: 1,
			})
			if r.hi <= unicode.MaxLatin1 {
				table.LatinOffset = len(table.R16)
			}
			continue
		}
		if r.lo <= 0xFFFF {
			table.R16 = append(table.R16, unicode.Range16{
				Lo:     uint16(r.lo),
				Hi:     0xFFFF,
				Stride: 1,
			})
			r.lo = 0x10000
		}
		table.R32 = append(table.R32, unicode.Range32{
			Lo:     uint32(r.lo),
			Hi:     uint32(r.hi),
			Stride: 1,
		})
	}
	return table
}

func inClass(k classKey, r rune) bool {
	if r < 0 {
		return false
	}
	return unicode.Is(classTables()[k], r)
}

func isContentChar(r rune) bool   { return inClass(classContent, r) }
func isWhitespace(r rune) bool    { return inClass(classWhitespace, r) }
func isBidiControl(r rune) bool   { return inClass(classBidi, r) }
func isAlpha(r rune) bool         { return inClass(classAlpha, r) }
func isDigit(r rune) bool         { return inClass(classDigit, r) }
func isNameStart(r rune) bool     { return inClass(classNameStart, r) }
func isNameChar(r rune) bool      { return inClass(classNameChar, r) }
func isTextChar(r rune) bool      { return inClass(classText, r) }
func isQuotedChar(r rune) bool    { return inClass(classQuoted, r) }
func isEscapableChar(r rune) bool { return inClass(classEscapable, r) }

// Whitespace-like filler around structural tokens.
func isFiller(r rune) bool {
	return isWhitespace(r) || isBidiControl(r)
}

func isUnquotedStart(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-'
}

func isLiteralStart(r rune) bool {
	return r == '|' || isUnquotedStart(r)
}

func isKeyStart(r rune) bool {
	return r == '*' || isLiteralStart(r)
}
