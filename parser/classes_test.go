package parser

import "testing"

func TestCharacterClasses(t *testing.T) {
	tests := []struct {
		name string
		pred func(rune) bool
		in   []rune
		out  []rune
	}{
		{
			name: "content",
			pred: isContentChar,
			in:   []rune{'a', 'Z', '0', '-', '!', '~', 'é', '漢', 0x10000},
			out:  []rune{0, '\t', '\n', '\r', ' ', '.', '@', '\\', '{', '|', '}', 0x061C, 0x200E, 0x2066, 0x3000, 0xD800},
		},
		{
			name: "whitespace",
			pred: isWhitespace,
			in:   []rune{'\t', '\n', '\r', ' ', 0x3000},
			out:  []rune{'a', 0x000B, 0x00A0, 0x200E, 0x2028},
		},
		{
			name: "bidi",
			pred: isBidiControl,
			in:   []rune{0x061C, 0x200E, 0x200F, 0x2066, 0x2067, 0x2068, 0x2069},
			out:  []rune{' ', 0x200D, 0x2070},
		},
		{
			name: "name start",
			pred: isNameStart,
			in:   []rune{'a', 'Z', '_', 'é', 'ß', '漢', 0x10000},
			out:  []rune{'0', '9', '-', '.', ' ', ':', '$', 0x00B7},
		},
		{
			name: "name char",
			pred: isNameChar,
			in:   []rune{'a', '_', '0', '9', '-', '.', 0x00B7, 0x0301},
			out:  []rune{' ', ':', '$', '@', '{'},
		},
		{
			name: "text",
			pred: isTextChar,
			in:   []rune{'a', ' ', '\n', '.', '@', '|', '!'},
			out:  []rune{0, '{', '}', '\\', 0x200E},
		},
		{
			name: "quoted",
			pred: isQuotedChar,
			in:   []rune{'a', ' ', '\n', '.', '@', '{', '}'},
			out:  []rune{0, '|', '\\', 0x200E},
		},
		{
			name: "escapable",
			pred: isEscapableChar,
			in:   []rune{'\\', '{', '|', '}'},
			out:  []rune{'a', 'n', 't', '"', '/', ' '},
		},
		{
			name: "alpha",
			pred: isAlpha,
			in:   []rune{'a', 'z', 'A', 'Z'},
			out:  []rune{'0', '_', 'é'},
		},
		{
			name: "digit",
			pred: isDigit,
			in:   []rune{'0', '9'},
			out:  []rune{'a', '-', '.', 0x0660},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range tt.in {
				if !tt.pred(r) {
					t.Errorf("%U: got false, want true", r)
				}
			}
			for _, r := range tt.out {
				if tt.pred(r) {
					t.Errorf("%U: got true, want false", r)
				}
			}
		})
	}
}

func TestClassesRejectEndOfInput(t *testing.T) {
	preds := []func(rune) bool{
		isContentChar, isWhitespace, isBidiControl, isNameStart,
		isNameChar, isTextChar, isQuotedChar, isEscapableChar, isFiller,
	}
	for i, pred := range preds {
		if pred(EndOfInput) {
			t.Errorf("predicate %d accepted EndOfInput", i)
		}
	}
}

func TestFillerCoversBothClasses(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\r', 0x3000, 0x061C, 0x200E, 0x200F, 0x2066, 0x2069} {
		if !isFiller(r) {
			t.Errorf("%U: got false, want true", r)
		}
	}
	if isFiller('a') || isFiller(0x00A0) {
		t.Errorf("filler accepted a non-filler code point")
	}
}

func TestStarterPredicates(t *testing.T) {
	if !isUnquotedStart('a') || !isUnquotedStart('7') || !isUnquotedStart('-') {
		t.Errorf("unquoted start rejected a valid starter")
	}
	if isUnquotedStart('|') || isUnquotedStart('*') {
		t.Errorf("unquoted start accepted an invalid starter")
	}
	if !isLiteralStart('|') || !isLiteralStart('x') {
		t.Errorf("literal start rejected a valid starter")
	}
	if !isKeyStart('*') || !isKeyStart('|') || !isKeyStart('0') {
		t.Errorf("key start rejected a valid starter")
	}
	if isKeyStart('{') || isKeyStart('@') {
		t.Errorf("key start accepted an invalid starter")
	}
}

func TestValidators(t *testing.T) {
	names := []struct {
		in string
		ok bool
	}{
		{"count", true},
		{"_x", true},
		{"a-b.c", true},
		{"名前", true},
		{"", false},
		{"7up", false},
		{"-lead", false},
		{"has space", false},
		{"a:b", false},
	}
	for _, tt := range names {
		if got := IsValidName(tt.in); got != tt.ok {
			t.Errorf("IsValidName(%q): got %v, want %v", tt.in, got, tt.ok)
		}
	}

	numbers := []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"42", true},
		{"-1", true},
		{"3.14", true},
		{"-0.5", true},
		{"1e3", true},
		{"2.5E-10", true},
		{"1e+9", true},
		{"", false},
		{"01", false},
		{"1.", false},
		{".5", false},
		{"-", false},
		{"1e", false},
		{"0x1F", false},
		{"1 2", false},
	}
	for _, tt := range numbers {
		if got := IsValidNumber(tt.in); got != tt.ok {
			t.Errorf("IsValidNumber(%q): got %v, want %v", tt.in, got, tt.ok)
		}
	}
}
