package parser

// IsValidName reports whether s can be spelled as an unquoted name token.
func IsValidName(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !isNameStart(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

// IsValidNumber reports whether s can be spelled as an unquoted number
// literal.
func IsValidNumber(s string) bool {
	b := tokenParser(s)
	got := b.parseNumberLiteral()
	return !b.failed() && b.cur.allConsumed() && got == s
}

// tokenParser builds a parser good enough for token-level checks; the
// terminal productions never touch the builder.
func tokenParser(s string) *Parser {
	return &Parser{cur: newCursor(s)}
}
