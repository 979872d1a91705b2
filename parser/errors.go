package parser

import "fmt"

// ErrorCategory groups error kinds by how callers should treat them.
type ErrorCategory int

const (
	// CategorySyntax: a token-level grammar violation.
	CategorySyntax ErrorCategory = iota
	// CategoryStructural: the shape parsed, but a structural rule such as
	// selector/variant arity was violated.
	CategoryStructural
	// CategorySemantic: reported by the data model builder and surfaced
	// through the parser's error channel.
	CategorySemantic
	// CategoryResource: the character class tables could not be obtained.
	// Unused in this implementation; the tables are compiled in.
	CategoryResource
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySyntax:
		return "syntax error"
	case CategoryStructural:
		return "structural error"
	case CategorySemantic:
		return "semantic error"
	case CategoryResource:
		return "resource error"
	}
	return "error"
}

// ErrorKind identifies what went wrong. Kinds are stable; messages are not.
type ErrorKind int

const (
	KindExpectedToken ErrorKind = iota
	KindMalformedName
	KindMalformedNumber
	KindUnterminatedLiteral
	KindInvalidEscape
	KindUnsupportedStatement
	KindExtraContent
	KindSelectorArity
	KindBadInputDeclaration
	KindDuplicateOption
	KindDuplicateDeclaration
	KindMissingClassTables
)

func (k ErrorKind) String() string {
	switch k {
	case KindExpectedToken:
		return "expected token"
	case KindMalformedName:
		return "malformed name"
	case KindMalformedNumber:
		return "malformed number literal"
	case KindUnterminatedLiteral:
		return "unterminated quoted literal"
	case KindInvalidEscape:
		return "invalid escape sequence"
	case KindUnsupportedStatement:
		return "unsupported statement"
	case KindExtraContent:
		return "extra content after message body"
	case KindSelectorArity:
		return "mismatched selector arity"
	case KindBadInputDeclaration:
		return "input declaration requires a variable operand"
	case KindDuplicateOption:
		return "duplicate option name"
	case KindDuplicateDeclaration:
		return "duplicate declaration"
	case KindMissingClassTables:
		return "character class tables unavailable"
	}
	return "parse error"
}

func (k ErrorKind) Category() ErrorCategory {
	switch k {
	case KindSelectorArity, KindBadInputDeclaration:
		return CategoryStructural
	case KindDuplicateOption, KindDuplicateDeclaration:
		return CategorySemantic
	case KindMissingClassTables:
		return CategoryResource
	}
	return CategorySyntax
}

// ParseError is the single positioned diagnostic produced by a failed
// parse. Line and Offset are zero-based; Offset counts code points from
// the start of the line containing Index.
type ParseError struct {
	Kind   ErrorKind
	Detail string
	Index  int
	Line   int
	Offset int

	// Code points consumed before the start of the line containing the
	// error, newlines included. Zero exactly when Line is zero.
	lengthBeforeLine int
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s at line %d, offset %d", e.Kind.Category(), e.Kind, e.Line, e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Category() ErrorCategory {
	return e.Kind.Category()
}

// errorTracker records the first failure's absolute index. Translation to
// line and offset is deferred until the error is surfaced, keeping the
// error-free path free of line bookkeeping.
type errorTracker struct {
	kind   ErrorKind
	detail string
	index  int
	set    bool
}

func (t *errorTracker) record(kind ErrorKind, index int) {
	t.recordDetail(kind, "", index)
}

func (t *errorTracker) recordDetail(kind ErrorKind, detail string, index int) {
	if t.set {
		return
	}
	t.kind = kind
	t.detail = detail
	t.index = index
	t.set = true
}

// toParseError translates the recorded index into a positioned diagnostic
// by counting newline code points from the start of the input.
func (t *errorTracker) toParseError(src []rune) *ParseError {
	if !t.set {
		return nil
	}
	index := t.index
	if index > len(src) {
		index = len(src)
	}

	line := 0
	lengthBeforeLine := 0
	for i := 0; i < index; i++ {
		if src[i] == '\n' {
			line++
			lengthBeforeLine = i + 1
		}
	}

	return &ParseError{
		Kind:             t.kind,
		Detail:           t.detail,
		Index:            t.index,
		Line:             line,
		Offset:           index - lengthBeforeLine,
		lengthBeforeLine: lengthBeforeLine,
	}
}
