// Package parser implements a recursive-descent parser for the
// MessageFormat2 template syntax. It scans the input by code point, one
// production per method, and reports the first grammar violation as a
// positioned diagnostic. The parsed structure is handed to a
// datamodel.Builder as each production completes; the parser itself owns
// no part of the resulting tree.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/mf2/datamodel"
)

// Parse parses source and feeds the resulting structure into b. On success
// it returns a normalized rendering of source with insignificant
// whitespace removed; re-parsing that rendering yields an identical tree.
// On failure the returned error is a *ParseError and the builder's content
// must be discarded.
func Parse(source string, b *datamodel.Builder) (string, error) {
	p := &Parser{
		cur:     newCursor(source),
		builder: b,
	}
	p.parseMessage()
	if err := p.errs.toParseError(p.cur.src); err != nil {
		return "", err
	}
	return p.normalized.String(), nil
}

// Parser holds the state of a single parse: a cursor, the first-error
// tracker and the normalized-input accumulator. A Parser is used for
// exactly one message; concurrent parses need independent Parsers, only
// the character class tables are shared.
type Parser struct {
	cur        cursor
	errs       errorTracker
	normalized strings.Builder
	builder    *datamodel.Builder

	selectorCount int
}

func (p *Parser) failed() bool {
	return p.errs.set
}

// accept consumes the current code point, mirrors it into the normalized
// output and returns it. Callers check bounds first.
func (p *Parser) accept() rune {
	c := p.cur.peek()
	p.cur.next()
	p.normalized.WriteRune(c)
	return c
}

// message = o *(declaration) body o
func (p *Parser) parseMessage() {
	p.parseOptionalWhitespace()
	p.parseDeclarations()
	p.parseBody()
	p.parseOptionalWhitespace()
	if p.failed() {
		return
	}
	if !p.cur.allConsumed() {
		p.errs.record(KindExtraContent, p.cur.index)
	}
}

func (p *Parser) parseDeclarations() {
	for !p.failed() && p.cur.peek() == '.' {
		switch {
		case p.nextIs(".input"):
			p.parseInputDeclaration()
		case p.nextIs(".local"):
			p.parseLocalDeclaration()
		case p.nextIs(".match"):
			return
		default:
			p.parseUnsupportedStatement()
			return
		}
	}
}

// Statements beginning "." other than .input/.local/.match are reserved.
// There is no recovery mode, so the statement is rejected at its dot.
func (p *Parser) parseUnsupportedStatement() {
	p.errs.record(KindUnsupportedStatement, p.cur.index)
}

// input-declaration = ".input" s expression
// The expression's operand must be a variable.
func (p *Parser) parseInputDeclaration() {
	start := p.cur.index
	p.parseTokenString(".input")
	p.parseRequiredWhitespace()
	if p.failed() {
		return
	}
	if p.cur.peek() != '{' {
		p.errs.recordDetail(KindExpectedToken, "expected expression after .input", p.cur.index)
		return
	}
	exprStart := p.cur.index
	expr := p.parseExpression()
	if p.failed() {
		return
	}
	if expr.Operand.Kind != datamodel.OperandVariable {
		p.errs.record(KindBadInputDeclaration, exprStart)
		return
	}
	if err := p.builder.AddInputDeclaration(expr.Operand.Variable, expr); err != nil {
		p.recordBuilderError(err, start)
		return
	}
	p.parseRequiredWhitespace()
}

// local-declaration = ".local" s variable o "=" o expression
func (p *Parser) parseLocalDeclaration() {
	start := p.cur.index
	p.parseTokenString(".local")
	p.parseRequiredWhitespace()
	name := p.parseVariableName()
	p.parseTokenWithWhitespace('=')
	if p.failed() {
		return
	}
	if p.cur.peek() != '{' {
		p.errs.recordDetail(KindExpectedToken, "expected expression after =", p.cur.index)
		return
	}
	expr := p.parseExpression()
	if p.failed() {
		return
	}
	if err := p.builder.AddLocalDeclaration(name, expr); err != nil {
		p.recordBuilderError(err, start)
		return
	}
	p.parseRequiredWhitespace()
}

// body = pattern / selectors
func (p *Parser) parseBody() {
	if p.failed() {
		return
	}
	if p.nextIs(".match") {
		p.parseSelectors()
		return
	}
	if p.cur.peek() == '{' {
		p.builder.SetPattern(p.parsePattern())
		return
	}
	p.errs.recordDetail(KindExpectedToken, "expected a pattern or .match", p.cur.index)
}

// pattern = "{" *(text / escape / placeholder) "}"
func (p *Parser) parsePattern() datamodel.Pattern {
	pb := datamodel.NewPatternBuilder()
	p.parseTokenRune('{')
	p.parsePatternParts(pb, false)
	p.parseTokenRune('}')
	return pb.Build()
}

// quoted-pattern = "{{" *(text / escape / placeholder) "}}"
// The variant form of a pattern; only the delimiter differs.
func (p *Parser) parseQuotedPattern() datamodel.Pattern {
	pb := datamodel.NewPatternBuilder()
	p.parseTokenString("{{")
	p.parsePatternParts(pb, true)
	p.parseTokenString("}}")
	return pb.Build()
}

// parsePatternParts accumulates text runs and placeholders until the
// closing delimiter. Text whitespace is significant and copied through
// verbatim. An unescaped "{", "}" or backslash that does not open a
// placeholder, close the pattern or start a valid escape is an error.
func (p *Parser) parsePatternParts(pb *datamodel.PatternBuilder, quoted bool) {
	var text strings.Builder
	flush := func() {
		pb.AddText(text.String())
		text.Reset()
	}

	for !p.failed() && p.cur.inBounds() {
		switch c := p.cur.peek(); {
		case c == '}':
			if quoted && p.cur.peekN(1) != '}' {
				p.errs.recordDetail(KindExpectedToken, "unescaped } in pattern", p.cur.index)
				return
			}
			flush()
			return
		case c == '{':
			flush()
			p.parsePlaceholder(pb)
		case c == '\\':
			text.WriteRune(p.parseEscapeSequence())
		case isTextChar(c):
			text.WriteRune(c)
			p.normalized.WriteRune(c)
			p.cur.next()
		default:
			p.errs.recordDetail(KindExpectedToken, "character not allowed in pattern text", p.cur.index)
			return
		}
	}
	flush()
}

// placeholder = expression / markup
// Decided by looking past the open brace and any filler: "#" or "/"
// means markup. The lookahead never consumes input.
func (p *Parser) parsePlaceholder(pb *datamodel.PatternBuilder) {
	i := 1
	for isFiller(p.cur.peekN(i)) {
		i++
	}
	if c := p.cur.peekN(i); c == '#' || c == '/' {
		m := p.parseMarkup()
		if p.failed() {
			return
		}
		pb.AddMarkup(&m)
		return
	}
	e := p.parseExpression()
	if p.failed() {
		return
	}
	pb.AddExpression(&e)
}

// expression = "{" o (operand [s annotation] / annotation) *(s attribute) o "}"
func (p *Parser) parseExpression() datamodel.Expression {
	eb := datamodel.NewExpressionBuilder()
	p.parseTokenRune('{')
	p.parseOptionalWhitespace()
	if p.failed() {
		return eb.Build()
	}
	switch c := p.cur.peek(); {
	case c == '$':
		eb.SetOperand(datamodel.VariableOperand(p.parseVariableName()))
		p.parseAnnotationIfPresent(eb)
	case isLiteralStart(c):
		eb.SetOperand(datamodel.LiteralOperand(p.parseLiteral()))
		p.parseAnnotationIfPresent(eb)
	case c == ':':
		p.parseAnnotation(eb)
	default:
		p.errs.recordDetail(KindExpectedToken, "expected literal, variable, or annotation", p.cur.index)
	}
	p.parseAttributes(eb)
	p.parseOptionalWhitespace()
	p.parseTokenRune('}')
	return eb.Build()
}

// An annotation after an operand is preceded by required whitespace.
func (p *Parser) parseAnnotationIfPresent(eb *datamodel.ExpressionBuilder) {
	if p.failed() {
		return
	}
	i := p.fillerRun(0)
	if p.cur.peekN(i) != ':' {
		return
	}
	if i == 0 {
		p.errs.recordDetail(KindExpectedToken, "expected whitespace before annotation", p.cur.index)
		return
	}
	p.parseRequiredWhitespace()
	p.parseAnnotation(eb)
}

// annotation = ":" identifier *(s option)
func (p *Parser) parseAnnotation(eb *datamodel.ExpressionBuilder) {
	p.parseTokenRune(':')
	eb.SetFunction(p.parseIdentifier())
	p.parseOptions(eb)
}

// markup = "{" o ("#" / "/") identifier *(s option) *(s attribute) o ["/"] "}"
func (p *Parser) parseMarkup() datamodel.Markup {
	p.parseTokenRune('{')
	p.parseOptionalWhitespace()
	kind := datamodel.MarkupOpen
	if p.cur.peek() == '/' {
		kind = datamodel.MarkupClose
		p.parseTokenRune('/')
	} else {
		p.parseTokenRune('#')
	}
	mb := datamodel.NewMarkupBuilder(kind, p.parseIdentifier())
	p.parseOptions(mb)
	p.parseAttributes(mb)
	p.parseOptionalWhitespace()
	if !p.failed() && kind == datamodel.MarkupOpen && p.cur.peek() == '/' {
		p.parseTokenRune('/')
		mb.SetStandalone()
	}
	p.parseTokenRune('}')
	return mb.Build()
}

// parseOptions scans options into any builder that accepts them. The same
// scanning serves expressions and markup; only the sink differs.
func (p *Parser) parseOptions(sink datamodel.OptionSink) {
	for !p.failed() {
		i := p.fillerRun(0)
		if i == 0 || !isNameStart(p.cur.peekN(i)) {
			return
		}
		p.parseRequiredWhitespace()
		p.parseOption(sink)
	}
}

// option = identifier o "=" o (literal / variable)
func (p *Parser) parseOption(sink datamodel.OptionSink) {
	start := p.cur.index
	name := p.parseIdentifier()
	p.parseTokenWithWhitespace('=')
	value := p.parseOperandValue()
	if p.failed() {
		return
	}
	if err := sink.AddOption(name, value); err != nil {
		p.recordBuilderError(err, start)
	}
}

func (p *Parser) parseAttributes(sink datamodel.AttributeSink) {
	for !p.failed() {
		i := p.fillerRun(0)
		if i == 0 || p.cur.peekN(i) != '@' {
			return
		}
		p.parseRequiredWhitespace()
		p.parseAttribute(sink)
	}
}

// attribute = "@" identifier [o "=" o (literal / variable)]
// The "=" lookahead must not consume whitespace that separates this
// attribute from the next one.
func (p *Parser) parseAttribute(sink datamodel.AttributeSink) {
	p.parseTokenRune('@')
	name := p.parseIdentifier()
	if p.failed() {
		return
	}
	if i := p.fillerRun(0); p.cur.peekN(i) == '=' {
		p.parseTokenWithWhitespace('=')
		value := p.parseOperandValue()
		if p.failed() {
			return
		}
		sink.AddAttribute(name, value)
		return
	}
	sink.AddAttribute(name, datamodel.Operand{})
}

// parseOperandValue parses the right-hand side of an option or attribute.
func (p *Parser) parseOperandValue() datamodel.Operand {
	if p.failed() {
		return datamodel.Operand{}
	}
	if p.cur.peek() == '$' {
		return datamodel.VariableOperand(p.parseVariableName())
	}
	if isLiteralStart(p.cur.peek()) {
		return datamodel.LiteralOperand(p.parseLiteral())
	}
	p.errs.recordDetail(KindExpectedToken, "expected literal or variable", p.cur.index)
	return datamodel.Operand{}
}

// selectors = ".match" 1*(s expression) 1*(o variant)
func (p *Parser) parseSelectors() {
	p.parseTokenString(".match")
	count := 0
	for !p.failed() {
		i := p.fillerRun(0)
		if p.cur.peekN(i) != '{' || p.cur.peekN(i+1) == '{' {
			break
		}
		if i == 0 {
			p.errs.recordDetail(KindExpectedToken, "expected whitespace before selector", p.cur.index)
			return
		}
		p.parseRequiredWhitespace()
		sel := p.parseExpression()
		if p.failed() {
			return
		}
		p.builder.AddSelector(sel)
		count++
	}
	if p.failed() {
		return
	}
	if count == 0 {
		p.errs.recordDetail(KindExpectedToken, "expected at least one selector after .match", p.cur.index)
		return
	}
	p.selectorCount = count

	variants := 0
	for !p.failed() {
		p.parseOptionalWhitespace()
		if !p.cur.inBounds() || !isKeyStart(p.cur.peek()) {
			break
		}
		p.parseVariant()
		variants++
	}
	if p.failed() {
		return
	}
	if variants == 0 {
		p.errs.recordDetail(KindExpectedToken, "expected at least one variant", p.cur.index)
	}
}

// variant = key *(s key) o quoted-pattern
// Each variant must carry exactly as many keys as there are selectors.
func (p *Parser) parseVariant() {
	start := p.cur.index
	keys := p.parseNonEmptyKeys()
	if p.failed() {
		return
	}
	if len(keys) != p.selectorCount {
		detail := fmt.Sprintf("%d keys for %d selectors", len(keys), p.selectorCount)
		p.errs.recordDetail(KindSelectorArity, detail, start)
		return
	}
	pat := p.parseQuotedPattern()
	if p.failed() {
		return
	}
	p.builder.AddVariant(keys, pat)
}

func (p *Parser) parseNonEmptyKeys() []datamodel.Key {
	keys := []datamodel.Key{p.parseKey()}
	for !p.failed() {
		i := p.fillerRun(0)
		if !isKeyStart(p.cur.peekN(i)) {
			break
		}
		if i == 0 {
			p.errs.recordDetail(KindExpectedToken, "expected whitespace between keys", p.cur.index)
			break
		}
		p.parseRequiredWhitespace()
		keys = append(keys, p.parseKey())
	}
	p.parseOptionalWhitespace()
	return keys
}

// key = literal / "*"
func (p *Parser) parseKey() datamodel.Key {
	if p.failed() {
		return datamodel.Key{}
	}
	if p.cur.peek() == '*' {
		p.parseTokenRune('*')
		return datamodel.WildcardKey()
	}
	if isLiteralStart(p.cur.peek()) {
		return datamodel.LiteralKey(p.parseLiteral())
	}
	p.errs.recordDetail(KindExpectedToken, "expected key", p.cur.index)
	return datamodel.Key{}
}

// literal = quoted / unquoted
func (p *Parser) parseLiteral() datamodel.Literal {
	if p.cur.peek() == '|' {
		return p.parseQuotedLiteral()
	}
	return p.parseUnquotedLiteral()
}

// quoted = "|" *(quoted-char / escape) "|"
func (p *Parser) parseQuotedLiteral() datamodel.Literal {
	var value strings.Builder
	p.parseTokenRune('|')
	for !p.failed() {
		switch c := p.cur.peek(); {
		case c == '|':
			p.parseTokenRune('|')
			return datamodel.Literal{Quoted: true, Value: value.String()}
		case c == '\\':
			value.WriteRune(p.parseEscapeSequence())
		case isQuotedChar(c):
			value.WriteRune(c)
			p.normalized.WriteRune(c)
			p.cur.next()
		case c == EndOfInput:
			p.errs.record(KindUnterminatedLiteral, p.cur.index)
		default:
			p.errs.recordDetail(KindExpectedToken, "character not allowed in quoted literal", p.cur.index)
		}
	}
	return datamodel.Literal{Quoted: true, Value: value.String()}
}

// unquoted = name / number-literal
func (p *Parser) parseUnquotedLiteral() datamodel.Literal {
	if isNameStart(p.cur.peek()) {
		return datamodel.Literal{Value: p.parseName()}
	}
	return datamodel.Literal{Value: p.parseNumberLiteral()}
}

// number-literal = ["-"] ("0" / 1-9 *DIGIT) ["." 1*DIGIT] [("e"/"E") ["+"/"-"] 1*DIGIT]
func (p *Parser) parseNumberLiteral() string {
	var b strings.Builder
	if p.cur.peek() == '-' {
		b.WriteRune(p.accept())
	}
	if p.cur.peek() == '0' {
		b.WriteRune(p.accept())
	} else {
		p.parseDigits(&b)
	}
	if p.failed() {
		return b.String()
	}
	if p.cur.peek() == '.' {
		b.WriteRune(p.accept())
		p.parseDigits(&b)
	}
	if c := p.cur.peek(); c == 'e' || c == 'E' {
		b.WriteRune(p.accept())
		if c := p.cur.peek(); c == '+' || c == '-' {
			b.WriteRune(p.accept())
		}
		p.parseDigits(&b)
	}
	return b.String()
}

func (p *Parser) parseDigits(b *strings.Builder) {
	if p.failed() {
		return
	}
	if !isDigit(p.cur.peek()) {
		p.errs.record(KindMalformedNumber, p.cur.index)
		return
	}
	for isDigit(p.cur.peek()) {
		b.WriteRune(p.accept())
	}
}

// name = name-start *name-char
func (p *Parser) parseName() string {
	if p.failed() {
		return ""
	}
	if !isNameStart(p.cur.peek()) {
		p.errs.record(KindMalformedName, p.cur.index)
		return ""
	}
	var b strings.Builder
	for isNameChar(p.cur.peek()) {
		b.WriteRune(p.accept())
	}
	return b.String()
}

// identifier = [namespace ":"] name
func (p *Parser) parseIdentifier() string {
	name := p.parseName()
	if p.failed() {
		return name
	}
	if p.cur.peek() == ':' {
		p.parseTokenRune(':')
		return name + ":" + p.parseName()
	}
	return name
}

// variable = "$" name
func (p *Parser) parseVariableName() string {
	p.parseTokenRune('$')
	return p.parseName()
}

// escape = "\" escapable
// Returns the decoded character; the normalized output keeps the escaped
// spelling.
func (p *Parser) parseEscapeSequence() rune {
	p.parseTokenRune('\\')
	if p.failed() {
		return 0
	}
	c := p.cur.peek()
	if !isEscapableChar(c) {
		p.errs.record(KindInvalidEscape, p.cur.index)
		return 0
	}
	p.cur.next()
	p.normalized.WriteRune(c)
	return c
}

// fillerRun returns the length of the run of whitespace and bidi control
// code points starting at the given lookahead offset. Pure lookahead.
func (p *Parser) fillerRun(from int) int {
	i := from
	for isFiller(p.cur.peekN(i)) {
		i++
	}
	return i
}

func (p *Parser) parseOptionalWhitespace() {
	for !p.failed() && isFiller(p.cur.peek()) {
		p.cur.next()
	}
}

// parseRequiredWhitespace consumes at least one whitespace or bidi control
// code point, then keeps going greedily. The whole run renders as one
// space in the normalized output.
func (p *Parser) parseRequiredWhitespace() {
	if p.failed() {
		return
	}
	if !isFiller(p.cur.peek()) {
		p.errs.recordDetail(KindExpectedToken, "expected whitespace", p.cur.index)
		return
	}
	p.normalized.WriteByte(' ')
	for isFiller(p.cur.peek()) {
		p.cur.next()
	}
}

func (p *Parser) parseTokenRune(want rune) {
	if p.failed() {
		return
	}
	if p.cur.peek() != want {
		p.errs.recordDetail(KindExpectedToken, fmt.Sprintf("expected %q", want), p.cur.index)
		return
	}
	p.accept()
}

func (p *Parser) parseTokenString(want string) {
	for _, r := range want {
		p.parseTokenRune(r)
		if p.failed() {
			return
		}
	}
}

func (p *Parser) parseTokenWithWhitespace(want rune) {
	p.parseOptionalWhitespace()
	p.parseTokenRune(want)
	p.parseOptionalWhitespace()
}

// nextIs reports whether the upcoming code points spell s. Pure lookahead.
func (p *Parser) nextIs(s string) bool {
	i := 0
	for _, r := range s {
		if p.cur.peekN(i) != r {
			return false
		}
		i++
	}
	return true
}

func (p *Parser) recordBuilderError(err error, index int) {
	switch {
	case errors.Is(err, datamodel.ErrDuplicateOption):
		p.errs.recordDetail(KindDuplicateOption, err.Error(), index)
	case errors.Is(err, datamodel.ErrDuplicateDeclaration):
		p.errs.recordDetail(KindDuplicateDeclaration, err.Error(), index)
	default:
		p.errs.recordDetail(KindExpectedToken, err.Error(), index)
	}
}
