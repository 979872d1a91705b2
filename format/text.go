package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mf2/datamodel"
	"github.com/dhamidi/mf2/parser"
)

// TextEncoder renders a message tree back into MessageFormat2 syntax.
// Re-parsing the output yields a tree equal to the input.
type TextEncoder struct {
	w io.Writer
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(msg *datamodel.Message) error {
	_, err := io.WriteString(e.w, EncodeToString(msg))
	return err
}

// EncodeToString renders msg as MessageFormat2 syntax.
func EncodeToString(msg *datamodel.Message) string {
	var b strings.Builder
	for _, d := range msg.Declarations {
		writeDeclaration(&b, d)
	}
	if msg.HasSelectors() {
		b.WriteString(".match")
		for _, sel := range msg.Selectors {
			b.WriteByte(' ')
			writeExpression(&b, sel)
		}
		for _, v := range msg.Variants {
			b.WriteByte(' ')
			writeVariant(&b, v)
		}
		return b.String()
	}
	b.WriteByte('{')
	writePatternParts(&b, msg.Pattern)
	b.WriteByte('}')
	return b.String()
}

func writeDeclaration(b *strings.Builder, d datamodel.Declaration) {
	switch d.Kind {
	case datamodel.InputDeclaration:
		b.WriteString(".input ")
		writeExpression(b, d.Value)
	case datamodel.LocalDeclaration:
		b.WriteString(".local $")
		b.WriteString(d.Name)
		b.WriteString(" = ")
		writeExpression(b, d.Value)
	}
	b.WriteByte(' ')
}

func writeVariant(b *strings.Builder, v datamodel.Variant) {
	for i, k := range v.Keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeKey(b, k)
	}
	b.WriteString(" {{")
	writePatternParts(b, v.Pattern)
	b.WriteString("}}")
}

func writeKey(b *strings.Builder, k datamodel.Key) {
	if k.Wildcard {
		b.WriteByte('*')
		return
	}
	writeLiteral(b, k.Literal)
}

func writePatternParts(b *strings.Builder, p datamodel.Pattern) {
	for _, part := range p.Parts {
		switch part := part.(type) {
		case datamodel.TextPart:
			b.WriteString(escapeText(part.Text))
		case *datamodel.Expression:
			writeExpression(b, *part)
		case *datamodel.Markup:
			writeMarkup(b, part)
		default:
			panic(fmt.Sprintf("unknown pattern part %T", part))
		}
	}
}

func writeExpression(b *strings.Builder, e datamodel.Expression) {
	b.WriteByte('{')
	space := false
	if e.Operand.Kind != datamodel.OperandNone {
		writeOperand(b, e.Operand)
		space = true
	}
	if e.Operator != nil {
		if space {
			b.WriteByte(' ')
		}
		b.WriteByte(':')
		b.WriteString(e.Operator.Function)
		writeOptions(b, e.Operator.Options)
	}
	writeAttributes(b, e.Attributes)
	b.WriteByte('}')
}

func writeMarkup(b *strings.Builder, m *datamodel.Markup) {
	b.WriteByte('{')
	if m.Kind == datamodel.MarkupClose {
		b.WriteByte('/')
	} else {
		b.WriteByte('#')
	}
	b.WriteString(m.Name)
	writeOptions(b, m.Options)
	writeAttributes(b, m.Attributes)
	if m.Kind == datamodel.MarkupStandalone {
		b.WriteString(" /")
	}
	b.WriteByte('}')
}

func writeOptions(b *strings.Builder, opts []datamodel.Option) {
	for _, o := range opts {
		b.WriteByte(' ')
		b.WriteString(o.Name)
		b.WriteByte('=')
		writeOperand(b, o.Value)
	}
}

func writeAttributes(b *strings.Builder, attrs []datamodel.Attribute) {
	for _, a := range attrs {
		b.WriteString(" @")
		b.WriteString(a.Name)
		if a.Value.Kind != datamodel.OperandNone {
			b.WriteByte('=')
			writeOperand(b, a.Value)
		}
	}
}

func writeOperand(b *strings.Builder, o datamodel.Operand) {
	switch o.Kind {
	case datamodel.OperandVariable:
		b.WriteByte('$')
		b.WriteString(o.Variable)
	case datamodel.OperandLiteral:
		writeLiteral(b, o.Literal)
	}
}

// writeLiteral keeps the source spelling where it can: unquoted literals
// stay unquoted as long as they still form a valid name or number token.
func writeLiteral(b *strings.Builder, l datamodel.Literal) {
	if !l.Quoted && (parser.IsValidName(l.Value) || parser.IsValidNumber(l.Value)) {
		b.WriteString(l.Value)
		return
	}
	b.WriteByte('|')
	b.WriteString(escapeQuoted(l.Value))
	b.WriteByte('|')
}

// escapeText escapes the characters that would otherwise act as
// structure inside pattern text.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '{', '}':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeQuoted(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '|':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
