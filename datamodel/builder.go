package datamodel

import (
	"errors"
	"fmt"
)

// Semantic failures reported by builders. The parser surfaces these through
// its own error channel; they are not grammar errors.
var (
	ErrDuplicateOption      = errors.New("duplicate option name")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
)

// OptionSink is implemented by builders that accept options. Duplicate
// option names are rejected.
type OptionSink interface {
	AddOption(name string, value Operand) error
}

// AttributeSink is implemented by builders that accept attributes.
// Duplicate attribute names are permitted; the last value wins.
type AttributeSink interface {
	AddAttribute(name string, value Operand)
}

// Builder assembles a Message from parser callbacks. The builder owns the
// resulting tree; the parser hands over each node as soon as its production
// completes.
type Builder struct {
	msg      Message
	declared map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{
		declared: make(map[string]bool),
	}
}

func (b *Builder) AddInputDeclaration(name string, value Expression) error {
	return b.addDeclaration(Declaration{Kind: InputDeclaration, Name: name, Value: value})
}

func (b *Builder) AddLocalDeclaration(name string, value Expression) error {
	return b.addDeclaration(Declaration{Kind: LocalDeclaration, Name: name, Value: value})
}

func (b *Builder) addDeclaration(d Declaration) error {
	if b.declared[d.Name] {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, d.Name)
	}
	b.declared[d.Name] = true
	b.msg.Declarations = append(b.msg.Declarations, d)
	return nil
}

func (b *Builder) AddSelector(e Expression) {
	b.msg.Selectors = append(b.msg.Selectors, e)
}

func (b *Builder) AddVariant(keys []Key, p Pattern) {
	b.msg.Variants = append(b.msg.Variants, Variant{Keys: keys, Pattern: p})
}

func (b *Builder) SetPattern(p Pattern) {
	b.msg.Pattern = p
}

func (b *Builder) Build() *Message {
	msg := b.msg
	return &msg
}

// PatternBuilder accumulates pattern parts. Adjacent text segments are
// merged so that escape handling in the parser cannot split a text run.
type PatternBuilder struct {
	parts []PatternPart
}

func NewPatternBuilder() *PatternBuilder {
	return &PatternBuilder{}
}

func (b *PatternBuilder) AddText(text string) {
	if text == "" {
		return
	}
	if n := len(b.parts); n > 0 {
		if prev, ok := b.parts[n-1].(TextPart); ok {
			b.parts[n-1] = TextPart{Text: prev.Text + text}
			return
		}
	}
	b.parts = append(b.parts, TextPart{Text: text})
}

func (b *PatternBuilder) AddExpression(e *Expression) {
	b.parts = append(b.parts, e)
}

func (b *PatternBuilder) AddMarkup(m *Markup) {
	b.parts = append(b.parts, m)
}

func (b *PatternBuilder) Build() Pattern {
	return Pattern{Parts: b.parts}
}

// ExpressionBuilder assembles a single expression. It implements OptionSink
// and AttributeSink so that option and attribute scanning can be shared
// with MarkupBuilder.
type ExpressionBuilder struct {
	expr     Expression
	optNames map[string]bool
}

func NewExpressionBuilder() *ExpressionBuilder {
	return &ExpressionBuilder{}
}

func (b *ExpressionBuilder) SetOperand(o Operand) {
	b.expr.Operand = o
}

func (b *ExpressionBuilder) SetFunction(name string) {
	b.expr.Operator = &Operator{Function: name}
}

func (b *ExpressionBuilder) AddOption(name string, value Operand) error {
	if b.expr.Operator == nil {
		return errors.New("option without function")
	}
	if b.optNames == nil {
		b.optNames = make(map[string]bool)
	}
	if b.optNames[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, name)
	}
	b.optNames[name] = true
	b.expr.Operator.Options = append(b.expr.Operator.Options, Option{Name: name, Value: value})
	return nil
}

func (b *ExpressionBuilder) AddAttribute(name string, value Operand) {
	b.expr.Attributes = setAttribute(b.expr.Attributes, name, value)
}

func (b *ExpressionBuilder) Build() Expression {
	return b.expr
}

// MarkupBuilder assembles a markup placeholder.
type MarkupBuilder struct {
	markup   Markup
	optNames map[string]bool
}

func NewMarkupBuilder(kind MarkupKind, name string) *MarkupBuilder {
	return &MarkupBuilder{markup: Markup{Kind: kind, Name: name}}
}

func (b *MarkupBuilder) SetStandalone() {
	b.markup.Kind = MarkupStandalone
}

func (b *MarkupBuilder) AddOption(name string, value Operand) error {
	if b.optNames == nil {
		b.optNames = make(map[string]bool)
	}
	if b.optNames[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, name)
	}
	b.optNames[name] = true
	b.markup.Options = append(b.markup.Options, Option{Name: name, Value: value})
	return nil
}

func (b *MarkupBuilder) AddAttribute(name string, value Operand) {
	b.markup.Attributes = setAttribute(b.markup.Attributes, name, value)
}

func (b *MarkupBuilder) Build() Markup {
	return b.markup
}

// setAttribute keeps first-occurrence order but lets a repeated name
// overwrite the earlier value.
func setAttribute(attrs []Attribute, name string, value Operand) []Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attribute{Name: name, Value: value})
}
