package datamodel

// Message is the root of a parsed MessageFormat2 message. A message either
// carries a single Pattern, or a selector construct (Selectors plus
// Variants); never both.
type Message struct {
	Declarations []Declaration
	Pattern      Pattern
	Selectors    []Expression
	Variants     []Variant
}

// HasSelectors reports whether the message is a selector message.
func (m *Message) HasSelectors() bool {
	return len(m.Selectors) > 0
}

type DeclarationKind int

const (
	// InputDeclaration binds an externally provided variable. Its value
	// expression always has a variable operand.
	InputDeclaration DeclarationKind = iota
	// LocalDeclaration binds a name to an arbitrary expression.
	LocalDeclaration
)

func (k DeclarationKind) String() string {
	switch k {
	case InputDeclaration:
		return "input"
	case LocalDeclaration:
		return "local"
	}
	return "unknown"
}

type Declaration struct {
	Kind  DeclarationKind
	Name  string
	Value Expression
}

// Pattern is an ordered sequence of text segments, expressions and markup.
type Pattern struct {
	Parts []PatternPart
}

// PatternPart is implemented by TextPart, *Expression and *Markup.
type PatternPart interface {
	patternPart()
}

type TextPart struct {
	Text string
}

func (TextPart) patternPart()    {}
func (*Expression) patternPart() {}
func (*Markup) patternPart()     {}

// Expression is an operand with an optional operator, plus attributes.
// At least one of Operand and Operator is present.
type Expression struct {
	Operand    Operand
	Operator   *Operator
	Attributes []Attribute
}

// Operator is a function name along with its options, in source order.
type Operator struct {
	Function string
	Options  []Option
}

type MarkupKind int

const (
	MarkupOpen MarkupKind = iota
	MarkupClose
	MarkupStandalone
)

func (k MarkupKind) String() string {
	switch k {
	case MarkupOpen:
		return "open"
	case MarkupClose:
		return "close"
	case MarkupStandalone:
		return "standalone"
	}
	return "unknown"
}

type Markup struct {
	Kind       MarkupKind
	Name       string
	Options    []Option
	Attributes []Attribute
}

// Literal is a literal value with escape sequences already resolved.
// Quoted records whether the source spelling was |-delimited.
type Literal struct {
	Quoted bool
	Value  string
}

type OperandKind int

const (
	// OperandNone marks the absent operand of an annotation-only
	// expression or a valueless attribute.
	OperandNone OperandKind = iota
	OperandLiteral
	OperandVariable
)

// Operand is a literal or a variable reference. The zero value is absent.
type Operand struct {
	Kind     OperandKind
	Literal  Literal
	Variable string
}

func LiteralOperand(l Literal) Operand {
	return Operand{Kind: OperandLiteral, Literal: l}
}

func VariableOperand(name string) Operand {
	return Operand{Kind: OperandVariable, Variable: name}
}

type Option struct {
	Name  string
	Value Operand
}

type Attribute struct {
	Name  string
	Value Operand
}

// Key is one selector key of a variant: a literal, or the wildcard "*".
type Key struct {
	Wildcard bool
	Literal  Literal
}

func WildcardKey() Key {
	return Key{Wildcard: true}
}

func LiteralKey(l Literal) Key {
	return Key{Literal: l}
}

type Variant struct {
	Keys    []Key
	Pattern Pattern
}
