package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/mf2/datamodel"
)

// JSONEncoder renders a message tree as indented JSON, for tooling and
// debug output.
type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(msg *datamodel.Message) error {
	text, err := e.MarshalText(msg)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText(msg *datamodel.Message) ([]byte, error) {
	return json.MarshalIndent(messageToJSON(msg), "", "  ")
}

type jsonMessage struct {
	Declarations []jsonDeclaration `json:"declarations,omitempty"`
	Pattern      []jsonPart        `json:"pattern,omitempty"`
	Selectors    []jsonExpression  `json:"selectors,omitempty"`
	Variants     []jsonVariant     `json:"variants,omitempty"`
}

type jsonDeclaration struct {
	Kind  string         `json:"kind"`
	Name  string         `json:"name"`
	Value jsonExpression `json:"value"`
}

type jsonPart struct {
	Kind       string          `json:"kind"`
	Text       string          `json:"text,omitempty"`
	Expression *jsonExpression `json:"expression,omitempty"`
	Markup     *jsonMarkup     `json:"markup,omitempty"`
}

type jsonExpression struct {
	Operand    *jsonOperand `json:"operand,omitempty"`
	Function   string       `json:"function,omitempty"`
	Options    []jsonNamed  `json:"options,omitempty"`
	Attributes []jsonNamed  `json:"attributes,omitempty"`
}

type jsonMarkup struct {
	Kind       string      `json:"kind"`
	Name       string      `json:"name"`
	Options    []jsonNamed `json:"options,omitempty"`
	Attributes []jsonNamed `json:"attributes,omitempty"`
}

type jsonOperand struct {
	Literal  *jsonLiteral `json:"literal,omitempty"`
	Variable string       `json:"variable,omitempty"`
}

type jsonLiteral struct {
	Quoted bool   `json:"quoted,omitempty"`
	Value  string `json:"value"`
}

type jsonNamed struct {
	Name  string       `json:"name"`
	Value *jsonOperand `json:"value,omitempty"`
}

type jsonVariant struct {
	Keys    []jsonKey  `json:"keys"`
	Pattern []jsonPart `json:"pattern"`
}

type jsonKey struct {
	Wildcard bool         `json:"wildcard,omitempty"`
	Literal  *jsonLiteral `json:"literal,omitempty"`
}

func messageToJSON(msg *datamodel.Message) *jsonMessage {
	jm := &jsonMessage{}
	for _, d := range msg.Declarations {
		jm.Declarations = append(jm.Declarations, jsonDeclaration{
			Kind:  d.Kind.String(),
			Name:  d.Name,
			Value: expressionToJSON(d.Value),
		})
	}
	if msg.HasSelectors() {
		for _, sel := range msg.Selectors {
			jm.Selectors = append(jm.Selectors, expressionToJSON(sel))
		}
		for _, v := range msg.Variants {
			jm.Variants = append(jm.Variants, variantToJSON(v))
		}
		return jm
	}
	jm.Pattern = patternToJSON(msg.Pattern)
	return jm
}

func patternToJSON(p datamodel.Pattern) []jsonPart {
	var parts []jsonPart
	for _, part := range p.Parts {
		switch part := part.(type) {
		case datamodel.TextPart:
			parts = append(parts, jsonPart{Kind: "text", Text: part.Text})
		case *datamodel.Expression:
			expr := expressionToJSON(*part)
			parts = append(parts, jsonPart{Kind: "expression", Expression: &expr})
		case *datamodel.Markup:
			parts = append(parts, jsonPart{Kind: "markup", Markup: markupToJSON(part)})
		default:
			panic(fmt.Sprintf("unknown pattern part %T", part))
		}
	}
	return parts
}

func expressionToJSON(e datamodel.Expression) jsonExpression {
	je := jsonExpression{
		Operand:    operandToJSON(e.Operand),
		Attributes: namedToJSON(attributesAsOptions(e.Attributes)),
	}
	if e.Operator != nil {
		je.Function = e.Operator.Function
		je.Options = namedToJSON(e.Operator.Options)
	}
	return je
}

func markupToJSON(m *datamodel.Markup) *jsonMarkup {
	return &jsonMarkup{
		Kind:       m.Kind.String(),
		Name:       m.Name,
		Options:    namedToJSON(m.Options),
		Attributes: namedToJSON(attributesAsOptions(m.Attributes)),
	}
}

func attributesAsOptions(attrs []datamodel.Attribute) []datamodel.Option {
	var opts []datamodel.Option
	for _, a := range attrs {
		opts = append(opts, datamodel.Option{Name: a.Name, Value: a.Value})
	}
	return opts
}

func namedToJSON(opts []datamodel.Option) []jsonNamed {
	var named []jsonNamed
	for _, o := range opts {
		named = append(named, jsonNamed{Name: o.Name, Value: operandToJSON(o.Value)})
	}
	return named
}

func operandToJSON(o datamodel.Operand) *jsonOperand {
	switch o.Kind {
	case datamodel.OperandLiteral:
		return &jsonOperand{Literal: &jsonLiteral{Quoted: o.Literal.Quoted, Value: o.Literal.Value}}
	case datamodel.OperandVariable:
		return &jsonOperand{Variable: o.Variable}
	}
	return nil
}

func variantToJSON(v datamodel.Variant) jsonVariant {
	jv := jsonVariant{Pattern: patternToJSON(v.Pattern)}
	if jv.Pattern == nil {
		jv.Pattern = []jsonPart{}
	}
	for _, k := range v.Keys {
		if k.Wildcard {
			jv.Keys = append(jv.Keys, jsonKey{Wildcard: true})
			continue
		}
		jv.Keys = append(jv.Keys, jsonKey{Literal: &jsonLiteral{Quoted: k.Literal.Quoted, Value: k.Literal.Value}})
	}
	return jv
}
