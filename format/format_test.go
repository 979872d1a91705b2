package format

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/dhamidi/mf2/datamodel"
	"github.com/dhamidi/mf2/parser"
)

func parse(t *testing.T, src string) *datamodel.Message {
	t.Helper()
	b := datamodel.NewBuilder()
	if _, err := parser.Parse(src, b); err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return b.Build()
}

func TestTextEncoderRoundTrip(t *testing.T) {
	sources := []string{
		"{}",
		"{Hello, world!}",
		"{Hello, {$user}!}",
		"{{|hello|}}",
		"{{one}}",
		"{{:now}}",
		"{{$count :number style=decimal minimumFractionDigits=2}}",
		"{{$x @locale=en @dir}}",
		"{a{#b fg=red}bold{/b}c}",
		"{{#img src=|a.png| /}}",
		`{a\{b\}c\\d}`,
		`{{|needs \| quoting|}}`,
		".input {$x} .local $y = {$x :number} {{$y}}",
		".match {$x} 1 {{one}} * {{other}}",
		".match {$a} {$b} 0 * {{x}} * * {{all {$a}}}",
	}

	for _, src := range sources {
		want := parse(t, src)
		rendered := EncodeToString(want)
		got := parse(t, rendered)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip of %q via %q changed the tree:\n got %#v\nwant %#v", src, rendered, got, want)
		}
	}
}

func TestTextEncoderOutput(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"{Hello}", "{Hello}"},
		{"{{ $n  :number }}", "{{$n :number}}"},
		{".local $y={|2|} {{$y}}", ".local $y = {|2|} {{$y}}"},
		{".match {$x}1{{one}}*{{other}}", ".match {$x} 1 {{one}} * {{other}}"},
		// Unquoted spellings survive; quoted ones stay quoted.
		{"{{one}}", "{{one}}"},
		{"{{|one|}}", "{{|one|}}"},
	}

	for _, tt := range tests {
		got := EncodeToString(parse(t, tt.src))
		if got != tt.want {
			t.Errorf("EncodeToString(parse(%q)): got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestTextEncoderQuotesInvalidUnquotedSpelling(t *testing.T) {
	// A literal that is no valid name or number token must be requoted
	// even if its Quoted flag is unset.
	msg := &datamodel.Message{
		Pattern: datamodel.Pattern{Parts: []datamodel.PatternPart{
			&datamodel.Expression{
				Operand: datamodel.LiteralOperand(datamodel.Literal{Value: "two words"}),
			},
		}},
	}
	if got, want := EncodeToString(msg), "{{|two words|}}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextEncoderWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(parse(t, "{hi}")); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buf.String(); got != "{hi}" {
		t.Errorf("got %q, want %q", got, "{hi}")
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	msg := parse(t, ".input {$x} .match {$x :number} 0 {{none}} * {{some {$x}}}")
	if err := NewJSONEncoder(&buf).Encode(msg); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		Declarations []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"declarations"`
		Selectors []struct {
			Function string `json:"function"`
		} `json:"selectors"`
		Variants []struct {
			Keys []struct {
				Wildcard bool `json:"wildcard"`
			} `json:"keys"`
			Pattern []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"pattern"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(decoded.Declarations) != 1 || decoded.Declarations[0].Kind != "input" || decoded.Declarations[0].Name != "x" {
		t.Errorf("declarations: got %+v", decoded.Declarations)
	}
	if len(decoded.Selectors) != 1 || decoded.Selectors[0].Function != "number" {
		t.Errorf("selectors: got %+v", decoded.Selectors)
	}
	if len(decoded.Variants) != 2 {
		t.Fatalf("variants: got %d, want 2", len(decoded.Variants))
	}
	if !decoded.Variants[1].Keys[0].Wildcard {
		t.Errorf("second variant key: got %+v, want wildcard", decoded.Variants[1].Keys[0])
	}
	if decoded.Variants[0].Pattern[0].Kind != "text" || decoded.Variants[0].Pattern[0].Text != "none" {
		t.Errorf("first variant pattern: got %+v", decoded.Variants[0].Pattern[0])
	}
}

func TestJSONEncoderPatternParts(t *testing.T) {
	var buf bytes.Buffer
	msg := parse(t, "{a{#b}c{$x}}")
	if err := NewJSONEncoder(&buf).Encode(msg); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		Pattern []struct {
			Kind   string `json:"kind"`
			Markup *struct {
				Kind string `json:"kind"`
				Name string `json:"name"`
			} `json:"markup"`
			Expression *struct {
				Operand *struct {
					Variable string `json:"variable"`
				} `json:"operand"`
			} `json:"expression"`
		} `json:"pattern"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	kinds := make([]string, len(decoded.Pattern))
	for i, p := range decoded.Pattern {
		kinds[i] = p.Kind
	}
	want := []string{"text", "markup", "text", "expression"}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("part kinds: got %v, want %v", kinds, want)
	}
	if decoded.Pattern[1].Markup.Kind != "open" || decoded.Pattern[1].Markup.Name != "b" {
		t.Errorf("markup part: got %+v", decoded.Pattern[1].Markup)
	}
	if decoded.Pattern[3].Expression.Operand.Variable != "x" {
		t.Errorf("expression part: got %+v", decoded.Pattern[3].Expression)
	}
}
