package parser

import (
	"strings"
	"testing"
)

func TestErrorTrackerKeepsFirstError(t *testing.T) {
	var tr errorTracker
	tr.record(KindInvalidEscape, 3)
	tr.recordDetail(KindExpectedToken, "later", 7)

	pe := tr.toParseError([]rune("0123456789"))
	if pe == nil {
		t.Fatalf("toParseError: got nil, want an error")
	}
	if pe.Kind != KindInvalidEscape {
		t.Errorf("kind: got %v, want %v", pe.Kind, KindInvalidEscape)
	}
	if pe.Index != 3 {
		t.Errorf("index: got %d, want 3", pe.Index)
	}
	if pe.Detail != "" {
		t.Errorf("detail: got %q, want empty", pe.Detail)
	}
}

func TestErrorTrackerEmpty(t *testing.T) {
	var tr errorTracker
	if pe := tr.toParseError([]rune("anything")); pe != nil {
		t.Errorf("toParseError: got %v, want nil", pe)
	}
}

func TestErrorTranslation(t *testing.T) {
	src := []rune("ab\ncd\nef")

	tests := []struct {
		index            int
		line             int
		offset           int
		lengthBeforeLine int
	}{
		{0, 0, 0, 0},
		{2, 0, 2, 0},
		{3, 1, 0, 3},
		{4, 1, 1, 3},
		{7, 2, 1, 6},
		{8, 2, 2, 6},
	}

	for _, tt := range tests {
		var tr errorTracker
		tr.record(KindExpectedToken, tt.index)
		pe := tr.toParseError(src)
		if pe.Line != tt.line {
			t.Errorf("index %d: line: got %d, want %d", tt.index, pe.Line, tt.line)
		}
		if pe.Offset != tt.offset {
			t.Errorf("index %d: offset: got %d, want %d", tt.index, pe.Offset, tt.offset)
		}
		if pe.lengthBeforeLine != tt.lengthBeforeLine {
			t.Errorf("index %d: lengthBeforeLine: got %d, want %d", tt.index, pe.lengthBeforeLine, tt.lengthBeforeLine)
		}
		if (pe.lengthBeforeLine == 0) != (pe.Line == 0) {
			t.Errorf("index %d: lengthBeforeLine %d disagrees with line %d", tt.index, pe.lengthBeforeLine, pe.Line)
		}
	}
}

func TestErrorTranslationClampsIndex(t *testing.T) {
	var tr errorTracker
	tr.record(KindExpectedToken, 100)
	pe := tr.toParseError([]rune("ab"))
	if pe.Offset != 2 {
		t.Errorf("offset: got %d, want 2", pe.Offset)
	}
	if pe.Index != 100 {
		t.Errorf("index: got %d, want the recorded 100", pe.Index)
	}
}

func TestErrorKindCategories(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want ErrorCategory
	}{
		{KindExpectedToken, CategorySyntax},
		{KindMalformedName, CategorySyntax},
		{KindMalformedNumber, CategorySyntax},
		{KindUnterminatedLiteral, CategorySyntax},
		{KindInvalidEscape, CategorySyntax},
		{KindUnsupportedStatement, CategorySyntax},
		{KindExtraContent, CategorySyntax},
		{KindSelectorArity, CategoryStructural},
		{KindBadInputDeclaration, CategoryStructural},
		{KindDuplicateOption, CategorySemantic},
		{KindDuplicateDeclaration, CategorySemantic},
		{KindMissingClassTables, CategoryResource},
	}
	for _, tt := range tests {
		if got := tt.kind.Category(); got != tt.want {
			t.Errorf("%v: got %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	pe := &ParseError{
		Kind:   KindSelectorArity,
		Detail: "1 keys for 2 selectors",
		Line:   3,
		Offset: 8,
	}
	msg := pe.Error()
	for _, want := range []string{"structural error", "mismatched selector arity", "line 3", "offset 8", "1 keys for 2 selectors"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
