// Package mf2 parses MessageFormat2 message templates into a structured
// data model. It covers the grammar only: formatting, locale data and
// function resolution belong to a downstream engine.
package mf2

import (
	"github.com/dhamidi/mf2/datamodel"
	"github.com/dhamidi/mf2/parser"
)

const Version = "0.1.0"

// Parse parses a message template. On failure the returned error is a
// *parser.ParseError carrying the kind, category and position of the
// first grammar violation.
func Parse(source string) (*datamodel.Message, error) {
	result, err := ParseDetailed(source)
	if err != nil {
		return nil, err
	}
	return result.Message, nil
}

// Result is a successful parse: the message tree plus the normalized
// rendering of the input with insignificant whitespace removed.
type Result struct {
	Message    *datamodel.Message
	Normalized string
}

func ParseDetailed(source string) (*Result, error) {
	builder := datamodel.NewBuilder()
	normalized, err := parser.Parse(source, builder)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message:    builder.Build(),
		Normalized: normalized,
	}, nil
}
