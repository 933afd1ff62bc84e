package parser

import (
	"fmt"
	"strings"
)

// Kind categorizes a parse failure.
type Kind string

const (
	KindUnknownModifier    Kind = "UnknownModifierKind"
	KindUnknownRequirement Kind = "UnknownRequirementKind"
	KindMissingAttribute   Kind = "MissingAttribute"
	KindInvalidNumeric     Kind = "InvalidNumericAttribute"
	KindInvalidBoolean     Kind = "InvalidBooleanAttribute"
	KindInvalidRange       Kind = "InvalidRange"
	KindInvalidWeight      Kind = "InvalidWeight"
	KindMissingBranch      Kind = "MissingBranch"
	KindUnexpectedElement  Kind = "UnexpectedElement"
	KindDocumentTooDeep    Kind = "DocumentTooDeep"
)

// Sentinels for errors.Is. They match any ParseError of the same kind.
var (
	ErrUnknownModifierKind    = &ParseError{Kind: KindUnknownModifier}
	ErrUnknownRequirementKind = &ParseError{Kind: KindUnknownRequirement}
	ErrMissingAttribute       = &ParseError{Kind: KindMissingAttribute}
	ErrInvalidNumeric         = &ParseError{Kind: KindInvalidNumeric}
	ErrInvalidBoolean         = &ParseError{Kind: KindInvalidBoolean}
	ErrInvalidRange           = &ParseError{Kind: KindInvalidRange}
	ErrInvalidWeight          = &ParseError{Kind: KindInvalidWeight}
	ErrMissingBranch          = &ParseError{Kind: KindMissingBranch}
	ErrUnexpectedElement      = &ParseError{Kind: KindUnexpectedElement}
	ErrDocumentTooDeep        = &ParseError{Kind: KindDocumentTooDeep}
)

// ParseError describes why a node could not be parsed. It is created where
// the failure happens and returned unchanged to the top-level caller.
type ParseError struct {
	Kind      Kind
	Element   string // offending element name
	Attribute string // offending attribute, if any
	Value     string // offending attribute value, if any
	Path      string // slash-separated path from the document root
	Line      int    // 0 when the node has no position
	Column    int
	Message   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, " (line %d, column %d)", e.Line, e.Column)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// Is reports whether target is a ParseError sentinel of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Path == "" && t.Element == ""
}
