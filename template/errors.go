package template

import (
	"errors"
	"fmt"
	"strings"
)

// Compile-time error kinds, reported through *TemplateError.
var (
	ErrUnbalancedBrace    = errors.New("unbalanced brace")
	ErrAmbiguousAdjacency = errors.New("captures must be separated by a literal")
	ErrEmptyLiteral       = errors.New("empty literal")
	ErrInvalidMarker      = errors.New("invalid placeholder marker")
)

// Run-time error kinds, reported through *ParseError.
var (
	ErrLiteralNotFound  = errors.New("literal not found")
	ErrUnexpectedEnd    = errors.New("unexpected end of input")
	ErrTrailingInput    = errors.New("trailing input")
	ErrConversionFailed = errors.New("conversion failed")
	ErrCountMismatch    = errors.New("item count mismatch")
)

// TemplateError reports a template that cannot be compiled.
type TemplateError struct {
	Err      error  // one of the compile-time error kinds
	Offset   int    // byte offset in Template
	Template string // the template source
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: offset %d: %v", e.Template, e.Offset, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// ParseError reports an input that does not match a template, or a
// captured span that could not be converted.
type ParseError struct {
	Err error // one of the run-time error kinds

	Offset         int // byte offset in the input
	TemplateOffset int // byte offset of the failing segment in the template

	// Item is the index of the group item being matched, -1 outside groups.
	Item  int
	Group Span

	Literal string // expected literal
	Found   string // input fragment at Offset

	// Set for ErrConversionFailed.
	TypeName string
	Span     Span

	// Set for ErrCountMismatch.
	Expected int
	Count    int

	Cause error
}

const maxFragment = 24

func newParseError(kind error, offset, templateOffset int) *ParseError {
	return &ParseError{
		Err:            kind,
		Offset:         offset,
		TemplateOffset: templateOffset,
		Item:           -1,
	}
}

// NewConversionError reports that the text of span could not be converted
// into a value of the named type.
func NewConversionError(span Span, typeName, raw string, cause error) *ParseError {
	e := newParseError(ErrConversionFailed, span.Start, -1)
	e.Span = span
	e.TypeName = typeName
	e.Found = raw
	e.Cause = cause
	return e
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.TemplateOffset >= 0 {
		fmt.Fprintf(&b, "offset %d (template offset %d): ", e.Offset, e.TemplateOffset)
	} else {
		fmt.Fprintf(&b, "offset %d: ", e.Offset)
	}
	switch e.Err {
	case ErrLiteralNotFound:
		fmt.Fprintf(&b, "%v: expected %q, found %q", e.Err, e.Literal, e.Found)
	case ErrUnexpectedEnd:
		if e.Literal != "" {
			fmt.Fprintf(&b, "%v: expected %q", e.Err, e.Literal)
		} else {
			b.WriteString(e.Err.Error())
		}
	case ErrTrailingInput:
		fmt.Fprintf(&b, "%v %q", e.Err, e.Found)
	case ErrConversionFailed:
		fmt.Fprintf(&b, "cannot convert %q to %s", e.Found, e.TypeName)
	case ErrCountMismatch:
		fmt.Fprintf(&b, "%v: expected %d items, found %d", e.Err, e.Expected, e.Count)
	default:
		fmt.Fprintf(&b, "%v", e.Err)
	}
	if e.Item >= 0 {
		fmt.Fprintf(&b, " (item %d of group at offset %d)", e.Item, e.Group.Start)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes both the error kind and the underlying cause, so that
// errors.Is works with either.
func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// withItem records the group item an error occurred in. The innermost
// group wins when groups are nested.
func (e *ParseError) withItem(item int, group Span) *ParseError {
	if e.Item < 0 {
		e.Item = item
		e.Group = group
	}
	return e
}

func fragment(s string) string {
	if len(s) > maxFragment {
		return s[:maxFragment] + "..."
	}
	return s
}
