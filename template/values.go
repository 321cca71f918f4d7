package template

import "strings"

// Span is a half-open byte range [Start, End) of the input.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Text returns the part of input covered by the span. The result shares
// memory with input.
func (s Span) Text(input string) string { return input[s.Start:s.End] }

// CaptureKind defines what a capture holds.
type CaptureKind int

const (
	CapturePlaceholder CaptureKind = iota
	CaptureGroup
)

func (k CaptureKind) String() string {
	switch k {
	case CapturePlaceholder:
		return "placeholder"
	case CaptureGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Capture is the value of one placeholder or group.
type Capture struct {
	Kind CaptureKind
	// Span covers the placeholder value, or the whole group.
	Span Span
	// Items holds one Values per group item, matched against the group's
	// inner template.
	Items []Values
}

// Values holds the captures of one successful parse, in template order.
// It refers to the parsed input and does not copy it.
type Values struct {
	input    string
	captures []Capture
}

// Input returns the input the values were captured from.
func (v Values) Input() string { return v.input }

// Len returns the number of captures.
func (v Values) Len() int { return len(v.captures) }

// At returns the i-th capture.
func (v Values) At(i int) Capture { return v.captures[i] }

// Span returns the span of the i-th capture.
func (v Values) Span(i int) Span { return v.captures[i].Span }

// Text returns the text of the i-th capture.
func (v Values) Text(i int) string { return v.captures[i].Span.Text(v.input) }

// Items returns the items of the i-th capture, nil for placeholders.
func (v Values) Items(i int) []Values { return v.captures[i].Items }

// Strings returns the text of every capture.
func (v Values) Strings() []string {
	out := make([]string, len(v.captures))
	for i := range v.captures {
		out[i] = v.Text(i)
	}
	return out
}

// Owned is a captured value copied out of the input.
type Owned struct {
	Text string
	// Items holds the materialized items of a group, nil for placeholders.
	Items [][]Owned
}

// Materialize copies every captured text, so the result does not keep
// the input alive.
func (v Values) Materialize() []Owned {
	out := make([]Owned, len(v.captures))
	for i, c := range v.captures {
		out[i].Text = strings.Clone(c.Span.Text(v.input))
		if c.Kind == CaptureGroup {
			out[i].Items = make([][]Owned, len(c.Items))
			for j, item := range c.Items {
				out[i].Items[j] = item.Materialize()
			}
		}
	}
	return out
}
