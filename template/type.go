package template

import (
	"fmt"
	"strings"
)

// SegmentKind defines the kind of a compiled template segment.
type SegmentKind int

const (
	SegmentLiteral     SegmentKind = iota // text matched verbatim
	SegmentPlaceholder                    // {}
	SegmentGroup                          // {:sep:} or {[inner]:sep:n}
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentPlaceholder:
		return "placeholder"
	case SegmentGroup:
		return "group"
	default:
		return "unknown"
	}
}

// AnyCount marks a repeated group that accepts any number of items.
const AnyCount = -1

// Segment is one unit of a compiled template.
type Segment struct {
	Kind SegmentKind
	// Text is the literal text, or the separator of a group.
	Text string
	// Index is the ordinal of a placeholder or group among the captures
	// of its template.
	Index int
	// Inner is the template applied to every item of a group.
	Inner *Template
	// Count is the exact number of items of a group, or AnyCount.
	Count int
	// Pos is the byte offset of the segment in the template source.
	Pos int
}

func (s Segment) String() string {
	switch s.Kind {
	case SegmentLiteral:
		return fmt.Sprintf("Literal(%q)", s.Text)
	case SegmentPlaceholder:
		return fmt.Sprintf("Placeholder(%d)", s.Index)
	case SegmentGroup:
		inner := "<nil>"
		if s.Inner != nil {
			inner = s.Inner.describe()
		}
		if s.Count == AnyCount {
			return fmt.Sprintf("Group(%d, %s, sep=%q)", s.Index, inner, s.Text)
		}
		return fmt.Sprintf("Group(%d, %s, sep=%q, count=%d)", s.Index, inner, s.Text, s.Count)
	default:
		return "Unknown"
	}
}

// Template is a compiled inverse-format template.
type Template struct {
	source   string
	segments []Segment
	captures int
}

// String returns the source the template was compiled from.
func (t *Template) String() string { return t.source }

// NumCaptures returns the number of placeholders and groups at the top
// level of the template, which is the length of every Values it produces.
func (t *Template) NumCaptures() int { return t.captures }

// Segments returns a copy of the compiled segment sequence.
func (t *Template) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

func (t *Template) describe() string {
	parts := make([]string, len(t.segments))
	for i, seg := range t.segments {
		parts[i] = seg.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
