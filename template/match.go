package template

import (
	"github.com/gnolang/tparse/internal/anchor"
)

// Parse matches input against the template and returns the captured spans.
// On failure it returns a *ParseError and no values.
func (t *Template) Parse(input string) (Values, error) {
	captures, err := t.walk(input, 0, len(input))
	if err != nil {
		return Values{}, err
	}
	return Values{input: input, captures: captures}, nil
}

// Match reports whether input matches the template.
func (t *Template) Match(input string) bool {
	_, err := t.walk(input, 0, len(input))
	return err == nil
}

// walk matches the segments against input[lo:hi]. Only one capture can be
// pending at a time: its end is the start of the next literal, or hi.
func (t *Template) walk(input string, lo, hi int) ([]Capture, error) {
	captures := make([]Capture, 0, t.captures)
	cursor := lo
	pending := -1
	pendingStart := lo

	for i := range t.segments {
		seg := &t.segments[i]
		if seg.Kind != SegmentLiteral {
			pending = i
			pendingStart = cursor
			continue
		}

		if pending < 0 {
			if !anchor.At(seg.Text, input, cursor, hi) {
				return nil, literalError(seg, input, cursor, hi, true)
			}
			cursor += len(seg.Text)
			continue
		}

		o := anchor.Find(seg.Text, input, cursor, hi)
		if o < 0 {
			return nil, literalError(seg, input, cursor, hi, false)
		}
		c, err := capture(&t.segments[pending], input, pendingStart, o)
		if err != nil {
			return nil, err
		}
		captures = append(captures, c)
		pending = -1
		cursor = o + len(seg.Text)
	}

	if pending >= 0 {
		c, err := capture(&t.segments[pending], input, pendingStart, hi)
		if err != nil {
			return nil, err
		}
		return append(captures, c), nil
	}

	if cursor != hi {
		e := newParseError(ErrTrailingInput, cursor, len(t.source))
		if n := len(t.segments); n > 0 {
			last := t.segments[n-1]
			e.TemplateOffset = last.Pos
			e.Literal = last.Text
		}
		e.Found = fragment(input[cursor:hi])
		return nil, e
	}
	return captures, nil
}

// literalError reports a literal that could not be matched at or after
// cursor. anchored literals must start exactly at cursor.
func literalError(seg *Segment, input string, cursor, hi int, anchored bool) *ParseError {
	kind := ErrLiteralNotFound
	offset := cursor
	switch {
	case cursor >= hi:
		kind = ErrUnexpectedEnd
	case anchored && anchor.Partial(seg.Text, input, cursor, hi):
		kind = ErrUnexpectedEnd
		offset = hi
	}
	e := newParseError(kind, offset, seg.Pos)
	e.Literal = seg.Text
	e.Found = fragment(input[cursor:hi])
	return e
}

// capture builds the value of a placeholder or group spanning [start, end).
func capture(seg *Segment, input string, start, end int) (Capture, error) {
	span := Span{Start: start, End: end}
	if seg.Kind == SegmentPlaceholder {
		return Capture{Kind: CapturePlaceholder, Span: span}, nil
	}

	var items []Values
	if start < end {
		for p := start; ; {
			o := anchor.Find(seg.Text, input, p, end)
			stop := end
			if o >= 0 {
				stop = o
			}
			caps, err := seg.Inner.walk(input, p, stop)
			if err != nil {
				if pe, ok := err.(*ParseError); ok {
					return Capture{}, pe.withItem(len(items), span)
				}
				return Capture{}, err
			}
			items = append(items, Values{input: input, captures: caps})
			if o < 0 {
				break
			}
			p = o + len(seg.Text)
		}
	}

	if seg.Count != AnyCount && len(items) != seg.Count {
		e := newParseError(ErrCountMismatch, start, seg.Pos)
		e.Expected = seg.Count
		e.Count = len(items)
		e.Group = span
		e.Found = fragment(span.Text(input))
		return Capture{}, e
	}

	return Capture{Kind: CaptureGroup, Span: span, Items: items}, nil
}
