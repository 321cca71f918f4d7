package template

// placeholderTemplate is the inner template of groups written without
// an explicit one.
var placeholderTemplate = &Template{
	source:   "{}",
	segments: []Segment{{Kind: SegmentPlaceholder}},
	captures: 1,
}

// Compile parses a template string into an immutable Template.
func Compile(source string) (*Template, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return build(source, source, tokens)
}

// MustCompile is like Compile but panics if the template cannot be compiled.
func MustCompile(source string) *Template {
	t, err := Compile(source)
	if err != nil {
		panic("template: MustCompile: " + err.Error())
	}
	return t
}

// build turns tokens into segments. text is the source of the template
// being built, which differs from source for inner templates; errors are
// always reported against source.
func build(source, text string, tokens []Token) (*Template, error) {
	t := &Template{source: text}

	for _, tok := range tokens {
		var seg Segment
		switch tok.Type {
		case TokenEOF:
			return t, nil

		case TokenLiteral:
			if tok.Value == "" {
				return nil, &TemplateError{Err: ErrEmptyLiteral, Offset: tok.Pos, Template: source}
			}
			seg = Segment{Kind: SegmentLiteral, Text: tok.Value, Pos: tok.Pos}

		case TokenPlaceholder:
			seg = Segment{Kind: SegmentPlaceholder, Index: t.captures, Pos: tok.Pos}

		case TokenGroup:
			if tok.Value == "" {
				return nil, &TemplateError{Err: ErrEmptyLiteral, Offset: tok.Pos, Template: source}
			}
			inner := placeholderTemplate
			if tok.Inner != nil {
				var err error
				inner, err = build(source, source[tok.InnerStart:tok.InnerEnd], tok.Inner)
				if err != nil {
					return nil, err
				}
				if len(inner.segments) == 0 {
					return nil, &TemplateError{Err: ErrInvalidMarker, Offset: tok.Pos, Template: source}
				}
			}
			seg = Segment{
				Kind:  SegmentGroup,
				Text:  tok.Value,
				Index: t.captures,
				Inner: inner,
				Count: tok.Count,
				Pos:   tok.Pos,
			}

		default:
			return nil, &TemplateError{Err: ErrInvalidMarker, Offset: tok.Pos, Template: source}
		}

		if seg.Kind != SegmentLiteral {
			if n := len(t.segments); n > 0 && t.segments[n-1].Kind != SegmentLiteral {
				return nil, &TemplateError{Err: ErrAmbiguousAdjacency, Offset: tok.Pos, Template: source}
			}
			t.captures++
		}
		t.segments = append(t.segments, seg)
	}

	return t, nil
}
