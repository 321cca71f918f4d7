package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpTemplate = cmp.AllowUnexported(Template{})

func TestCompileSegments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		template string
		want     []Segment
		captures int
	}{
		{
			name:     "empty",
			template: "",
			want:     []Segment{},
		},
		{
			name:     "placeholders",
			template: "{}-{}",
			want: []Segment{
				{Kind: SegmentPlaceholder, Index: 0, Pos: 0},
				{Kind: SegmentLiteral, Text: "-", Pos: 2},
				{Kind: SegmentPlaceholder, Index: 1, Pos: 3},
			},
			captures: 2,
		},
		{
			name:     "escaped literal",
			template: "a{{literal}}b{}",
			want: []Segment{
				{Kind: SegmentLiteral, Text: "a{literal}b", Pos: 0},
				{Kind: SegmentPlaceholder, Index: 0, Pos: 13},
			},
			captures: 1,
		},
		{
			name:     "group counts as a capture",
			template: "{} [{:,:3}] {}",
			want: []Segment{
				{Kind: SegmentPlaceholder, Index: 0, Pos: 0},
				{Kind: SegmentLiteral, Text: " [", Pos: 2},
				{Kind: SegmentGroup, Text: ",", Index: 1, Inner: placeholderTemplate, Count: 3, Pos: 4},
				{Kind: SegmentLiteral, Text: "] ", Pos: 10},
				{Kind: SegmentPlaceholder, Index: 2, Pos: 12},
			},
			captures: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.template)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, tmpl.Segments(), cmpTemplate); diff != "" {
				t.Errorf("Compile(%q) segments mismatch (-want +got):\n%s", tt.template, diff)
			}
			assert.Equal(t, tt.captures, tmpl.NumCaptures())
			assert.Equal(t, tt.template, tmpl.String())
		})
	}
}

func TestCompileInnerTemplate(t *testing.T) {
	t.Parallel()
	tmpl, err := Compile("{[{}={}]:&:}")
	require.NoError(t, err)

	segs := tmpl.Segments()
	require.Len(t, segs, 1)
	group := segs[0]
	assert.Equal(t, SegmentGroup, group.Kind)
	assert.Equal(t, "&", group.Text)
	assert.Equal(t, AnyCount, group.Count)

	require.NotNil(t, group.Inner)
	assert.Equal(t, "{}={}", group.Inner.String())
	assert.Equal(t, 2, group.Inner.NumCaptures())

	want := []Segment{
		{Kind: SegmentPlaceholder, Index: 0, Pos: 2},
		{Kind: SegmentLiteral, Text: "=", Pos: 4},
		{Kind: SegmentPlaceholder, Index: 1, Pos: 5},
	}
	if diff := cmp.Diff(want, group.Inner.Segments(), cmpTemplate); diff != "" {
		t.Errorf("inner segments mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	t.Parallel()
	sources := []string{
		"",
		"{}",
		"{}-{}",
		"a{{literal}}b{}",
		"[{:, :}]",
		"{[{}={}]:&:} end",
		"{[({[{}]]]:;:})]:|:2}",
	}
	for _, src := range sources {
		a, err := Compile(src)
		require.NoError(t, err, src)
		b, err := Compile(src)
		require.NoError(t, err, src)
		if diff := cmp.Diff(a, b, cmpTemplate); diff != "" {
			t.Errorf("Compile(%q) not idempotent (-first +second):\n%s", src, diff)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		template string
		wantErr  error
		offset   int
	}{
		{"unclosed brace", "ab{", ErrUnbalancedBrace, 2},
		{"stray close brace", "}", ErrUnbalancedBrace, 0},
		{"adjacent placeholders", "{}{}", ErrAmbiguousAdjacency, 2},
		{"adjacent placeholders mid template", "a{}{}b", ErrAmbiguousAdjacency, 3},
		{"placeholder before group", "{}{:,:}", ErrAmbiguousAdjacency, 2},
		{"group before placeholder", "{:,:}{}", ErrAmbiguousAdjacency, 5},
		{"adjacent inside inner template", "{[{}{}]:,:}", ErrAmbiguousAdjacency, 4},
		{"empty separator", "{::}", ErrEmptyLiteral, 0},
		{"empty inner template", "x{[]:,:}", ErrInvalidMarker, 1},
		{"named placeholder", "{id}", ErrInvalidMarker, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.template)
			assert.Nil(t, tmpl)
			require.ErrorIs(t, err, tt.wantErr)

			var te *TemplateError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.offset, te.Offset)
			assert.Equal(t, tt.template, te.Template)
		})
	}
}

func TestMustCompile(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { MustCompile("{}") })
	assert.Panics(t, func() { MustCompile("{") })
}
