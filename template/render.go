package template

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrRenderArgs reports arguments that do not fit the template being rendered.
var ErrRenderArgs = errors.New("arguments do not fit template")

// Render substitutes args back into the literal skeleton of the template,
// the inverse of Parse.
//
// A placeholder takes any value and formats it with fmt.Sprint. A group
// takes a slice: every element is rendered with the inner template and the
// results are joined with the separator. An element of type []any supplies
// all arguments of the inner template.
func (t *Template) Render(args ...any) (string, error) {
	var b strings.Builder
	if err := t.render(&b, args); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (t *Template) render(b *strings.Builder, args []any) error {
	if len(args) != t.captures {
		return fmt.Errorf("%w: %d arguments for %d captures of %q", ErrRenderArgs, len(args), t.captures, t.source)
	}

	for _, seg := range t.segments {
		switch seg.Kind {
		case SegmentLiteral:
			b.WriteString(seg.Text)

		case SegmentPlaceholder:
			fmt.Fprint(b, args[seg.Index])

		case SegmentGroup:
			items, ok := sliceItems(args[seg.Index])
			if !ok {
				return fmt.Errorf("%w: group %d takes a slice, got %T", ErrRenderArgs, seg.Index, args[seg.Index])
			}
			if seg.Count != AnyCount && len(items) != seg.Count {
				return fmt.Errorf("%w: group %d takes %d items, got %d", ErrRenderArgs, seg.Index, seg.Count, len(items))
			}
			for j, item := range items {
				if j > 0 {
					b.WriteString(seg.Text)
				}
				if err := seg.Inner.render(b, innerArgs(item, seg.Inner.captures)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// innerArgs spreads a group item over the captures of the inner template.
func innerArgs(item any, captures int) []any {
	if args, ok := item.([]any); ok {
		return args
	}
	if captures != 1 {
		if args, ok := sliceItems(item); ok {
			return args
		}
	}
	return []any{item}
}

func sliceItems(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case string, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Args returns the captured texts in the shape Render expects: a string
// per placeholder and a []any of item arguments per group.
func (v Values) Args() []any {
	out := make([]any, len(v.captures))
	for i, c := range v.captures {
		if c.Kind != CaptureGroup {
			out[i] = v.Text(i)
			continue
		}
		items := make([]any, len(c.Items))
		for j, item := range c.Items {
			items[j] = item.Args()
		}
		out[i] = items
	}
	return out
}
