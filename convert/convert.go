// Package convert turns spans captured by a template into typed values.
//
// A conversion capability is any function that parses the whole of a
// string into a value of type T, failing when the string is not an exact
// representation of a T. Prefix parsing is never accepted. Failures are
// reported as *template.ParseError with the kind template.ErrConversionFailed,
// the span offsets and the capability's error as cause.
package convert

import (
	"encoding"
	"errors"
	"fmt"
	"net/netip"
	"reflect"
	"time"

	"github.com/gnolang/tparse/template"
)

var (
	ErrIndex          = errors.New("capture index out of range")
	ErrNotPlaceholder = errors.New("capture is a group")
	ErrNotGroup       = errors.New("capture is not a group")
	ErrItemShape      = errors.New("group items must hold exactly one placeholder")
	ErrUnsupported    = errors.New("unsupported target type")
)

// Func converts the complete text of a span into a T.
type Func[T any] func(s string) (T, error)

// Parser is implemented by types that can set themselves from the text of
// a span, typically through a pointer receiver.
type Parser interface {
	ParseSpan(s string) error
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Text converts the part of input covered by span.
func Text[T any](input string, span template.Span, fn Func[T]) (T, error) {
	var out T
	err := textWith(input, span, typeName[T](), func(s string) error {
		v, err := fn(s)
		out = v
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func textWith(input string, span template.Span, name string, fn func(string) error) error {
	raw := span.Text(input)
	if err := fn(raw); err != nil {
		return template.NewConversionError(span, name, raw, err)
	}
	return nil
}

// Span converts the i-th capture of v, which must be a placeholder.
func Span[T any](v template.Values, i int, fn Func[T]) (T, error) {
	span, err := placeholder(v, i)
	if err != nil {
		var zero T
		return zero, err
	}
	return Text(v.Input(), span, fn)
}

// Items converts every item of the i-th capture of v, which must be a
// group whose inner template holds a single placeholder. A failure
// reports the index of the failing item.
func Items[T any](v template.Values, i int, fn Func[T]) ([]T, error) {
	c, err := group(v, i)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(c.Items))
	for j, item := range c.Items {
		if item.Len() != 1 || item.At(0).Kind != template.CapturePlaceholder {
			return nil, fmt.Errorf("%w: capture %d has %d captures per item", ErrItemShape, i, item.Len())
		}
		x, err := Text(v.Input(), item.Span(0), fn)
		if err != nil {
			var pe *template.ParseError
			if errors.As(err, &pe) {
				pe.Item = j
				pe.Group = c.Span
			}
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func placeholder(v template.Values, i int) (template.Span, error) {
	if i < 0 || i >= v.Len() {
		return template.Span{}, fmt.Errorf("%w: %d of %d", ErrIndex, i, v.Len())
	}
	if v.At(i).Kind != template.CapturePlaceholder {
		return template.Span{}, fmt.Errorf("%w: capture %d", ErrNotPlaceholder, i)
	}
	return v.Span(i), nil
}

func group(v template.Values, i int) (template.Capture, error) {
	if i < 0 || i >= v.Len() {
		return template.Capture{}, fmt.Errorf("%w: %d of %d", ErrIndex, i, v.Len())
	}
	c := v.At(i)
	if c.Kind != template.CaptureGroup {
		return template.Capture{}, fmt.Errorf("%w: capture %d", ErrNotGroup, i)
	}
	return c, nil
}

// Into converts the i-th capture of v into the value target points to.
//
// Supported targets are pointers to the built-in types of this package,
// pointers to slices of them (filled from group items), Parser and
// encoding.TextUnmarshaler implementations. *int32 is converted as a
// number; use Span with Rune for characters.
func Into(v template.Values, i int, target any) error {
	switch t := target.(type) {
	case Parser:
		span, err := placeholder(v, i)
		if err != nil {
			return err
		}
		return textWith(v.Input(), span, fmt.Sprintf("%T", target), t.ParseSpan)

	case *string:
		return assign(v, i, String, t)
	case *bool:
		return assign(v, i, Bool, t)
	case *int:
		return assign(v, i, Int, t)
	case *int8:
		return assign(v, i, Int8, t)
	case *int16:
		return assign(v, i, Int16, t)
	case *int32:
		return assign(v, i, Int32, t)
	case *int64:
		return assign(v, i, Int64, t)
	case *uint:
		return assign(v, i, Uint, t)
	case *uint8:
		return assign(v, i, Uint8, t)
	case *uint16:
		return assign(v, i, Uint16, t)
	case *uint32:
		return assign(v, i, Uint32, t)
	case *uint64:
		return assign(v, i, Uint64, t)
	case *float32:
		return assign(v, i, Float32, t)
	case *float64:
		return assign(v, i, Float64, t)
	case *time.Duration:
		return assign(v, i, Duration, t)
	case *netip.Addr:
		return assign(v, i, Addr, t)
	case *netip.AddrPort:
		return assign(v, i, AddrPort, t)
	case *netip.Prefix:
		return assign(v, i, Prefix, t)

	case *[]string:
		return assignItems(v, i, String, t)
	case *[]bool:
		return assignItems(v, i, Bool, t)
	case *[]int:
		return assignItems(v, i, Int, t)
	case *[]int64:
		return assignItems(v, i, Int64, t)
	case *[]uint:
		return assignItems(v, i, Uint, t)
	case *[]uint64:
		return assignItems(v, i, Uint64, t)
	case *[]float64:
		return assignItems(v, i, Float64, t)

	case encoding.TextUnmarshaler:
		span, err := placeholder(v, i)
		if err != nil {
			return err
		}
		return textWith(v.Input(), span, fmt.Sprintf("%T", target), func(s string) error {
			return t.UnmarshalText([]byte(s))
		})

	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, target)
	}
}

func assign[T any](v template.Values, i int, fn Func[T], dst *T) error {
	x, err := Span(v, i, fn)
	if err != nil {
		return err
	}
	*dst = x
	return nil
}

func assignItems[T any](v template.Values, i int, fn Func[T], dst *[]T) error {
	xs, err := Items(v, i, fn)
	if err != nil {
		return err
	}
	*dst = xs
	return nil
}
