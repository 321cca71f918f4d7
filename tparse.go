// Package tparse parses strings against inverse format templates.
//
// A template such as "{}-{}" describes the shape of an input. Parsing
// "12-34" against it captures "12" and "34", which are then converted into
// typed targets:
//
//	var a, b int
//	err := tparse.Scan("12-34", "{}-{}", &a, &b)
//
// Templates are compiled once and cached. The engine itself lives in the
// template and convert packages; this package only glues them together.
package tparse

import (
	"errors"
	"fmt"

	"github.com/gnolang/tparse/convert"
	"github.com/gnolang/tparse/template"
)

// ErrTargetCount reports a number of targets different from the number of
// captures of the template.
var ErrTargetCount = errors.New("target count does not match template captures")

// ErrShape reports a template whose captures cannot feed the requested
// result.
var ErrShape = errors.New("template shape does not fit")

var defaultCache = NewCache(256)

// Compile returns the compiled template for source, reusing a previous
// compilation when possible.
func Compile(source string) (*template.Template, error) {
	return defaultCache.Get(source)
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) *template.Template {
	t, err := Compile(source)
	if err != nil {
		panic("tparse: MustCompile: " + err.Error())
	}
	return t
}

// Scan parses input against tmpl and stores each capture, in order, into
// the matching target. Targets are pointers accepted by convert.Into; a nil
// target skips its capture. Targets converted before a conversion failure
// keep their new values.
func Scan(input, tmpl string, targets ...any) error {
	t, err := Compile(tmpl)
	if err != nil {
		return err
	}
	return ScanTemplate(t, input, targets...)
}

// ScanTemplate is Scan with an already compiled template.
func ScanTemplate(t *template.Template, input string, targets ...any) error {
	if len(targets) != t.NumCaptures() {
		return fmt.Errorf("%w: template %q has %d captures, got %d targets",
			ErrTargetCount, t.String(), t.NumCaptures(), len(targets))
	}

	values, err := t.Parse(input)
	if err != nil {
		return err
	}

	for i, target := range targets {
		if target == nil {
			continue
		}
		if err := convert.Into(values, i, target); err != nil {
			return err
		}
	}
	return nil
}

// Parse parses input against a template holding a single placeholder and
// converts it with fn.
func Parse[T any](input, tmpl string, fn convert.Func[T]) (T, error) {
	var zero T
	t, err := Compile(tmpl)
	if err != nil {
		return zero, err
	}
	if err := single(t, template.SegmentPlaceholder); err != nil {
		return zero, err
	}

	values, err := t.Parse(input)
	if err != nil {
		return zero, err
	}
	return convert.Span(values, 0, fn)
}

// ParseItems parses input against a template holding a single group and
// converts every item with fn.
func ParseItems[T any](input, tmpl string, fn convert.Func[T]) ([]T, error) {
	t, err := Compile(tmpl)
	if err != nil {
		return nil, err
	}
	if err := single(t, template.SegmentGroup); err != nil {
		return nil, err
	}

	values, err := t.Parse(input)
	if err != nil {
		return nil, err
	}
	return convert.Items(values, 0, fn)
}

func single(t *template.Template, kind template.SegmentKind) error {
	if t.NumCaptures() != 1 {
		return fmt.Errorf("%w: template %q has %d captures, want one %s",
			ErrShape, t.String(), t.NumCaptures(), kind)
	}
	for _, seg := range t.Segments() {
		if seg.Kind == template.SegmentLiteral {
			continue
		}
		if seg.Kind != kind {
			return fmt.Errorf("%w: template %q captures a %s, want a %s",
				ErrShape, t.String(), seg.Kind, kind)
		}
	}
	return nil
}
