package tparse

import (
	"errors"
	"fmt"

	"github.com/gnolang/tparse/convert"
	"github.com/gnolang/tparse/template"
)

var (
	ErrFieldCount   = errors.New("field names do not match template captures")
	ErrFieldName    = errors.New("invalid field name")
	ErrUnknownField = errors.New("unknown field")
)

// Binding gives names to the captures of a template, in order.
type Binding struct {
	tmpl  *template.Template
	names []string
	index map[string]int
}

// Bind compiles tmpl and names its captures. There must be exactly one
// distinct, non-empty name per capture.
func Bind(tmpl string, names ...string) (*Binding, error) {
	t, err := Compile(tmpl)
	if err != nil {
		return nil, err
	}
	return BindTemplate(t, names...)
}

// BindTemplate is Bind with an already compiled template.
func BindTemplate(t *template.Template, names ...string) (*Binding, error) {
	if len(names) != t.NumCaptures() {
		return nil, fmt.Errorf("%w: template %q has %d captures, got %d names",
			ErrFieldCount, t.String(), t.NumCaptures(), len(names))
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: capture %d has an empty name", ErrFieldName, i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %q is used twice", ErrFieldName, name)
		}
		index[name] = i
	}

	return &Binding{
		tmpl:  t,
		names: append([]string(nil), names...),
		index: index,
	}, nil
}

func (b *Binding) Template() *template.Template { return b.tmpl }

// Names returns the capture names in template order.
func (b *Binding) Names() []string {
	return append([]string(nil), b.names...)
}

// Ordinal returns the capture index bound to name.
func (b *Binding) Ordinal(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

// Parse matches input and returns its captures addressed by name.
func (b *Binding) Parse(input string) (Record, error) {
	values, err := b.tmpl.Parse(input)
	if err != nil {
		return Record{}, err
	}
	return Record{binding: b, values: values}, nil
}

// Scan matches input and converts the named captures into targets. Every
// key of targets must be a bound name; captures without a target are
// ignored.
func (b *Binding) Scan(input string, targets map[string]any) error {
	for name := range targets {
		if _, ok := b.index[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	values, err := b.tmpl.Parse(input)
	if err != nil {
		return err
	}

	// template order keeps the first reported failure stable
	for i, name := range b.names {
		target, ok := targets[name]
		if !ok || target == nil {
			continue
		}
		if err := convert.Into(values, i, target); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// Record is the result of Binding.Parse. It refers to the parsed input.
type Record struct {
	binding *Binding
	values  template.Values
}

func (r Record) Values() template.Values { return r.values }

// Get returns the text captured under name. For a group this is the text
// of the whole group.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.binding.index[name]
	if !ok {
		return "", false
	}
	return r.values.Text(i), true
}

// Items returns the item texts of the group captured under name. It
// reports false for placeholders and for groups whose items hold more
// than one capture.
func (r Record) Items(name string) ([]string, bool) {
	i, ok := r.binding.index[name]
	if !ok || r.values.At(i).Kind != template.CaptureGroup {
		return nil, false
	}

	items := r.values.Items(i)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Len() != 1 {
			return nil, false
		}
		out = append(out, item.Text(0))
	}
	return out, true
}

// Map returns every capture text by name.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.binding.names))
	for i, name := range r.binding.names {
		out[name] = r.values.Text(i)
	}
	return out
}
