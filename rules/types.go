package rules

import (
	"sort"

	"github.com/gnolang/tparse/convert"
	"github.com/gnolang/tparse/template"
)

// converter turns the i-th capture of v into a field value.
type converter struct {
	group bool
	fn    func(v template.Values, i int) (any, error)
}

func scalar[T any](fn convert.Func[T]) converter {
	return converter{fn: func(v template.Values, i int) (any, error) {
		return convert.Span(v, i, fn)
	}}
}

func list[T any](fn convert.Func[T]) converter {
	return converter{group: true, fn: func(v template.Values, i int) (any, error) {
		return convert.Items(v, i, fn)
	}}
}

func character(s string) (string, error) {
	r, err := convert.Rune(s)
	if err != nil {
		return "", err
	}
	return string(r), nil
}

func duration(s string) (string, error) {
	d, err := convert.Duration(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

var converters = map[string]converter{
	"":           scalar(convert.String),
	"string":     scalar(convert.String),
	"int":        scalar(convert.Int64),
	"uint":       scalar(convert.Uint64),
	"float":      scalar(convert.Float64),
	"bool":       scalar(convert.Bool),
	"rune":       scalar(character),
	"duration":   scalar(duration),
	"ip":         scalar(convert.Addr),
	"addrport":   scalar(convert.AddrPort),
	"prefix":     scalar(convert.Prefix),
	"list":       list(convert.String),
	"int-list":   list(convert.Int64),
	"float-list": list(convert.Float64),
}

// Types returns the field type names a rule file may use.
func Types() []string {
	out := make([]string, 0, len(converters))
	for name := range converters {
		if name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
