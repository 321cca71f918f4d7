package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tp "github.com/gnolang/tparse/template"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	kindStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

// Diagnostic describes an error located in a piece of text, either an
// input or a template source.
type Diagnostic struct {
	Kind    string
	Name    string // shown after the arrow, e.g. a file name
	Text    string
	Offset  int
	Length  int
	Message string
	Note    string
}

type diagnosticData struct {
	Diagnostic
	Pos             Position
	Line            string
	MaxLineNumWidth int
	Padding         string
}

const diagnosticTemplate = `{{header .Kind .MaxLineNumWidth .Name .Pos -}}
{{snippet .Line .Pos .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .Line .Pos .Length -}}
{{if .Note}}{{note .Note .Padding}}{{end}}
`

var diagnosticTmpl = template.Must(template.New("diagnostic").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             snippet,
	"underlineAndMessage": underlineAndMessage,
	"note":                note,
}).Parse(diagnosticTemplate))

// Format renders d with a caret under the offending offset.
func Format(d Diagnostic) string {
	pos := Locate(d.Text, d.Offset)
	width := len(fmt.Sprintf("%d", pos.Line))
	data := diagnosticData{
		Diagnostic:      d,
		Pos:             pos,
		Line:            lineAt(d.Text, pos.Line),
		MaxLineNumWidth: width,
		Padding:         strings.Repeat(" ", width+1),
	}

	var buf bytes.Buffer
	if err := diagnosticTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// FormatError renders err. Template and parse errors are shown against
// the template source or the input; other errors are printed plainly.
// name labels the input, such as a file name and line.
func FormatError(err error, name, input string) string {
	if d, ok := Diagnose(err, name, input); ok {
		return Format(d)
	}
	return errorStyle.Sprint("error: ") + messageStyle.Sprintf("%v\n", err)
}

// Diagnose builds a Diagnostic for template and parse errors.
func Diagnose(err error, name, input string) (Diagnostic, bool) {
	var te *tp.TemplateError
	if errors.As(err, &te) {
		return Diagnostic{
			Kind:    te.Err.Error(),
			Name:    "template",
			Text:    te.Template,
			Offset:  te.Offset,
			Length:  1,
			Message: templateMessage(te),
		}, true
	}

	var pe *tp.ParseError
	if errors.As(err, &pe) {
		d := Diagnostic{
			Kind:    pe.Err.Error(),
			Name:    name,
			Text:    input,
			Offset:  pe.Offset,
			Length:  1,
			Message: parseMessage(pe),
		}
		if pe.Err == tp.ErrConversionFailed && pe.Span.Len() > 0 {
			d.Length = pe.Span.Len()
		}
		if pe.Item >= 0 {
			d.Note = fmt.Sprintf("in item %d of the group at offset %d", pe.Item, pe.Group.Start)
		}
		return d, true
	}
	return Diagnostic{}, false
}

func templateMessage(e *tp.TemplateError) string {
	switch e.Err {
	case tp.ErrUnbalancedBrace:
		return "brace is never closed or was never opened; use {{ or }} for a literal brace"
	case tp.ErrAmbiguousAdjacency:
		return "add a literal between the two captures"
	case tp.ErrEmptyLiteral:
		return "group separators cannot be empty"
	default:
		return "expected {}, {:SEP:}, {:SEP:N} or {[INNER]:SEP:}"
	}
}

func parseMessage(e *tp.ParseError) string {
	switch e.Err {
	case tp.ErrLiteralNotFound:
		return fmt.Sprintf("expected %q", e.Literal)
	case tp.ErrUnexpectedEnd:
		if e.Literal != "" {
			return fmt.Sprintf("input ends before %q", e.Literal)
		}
		return "input ends here"
	case tp.ErrTrailingInput:
		return "the template ends here"
	case tp.ErrConversionFailed:
		if e.Cause != nil {
			return fmt.Sprintf("not a valid %s: %v", e.TypeName, e.Cause)
		}
		return fmt.Sprintf("not a valid %s", e.TypeName)
	case tp.ErrCountMismatch:
		return fmt.Sprintf("expected %d items, found %d", e.Expected, e.Count)
	default:
		return e.Err.Error()
	}
}

// utils functions used in the text template

func header(kind string, maxLineNumWidth int, name string, pos Position) string {
	out := errorStyle.Sprint("error: ")
	out += kindStyle.Sprintf("%s\n", kind)
	out += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth))
	if name == "" {
		name = "input"
	}
	out += fileStyle.Sprintf("%s:%d:%d\n", name, pos.Line, pos.Column)
	return out
}

func snippet(line string, pos Position, maxLineNumWidth int, padding string) string {
	out := lineStyle.Sprintf("%s|\n", padding)
	out += lineStyle.Sprintf("%*d | ", maxLineNumWidth, pos.Line)
	out += expandTabs(line) + "\n"
	return out
}

func underlineAndMessage(message, padding, line string, pos Position, length int) string {
	if length < 1 {
		length = 1
	}
	start := visualColumn(line, pos.Column)
	end := visualColumn(line, pos.Column+length)
	if end <= start {
		end = start + 1
	}

	out := lineStyle.Sprintf("%s| ", padding)
	out += strings.Repeat(" ", start)
	out += messageStyle.Sprintf("%s %s\n", strings.Repeat("^", end-start), message)
	return out
}

func note(text, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("note: ") + text + "\n"
}

// visualColumn returns the display column before the byte at column
// (1-based), expanding tabs.
func visualColumn(line string, column int) int {
	visual := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	// columns past the end of the line, e.g. at end of input
	if column-1 > len(line) {
		visual += column - 1 - len(line)
	}
	return visual
}

func expandTabs(line string) string {
	var b strings.Builder
	visual := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - (visual % tabWidth)
			b.WriteString(strings.Repeat(" ", n))
			visual += n
			continue
		}
		b.WriteRune(ch)
		visual++
	}
	return b.String()
}
