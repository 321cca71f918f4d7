package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gnolang/tparse/process"
)

// openOutput returns the --output file, or the command's stdout.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outPath == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

type recordLine struct {
	File   string         `json:"file,omitempty"`
	Line   int            `json:"line"`
	Rule   string         `json:"rule"`
	Fields map[string]any `json:"fields"`
}

type matchLine struct {
	Input  string `json:"input"`
	Values []any  `json:"values,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// writeResult writes one matched line, as JSON or as
// "file:line: rule key=value ...".
func writeResult(w io.Writer, res process.Result) error {
	if jsonOutput {
		return writeJSON(w, recordLine{
			File:   res.File,
			Line:   res.Line,
			Rule:   res.Record.Rule,
			Fields: res.Record.Fields,
		})
	}

	keys := make([]string, 0, len(res.Record.Fields))
	for k := range res.Record.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	if res.File != "" {
		fmt.Fprintf(&b, "%s:%d: ", res.File, res.Line)
	} else {
		fmt.Fprintf(&b, "%d: ", res.Line)
	}
	b.WriteString(res.Record.Rule)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, res.Record.Fields[k])
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
