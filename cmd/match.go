package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tparse"
	"github.com/gnolang/tparse/formatter"
	tp "github.com/gnolang/tparse/template"
)

var matchTemplate string

var matchCmd = &cobra.Command{
	Use:   "match -t TEMPLATE [inputs...]",
	Short: "Match inputs against a template and print the captures",
	Long: `Matches each argument, or each line of stdin when no argument is given,
against the template and prints what was captured.
Example) tparse match -t '{}:{}' 10.0.0.1:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if matchTemplate == "" {
			return fmt.Errorf("a template is required (-t)")
		}
		t, err := tparse.Compile(matchTemplate)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err, "", ""))
			return ErrFailed
		}

		inputs := args
		if len(inputs) == 0 {
			inputs, err = readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		w, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		return runMatch(cmd, w, t, inputs)
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchTemplate, "template", "t", "", "Template to match")
}

func runMatch(cmd *cobra.Command, w io.Writer, t *tp.Template, inputs []string) error {
	failed := 0
	for i, input := range inputs {
		values, err := t.Parse(input)
		if err != nil {
			failed++
			logger.Debug("Input did not match", zap.Int("input", i), zap.Error(err))
			if jsonOutput {
				if err := writeJSON(w, matchLine{Input: input, Error: err.Error()}); err != nil {
					return err
				}
				continue
			}
			name := fmt.Sprintf("input %d", i+1)
			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err, name, input))
			continue
		}

		if jsonOutput {
			if err := writeJSON(w, matchLine{Input: input, Values: values.Args()}); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(w, strings.Join(quoteAll(values.Strings()), " "))
	}

	if failed > 0 {
		logger.Warn("Some inputs did not match", zap.Int("failed", failed), zap.Int("total", len(inputs)))
		return ErrFailed
	}
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
