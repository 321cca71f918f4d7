package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tparse/formatter"
	"github.com/gnolang/tparse/process"
	"github.com/gnolang/tparse/rules"
)

var (
	extensions string
	workers    int
	strict     bool
	noProgress bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract records from files with the rules of the config file",
	Long: `Runs the rules of the config file over every line of the given files and
directories, or of stdin when no path is given, and prints one record per
matching line.
Example) tparse extract -c access.yaml --ext .log ./logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		set, err := loadRules(cfgFile)
		if err != nil {
			return err
		}

		w, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		runner := newRunner(cmd, set)
		var results []process.Result
		if len(args) == 0 {
			results, err = runner.Reader(ctx, "", cmd.InOrStdin())
		} else {
			results, err = runner.Paths(ctx, args)
		}
		if err != nil {
			return err
		}
		return report(cmd, w, results)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extensions, "ext", "", "Comma-separated list of file extensions to read in directories")
	extractCmd.Flags().IntVar(&workers, "workers", 0, "Number of files read at once (default: number of CPUs)")
	extractCmd.Flags().BoolVar(&strict, "strict", false, "Report lines that no rule matches and fail")
	extractCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not draw a progress bar")
}

func loadRules(path string) (*rules.Set, error) {
	cfg, err := rules.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	return rules.Compile(cfg, logger)
}

func newRunner(cmd *cobra.Command, set *rules.Set) *process.Runner {
	opts := []process.Option{
		process.WithLogger(logger),
		process.WithWorkers(workers),
	}
	if extensions != "" {
		opts = append(opts, process.WithExtensions(splitList(extensions)...))
	}
	if !noProgress && !jsonOutput {
		opts = append(opts, process.WithProgress(cmd.ErrOrStderr()))
	}
	return process.New(set, opts...)
}

// report writes the matched records and, in strict mode, a diagnostic per
// unmatched line.
func report(cmd *cobra.Command, w io.Writer, results []process.Result) error {
	for _, res := range results {
		if res.Matched() {
			if err := writeResult(w, res); err != nil {
				return err
			}
			continue
		}
		if res.Line == 0 {
			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(res.Err, res.File, ""))
			continue
		}
		if strict {
			name := fmt.Sprintf("%s:%d", res.File, res.Line)
			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(res.Err, name, res.Text))
		}
	}

	stats := process.Summarize(results)
	logger.Info("Extraction finished",
		zap.Int("files", stats.Files),
		zap.Int("lines", stats.Lines),
		zap.Int("matched", stats.Matched),
		zap.Int("failed", stats.Failed))

	if strict && stats.Failed > 0 {
		return ErrFailed
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
