package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tparse/rules"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile    string
	timeout    time.Duration
	verbose    bool
	jsonOutput bool
	outPath    string

	logger = zap.NewNop()
)

// ErrFailed is returned when a command already reported its failures.
var ErrFailed = errors.New("some inputs failed")

var rootCmd = &cobra.Command{
	Use:           "tparse",
	Short:         "tparse - extract typed fields from text with inverse format templates",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", rules.DefaultFile, "Rule file")
	flags.DurationVar(&timeout, "timeout", defaultTimeout, "Give up after this long")
	flags.BoolVar(&verbose, "verbose", false, "Log debug output")
	flags.BoolVar(&jsonOutput, "json", false, "Write results as JSON lines")
	flags.StringVarP(&outPath, "output", "o", "", "Write results to a file instead of stdout")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}
