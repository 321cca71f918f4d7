package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/tparse"
	"github.com/gnolang/tparse/formatter"
	"github.com/gnolang/tparse/rules"
)

var checkCmd = &cobra.Command{
	Use:   "check [templates...]",
	Short: "Check templates, or the rules of the config file",
	Long: `Compiles each template given as argument and reports errors with their
position. Without arguments, the config file is loaded and every rule
is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return checkRules(cmd, cfgFile)
		}

		failed := false
		for _, src := range args {
			t, err := tparse.Compile(src)
			if err != nil {
				failed = true
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err, "", ""))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %q: %d captures\n", t.String(), t.NumCaptures())
		}
		if failed {
			return ErrFailed
		}
		return nil
	},
}

func checkRules(cmd *cobra.Command, path string) error {
	cfg, err := rules.Load(path)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	set, err := rules.Compile(cfg, logger)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		if _, ok := formatter.Diagnose(err, path, ""); ok {
			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err, path, ""))
		}
		return ErrFailed
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok %s: %d rules\n", path, len(set.Rules()))
	return nil
}
