package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tparse/process"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Extract records again whenever a file changes",
	Long: `Watches the given directories (the current one by default) and runs the
rules of the config file over every file that is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		set, err := loadRules(cfgFile)
		if err != nil {
			return err
		}

		w, closeOut, err := openOutput(cmd)
		if err != nil {
			return err
		}
		defer closeOut()

		runner := process.New(set,
			process.WithLogger(logger),
			process.WithExtensions(splitList(extensions)...))

		watcher, err := runner.NewWatcher(args, func(path string, results []process.Result, err error) {
			if err != nil {
				logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
				return
			}
			for _, res := range results {
				if !res.Matched() {
					continue
				}
				if err := writeResult(w, res); err != nil {
					logger.Error("Error writing result", zap.Error(err))
					return
				}
			}
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d directories, press Ctrl+C to stop\n", len(args))
		return watcher.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().StringVar(&extensions, "ext", "", "Comma-separated list of file extensions to watch")
}

