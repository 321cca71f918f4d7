package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/tparse/rules"
)

var force bool

// initCmd: tparse init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter rule file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
}

func initConfigurationFile(configurationPath string, overwrite bool) error {
	if configurationPath == "" {
		configurationPath = rules.DefaultFile
	}

	d, err := rules.Marshal(rules.DefaultConfig())
	if err != nil {
		return err
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(configurationPath, flag, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
