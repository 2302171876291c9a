package cmd

import (
	"github.com/fatih/color"
	"github.com/roffe/canshark"
	"github.com/roffe/canshark/pkg/printer"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the statistics table on every refresh",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		shell, err := newShell(ctx, cfg, nil, canshark.OptDisplay(printer.New(color.Output, !color.NoColor)))
		if err != nil {
			return err
		}
		shell.OnViewStart()
		<-ctx.Done()
		return shell.OnViewClose()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
