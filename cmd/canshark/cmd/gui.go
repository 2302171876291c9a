package cmd

import (
	"github.com/roffe/canshark"
	"github.com/roffe/canshark/cmd/canshark/gui"
	"github.com/spf13/cobra"
	sdialog "github.com/sqweek/dialog"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Show the statistics table in a window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			sdialog.Message("%s", err).Title("canshark").Error()
			return err
		}
		w := gui.New()
		shell, err := newShell(ctx, cfg, nil, canshark.OptDisplay(w))
		if err != nil {
			sdialog.Message("Failed to open statistics source:\n%s", err).Title("canshark").Error()
			return err
		}
		return w.Run(ctx, shell)
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}
