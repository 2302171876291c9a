package cmd

import (
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/roffe/canshark"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Full screen terminal view of the statistics table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		g, err := gocui.NewGui(gocui.OutputNormal)
		if err != nil {
			return err
		}
		defer g.Close()
		g.SetManagerFunc(layout)
		if err := initKeybindings(g); err != nil {
			return err
		}

		shell, err := newShell(ctx, cfg, eventsToView(g, cfg.Debug),
			canshark.OptDisplay(canshark.DisplayFunc(func(rows []canshark.ChannelStat) {
				g.Update(renderStats(rows))
			})),
		)
		if err != nil {
			return err
		}
		shell.OnViewStart()
		defer shell.OnViewClose()

		go func() {
			<-ctx.Done()
			g.Update(quit)
		}()

		if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("stats", 0, 0, maxX-1, maxY-9); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "CAN bus statistics"
		v.Frame = true
		fmt.Fprintln(v, "waiting for first refresh")
	}

	if v, err := g.SetView("errors", 0, maxY-8, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Autoscroll = true
		v.Wrap = true
		v.Title = "Events <q, Ctrl-C> Quit"
	}
	return nil
}

func renderStats(rows []canshark.ChannelStat) func(g *gocui.Gui) error {
	return func(g *gocui.Gui) error {
		v, err := g.View("stats")
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprintf(v, "%-10s %8s %-12s %12s %12s %10s\n", "Channel", "Load", "Config", "TX pkts", "RX pkts", "Errors")
		for _, r := range rows {
			fmt.Fprintf(v, "%-10s %8s %-12s %12s %12s %10s\n",
				canshark.CellText(r, 0),
				canshark.CellText(r, 1),
				canshark.CellText(r, 2),
				canshark.CellText(r, 3),
				canshark.CellText(r, 4),
				canshark.CellText(r, 5),
			)
		}
		return nil
	}
}

// eventsToView writes events to the errors view, stdout belongs to gocui.
func eventsToView(g *gocui.Gui, debug bool) canshark.EventFunc {
	return func(e canshark.Event) {
		if e.Type == canshark.EventTypeDebug && !debug {
			return
		}
		line := fmt.Sprintf("%s %s", time.Now().Format("15:04:05.000"), e)
		g.Update(func(g *gocui.Gui) error {
			v, err := g.View("errors")
			if err != nil {
				return err
			}
			fmt.Fprintln(v, line)
			return nil
		})
	}
}

func quit(g *gocui.Gui) error {
	return gocui.ErrQuit
}

func initKeybindings(g *gocui.Gui) error {
	q := func(g *gocui.Gui, v *gocui.View) error {
		return gocui.ErrQuit
	}
	if err := g.SetKeybinding("", 'q', gocui.ModNone, q); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, q); err != nil {
		return err
	}
	return nil
}
