package cmd

import (
	"context"
	"log"
	"time"

	"github.com/roffe/canshark"
	"github.com/roffe/canshark/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "canshark",
	Short:        "CAN bus statistics",
	Long:         `Shows load, configuration and packet counters of every CAN channel, refreshed on a timer`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

const (
	flagConfig   = "config"
	flagInterval = "interval"
	flagDebug    = "debug"
	flagSource   = "source"
	flagChannel  = "channel"
	flagPort     = "port"
	flagBaudrate = "baudrate"
	flagCANRate  = "canrate"
)

func init() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringP(flagConfig, "c", "", "yaml config file, flags below are ignored when set")
	pf.DurationP(flagInterval, "i", time.Second, "refresh interval")
	pf.BoolP(flagDebug, "d", false, "debug mode")
	pf.StringP(flagSource, "s", config.SourceSysfs, "statistics source: sysfs, virtual, slcan, canusb, socketcan")
	pf.String(flagChannel, "", "channel name for frame based sources")
	pf.StringP(flagPort, "p", "", "com-port or interface, * = pick from list")
	pf.IntP(flagBaudrate, "b", 115200, "com-port baudrate")
	pf.Float64P(flagCANRate, "r", 500, "CAN rate in kbit/s")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	pf := cmd.Flags()
	if path, _ := pf.GetString(flagConfig); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if pf.Changed(flagDebug) {
			cfg.Debug, _ = pf.GetBool(flagDebug)
		}
		return cfg, nil
	}

	interval, _ := pf.GetDuration(flagInterval)
	debug, _ := pf.GetBool(flagDebug)
	sourceType, _ := pf.GetString(flagSource)
	channel, _ := pf.GetString(flagChannel)
	port, _ := pf.GetString(flagPort)
	baudrate, _ := pf.GetInt(flagBaudrate)
	canrate, _ := pf.GetFloat64(flagCANRate)

	if port == "*" {
		var err error
		if port, err = pickPort(); err != nil {
			return nil, err
		}
	}
	cfg := &config.Config{
		IntervalMs: int(interval / time.Millisecond),
		Debug:      debug,
		Sources: []config.SourceConfig{{
			Type:     sourceType,
			Channel:  channel,
			Port:     port,
			Baudrate: baudrate,
			CANRate:  canrate,
		}},
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newShell builds the configured source and one view over it, a nil onEvent
// logs. The caller owns the shell and must call OnViewClose.
func newShell(ctx context.Context, cfg *config.Config, onEvent canshark.EventFunc, opts ...canshark.Option) (*canshark.Shell, error) {
	if onEvent == nil {
		onEvent = canshark.LogEvents(cfg.Debug)
	}
	src, closer, err := cfg.Build(ctx, onEvent)
	if err != nil {
		return nil, err
	}
	opts = append([]canshark.Option{
		canshark.OptInterval(cfg.Interval()),
		canshark.OptTimeout(cfg.Timeout()),
		canshark.OptOnEvent(onEvent),
	}, opts...)
	view, err := canshark.NewStatsView(src, opts...)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return canshark.NewShell(view, closer), nil
}
