package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/roffe/canshark/pkg/metrics"
	"github.com/spf13/cobra"
)

const flagListen = "listen"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the statistics table as prometheus metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed(flagListen) {
			cfg.Listen, _ = cmd.Flags().GetString(flagListen)
		}
		shell, err := newShell(ctx, cfg, nil)
		if err != nil {
			return err
		}
		handler, err := metrics.Handler(shell.View)
		if err != nil {
			shell.OnViewClose()
			return err
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>
             <head><title>canshark</title></head>
             <body>
             <h1>canshark</h1>
             <p><a href='/metrics'>Metrics</a></p>
             </body>
             </html>`))
		})
		srv := &http.Server{Addr: cfg.Listen, Handler: mux}

		shell.OnViewStart()
		go func() {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(sctx)
		}()
		log.Printf("listening on %s", cfg.Listen)
		err = srv.ListenAndServe()
		if cerr := shell.OnViewClose(); cerr != nil {
			log.Printf("close: %v", cerr)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().String(flagListen, ":9624", "address to listen on for metrics")
	rootCmd.AddCommand(serveCmd)
}
