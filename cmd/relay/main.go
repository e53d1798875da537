package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aethos/internal/logger"
	"aethos/internal/metrics"
	"aethos/internal/relay/devrelay"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		listen   string
		token    string
		name     string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Run the aethos development relay",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			reg := prometheus.NewRegistry()
			srv := devrelay.New(devrelay.Options{
				Name:     name,
				Token:    token,
				Logger:   log,
				Recorder: metrics.NewCollector(reg),
			})

			mux := http.NewServeMux()
			mux.Handle("/", srv.Handler())
			mux.Handle("/metrics", metrics.Handler(reg))

			httpSrv := &http.Server{
				Addr:              listen,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- httpSrv.ListenAndServe() }()
			log.Info("relay listening",
				zap.String("addr", listen),
				zap.String("name", name),
				zap.Bool("auth", token != ""),
			)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("relay stopped")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&listen, "listen", ":8082", "listen address")
	f.StringVar(&token, "token", os.Getenv("AETHOS_RELAY_AUTH_TOKEN"), "required bearer token (default $AETHOS_RELAY_AUTH_TOKEN)")
	f.StringVar(&name, "name", "devrelay", "relay name reported in acks")
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}
