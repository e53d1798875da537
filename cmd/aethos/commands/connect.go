package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aethos/internal/metrics"
)

var errNoRelayReachable = errors.New("no relay reachable")

func connectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Probe every relay once, send a hello and store the result as the session cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := appCtx.Identity.EnsureIdentity(appCtx.Profile)
			if err != nil {
				return err
			}

			if addr := appCtx.Config.MetricsAddr; addr != "" {
				stop, err := serveMetrics(addr, appCtx.Logger)
				if err != nil {
					return err
				}
				defer stop()
			}

			statuses, cache, err := appCtx.Coordinator.Probe(cmd.Context(), sum.WayfairID)
			out := cmd.OutOrStdout()
			reachable := 0
			for _, st := range statuses {
				if st.Result.OK() {
					reachable++
				}
				fmt.Fprintf(out, "- %s\n", st.Text())
			}
			if err != nil {
				return err
			}
			if err := appCtx.Identity.SaveSessionCache(appCtx.Profile, cache); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d/%d relays reachable.\n", reachable, len(statuses))
			if reachable == 0 {
				return errNoRelayReachable
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&relays, "relay", nil, "relay endpoint, repeatable (default from config)")
	f.BoolVar(&awaitAck, "await-ack", false, "require a hello_ack from each relay")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while probing")
	return cmd
}

// serveMetrics exposes the app registry on addr until stop is called.
func serveMetrics(addr string, log *zap.Logger) (stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(appCtx.Registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server", zap.Error(err))
		}
	}()
	log.Info("metrics listening", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
