package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lexiz/internal/clock"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/reminder"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reminder job and expose metrics",
	Long: `Run the periodic due-review reminder and serve Prometheus metrics on
/metrics. When --config is set, tuning changes in the file are applied
without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		rt, err := openRuntime(cmd, reg)
		if err != nil {
			return err
		}
		defer rt.Close()
		log := rt.log

		addr := rt.cfg.Metrics.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		rem := reminder.New(rt.engine, reminder.LogNotifier{Log: log.Named("reminder")},
			clock.Real{}, rt.cfg.Reminder, log.Named("reminder"), rt.metrics)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("serving metrics", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			return rem.Start(ctx)
		})
		if rt.configPath != "" {
			g.Go(func() error {
				return config.Watch(ctx, rt.configPath, log.Named("config"), func(c *config.Config) {
					if err := rt.engine.SetTuning(c.Tuning); err != nil {
						log.Warn("tuning rejected", zap.Error(err))
						return
					}
					log.Info("tuning updated")
				})
			})
		}

		err = g.Wait()
		log.Info("shutting down")
		return err
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Metrics listen address (overrides metrics.addr)")
}
