package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fortytwonet/lodcache/httpapi"
	"github.com/fortytwonet/lodcache/sweep"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	var addr string
	var sweepInterval time.Duration
	var sweepHorizon time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine's HTTP control surface and background sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Verbose)

			engine, err := buildEngine(cfg, log)
			if err != nil {
				return err
			}
			defer engine.Close()

			sweeper, err := sweep.New(engine, sweep.Config{Interval: sweepInterval, Horizon: sweepHorizon}, log)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := sweeper.Start(ctx); err != nil {
				return err
			}
			defer sweeper.Stop()

			server := &http.Server{Addr: addr, Handler: httpapi.New(engine, log)}
			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			log.Info().Str("addr", addr).Msg("lodcachectl serve: listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().DurationVar(&sweepInterval, "sweep-interval", 5*time.Minute, "how often to sweep near-expiry entries")
	cmd.Flags().DurationVar(&sweepHorizon, "sweep-horizon", time.Hour, "how close to expiry an entry must be to be swept")

	return cmd
}
