package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gitboard/gitboard/internal/config"
	"github.com/gitboard/gitboard/internal/gateway"
	"github.com/gitboard/gitboard/internal/server"
	"github.com/gitboard/gitboard/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the dashboard HTTP API",
	Long: `Starts the HTTP server that backs the browser dashboard. The API
runs a full query session per insight request and also exposes the
latest committed session, a health check and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		logger := logrus.New()
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		if verbose, _ := cmd.InheritedFlags().GetBool("verbose"); verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		policy := gateway.DefaultPolicy()
		policy.MaxAttempts = cfg.GitHub.MaxRetries + 1
		policy.AttemptTimeout = cfg.GitHub.AttemptTimeout.Std()

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, policy, logger)
		if err != nil {
			return err
		}
		service := usecase.NewService(githubGateway, logger)
		srv := server.New(service, logger)

		httpServer := &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: srv.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout.Std(),
			WriteTimeout: cfg.Server.WriteTimeout.Std(),
			IdleTimeout:  cfg.Server.IdleTimeout.Std(),
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.WithField("addr", httpServer.Addr).Info("listening")
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML config file (optional)")
}
