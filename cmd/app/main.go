package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/logging"
	"dispatch/internal/pkg/tracing"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "dispatch"
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("dispatch: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Delivery dispatch engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newDispatchCommand(), newMigrateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the dispatch scheduler",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func newDispatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run a single dispatch pass and print its report",
		RunE: func(c *cobra.Command, _ []string) error {
			return withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot, _ cmd.Config, _ *slog.Logger) error {
				command, err := commands.NewRunDispatchPassCommand(commands.TriggerManual)
				if err != nil {
					return err
				}

				report, err := root.DispatchPassHandler().Handle(ctx, command)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(c.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Trigger        string  `json:"trigger"`
					Skipped        bool    `json:"skipped"`
					Pending        int     `json:"pending"`
					Eligible       int     `json:"eligible"`
					Excluded       int     `json:"excluded"`
					Clusters       int     `json:"clusters"`
					AssignedOrders int     `json:"assignedOrders"`
					NoAgent        int     `json:"noAgentClusters"`
					DurationMs     float64 `json:"durationMs"`
				}{
					Trigger:        report.Trigger,
					Skipped:        report.Skipped,
					Pending:        report.Pending,
					Eligible:       report.Eligible,
					Excluded:       len(report.Excluded),
					Clusters:       len(report.Clusters),
					AssignedOrders: report.AssignedOrders(),
					NoAgent:        report.CountClusters(commands.ClusterNoAgent),
					DurationMs:     float64(report.Duration()) / float64(time.Millisecond),
				})
			})
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)

			db, err := cmd.OpenDatabase(cfg, logger)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			version, dirty, err := cmd.SchemaVersion(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return err
		},
	}
}

// withRoot loads the configuration, opens the store and hands a composition
// root to fn. Everything is released when fn returns.
func withRoot(ctx context.Context, fn func(ctx context.Context, root *cmd.CompositionRoot, cfg cmd.Config, logger *slog.Logger) error) error {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Setup(cfg.TracingExporter, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	db, err := cmd.OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	root := cmd.NewCompositionRoot(cfg, db, logger)
	defer func() {
		if err := root.Close(); err != nil {
			logger.Warn("failed to close connections", "error", err)
		}
	}()

	return fn(ctx, root, cfg, logger)
}

func serve(ctx context.Context) error {
	return withRoot(ctx, func(ctx context.Context, root *cmd.CompositionRoot, cfg cmd.Config, logger *slog.Logger) error {
		e, err := root.CreateEcho()
		if err != nil {
			return err
		}

		jobManager := root.CreateJobManager()
		if err = jobManager.StartAll(ctx); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			addr := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
			logger.Info("http server listening", "addr", addr)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return errors.Join(
				e.Shutdown(shutdownCtx),
				jobManager.StopAll(shutdownCtx),
			)
		})

		return g.Wait()
	})
}
