package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/audit/retention"
	"mercator-hq/saturn/pkg/audit/storage"
	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/policy/store"
	"mercator-hq/saturn/pkg/telemetry/metrics"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the rule file and run background maintenance",
	Long: `Run saturn's background duties until interrupted:

  - reload the rule file when it changes
  - serve Prometheus metrics when metrics.listen_address is set
  - prune the audit trail on its cron schedule`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Rules.Source != config.RuleSourceFile {
			return fmt.Errorf("rules.source is %q, watching requires %q", cfg.Rules.Source, config.RuleSourceFile)
		}

		ctx := cli.SetupSignalHandler()

		provider, err := store.NewFileProvider(store.FileProviderConfig{
			Path:             cfg.Rules.Path,
			DebounceInterval: cfg.Rules.DebounceInterval,
		})
		if err != nil {
			return err
		}

		if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress != "" {
			collector := metrics.NewCollector(&metrics.Config{
				Enabled:   true,
				Namespace: cfg.Metrics.Namespace,
			}, nil)

			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			server := &http.Server{
				Addr:              cfg.Metrics.ListenAddress,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				slog.Info("metrics endpoint listening", "address", cfg.Metrics.ListenAddress)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("metrics endpoint failed", "error", err)
				}
			}()
			go func() {
				<-ctx.Done()
				server.Close()
			}()
		}

		if cfg.Audit.Enabled && cfg.Audit.PruneSchedule != "" {
			auditStore, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: cfg.Audit.DBPath})
			if err != nil {
				return fmt.Errorf("opening audit storage: %w", err)
			}
			defer auditStore.Close()

			pruner := retention.NewPruner(auditStore, &retention.Config{
				RetentionDays: cfg.Audit.RetentionDays,
				MaxRecords:    cfg.Audit.MaxRecords,
				PruneSchedule: cfg.Audit.PruneSchedule,
			})
			scheduler := retention.NewScheduler(pruner)
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
		}

		return provider.Watch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
