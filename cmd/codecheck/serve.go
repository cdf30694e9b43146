package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"arxhq/codecheck/pkg/cli"
	"arxhq/codecheck/pkg/engine"
	"arxhq/codecheck/pkg/engine/source"
	"arxhq/codecheck/pkg/model"
	"arxhq/codecheck/pkg/telemetry/metrics"
)

var serveFlags struct {
	listen string
	dryRun bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP service",
	Long: `Run the building validation HTTP service.

The service accepts building models on POST /validate and returns the
compliance report. Rule sets are cached; with the file backend the cache
is kept fresh by a filesystem watcher, and an optional cron schedule
refreshes it for backends without change events.

Endpoints:
  POST /validate   validate a building model (optional ?rule_sets=a,b)
  GET  /healthz    liveness probe
  GET  /metrics    Prometheus metrics (when enabled without a separate listener)

Examples:
  # Start with default config
  codecheck serve

  # Override the listen address
  codecheck serve --listen 0.0.0.0:8080

  # Validate config and wiring without serving
  codecheck serve --dry-run`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listen, "listen", "l", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the service")
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}
	slog.SetDefault(logger)

	src, cleanup, err := newRuleSource(cfg, logger)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer cleanup()

	eng, err := newEngine(cfg, src, logger)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&metrics.Config{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, nil)
		eng.SetMetrics(collector.Engine)
	}

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx := cli.SetupSignalHandler()

	if cfg.RuleSets.Watch && cfg.RuleSets.Backend == "file" {
		watcher, err := source.NewWatcher(cfg.RuleSets.Dir, cfg.RuleSets.WatchDebounce, logger)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer watcher.Stop()
		go func() {
			if err := watcher.Watch(ctx, func(ref string) {
				eng.InvalidateRuleSet(ref)
			}); err != nil {
				logger.Error("rule set watcher exited", "error", err)
			}
		}()
	}

	if cfg.RuleSets.RefreshSchedule != "" {
		scheduler := source.NewRefreshScheduler(cfg.RuleSets.RefreshSchedule, logger)
		if err := scheduler.Start(func() error {
			eng.ClearCache()
			return nil
		}); err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer scheduler.Stop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/validate", handleValidate(eng, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	var metricsSrv *http.Server
	if collector != nil {
		if cfg.Metrics.ListenAddress != "" {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", collector.Handler())
			metricsSrv = &http.Server{
				Addr:              cfg.Metrics.ListenAddress,
				Handler:           metricsMux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				logger.Info("metrics listener started", "address", cfg.Metrics.ListenAddress)
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics listener failed", "error", err)
				}
			}()
		} else {
			mux.Handle("/metrics", collector.Handler())
		}
	}

	srv := &http.Server{
		Addr:              serveFlags.listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("validation service started", "address", serveFlags.listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	fmt.Printf("✓ Service listening on %s\n", serveFlags.listen)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errChan:
		return cli.NewCommandError("serve", err)
	case <-ctx.Done():
		fmt.Println("\nShutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics listener shutdown failed", "error", err)
			}
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return cli.NewCommandError("serve", err)
		}

		fmt.Println("✓ Service stopped")
		return nil
	}
}

// handleValidate validates the posted building model. The optional
// rule_sets query parameter names the rule sets to use, comma separated;
// without it the applicable codes are auto-detected.
func handleValidate(eng *engine.RuleEngine, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var building model.BuildingModel
		if err := json.NewDecoder(r.Body).Decode(&building); err != nil {
			http.Error(w, fmt.Sprintf("invalid building model: %v", err), http.StatusBadRequest)
			return
		}
		if building.BuildingID == "" {
			http.Error(w, "building model has no building_id", http.StatusBadRequest)
			return
		}

		var refs []string
		if raw := r.URL.Query().Get("rule_sets"); raw != "" {
			refs = strings.Split(raw, ",")
		}

		report, err := eng.ValidateBuildingModel(r.Context(), &building, refs)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, engine.ErrNoRuleSets) {
				status = http.StatusBadRequest
			}
			logger.Error("validation request failed",
				"building_id", building.BuildingID,
				"error", err,
			)
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.Error("failed to encode compliance report", "error", err)
		}
	}
}
