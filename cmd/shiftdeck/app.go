package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shiftdeck/internal/archive"
	"shiftdeck/internal/config"
	"shiftdeck/internal/engine"
	"shiftdeck/internal/logger"
	"shiftdeck/internal/report"
	"shiftdeck/internal/rules"
	"shiftdeck/internal/workbook"
	"shiftdeck/pkg/health"
	"shiftdeck/pkg/logging"
	"shiftdeck/pkg/metrics"
)

type App struct {
	Config *config.Config
	Logger logger.Logger

	server *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Config: cfg,
		Logger: log,
	}
}

// Analyze runs one full pass: read records and rules, lint, evaluate,
// rank, and write the report into the workbook and to stdout.
func (a *App) Analyze(ctx context.Context) error {
	ctx = logging.WithRunID(ctx, uuid.New().String())
	metrics.RegisterEngineMetrics()
	a.startMetricsServer(ctx, nil)
	defer a.stopMetricsServer(ctx)

	wb, err := workbook.Open(a.Config.Workbook.Path, a.Logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	authored, err := wb.RuleTable()
	if err != nil {
		return err
	}
	table, source, err := rules.Select(authored, a.Config.Rules.DocumentPath)
	if err != nil {
		return err
	}

	lintIssues := rules.Lint(table)
	metrics.SetLintIssues(len(lintIssues))
	for _, issue := range lintIssues {
		a.Logger.WarnwCtx(ctx, "Rule lint issue", "issue", issue)
	}

	snap, err := wb.Snapshot(ctx)
	if err != nil {
		return err
	}

	evaluator := engine.NewEvaluator(a.Logger)
	triggers := evaluator.Evaluate(ctx, table, snap)
	engine.Rank(triggers)

	sections := report.BuildSections(snap, triggers, source, evaluator.Clock(), a.Config.Report.TopPrompts)

	if err := workbook.NewReportSink(wb).Render(sections, triggers, lintIssues); err != nil {
		return fmt.Errorf("failed to write workbook report: %w", err)
	}
	if err := wb.Save(); err != nil {
		return err
	}
	if err := report.NewTextSink(os.Stdout).Render(sections, triggers, lintIssues); err != nil {
		return fmt.Errorf("failed to write console report: %w", err)
	}

	a.Logger.InfowCtx(ctx, "Analyze complete",
		"rules_source", source,
		"triggers", len(triggers),
		"lint_issues", len(lintIssues),
	)
	return nil
}

// ExportRules writes the authored rule table to the rule document so
// later runs can fall back to it when the table is emptied.
func (a *App) ExportRules(ctx context.Context) error {
	wb, err := workbook.Open(a.Config.Workbook.Path, a.Logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	table, err := wb.RuleTable()
	if err != nil {
		return err
	}

	if err := rules.ExportDocument(a.Config.Rules.DocumentPath, wb.Path(), table); err != nil {
		return err
	}

	a.Logger.InfowCtx(ctx, "Rules exported",
		"path", a.Config.Rules.DocumentPath,
		"rules", len(table),
	)
	return nil
}

// Archive upserts the workbook logs into the history database and
// optionally clears them from the workbook afterwards.
func (a *App) Archive(ctx context.Context, clear bool) error {
	ctx = logging.WithRunID(ctx, uuid.New().String())
	metrics.RegisterArchiveMetrics()

	if a.Config.Database.RunMigrations {
		if err := a.Migrate(ctx); err != nil {
			return err
		}
	}

	store, err := archive.Open(ctx, a.Config.Database.Postgres.DSN(), a.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	wb, err := workbook.Open(a.Config.Workbook.Path, a.Logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	snap, err := wb.Snapshot(ctx)
	if err != nil {
		return err
	}

	result, err := store.ArchiveSnapshot(ctx, wb.Path(), snap)
	if err != nil {
		return err
	}

	if clear {
		if err := wb.ClearLogs(); err != nil {
			return err
		}
		if err := wb.Save(); err != nil {
			return err
		}
	}

	a.Logger.InfowCtx(ctx, "Archive complete",
		"run_id", result.RunID.String(),
		"cleared", clear,
	)
	return nil
}

func (a *App) Migrate(ctx context.Context) error {
	sourceURL := "file://" + a.Config.Database.MigrationsPath
	if err := archive.RunMigrations(sourceURL, a.Config.Database.Postgres.URL()); err != nil {
		return err
	}
	a.Logger.InfowCtx(ctx, "Migrations applied", "source", sourceURL)
	return nil
}

// startMetricsServer exposes /metrics and /health while a run is in
// progress. Disabled when no port is configured.
func (a *App) startMetricsServer(ctx context.Context, checkers []health.Checker) {
	if a.Config.Server.MetricsPort == 0 {
		return
	}

	registry := health.NewCheckerRegistry()
	registry.Register(health.NewWorkbookChecker(a.Config.Workbook.Path))
	for _, c := range checkers {
		registry.Register(c)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := registry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Config.Server.MetricsPort),
		Handler: mux,
	}

	go func() {
		a.Logger.InfowCtx(ctx, "Metrics server starting", "port", a.Config.Server.MetricsPort)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorwCtx(ctx, "Metrics server stopped", "error", err)
		}
	}()
}

func (a *App) stopMetricsServer(ctx context.Context) {
	if a.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.Logger.WarnwCtx(ctx, "Metrics server shutdown failed", "error", err)
	}
}
