package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/edgecast/internal/backtest"
	"github.com/yourusername/edgecast/internal/health"
	"github.com/yourusername/edgecast/internal/metrics"
	"github.com/yourusername/edgecast/internal/scheduler"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one evaluation cycle over the active markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.evaluation.RunCycle(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d markets, %d recommendations (%d staked), %d failed\n",
			report.RunID, report.Markets, len(report.Recommendations), report.Staked(), len(report.Failures))
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Score pending recommendations against settlements",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.reconciliation.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d: %d resolved, %d pending, %d failed\n",
			report.Checked, report.Resolved, report.Pending, report.Failed)
		return nil
	},
}

var (
	backtestFrom   string
	backtestTo     string
	backtestOutput string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Summarize scored predictions over a date window",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := backtest.WindowFromConfig(&cfg.Backtest, time.Now())
		if err != nil {
			return err
		}
		if backtestFrom != "" || backtestTo != "" {
			from, to := window.From, window.To
			if backtestFrom != "" {
				from = backtestFrom
			}
			if backtestTo != "" {
				to = backtestTo
			}
			if window, err = backtest.ParseWindow(from, to); err != nil {
				return err
			}
		}

		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.reconciliation.Summary(cmd.Context(), window)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backtest %s to %s\n", window.From, window.To)
		if err := backtest.WriteReport(cmd.OutOrStdout(), summary); err != nil {
			return err
		}

		output := cfg.Backtest.OutputPath
		if backtestOutput != "" {
			output = backtestOutput
		}
		if output != "" {
			if err := backtest.GenerateCSVExport(summary, output); err != nil {
				return fmt.Errorf("failed to export backtest: %w", err)
			}
			appLog.WithField("path", output).Info("Backtest exported")
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run evaluation and reconciliation on a schedule and expose metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()

		metrics.InitRegistry()
		server := health.NewServer(health.Config{
			ServiceName:    cfg.App.Name,
			Version:        Version,
			Port:           cfg.Metrics.Port,
			MetricsPath:    cfg.Metrics.Path,
			MetricsHandler: metricsHandler(),
			Logger:         appLog,
			Checks:         a.checks(),
		})
		if err := server.Start(ctx); err != nil {
			return err
		}

		sched := scheduler.NewScheduler(appLog)
		if err := sched.ScheduleEvaluation(cfg.Schedule.Evaluate, a.evaluation); err != nil {
			return err
		}
		if err := sched.ScheduleReconciliation(cfg.Schedule.Reconcile, a.reconciliation); err != nil {
			return err
		}

		if cfg.Schedule.RunOnStart {
			if _, err := a.evaluation.RunCycle(ctx); err != nil {
				appLog.WithError(err).Error("Initial evaluation failed")
			}
		}

		if err := sched.Start(); err != nil {
			return err
		}
		server.SetReady(true)
		appLog.WithFields(logrus.Fields{
			"environment": cfg.App.Environment,
			"next_run":    sched.GetNextRun(),
		}).Info("edgecast serving")

		<-ctx.Done()
		appLog.Info("Shutdown signal received")

		server.SetReady(false)
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error during scheduler shutdown")
		}
		if err := server.Shutdown(); err != nil {
			appLog.WithError(err).Error("Error during server shutdown")
		}
		return nil
	},
}

func metricsHandler() http.Handler {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.Handler()
}

func init() {
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date (YYYY-MM-DD), defaults to the configured lookback")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date (YYYY-MM-DD), defaults to today")
	backtestCmd.Flags().StringVarP(&backtestOutput, "output", "o", "", "Directory for CSV export, overrides backtest.output_path")
}
