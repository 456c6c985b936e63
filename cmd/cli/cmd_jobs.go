package main

import (
	"context"
	"fmt"

	"factorindex/cmd"
	"factorindex/internal/app"
	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"
	"factorindex/internal/util"

	"github.com/spf13/cobra"
)

var (
	refreshMode    string
	rebalanceForce bool
	recomputeFrom  string
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh market data and run the rebalance and recompute steps",
	Long: `Fetch prices, market caps and FX rates for the active universe, then
rebalance when due and recompute the index from the earliest changed date.

Examples:
  factorindex refresh
  factorindex refresh --mode full`,
	RunE: runRefresh,
}

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Rebalance the index allocations",
	RunE:  runRebalance,
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute-index",
	Short: "Recompute the index values from stored allocations and prices",
	Long: `Recompute the index from --from onwards, or the whole history when
--from is omitted. Risk metrics are recomputed afterwards.`,
	RunE: runRecompute,
}

var riskCmd = &cobra.Command{
	Use:   "risk-metrics",
	Short: "Recompute risk metric snapshots from the stored index",
	RunE:  runRiskMetrics,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(rebalanceCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(riskCmd)

	refreshCmd.Flags().StringVar(&refreshMode, "mode", string(domain.RefreshModeMinimal), "Refresh mode (minimal|full)")
	rebalanceCmd.Flags().BoolVar(&rebalanceForce, "force", false, "Rebalance even when the next rebalance is not due")
	recomputeCmd.Flags().StringVar(&recomputeFrom, "from", "", "First date to recompute, YYYY-MM-DD")
}

// runJob executes fn on the current goroutine and records it like any queued
// job, so runs started here show up in GET /jobs.
func runJob(jobType model.JobRunType, params any, fn func(app.IndexPipeline) app.JobFunc) error {
	deps, err := loadDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	run, err := deps.ApiHandler.JobQueue.Run(
		context.Background(),
		jobType,
		params,
		fn(deps.ApiHandler.Pipeline),
	)
	if err != nil {
		return err
	}
	return printJobRun(run)
}

func runRefresh(_ *cobra.Command, _ []string) error {
	mode, ok := domain.ParseRefreshMode(refreshMode)
	if !ok {
		return fmt.Errorf("invalid refresh mode %q", refreshMode)
	}
	return runJob(model.JobRunType_Refresh, map[string]string{"mode": string(mode)}, func(p app.IndexPipeline) app.JobFunc {
		return p.RefreshJob(mode)
	})
}

func runRebalance(_ *cobra.Command, _ []string) error {
	return runJob(model.JobRunType_Rebalance, map[string]bool{"force": rebalanceForce}, func(p app.IndexPipeline) app.JobFunc {
		return p.RebalanceJob(rebalanceForce)
	})
}

func runRecompute(_ *cobra.Command, _ []string) error {
	from, err := util.ParseDate(recomputeFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	return runJob(model.JobRunType_RecomputeIndex, map[string]*string{"from": nilIfEmpty(recomputeFrom)}, func(p app.IndexPipeline) app.JobFunc {
		return p.RecomputeJob(from)
	})
}

func runRiskMetrics(_ *cobra.Command, _ []string) error {
	return runJob(model.JobRunType_RiskMetrics, nil, func(p app.IndexPipeline) app.JobFunc {
		return p.RiskMetricsJob()
	})
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
