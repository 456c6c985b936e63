package main

import (
	"fmt"
	"os"

	"factorindex/cmd"
	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/util"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "factorindex",
	Short: "Build and maintain the factor index",
	Long: `factorindex refreshes market data, rebalances the index allocations and
recomputes the index history. Every command reads the same secrets and
YAML config as the API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config (default $INDEX_CONFIG, then config.yaml)")
}

func loadDependencies() (*cmd.Dependencies, error) {
	deps, err := cmd.InitializeDependencies(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return deps, nil
}

// printJobRun prints the finished run and turns a failed run into an error so
// the exit code reflects it.
func printJobRun(run *model.JobRun) error {
	util.Pprint(run)
	if run.State == model.JobRunState_Failed {
		msg := "unknown error"
		if run.ErrorMessage != nil {
			msg = *run.ErrorMessage
		}
		return fmt.Errorf("%s job failed: %s", run.JobType, msg)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
