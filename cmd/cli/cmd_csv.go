package main

import (
	"fmt"
	"os"

	"factorindex/cmd"
	"factorindex/internal/util"

	"github.com/spf13/cobra"
)

var (
	importFile  string
	exportFile  string
	exportStart string
	exportEnd   string
)

var importAssetsCmd = &cobra.Command{
	Use:   "import-assets",
	Short: "Upsert universe assets from a CSV file",
	Long: `Upsert assets from a CSV with the header symbol,name,sector,currency,is_active.
Existing symbols are updated in place, nothing is deleted.

Example:
  factorindex import-assets --file universe.csv`,
	RunE: runImportAssets,
}

var exportIndexCmd = &cobra.Command{
	Use:   "export-index",
	Short: "Write the stored index history to a CSV file",
	RunE:  runExportIndex,
}

func init() {
	rootCmd.AddCommand(importAssetsCmd)
	rootCmd.AddCommand(exportIndexCmd)

	importAssetsCmd.Flags().StringVar(&importFile, "file", "", "CSV file to import")
	importAssetsCmd.MarkFlagRequired("file")

	exportIndexCmd.Flags().StringVar(&exportFile, "file", "", "Output file (default: stdout)")
	exportIndexCmd.Flags().StringVar(&exportStart, "start", "", "First date, YYYY-MM-DD")
	exportIndexCmd.Flags().StringVar(&exportEnd, "end", "", "Last date, YYYY-MM-DD")
}

func runImportAssets(_ *cobra.Command, _ []string) error {
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", importFile, err)
	}
	defer f.Close()

	deps, err := loadDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	n, err := cmd.ImportAssets(f, deps.AssetRepository)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d assets\n", n)
	return nil
}

func runExportIndex(_ *cobra.Command, _ []string) error {
	start, err := util.ParseDate(exportStart)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := util.ParseDate(exportEnd)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	deps, err := loadDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	out := os.Stdout
	if exportFile != "" {
		out, err = os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportFile, err)
		}
		defer out.Close()
	}

	n, err := cmd.ExportIndex(out, deps.IndexValueRepository, start, end)
	if err != nil {
		return err
	}
	if exportFile != "" {
		fmt.Printf("wrote %d index values to %s\n", n, exportFile)
	}
	return nil
}
