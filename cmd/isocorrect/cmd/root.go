// Package cmd provides the isocorrect CLI command implementations.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	compoundsFile    string
	measurementsFile string
	abundanceFile    string
	purityFile       string
	expectedFile     string
	outputFile       string
	natAbTracer      bool
	threads          int
	showStats        bool
)

var rootCmd = &cobra.Command{
	Use:   "isocorrect",
	Short: "isocorrect - natural-abundance correction for tracer-labeling MS data",
	Long: `isocorrect corrects tandem mass spectrometry intensity measurements for
natural isotope abundance, recovering the true tracer-labeling distribution
from raw measured intensities.

Fast, deterministic, and able to account for:
- Natural abundance of non-tracer elements
- Natural abundance landing on the tracer element itself
- Tracer reagent purity (isotopic impurity of the labeling compound)`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(correctCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)

	correctCmd.Flags().StringVarP(&compoundsFile, "compounds", "c", "", "Compound description file (required)")
	correctCmd.Flags().StringVarP(&measurementsFile, "measurements", "m", "", "Measurement table file (required)")
	correctCmd.Flags().StringVarP(&abundanceFile, "abundance", "a", "", "Natural-abundance table file (default table if omitted)")
	correctCmd.Flags().StringVar(&purityFile, "purity", "", "Tracer purity table file (optional)")
	correctCmd.Flags().BoolVar(&natAbTracer, "nat-abundance-on-tracer", false, "Model natural abundance of the unlabeled tracer-element atoms")
	correctCmd.Flags().StringVar(&expectedFile, "expected", "", "Expected corrected vectors, for validation warnings (optional)")
	correctCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Optional SQLite output database")
	correctCmd.Flags().IntVar(&threads, "threads", 1, "Number of worker goroutines for parallel cross-compound correction")
	correctCmd.Flags().BoolVar(&showStats, "stats", false, "Report runtime memory statistics after processing")
	correctCmd.MarkFlagRequired("compounds")
	correctCmd.MarkFlagRequired("measurements")

	validateCmd.Flags().StringVarP(&abundanceFile, "abundance", "a", "", "Natural-abundance table file (default table if omitted)")

	summarizeCmd.Flags().BoolVar(&showStats, "stats", false, "Report runtime memory statistics after summarizing")
}

var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Run natural-abundance correction over a compound and measurement set",
	Long: `Correct measured MS intensities for natural isotope abundance.

Examples:
  # Correct with the built-in natural-abundance table
  isocorrect correct --compounds glucose.txt --measurements glucose.meas

  # Correct with a custom abundance table and tracer purity, writing to SQLite
  isocorrect correct --compounds glucose.txt --measurements glucose.meas \
    --abundance abundance.txt --purity purity.txt --out results.db`,
	RunE: runCorrect,
}

var validateCmd = &cobra.Command{
	Use:   "validate [compound-file]",
	Short: "Validate a compound description file and natural-abundance table",
	Long:  `Parse a compound description file (and optional natural-abundance table) and report any validation failures without running correction.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [compound-file] [measurement-file]",
	Short: "Summarize compound and measurement files",
	Long:  `Print summary statistics about a compound description file and its measurement table: compound count, isotopologue vs. fragmented split, and measurement row counts.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSummarize,
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return f, nil
}
