package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"legacy-modernizer/internal/pipeline"
	"legacy-modernizer/internal/reporter"
	"legacy-modernizer/internal/store"
)

var (
	srcPath     string
	reportFmt   string
	outputFile  string
	excludes    []string
	workers     int
	noArtifacts bool
	noHistory   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the modernization pipeline over a directory of programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Scanning source: %s\n", srcPath)
		if len(excludes) > 0 {
			fmt.Printf("Excluding patterns: %v\n", excludes)
		}
		fmt.Printf("Report format: %s\n", reportFmt)

		return runAnalysis(cmd)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&srcPath, "src", "s", "data/sample_cobol", "Directory holding the COBOL sources")
	analyzeCmd.Flags().StringVarP(&reportFmt, "report", "r", "console", "Report format (console, json, markdown)")
	analyzeCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write the report to this file instead of stdout")
	analyzeCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", []string{".git", "vendor"}, "Glob patterns or path fragments to skip")
	analyzeCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of programs analysed concurrently")
	analyzeCmd.Flags().BoolVar(&noArtifacts, "no-artifacts", false, "Do not store the generated Java files")
	analyzeCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")
}

func runAnalysis(cmd *cobra.Command) error {
	ctx := cmd.Context()

	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return fmt.Errorf("source path does not exist: %s", srcPath)
	}

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	var out io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	rpt, err := reporter.New(reportFmt, out)
	if err != nil {
		return err
	}

	var opts []pipeline.Option
	if !noArtifacts {
		sink, err := store.NewSink(a.cfg.Storage, ulid.Make().String())
		if err != nil {
			return fmt.Errorf("init artifact storage: %w", err)
		}
		opts = append(opts, pipeline.WithSink(sink))
	}
	p := a.pipeline(opts...)

	fmt.Printf("Analysis started with %s...\n", a.gen.Name())
	portfolio, err := p.Run(ctx, srcPath, pipeline.RunOptions{Excludes: excludes, Workers: workers})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Printf("Analysis complete. %d programs, %d unreadable.\n", len(portfolio.Units), len(portfolio.Failures))

	if !noHistory {
		h, err := store.OpenHistory(a.cfg.Storage.HistoryPath)
		if err != nil {
			a.log.Warnw("run history unavailable", "error", err)
		} else {
			if err := h.Save(portfolio); err != nil {
				a.log.Warnw("saving run failed", "run", portfolio.RunID, "error", err)
			}
			h.Close()
		}
	}

	if err := rpt.Report(portfolio); err != nil {
		return fmt.Errorf("reporting failed: %w", err)
	}
	if outputFile != "" {
		fmt.Printf("Report written to %s\n", outputFile)
	}
	return nil
}
