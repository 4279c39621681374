package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"legacy-modernizer/internal/config"
	"legacy-modernizer/internal/reporter"
	"legacy-modernizer/internal/store"
)

var (
	historyLimit int
	historyRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		h, err := store.OpenHistory(cfg.Storage.HistoryPath)
		if err != nil {
			return err
		}
		defer h.Close()

		if historyRun != "" {
			p, err := h.Get(historyRun)
			if err != nil {
				return fmt.Errorf("run %s: %w", historyRun, err)
			}
			rpt, err := reporter.New(reportFmt, os.Stdout)
			if err != nil {
				return err
			}
			return rpt.Report(p)
		}

		runs, err := h.List(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, p := range runs {
			rows = append(rows, []string{
				p.RunID,
				p.StartedAt.Local().Format("2006-01-02 15:04"),
				p.Source,
				strconv.Itoa(p.Summary.Programs),
				strconv.FormatFloat(p.Summary.AverageComplexity, 'f', 2, 64),
				strconv.Itoa(p.Summary.HighRiskPrograms),
			})
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Run", "Started", "Source", "Programs", "Avg Complexity", "High Risk")
		if err := table.Bulk(rows); err != nil {
			return err
		}
		return table.Render()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to list (0 for all)")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the full report of one run")
	historyCmd.Flags().StringVarP(&reportFmt, "report", "r", "console", "Report format for --run (console, json, markdown)")
}
