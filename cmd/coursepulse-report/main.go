// Package main analyzes a course-progress workbook from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursepulse/internal/config"
	"coursepulse/internal/excel"
	"coursepulse/internal/exporter"
	"coursepulse/internal/importer"
	"coursepulse/internal/model"
)

var (
	currentWeek int
	totalWeeks  int
	configPath  string
	outputPath  string
	pretty      bool
	withReport  bool
	xlsxPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coursepulse-report [input.xlsx]",
		Short: "Compute course-progress KPIs and alerts for a workbook",
		Long: `coursepulse-report reads a course-progress workbook, locates the progress
and assessment sheets and prints the KPI record and prioritized alerts as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().IntVar(&currentWeek, "current-week", 1, "Reporting week (1-based)")
	rootCmd.Flags().IntVar(&totalWeeks, "total-weeks", 1, "Course length in weeks")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config.toml (default: next to the executable)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVar(&withReport, "report", false, "Include sheet selection details")
	rootCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the KPI report workbook to this path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type output struct {
	Result *model.Result            `json:"result"`
	Report *importer.AnalysisReport `json:"report,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, _, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	weeks := model.WeekRange{Current: currentWeek, Total: totalWeeks}
	if err := weeks.Validate(); err != nil {
		return err
	}

	wb, err := excel.LoadFile(inputPath)
	if err != nil {
		return err
	}

	result, report, err := importer.NewCoordinator(cfg).Analyze(wb, weeks)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if xlsxPath != "" {
		if err := writeWorkbook(result, weeks); err != nil {
			return err
		}
	}

	out := output{Result: result}
	if withReport {
		out.Report = report
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeWorkbook(result *model.Result, weeks model.WeekRange) error {
	f, err := exporter.Export(result, exporter.ExportOptions{Weeks: weeks})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", xlsxPath, err)
	}
	return nil
}
