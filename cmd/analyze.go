package cmd

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dana-cli/internal/cli"
	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/pipeline"
)

var (
	anaDataset   string
	anaSeparator string
	anaOutputDir string
	anaSheetName string
	anaClusters  bool
	anaNoCharts  bool
	anaMarkdown  bool
	anaPlain     bool
	anaPID       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Summarize a dataset and write the spreadsheet report and charts",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("pid") {
			return common.E(common.ErrConfig, "analyze", "--pid is only valid with introduce")
		}
		path := datasetArg(anaDataset, args)
		if path == "" {
			return common.E(common.ErrConfig, "analyze", "missing dataset (use -d FILE)")
		}
		p, err := pipeline.New(cfg, slog.Default(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		p.ShowProgress = verbose

		start := time.Now()
		cli.Welcome(cmd.OutOrStdout(), version, path, verbose, map[string]string{
			"dataset":   path,
			"separator": firstNonEmpty(anaSeparator, cfg.Separator),
			"out":       firstNonEmpty(anaOutputDir, cfg.OutputDir),
			"clusters":  strconv.FormatBool(anaClusters || cfg.ClusterHeatmap),
			"debug":     strconv.FormatBool(debug),
			"verbose":   strconv.FormatBool(verbose),
		})
		if _, err := p.Analyze(cmd.Context(), pipeline.AnalyzeRequest{
			Dataset:   path,
			Separator: anaSeparator,
			Sheet:     anaSheetName,
			OutputDir: anaOutputDir,
			Clusters:  anaClusters,
			NoCharts:  anaNoCharts,
			Markdown:  anaMarkdown,
			Plain:     anaPlain,
		}); err != nil {
			return err
		}
		cli.Close(cmd.OutOrStdout(), time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaDataset, "dataset", "d", "", "dataset file (.csv, .tsv, .txt or .xlsx)")
	analyzeCmd.Flags().StringVarP(&anaSeparator, "separator", "s", "", "field separator: a single character or tab|comma|semicolon|pipe (default from config)")
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "out", "o", "", "output directory for the report and charts (default from config)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet", "", "sheet name for .xlsx input (default first sheet)")
	analyzeCmd.Flags().BoolVar(&anaClusters, "clusters", false, "compute the distance matrix and write the clustered heatmap")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip the age and recovery charts")
	analyzeCmd.Flags().BoolVar(&anaMarkdown, "markdown", false, "also write a schema digest to summary.md")
	analyzeCmd.Flags().BoolVar(&anaPlain, "plain", false, "print the summary as indented text instead of tables")
	analyzeCmd.Flags().IntVar(&anaPID, "pid", 0, "not accepted here; see introduce")
	_ = analyzeCmd.Flags().MarkHidden("pid")
}

// datasetArg prefers the -d flag and falls back to a positional file argument.
func datasetArg(flag string, args []string) string {
	if flag != "" {
		return flag
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
