package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/pipeline"
)

var (
	abSeparator string
	abOutputDir string
	abSheetName string
	abClusters  bool
	abNoCharts  bool
	abMarkdown  bool
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several datasets, one output directory per file",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return common.E(common.ErrNotFound, "analyze-batch", "no input files matched")
		}
		root := firstNonEmpty(abOutputDir, cfg.OutputDir)

		// per-file tables are noise in batch mode unless verbose
		var tables io.Writer = io.Discard
		if verbose {
			tables = cmd.OutOrStdout()
		}
		p, err := pipeline.New(cfg, slog.Default(), tables)
		if err != nil {
			return err
		}

		total := len(files)
		used := map[string]bool{}
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			res, err := p.Analyze(cmd.Context(), pipeline.AnalyzeRequest{
				Dataset:   path,
				Separator: abSeparator,
				Sheet:     abSheetName,
				OutputDir: filepath.Join(root, uniqueDirName(batchDirName(path), used)),
				Clusters:  abClusters,
				NoCharts:  abNoCharts,
				Markdown:  abMarkdown,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			if !abQuiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d rows, %d files written\n", filepath.Base(path), res.Report.Rows, len(res.Files))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abSeparator, "separator", "s", "", "field separator (default from config)")
	analyzeBatchCmd.Flags().StringVarP(&abOutputDir, "out", "o", "", "parent output directory (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abSheetName, "sheet", "", "sheet name for .xlsx inputs")
	analyzeBatchCmd.Flags().BoolVar(&abClusters, "clusters", false, "write the clustered heatmap for every file")
	analyzeBatchCmd.Flags().BoolVar(&abNoCharts, "no-charts", false, "skip the age and recovery charts")
	analyzeBatchCmd.Flags().BoolVar(&abMarkdown, "markdown", false, "also write summary.md for every file")
	analyzeBatchCmd.Flags().BoolVarP(&abQuiet, "quiet", "q", false, "suppress per-file progress lines")
}

// expandInputs resolves globs, keeps literal paths that exist, and drops duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// batchDirName is the file name without extension, reduced to [a-z0-9-].
func batchDirName(path string) string {
	base := filepath.Base(path)
	s := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' || r == '.' {
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "dataset"
	}
	return out
}

// uniqueDirName suffixes name with -2, -3, ... when an earlier file of the batch
// already claimed it, so a.csv and a.xlsx do not share an output directory.
func uniqueDirName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	used[candidate] = true
	return candidate
}
