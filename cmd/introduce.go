package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dana-cli/internal/cli"
	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/pipeline"
)

var (
	intDataset   string
	intSeparator string
	intSheetName string
	intPID       int
	intFormat    string
	intGroup     string
)

var introduceCmd = &cobra.Command{
	Use:   "introduce [file]",
	Short: "Print the patient with the given identifier",
	Long: `Print one patient record. Identifiers are the 0-based row number plus the
configured offset (id_offset, default 1000000).`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("pid") {
			return common.E(common.ErrConfig, "introduce", "missing patient identifier (use --pid ID)")
		}
		path := datasetArg(intDataset, args)
		if path == "" {
			return common.E(common.ErrConfig, "introduce", "missing dataset (use -d FILE)")
		}
		p, err := pipeline.New(cfg, slog.Default(), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		start := time.Now()
		text := intFormat == "" || intFormat == pipeline.FormatText
		if text {
			cli.Welcome(cmd.OutOrStdout(), version, path, verbose, map[string]string{
				"dataset": path,
				"pid":     cmd.Flags().Lookup("pid").Value.String(),
			})
		}
		if _, err := p.Introduce(cmd.Context(), pipeline.IntroduceRequest{
			Dataset:   path,
			Separator: intSeparator,
			Sheet:     intSheetName,
			ID:        intPID,
			Format:    intFormat,
			Group:     intGroup,
		}); err != nil {
			return err
		}
		if text {
			cli.Close(cmd.OutOrStdout(), time.Since(start))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(introduceCmd)
	introduceCmd.Flags().StringVarP(&intDataset, "dataset", "d", "", "dataset file (.csv, .tsv, .txt or .xlsx)")
	introduceCmd.Flags().StringVarP(&intSeparator, "separator", "s", "", "field separator (default from config)")
	introduceCmd.Flags().StringVar(&intSheetName, "sheet", "", "sheet name for .xlsx input (default first sheet)")
	introduceCmd.Flags().IntVar(&intPID, "pid", 0, "patient identifier")
	introduceCmd.Flags().StringVar(&intFormat, "format", pipeline.FormatText, "output format: text|json|yaml")
	introduceCmd.Flags().StringVar(&intGroup, "group", "", "label for the patient group (default Unknown)")
}
