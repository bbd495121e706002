package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dana-cli/internal/common"
	cfgpkg "github.com/KaramelBytes/dana-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DANA configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "separator: %q\n", cfg.Separator)
		fmt.Fprintf(w, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "id_offset: %d\n", cfg.IDOffset)
		fmt.Fprintf(w, "age_column: %s\n", cfg.AgeColumn)
		fmt.Fprintf(w, "sex_column: %s\n", cfg.SexColumn)
		fmt.Fprintf(w, "status_column: %s\n", cfg.StatusColumn)
		fmt.Fprintf(w, "report_file: %s\n", cfg.ReportFile)
		fmt.Fprintf(w, "categorical_color: %s\n", cfg.CategoricalColor)
		fmt.Fprintf(w, "numerical_color: %s\n", cfg.NumericalColor)
		fmt.Fprintf(w, "cluster_heatmap: %t\n", cfg.ClusterHeatmap)
		fmt.Fprintf(w, "distance_warn_rows: %d\n", cfg.DistanceWarnRows)
		fmt.Fprintf(w, "logging.level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(w, "logging.format: %s\n", cfg.Logging.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// reload without flag overrides so they are not persisted
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		const op = "config set"
		switch key {
		case "separator":
			c.Separator = val
		case "output_dir":
			c.OutputDir = val
		case "id_offset":
			i, err := strconv.Atoi(val)
			if err != nil {
				return common.Wrap(common.ErrConfig, op, err, "invalid int for id_offset: %v", val)
			}
			c.IDOffset = i
		case "age_column":
			c.AgeColumn = val
		case "sex_column":
			c.SexColumn = val
		case "status_column":
			c.StatusColumn = val
		case "report_file":
			c.ReportFile = val
		case "categorical_color":
			c.CategoricalColor = val
		case "numerical_color":
			c.NumericalColor = val
		case "cluster_heatmap":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return common.Wrap(common.ErrConfig, op, err, "invalid bool for cluster_heatmap: %v", val)
			}
			c.ClusterHeatmap = b
		case "distance_warn_rows":
			i, err := strconv.Atoi(val)
			if err != nil {
				return common.Wrap(common.ErrConfig, op, err, "invalid int for distance_warn_rows: %v", val)
			}
			c.DistanceWarnRows = i
		case "logging.level":
			c.Logging.Level = val
		case "logging.format":
			c.Logging.Format = val
		default:
			return common.E(common.ErrConfig, op, "unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
