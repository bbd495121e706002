package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/records"
	"github.com/KaramelBytes/dana-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	Separator string `mapstructure:"separator" yaml:"separator" validate:"required"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	IDOffset  int    `mapstructure:"id_offset" yaml:"id_offset" validate:"gte=1000000"`

	// Column names of the patient record fields
	AgeColumn    string `mapstructure:"age_column" yaml:"age_column" validate:"required"`
	SexColumn    string `mapstructure:"sex_column" yaml:"sex_column" validate:"required"`
	StatusColumn string `mapstructure:"status_column" yaml:"status_column" validate:"required"`

	// Report and chart output
	ReportFile       string `mapstructure:"report_file" yaml:"report_file" validate:"required,endswith=.xlsx"`
	CategoricalColor string `mapstructure:"categorical_color" yaml:"categorical_color" validate:"hexcolor"`
	NumericalColor   string `mapstructure:"numerical_color" yaml:"numerical_color" validate:"hexcolor"`
	ClusterHeatmap   bool   `mapstructure:"cluster_heatmap" yaml:"cluster_heatmap"`
	DistanceWarnRows int    `mapstructure:"distance_warn_rows" yaml:"distance_warn_rows" validate:"gte=0"`

	Logging Logging `mapstructure:"logging" yaml:"logging"`
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

// Fields returns the record columns named by the configuration.
func (c *Global) Fields() records.Fields {
	return records.Fields{Age: c.AgeColumn, Sex: c.SexColumn, Status: c.StatusColumn}
}

// Dir is the default configuration directory, ~/.dana.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dana"), nil
}

// Defaults returns the configuration used when no file or env overrides exist.
func Defaults() *Global {
	f := records.DefaultFields()
	return &Global{
		Separator:        ",",
		OutputDir:        ".",
		IDOffset:         records.DefaultIDOffset,
		AgeColumn:        f.Age,
		SexColumn:        f.Sex,
		StatusColumn:     f.Status,
		ReportFile:       "summary.xlsx",
		CategoricalColor: "#68AB25",
		NumericalColor:   "#9F25AB",
		DistanceWarnRows: 10000,
		Logging:          Logging{Level: "info", Format: "console"},
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dana/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// FlagKeys maps configuration keys to the command-line flags that override them.
var FlagKeys = map[string]string{
	"logging.level":  "log-level",
	"logging.format": "log-format",
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	return LoadWithFlags(cfgFile, nil)
}

// LoadWithFlags is Load with the flags named in FlagKeys taking precedence over
// every other source once they are set on the command line.
func LoadWithFlags(cfgFile string, flags *pflag.FlagSet) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("separator", d.Separator)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("id_offset", d.IDOffset)
	v.SetDefault("age_column", d.AgeColumn)
	v.SetDefault("sex_column", d.SexColumn)
	v.SetDefault("status_column", d.StatusColumn)
	v.SetDefault("report_file", d.ReportFile)
	v.SetDefault("categorical_color", d.CategoricalColor)
	v.SetDefault("numerical_color", d.NumericalColor)
	v.SetDefault("cluster_heatmap", d.ClusterHeatmap)
	v.SetDefault("distance_warn_rows", d.DistanceWarnRows)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	if flags != nil {
		for key, name := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, common.Wrap(common.ErrConfig, "config.Load", err, "bind --%s", name)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config that does not exist yet surfaces as a plain fs error
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, common.Wrap(common.ErrConfig, "config.Load", err, "read config")
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, common.Wrap(common.ErrConfig, "config.Load", err, "unmarshal config")
	}
	return &c, nil
}

var validate = newValidator()

// newValidator reports fields by their yaml key so messages match `dana config set` keys.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and reports every violation in one ConfigError.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Wrap(common.ErrConfig, "config.Validate", err, "invalid configuration")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return common.E(common.ErrConfig, "config.Validate", "invalid configuration: %s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color like #68AB25", field)
	case "endswith":
		return fmt.Sprintf("%s must end with %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
