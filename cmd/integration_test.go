package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dana-cli/internal/common"
)

const patientsCSV = `Age.at.diagnosis;Sex;Last.known.patient.status
26 - 45 years;Male;Recovered
66 - 85 years;Female;Dead from COVID-19
> 85 years;Female;Recovered
26 - 45 years;Male;Recovered
`

// resetFlags clears values and Changed state that persist across invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) (home, csv string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	csv = filepath.Join(home, "patients.csv")
	require.NoError(t, os.WriteFile(csv, []byte(patientsCSV), 0o644))
	return home, csv
}

func TestCLI_Analyze(t *testing.T) {
	home, csv := setup(t)
	outDir := filepath.Join(home, "out")

	out, err := runCmd(t, "analyze", "-d", csv, "-s", ";", "-o", outDir, "--clusters", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to DANA v"+version)
	assert.Contains(t, out, "Parameters:")
	assert.Contains(t, out, "There are 4 rows and 3 columns.")
	assert.Contains(t, out, "DANA analysis finished.")
	for _, name := range []string{"summary.xlsx", "age_data.png", "recovery_data.png", "distance_matrix.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestCLI_AnalyzePositionalNoCharts(t *testing.T) {
	home, csv := setup(t)
	outDir := filepath.Join(home, "plain")

	out, err := runCmd(t, "analyze", csv, "--separator", "semicolon", "--out", outDir, "--no-charts")
	require.NoError(t, err)
	assert.NotContains(t, out, "Parameters:")
	assert.FileExists(t, filepath.Join(outDir, "summary.xlsx"))
	assert.NoFileExists(t, filepath.Join(outDir, "age_data.png"))
}

func TestCLI_AnalyzePlain(t *testing.T) {
	home, csv := setup(t)

	out, err := runCmd(t, "analyze", csv, "-s", ";", "-o", filepath.Join(home, "txt"), "--no-charts", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Sex:\n\t- Variable type: categorical\n")
	assert.Contains(t, out, "\t\t- Female: 50.00%\n")
}

func TestCLI_AnalyzeUsageErrors(t *testing.T) {
	_, csv := setup(t)

	_, err := runCmd(t, "analyze", "-d", csv, "--pid", "1000000")
	require.Error(t, err)
	assert.Equal(t, common.ExitUsage, common.ExitCode(err))

	_, err = runCmd(t, "analyze")
	assert.ErrorIs(t, err, common.ErrConfig)

	_, err = runCmd(t, "analyze", "--no-such-flag")
	assert.Equal(t, common.ExitUsage, common.ExitCode(err))

	_, err = runCmd(t, "analyze", csv, csv)
	assert.ErrorIs(t, err, common.ErrConfig)
	assert.Equal(t, common.ExitUsage, common.ExitCode(err))

	_, err = runCmd(t, "config", "set", "separator")
	assert.Equal(t, common.ExitUsage, common.ExitCode(err))

	_, err = runCmd(t, "analyze", "-d", filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, common.ExitFailure, common.ExitCode(err))
}

func TestCLI_Introduce(t *testing.T) {
	_, csv := setup(t)

	out, err := runCmd(t, "introduce", "-d", csv, "-s", ";", "--pid", "1000001")
	require.NoError(t, err)
	assert.Contains(t, out, "PID: 1000001\n\t- age:\t66 - 85 years\n\t- sex:\tFemale\n\t- outcome:\tDead from COVID-19\n")

	out, err = runCmd(t, "introduce", "-d", csv, "-s", ";", "--pid", "1000003", "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"id": 1000003`)

	_, err = runCmd(t, "introduce", "-d", csv, "-s", ";", "--pid", "999999")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = runCmd(t, "introduce", "-d", csv, "-s", ";")
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, _ := setup(t)
	path := filepath.Join(home, "dana.yaml")

	out, err := runCmd(t, "--config", path, "config", "set", "id_offset", "2000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved config")

	out, err = runCmd(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "id_offset: 2000000")
	assert.Contains(t, out, `separator: ","`)

	_, err = runCmd(t, "--config", path, "config", "set", "id_offset", "5")
	assert.ErrorIs(t, err, common.ErrConfig)

	_, err = runCmd(t, "--config", path, "config", "set", "nope", "1")
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestCLI_Version(t *testing.T) {
	setup(t)
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dana "+version+"\n", out)
}

func TestPrintErrorDebugChain(t *testing.T) {
	err := common.Wrap(common.ErrNotFound, "dataset.Load", os.ErrNotExist, "unable to locate x.csv")

	var buf bytes.Buffer
	debug = false
	printError(&buf, err)
	assert.Contains(t, buf.String(), "✗ Error: dataset.Load: unable to locate x.csv")
	assert.NotContains(t, buf.String(), "kind:")

	buf.Reset()
	debug = true
	defer func() { debug = false }()
	printError(&buf, err)
	assert.Contains(t, buf.String(), "kind: NotFoundError")
	assert.Contains(t, buf.String(), `op="dataset.Load"`)
}
