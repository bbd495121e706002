package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dana-cli/internal/charts"
	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/config"
	"github.com/KaramelBytes/dana-cli/internal/records"
)

const patientsCSV = `Age.at.diagnosis,Sex,Last.known.patient.status,Days
26 - 45 years,Male,Recovered,10
66 - 85 years,Female,Dead from COVID-19,12
> 85 years,Female,Recovered,3
26 - 45 years,Male,Recovered,10
46 - 65 years,Male,Dead from COVID-19,7
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newPipeline(t *testing.T, out *bytes.Buffer) *Pipeline {
	t.Helper()
	p, err := New(config.Defaults(), nil, out)
	require.NoError(t, err)
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.IDOffset = 10
	_, err := New(cfg, nil, nil)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestAnalyzeWritesOutputs(t *testing.T) {
	var out bytes.Buffer
	p := newPipeline(t, &out)
	dir := t.TempDir()

	res, err := p.Analyze(context.Background(), AnalyzeRequest{
		Dataset:   writeCSV(t, patientsCSV),
		OutputDir: dir,
		Clusters:  true,
		Markdown:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Report.Rows)
	assert.Len(t, res.Linkage, 4)

	for _, name := range []string{"summary.xlsx", MarkdownFile, charts.AgeFile, charts.RecoveryFile, charts.HeatmapFile} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, res.Files, filepath.Join(dir, name))
	}
	assert.Contains(t, out.String(), "There are 5 rows and 4 columns.")

	f, err := excelize.OpenFile(filepath.Join(dir, "summary.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, p.RunID, props.Identifier)
}

func TestAnalyzeWithoutChartsOrClusters(t *testing.T) {
	var out bytes.Buffer
	p := newPipeline(t, &out)
	dir := t.TempDir()
	csv := writeCSV(t, "Color,Size\nred,1\nblue,2\n")

	res, err := p.Analyze(context.Background(), AnalyzeRequest{Dataset: csv, OutputDir: dir, NoCharts: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "summary.xlsx")}, res.Files)
	assert.NoFileExists(t, filepath.Join(dir, charts.HeatmapFile))

	// the charts need the patient columns
	_, err = p.Analyze(context.Background(), AnalyzeRequest{Dataset: csv, OutputDir: dir})
	assert.ErrorIs(t, err, common.ErrSchema)
}

func TestAnalyzePlainAndLargeInputWarning(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Defaults()
	cfg.DistanceWarnRows = 2
	p, err := New(cfg, nil, &out)
	require.NoError(t, err)

	_, err = p.Analyze(context.Background(), AnalyzeRequest{
		Dataset:   writeCSV(t, patientsCSV),
		OutputDir: t.TempDir(),
		Clusters:  true,
		NoCharts:  true,
		Plain:     true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\t- Variable type: categorical\n")
	assert.Contains(t, out.String(), "⚠ 5 rows: the distance matrix holds 25 cells")
}

func TestAnalyzeErrors(t *testing.T) {
	var out bytes.Buffer
	p := newPipeline(t, &out)

	_, err := p.Analyze(context.Background(), AnalyzeRequest{})
	assert.ErrorIs(t, err, common.ErrConfig)

	_, err = p.Analyze(context.Background(), AnalyzeRequest{Dataset: filepath.Join(t.TempDir(), "absent.csv")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = p.Analyze(context.Background(), AnalyzeRequest{Dataset: writeCSV(t, patientsCSV), Separator: ";;"})
	assert.ErrorIs(t, err, common.ErrConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Analyze(ctx, AnalyzeRequest{Dataset: writeCSV(t, patientsCSV), OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIntroduceFormats(t *testing.T) {
	csv := writeCSV(t, patientsCSV)

	var out bytes.Buffer
	p := newPipeline(t, &out)
	rec, err := p.Introduce(context.Background(), IntroduceRequest{Dataset: csv, ID: records.DefaultIDOffset + 1})
	require.NoError(t, err)
	assert.Equal(t, "Female", rec.Sex)
	assert.Equal(t, "PID: 1000001\n\t- age:\t66 - 85 years\n\t- sex:\tFemale\n\t- outcome:\tDead from COVID-19\n", out.String())

	out.Reset()
	_, err = p.Introduce(context.Background(), IntroduceRequest{Dataset: csv, ID: records.DefaultIDOffset, Format: "json"})
	require.NoError(t, err)
	var got records.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, records.Record{ID: 1000000, Age: "26 - 45 years", Sex: "Male", Status: "Recovered"}, got)

	out.Reset()
	_, err = p.Introduce(context.Background(), IntroduceRequest{Dataset: csv, ID: records.DefaultIDOffset + 4, Format: "YAML"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "id: 1000004\n")
	assert.Contains(t, out.String(), "outcome: Dead from COVID-19\n")
}

func TestIntroduceErrors(t *testing.T) {
	csv := writeCSV(t, patientsCSV)
	var out bytes.Buffer
	p := newPipeline(t, &out)

	_, err := p.Introduce(context.Background(), IntroduceRequest{Dataset: csv, ID: records.DefaultIDOffset - 1})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = p.Introduce(context.Background(), IntroduceRequest{Dataset: csv, ID: records.DefaultIDOffset, Format: "xml"})
	assert.ErrorIs(t, err, common.ErrConfig)

	_, err = p.Introduce(context.Background(), IntroduceRequest{Dataset: writeCSV(t, "A,B\n1,2\n"), ID: records.DefaultIDOffset})
	assert.ErrorIs(t, err, common.ErrSchema)
}
