package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
	"github.com/KaramelBytes/dana-cli/internal/distance"
)

func patients(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns(
		[]string{"Age.at.diagnosis", "Sex", "Last.known.patient.status"},
		[][]string{
			{"26 - 45 years", "66 - 85 years", "> 85 years", "26 - 45 years", "46 - 65 years", "<= 25 years", "unknown"},
			{"Male", "Female", "Female", "Male", "Male", "Female", "Male"},
			{"Recovered", "Dead from COVID-19", "Recovered", "Recovered", "Dead from COVID-19", "Recovered", "Recovered"},
		})
	require.NoError(t, err)
	return ds
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, "\x89PNG", string(b[:4]))
}

func TestAgeAndRecoveryCharts(t *testing.T) {
	dir := t.TempDir()
	ds := patients(t)

	age := filepath.Join(dir, AgeFile)
	require.NoError(t, Age(ds, age, DefaultOptions()))
	assertPNG(t, age)

	rec := filepath.Join(dir, RecoveryFile)
	require.NoError(t, Recovery(ds, rec, DefaultOptions()))
	assertPNG(t, rec)
}

func TestChartsMissingColumn(t *testing.T) {
	ds, err := dataset.FromColumns([]string{"Sex"}, [][]string{{"Male"}})
	require.NoError(t, err)
	err = Age(ds, filepath.Join(t.TempDir(), AgeFile), DefaultOptions())
	assert.ErrorIs(t, err, common.ErrSchema)
	err = Recovery(ds, filepath.Join(t.TempDir(), RecoveryFile), DefaultOptions())
	assert.ErrorIs(t, err, common.ErrSchema)
}

func TestOrderedKeepsPreferredThenSorted(t *testing.T) {
	got := ordered([]string{"b", "a"}, []string{"z", "a", "c", "z"})
	assert.Equal(t, []string{"b", "a", "c", "z"}, got)
}

func TestShares(t *testing.T) {
	tab := tabulate(
		[]string{"M", "M", "M", "F", "X"},
		[]string{"Recovered", "Recovered", "Dead", "Dead", "Other"},
	)
	got := shares([]string{"M", "F", "X"}, []string{"Recovered", "Dead"}, tab)
	assert.InDeltaSlice(t, []float64{200.0 / 3, 0, 0}, got[0], 1e-9)
	assert.InDeltaSlice(t, []float64{100.0 / 3, 100, 0}, got[1], 1e-9)
}

func TestHeatmap(t *testing.T) {
	m, err := distance.FromDense([][]float64{
		{0, 1, 5, 6},
		{1, 0, 4, 5},
		{5, 4, 0, 1},
		{6, 5, 1, 0},
	})
	require.NoError(t, err)
	l, err := distance.AverageLinkage(m)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), HeatmapFile)
	require.NoError(t, Heatmap(m, l, path))
	assertPNG(t, path)

	err = Heatmap(m, l[:1], path)
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestHexColor(t *testing.T) {
	c := hexColor("#68AB25")
	r, g, b, a := c.RGBA()
	assert.Equal(t, uint32(0x68), r>>8)
	assert.Equal(t, uint32(0xAB), g>>8)
	assert.Equal(t, uint32(0x25), b>>8)
	assert.Equal(t, uint32(0xff), a>>8)
}
