// Package charts renders the descriptive PNG charts of a patient dataset.
package charts

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/dana-cli/internal/dataset"
	"github.com/KaramelBytes/dana-cli/internal/records"
)

// Output file names.
const (
	AgeFile      = "age_data.png"
	RecoveryFile = "recovery_data.png"
	HeatmapFile  = "distance_matrix.png"
)

// DefaultAgeGroups is the display order of the age buckets.
var DefaultAgeGroups = []string{"<= 25 years", "26 - 45 years", "46 - 65 years", "66 - 85 years", "> 85 years"}

// Options selects the columns and category orders the charts use.
type Options struct {
	Fields    records.Fields
	AgeGroups []string
	Sexes     []string
	// Outcomes are stacked bottom to top.
	Outcomes []string
}

// DefaultOptions matches the reference patient dataset.
func DefaultOptions() Options {
	return Options{
		Fields:    records.DefaultFields(),
		AgeGroups: DefaultAgeGroups,
		Sexes:     []string{"Male", "Female"},
		Outcomes:  []string{"Recovered", "Dead from COVID-19"},
	}
}

var (
	ageColors     = []string{"#138B29", "#EE9C0D", "#C51307", "#23429B", "#B64220"}
	sexColors     = []string{"#0D58B7", "#DC661A"}
	outcomeColors = []string{"#31B417", "#989B98"}
)

const (
	panelWidth  = 8 * vg.Inch
	panelHeight = 7 * vg.Inch
)

// crossTab counts rows by (row key, column key).
type crossTab map[string]map[string]int

func tabulate(rows, cols []string) crossTab {
	t := crossTab{}
	for i := range rows {
		if t[rows[i]] == nil {
			t[rows[i]] = map[string]int{}
		}
		t[rows[i]][cols[i]]++
	}
	return t
}

func (t crossTab) total(row string) int {
	n := 0
	for _, c := range t[row] {
		n += c
	}
	return n
}

// ordered returns preferred followed by any other observed value in sorted order.
func ordered(preferred, observed []string) []string {
	seen := make(map[string]bool, len(preferred))
	out := append([]string(nil), preferred...)
	for _, v := range preferred {
		seen[v] = true
	}
	var extra []string
	for _, v := range observed {
		if !seen[v] {
			seen[v] = true
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func columns(ds *dataset.Dataset, names ...string) ([][]string, error) {
	out := make([][]string, len(names))
	for i, n := range names {
		c, err := ds.Column(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// hexColor parses "#RRGGBB"; anything else falls back to gray.
func hexColor(s string) color.Color {
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		}
	}
	return color.Gray{Y: 0x80}
}

func pick(palette []string, i int) color.Color {
	return hexColor(palette[i%len(palette)])
}

// saveRow draws plots side by side under a shared canvas and writes a PNG.
func saveRow(path string, plots ...*plot.Plot) (err error) {
	img := vgimg.New(panelWidth*vg.Length(len(plots)), panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: len(plots),
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
