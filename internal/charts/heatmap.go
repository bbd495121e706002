package charts

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/distance"
)

// maxTickLabels bounds how many row indices are printed along each heatmap axis.
const maxTickLabels = 40

// matrixGrid adapts a distance matrix to plotter.GridXYZ.
type matrixGrid struct {
	m *distance.Matrix
}

func (g matrixGrid) Dims() (c, r int)   { n := g.m.Size(); return n, n }
func (g matrixGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws m with rows and columns in the leaf order of l, so clusters appear as
// blocks along the diagonal.
func Heatmap(m *distance.Matrix, l distance.Linkage, path string) error {
	n := m.Size()
	if n == 0 {
		return common.E(common.ErrEmptyInput, "charts.Heatmap", "empty distance matrix")
	}
	if len(l) != n-1 {
		return common.E(common.ErrFormat, "charts.Heatmap", "linkage has %d merges for %d rows", len(l), n)
	}
	order := l.Leaves()
	sorted, err := m.Reorder(order)
	if err != nil {
		return err
	}

	hm := plotter.NewHeatMap(matrixGrid{m: sorted}, palette.Heat(12, 1))
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	p := plot.New()
	p.Title.Text = "Distance matrix (average linkage order)"
	p.Add(hm)
	if n <= maxTickLabels {
		ticks := make([]plot.Tick, n)
		for i, row := range order {
			ticks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(row)}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
