package distance

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

// DefaultWarnRows is the row count above which Compute logs a cost warning.
const DefaultWarnRows = 10000

// Options controls Compute.
type Options struct {
	// Progress, if set, is called after each row of the matrix is filled.
	Progress func(done, total int)
	// WarnRows triggers a warning log above this many rows; 0 means DefaultWarnRows.
	WarnRows int
	Logger   *slog.Logger
}

// Matrix is a square, symmetric, zero-diagonal dissimilarity matrix.
type Matrix struct {
	sym *mat.SymDense
}

// Compute one-hot encodes ds and returns the Euclidean distance between every pair of rows.
func Compute(ds *dataset.Dataset, opt Options) (*Matrix, error) {
	enc, err := Fit(ds)
	if err != nil {
		return nil, err
	}
	vecs, err := enc.Transform(ds)
	if err != nil {
		return nil, err
	}
	n := len(vecs)
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	warn := opt.WarnRows
	if warn <= 0 {
		warn = DefaultWarnRows
	}
	if n > warn {
		log.Warn("distance matrix grows quadratically with rows",
			slog.Int("rows", n),
			slog.Int("features", enc.Features()),
			slog.Int64("cells", int64(n)*int64(n)))
	}
	log.Debug("computing distance matrix", slog.Int("rows", n), slog.Int("features", enc.Features()))

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, floats.Distance(vecs[i], vecs[j], 2))
		}
		if opt.Progress != nil {
			opt.Progress(i+1, n)
		}
	}
	return &Matrix{sym: sym}, nil
}

// FromDense validates a square symmetric matrix with a zero diagonal.
func FromDense(rows [][]float64) (*Matrix, error) {
	const op = "distance.FromDense"
	n := len(rows)
	if n == 0 {
		return nil, common.E(common.ErrEmptyInput, op, "empty matrix")
	}
	sym := mat.NewSymDense(n, nil)
	for i, r := range rows {
		if len(r) != n {
			return nil, common.E(common.ErrFormat, op, "row %d has %d entries, want %d", i, len(r), n)
		}
		if r[i] != 0 {
			return nil, common.E(common.ErrFormat, op, "diagonal entry %d is %g", i, r[i])
		}
		for j := i + 1; j < n; j++ {
			if r[j] < 0 || math.IsNaN(r[j]) || r[j] != rows[j][i] {
				return nil, common.E(common.ErrFormat, op, "entry (%d,%d) is negative or asymmetric", i, j)
			}
			sym.SetSym(i, j, r[j])
		}
	}
	return &Matrix{sym: sym}, nil
}

// Size is the number of rows (and columns).
func (m *Matrix) Size() int {
	if m == nil || m.sym == nil {
		return 0
	}
	return m.sym.SymmetricDim()
}

// At returns the distance between rows i and j.
func (m *Matrix) At(i, j int) float64 { return m.sym.At(i, j) }

// Condensed returns the upper triangle in row-major order, the layout clustering
// libraries call the condensed distance vector.
func (m *Matrix) Condensed() []float64 {
	n := m.Size()
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, m.sym.At(i, j))
		}
	}
	return out
}

// Dense copies the matrix into row slices.
func (m *Matrix) Dense() [][]float64 {
	n := m.Size()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.sym.At(i, j)
		}
	}
	return out
}

// Reorder returns the matrix with rows and columns permuted: entry (a,b) of the
// result is entry (order[a], order[b]) of m.
func (m *Matrix) Reorder(order []int) (*Matrix, error) {
	n := m.Size()
	if len(order) != n {
		return nil, common.E(common.ErrFormat, "distance.Reorder", "order has %d entries, want %d", len(order), n)
	}
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n || seen[o] {
			return nil, common.E(common.ErrFormat, "distance.Reorder", "order is not a permutation")
		}
		seen[o] = true
	}
	sym := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			sym.SetSym(a, b, m.sym.At(order[a], order[b]))
		}
	}
	return &Matrix{sym: sym}, nil
}
