// Package analysis profiles the columns of a dataset: kind, value frequencies and
// numeric description.
package analysis

import (
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

// ColumnKind labels a column as numerical or categorical.
type ColumnKind int

const (
	Categorical ColumnKind = iota
	Numerical
)

func (k ColumnKind) String() string {
	if k == Numerical {
		return "numerical"
	}
	return "categorical"
}

// KindMap maps column name to its kind.
type KindMap map[string]ColumnKind

// Classify labels every column of ds. A column is Numerical iff every cell parses as a number.
func Classify(ds *dataset.Dataset) (KindMap, error) {
	if ds.Empty() {
		return nil, common.E(common.ErrEmptyInput, "analysis.Classify", "empty dataset; unable to classify columns")
	}
	kinds := make(KindMap, ds.NumCols())
	for j, name := range ds.Columns() {
		kinds[name] = classifyColumn(ds.ColumnAt(j))
	}
	return kinds, nil
}

func classifyColumn(vals []string) ColumnKind {
	for _, v := range vals {
		if _, ok := parseNumber(v); !ok {
			return Categorical
		}
	}
	return Numerical
}

// parseNumber accepts finite values strconv.ParseFloat accepts, after trimming.
// "NaN" and "Inf" are missing-value markers, not numbers.
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
