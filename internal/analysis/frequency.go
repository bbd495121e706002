package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

// FrequencyEntry is one distinct value of a column.
type FrequencyEntry struct {
	Value   string
	Count   int
	Percent float64
	// Label is Percent rendered with two decimals and a trailing "%".
	Label string
}

// NumericSummary describes a numerical column.
type NumericSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// FrequencyTable is the value distribution of one column.
//
// Entries are ordered by count descending, then by value ascending (numeric order for
// numerical columns, byte order otherwise). MostFrequent is the first entry;
// LeastFrequent is the smallest value among those with the lowest count.
type FrequencyTable struct {
	Column        string
	Kind          ColumnKind
	Total         int
	Entries       []FrequencyEntry
	MostFrequent  string
	LeastFrequent string
	Numeric       *NumericSummary
}

// Distinct is the number of distinct values.
func (t *FrequencyTable) Distinct() int { return len(t.Entries) }

// Count returns the occurrences of value, or 0.
func (t *FrequencyTable) Count(value string) int {
	for _, e := range t.Entries {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// Analyze computes a FrequencyTable for every column of ds.
func Analyze(ds *dataset.Dataset, kinds KindMap) (map[string]*FrequencyTable, error) {
	ordered, err := AnalyzeOrdered(ds, kinds)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*FrequencyTable, len(ordered))
	for _, t := range ordered {
		out[t.Column] = t
	}
	return out, nil
}

// AnalyzeOrdered is Analyze with the tables returned in dataset column order.
func AnalyzeOrdered(ds *dataset.Dataset, kinds KindMap) ([]*FrequencyTable, error) {
	const op = "analysis.Analyze"
	if ds.Empty() {
		return nil, common.E(common.ErrEmptyInput, op, "empty dataset; unable to compute statistics")
	}
	out := make([]*FrequencyTable, 0, ds.NumCols())
	for j, name := range ds.Columns() {
		kind, ok := kinds[name]
		if !ok {
			return nil, common.E(common.ErrSchema, op, "column %q has no kind", name)
		}
		t, err := frequencies(name, kind, ds.ColumnAt(j))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, t)
	}
	return out, nil
}

type valueCount struct {
	key   string
	num   float64
	count int
}

func frequencies(name string, kind ColumnKind, vals []string) (*FrequencyTable, error) {
	counts := make(map[string]*valueCount)
	var nums []float64
	for _, v := range vals {
		key := v
		var x float64
		if kind == Numerical {
			f, ok := parseNumber(v)
			if !ok {
				return nil, common.E(common.ErrSchema, "", "column %q is numerical but %q is not a number", name, v)
			}
			x = f
			key = strconv.FormatFloat(f, 'g', -1, 64)
			nums = append(nums, f)
		}
		vc := counts[key]
		if vc == nil {
			vc = &valueCount{key: key, num: x}
			counts[key] = vc
		}
		vc.count++
	}

	ordered := make([]*valueCount, 0, len(counts))
	for _, vc := range counts {
		ordered = append(ordered, vc)
	}
	less := func(a, b *valueCount) bool {
		if kind == Numerical && a.num != b.num {
			return a.num < b.num
		}
		return a.key < b.key
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count == ordered[j].count {
			return less(ordered[i], ordered[j])
		}
		return ordered[i].count > ordered[j].count
	})

	total := len(vals)
	t := &FrequencyTable{Column: name, Kind: kind, Total: total, Entries: make([]FrequencyEntry, len(ordered))}
	for i, vc := range ordered {
		pct := float64(vc.count) / float64(total) * 100
		t.Entries[i] = FrequencyEntry{Value: vc.key, Count: vc.count, Percent: pct, Label: fmt.Sprintf("%.2f%%", pct)}
	}
	t.MostFrequent = ordered[0].key
	// the tail holds the lowest count, smallest value first within it
	minCount := ordered[len(ordered)-1].count
	for _, vc := range ordered {
		if vc.count == minCount {
			t.LeastFrequent = vc.key
			break
		}
	}
	if kind == Numerical {
		t.Numeric = describe(nums)
	}
	return t, nil
}

func describe(xs []float64) *NumericSummary {
	s := stats.Sample{Xs: append([]float64(nil), xs...)}
	s.Sort()
	lo, hi := s.Bounds()
	sum := &NumericSummary{Mean: s.Mean(), Min: lo, Max: hi, Median: s.Quantile(0.5)}
	if len(xs) > 1 {
		sum.StdDev = s.StdDev()
	}
	if math.IsNaN(sum.StdDev) {
		sum.StdDev = 0
	}
	return sum
}
