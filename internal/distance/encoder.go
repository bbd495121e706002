// Package distance computes the pairwise dissimilarity of dataset rows and its
// hierarchical clustering.
//
// Every column, numerical or categorical, is one-hot encoded: each distinct value
// observed at fit time becomes an indicator feature. Distances are Euclidean over the
// concatenated indicator blocks, so the cost is O(N²·F) time and O(N²) memory for N rows
// and F features. Datasets beyond tens of thousands of rows need a different algorithm.
package distance

import (
	"sort"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/KaramelBytes/dana-cli/internal/dataset"
)

// Encoder maps rows to one-hot feature vectors.
type Encoder struct {
	columns []string
	// categories[j] maps a value of column j to its feature offset within the block
	categories []map[string]int
	offsets    []int
	features   int
}

// Fit learns the sorted distinct values of every column of ds.
func Fit(ds *dataset.Dataset) (*Encoder, error) {
	if ds.Empty() {
		return nil, common.E(common.ErrEmptyInput, "distance.Fit", "empty dataset; unable to encode rows")
	}
	enc := &Encoder{columns: ds.Columns()}
	for j := range enc.columns {
		seen := map[string]struct{}{}
		for _, v := range ds.ColumnAt(j) {
			seen[v] = struct{}{}
		}
		vals := make([]string, 0, len(seen))
		for v := range seen {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		cats := make(map[string]int, len(vals))
		for i, v := range vals {
			cats[v] = i
		}
		enc.categories = append(enc.categories, cats)
		enc.offsets = append(enc.offsets, enc.features)
		enc.features += len(vals)
	}
	return enc, nil
}

// Features is the length of an encoded row.
func (e *Encoder) Features() int { return e.features }

// Transform encodes every row of ds. Values not seen by Fit encode as an all-zero block.
func (e *Encoder) Transform(ds *dataset.Dataset) ([][]float64, error) {
	const op = "distance.Transform"
	if ds.Empty() {
		return nil, common.E(common.ErrEmptyInput, op, "empty dataset; unable to encode rows")
	}
	idx := make([]int, len(e.columns))
	for k, name := range e.columns {
		j, ok := ds.Index(name)
		if !ok {
			return nil, common.E(common.ErrSchema, op, "column %q seen at fit time is missing", name)
		}
		idx[k] = j
	}
	out := make([][]float64, ds.NumRows())
	for i := range out {
		vec := make([]float64, e.features)
		for k, j := range idx {
			if pos, ok := e.categories[k][ds.Cell(i, j)]; ok {
				vec[e.offsets[k]+pos] = 1
			}
		}
		out[i] = vec
	}
	return out, nil
}
