package distance

import (
	"math"
	"sort"

	"github.com/KaramelBytes/dana-cli/internal/common"
)

// Merge joins two clusters. Leaves are numbered 0..N-1; merge k creates cluster N+k.
type Merge struct {
	Left     int
	Right    int
	Distance float64
	Size     int
}

// Linkage is an agglomerative merge tree, merges in non-decreasing distance order.
type Linkage []Merge

// AverageLinkage clusters m with UPGMA (average linkage).
//
// It runs the nearest-neighbor chain algorithm, O(N²) time over an O(N²) working copy,
// then relabels the merges in distance order.
func AverageLinkage(m *Matrix) (Linkage, error) {
	n := m.Size()
	if n == 0 {
		return nil, common.E(common.ErrEmptyInput, "distance.AverageLinkage", "empty distance matrix")
	}
	if n == 1 {
		return Linkage{}, nil
	}

	d := m.Dense()
	size := make([]int, n)
	active := make([]bool, n)
	for i := range size {
		size[i] = 1
		active[i] = true
	}

	type rawMerge struct {
		a, b int
		dist float64
	}
	merges := make([]rawMerge, 0, n-1)
	chain := make([]int, 0, n)

	for len(merges) < n-1 {
		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}
		var a, b int
		var best float64
		for {
			a = chain[len(chain)-1]
			b = -1
			best = math.Inf(1)
			if len(chain) > 1 {
				b = chain[len(chain)-2]
				best = d[a][b]
			}
			for k := 0; k < n; k++ {
				if k == a || !active[k] {
					continue
				}
				if d[a][k] < best {
					best = d[a][k]
					b = k
				}
			}
			if len(chain) > 1 && b == chain[len(chain)-2] {
				break
			}
			chain = append(chain, b)
		}
		chain = chain[:len(chain)-2]

		// a absorbs b
		if a > b {
			a, b = b, a
		}
		merges = append(merges, rawMerge{a: a, b: b, dist: best})
		sa, sb := float64(size[a]), float64(size[b])
		for k := 0; k < n; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			v := (sa*d[a][k] + sb*d[b][k]) / (sa + sb)
			d[a][k] = v
			d[k][a] = v
		}
		size[a] += size[b]
		active[b] = false
	}

	sort.SliceStable(merges, func(i, j int) bool { return merges[i].dist < merges[j].dist })

	// union-find over representatives to assign cluster ids
	parent := make([]int, 2*n-1)
	csize := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
		if i < n {
			csize[i] = 1
		}
	}
	find := func(x int) int {
		root := x
		for parent[root] != root {
			root = parent[root]
		}
		for parent[x] != root {
			parent[x], x = root, parent[x]
		}
		return root
	}
	out := make(Linkage, len(merges))
	for k, mg := range merges {
		ra, rb := find(mg.a), find(mg.b)
		if ra > rb {
			ra, rb = rb, ra
		}
		id := n + k
		parent[ra] = id
		parent[rb] = id
		csize[id] = csize[ra] + csize[rb]
		out[k] = Merge{Left: ra, Right: rb, Distance: mg.dist, Size: csize[id]}
	}
	return out, nil
}

// Leaves returns the leaf order of the dendrogram, left subtree first.
func (l Linkage) Leaves() []int {
	if len(l) == 0 {
		return []int{0}
	}
	n := len(l) + 1
	out := make([]int, 0, n)
	stack := []int{2*n - 2}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < n {
			out = append(out, id)
			continue
		}
		mg := l[id-n]
		stack = append(stack, mg.Right, mg.Left)
	}
	return out
}
