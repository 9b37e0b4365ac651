package chordal

// MCS runs Maximum Cardinality Search over g: each vertex starts with
// weight 0; repeatedly the unvisited vertex of greatest weight is visited
// (ties broken by lowest index for determinism) and every unvisited
// neighbor's weight is incremented. Returns the visit sequence.
func MCS(g *Graph) []int {
	n := len(g.vars)
	weight := make(map[int]int, n)
	visited := make(map[int]bool, n)
	order := make([]int, 0, n)

	for len(order) < n {
		best := -1
		bestWeight := -1
		for _, v := range g.vars {
			if visited[v] {
				continue
			}
			w := weight[v]
			if w > bestWeight || (w == bestWeight && (best == -1 || v < best)) {
				best = v
				bestWeight = w
			}
		}
		visited[best] = true
		order = append(order, best)
		for nbr := range g.adj[best] {
			if !visited[nbr] {
				weight[nbr]++
			}
		}
	}
	return order
}

// PEO returns the perfect elimination ordering candidate: the reverse of
// the MCS visit sequence.
func PEO(g *Graph) []int {
	visit := MCS(g)
	peo := make([]int, len(visit))
	for i, v := range visit {
		peo[len(visit)-1-i] = v
	}
	return peo
}
