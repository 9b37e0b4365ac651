package junctiontree

import (
	"sort"

	"github.com/katalvlaran/reconstruct/relation"
)

// edge is a candidate spanning-tree edge between two clique indices, with
// weight equal to the size of their variable intersection.
type edge struct {
	i, j      int
	weight    int
	separator *relation.Relation
}

// Tree is a junction tree built over one connected component of a
// decomposable model's relations ("cliques"). It carries the
// spanning-tree edges as parent links plus children lists, ready for the
// collect/distribute traversals of belief propagation.
type Tree struct {
	cliques []*relation.Relation // this component's relations, in local order
	local   []int                // local[i] = index into the model's relations for this component's i-th clique

	parent      []int // parent[i] is the local index of i's parent, -1 for the root
	children    [][]int
	sepToParent []*relation.Relation // sepToParent[i] separates i from parent[i]

	preOrder  []int // root-first (parents before children), local indices
	postOrder []int // leaves-first (children before parents), local indices
}

// Cliques returns this component's cliques, in local tree order.
func (t *Tree) Cliques() []*relation.Relation { return t.cliques }

// Parent returns the local parent index of i, or -1 if i is the root.
func (t *Tree) Parent(i int) int { return t.parent[i] }

// Children returns the local child indices of i.
func (t *Tree) Children(i int) []int { return t.children[i] }

// Separator returns the separator relation between i and its parent, or
// nil if i is the root. Relations that share no variables are never
// joined by an edge; they end up in separate trees of the Forest.
func (t *Tree) Separator(i int) *relation.Relation { return t.sepToParent[i] }

// PreOrder returns local clique indices ordered parents-before-children,
// used to drive the distribute phase of belief propagation.
func (t *Tree) PreOrder() []int { return t.preOrder }

// PostOrder returns local clique indices ordered children-before-parents,
// used to drive the collect phase of belief propagation.
func (t *Tree) PostOrder() []int { return t.postOrder }

// Forest is the Running-Intersection-Property-verified decomposition of a
// model's relations into one junction tree per connected component of
// their variable-overlap graph. Most models used in practice produce a
// single-component Forest; independence structures (e.g. "A:B:C" with no
// shared variables) legitimately produce one singleton tree per relation.
type Forest struct {
	Trees []*Tree
}

// Build constructs the junction forest of a decomposable model: within
// each connected component of relations joined by non-empty
// intersections, a maximum-weight spanning tree (Kruskal via union-find,
// heaviest edges first), rooted at its lowest-index clique, verified
// against the Running Intersection Property.
//
// Callers should have already confirmed the model is loop-free (see
// package chordal); Build does not re-run chordality checks, only RIP.
func Build(m *relation.Model) (*Forest, error) {
	cliques := m.Relations()
	n := len(cliques)
	if n == 0 {
		return nil, ErrEmptyModel
	}

	edges := make([]edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sep, err := cliques[i].Intersection(cliques[j])
			if err != nil {
				return nil, err
			}
			if sep == nil {
				continue
			}
			edges = append(edges, edge{i: i, j: j, weight: sep.VariableCount(), separator: sep})
		}
	}

	sort.Slice(edges, func(a, b int) bool {
		if edges[a].weight != edges[b].weight {
			return edges[a].weight > edges[b].weight // heaviest first
		}
		if edges[a].i != edges[b].i {
			return edges[a].i < edges[b].i
		}
		return edges[a].j < edges[b].j
	})

	uf := newUnionFind(n)
	adj := make([][]edge, n)
	for _, e := range edges {
		if uf.union(e.i, e.j) {
			adj[e.i] = append(adj[e.i], e)
			adj[e.j] = append(adj[e.j], edge{i: e.j, j: e.i, weight: e.weight, separator: e.separator})
		}
	}

	components := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	roots := make([]int, 0, len(components))
	for root := range components {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	forest := &Forest{Trees: make([]*Tree, 0, len(roots))}
	for _, root := range roots {
		members := components[root]
		sort.Ints(members)
		tree := buildComponentTree(cliques, adj, members)
		if err := tree.verifyRIP(); err != nil {
			return nil, err
		}
		forest.Trees = append(forest.Trees, tree)
	}
	return forest, nil
}

// buildComponentTree roots the BFS at members[0] (the component's
// lowest-index clique), translating global clique indices to the local
// [0,len(members)) numbering Tree exposes.
func buildComponentTree(cliques []*relation.Relation, adj [][]edge, members []int) *Tree {
	globalToLocal := make(map[int]int, len(members))
	localCliques := make([]*relation.Relation, len(members))
	for li, gi := range members {
		globalToLocal[gi] = li
		localCliques[li] = cliques[gi]
	}

	t := &Tree{
		cliques:     localCliques,
		local:       members,
		parent:      make([]int, len(members)),
		children:    make([][]int, len(members)),
		sepToParent: make([]*relation.Relation, len(members)),
	}
	for i := range t.parent {
		t.parent[i] = -1
	}

	visited := make(map[int]bool, len(members))
	rootGlobal := members[0]
	visited[rootGlobal] = true
	queue := []int{rootGlobal}
	for len(queue) > 0 {
		curGlobal := queue[0]
		queue = queue[1:]
		curLocal := globalToLocal[curGlobal]
		t.preOrder = append(t.preOrder, curLocal)
		for _, e := range adj[curGlobal] {
			if visited[e.j] {
				continue
			}
			visited[e.j] = true
			childLocal := globalToLocal[e.j]
			t.parent[childLocal] = curLocal
			t.sepToParent[childLocal] = e.separator
			t.children[curLocal] = append(t.children[curLocal], childLocal)
			queue = append(queue, e.j)
		}
	}

	t.postOrder = make([]int, len(t.preOrder))
	for i, v := range t.preOrder {
		t.postOrder[len(t.preOrder)-1-i] = v
	}
	return t
}

// verifyRIP checks, for every variable appearing in any clique of this
// component, that the set of cliques containing it induces a connected
// subtree.
func (t *Tree) verifyRIP() error {
	n := len(t.cliques)
	varCliques := make(map[int][]int)
	for i, c := range t.cliques {
		for _, v := range c.Vars() {
			varCliques[v] = append(varCliques[v], i)
		}
	}

	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for _, c := range t.children[i] {
			adj[i] = append(adj[i], c)
			adj[c] = append(adj[c], i)
		}
	}

	for v, members := range varCliques {
		if len(members) <= 1 {
			continue
		}
		inSet := make(map[int]bool, len(members))
		for _, m := range members {
			inSet[m] = true
		}
		visited := make(map[int]bool, len(members))
		queue := []int{members[0]}
		visited[members[0]] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nbr := range adj[cur] {
				if !inSet[nbr] || visited[nbr] {
					continue
				}
				visited[nbr] = true
				queue = append(queue, nbr)
			}
		}
		if len(visited) != len(members) {
			return &JunctionTreeError{Variable: v, err: ErrRIPViolation}
		}
	}
	return nil
}
