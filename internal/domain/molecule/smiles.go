package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// DeterministicSMILES writes a deterministic SMILES string for g.  It is not
// canonical: the output follows the atom numbering of g, so the same molecule
// numbered differently yields a different string.
//
// The walk starts at the lowest-numbered unvisited atom of every connected
// component and visits neighbours in ascending atom order, so identically
// numbered graphs always produce equal strings.  Hydrogens are explicit graph atoms and are
// written as [H].  Kekulé bonds are kept as written: "=" double, "#" triple,
// ":" aromatic.  Disconnected components are joined with ".".
func DeterministicSMILES(g *MoleculeGraph) string {
	n := g.NumAtoms()
	if n == 0 {
		return ""
	}
	w := newSmilesWriter(g)
	var parts []string
	for root := 0; root < n; root++ {
		if w.visited[root] {
			continue
		}
		w.plan(root, -1)
		var sb strings.Builder
		w.emit(&sb, root)
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ".")
}

type smilesNeighbor struct {
	atom int
	bond BondType
}

type ringBond struct {
	lo, hi int
	bond   BondType
}

type smilesWriter struct {
	symbols  []string
	adj      [][]smilesNeighbor
	visited  []bool
	children [][]smilesNeighbor
	opens    [][]ringBond
	closes   [][]ringBond
	seen     map[[2]int]bool
	digits   map[[2]int]int
	inUse    map[int]bool
}

func newSmilesWriter(g *MoleculeGraph) *smilesWriter {
	n := g.NumAtoms()
	w := &smilesWriter{
		symbols:  make([]string, n),
		adj:      make([][]smilesNeighbor, n),
		visited:  make([]bool, n),
		children: make([][]smilesNeighbor, n),
		opens:    make([][]ringBond, n),
		closes:   make([][]ringBond, n),
		seen:     make(map[[2]int]bool),
		digits:   make(map[[2]int]int),
		inUse:    make(map[int]bool),
	}
	for i := 0; i < n; i++ {
		t := g.AtomType(i)
		if t == AtomH {
			w.symbols[i] = "[H]"
		} else {
			w.symbols[i] = t.String()
		}
	}
	for k, e := range g.Edges {
		w.adj[e.Src] = append(w.adj[e.Src], smilesNeighbor{atom: e.Dst, bond: g.BondType(k)})
	}
	for i := range w.adj {
		sort.Slice(w.adj[i], func(a, b int) bool { return w.adj[i][a].atom < w.adj[i][b].atom })
	}
	return w
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// plan fixes the spanning tree and the ring closures.  A neighbour that is
// already visited closes a ring: the earlier atom opens the digit and u
// closes it.
func (w *smilesWriter) plan(u, parent int) {
	w.visited[u] = true
	for _, nb := range w.adj[u] {
		if nb.atom == parent {
			continue
		}
		key := pairKey(u, nb.atom)
		if w.seen[key] {
			continue
		}
		w.seen[key] = true
		if w.visited[nb.atom] {
			rb := ringBond{lo: nb.atom, hi: u, bond: nb.bond}
			w.opens[nb.atom] = append(w.opens[nb.atom], rb)
			w.closes[u] = append(w.closes[u], rb)
			continue
		}
		w.children[u] = append(w.children[u], nb)
		w.plan(nb.atom, u)
	}
}

func (w *smilesWriter) allocDigit() int {
	for d := 1; ; d++ {
		if !w.inUse[d] {
			w.inUse[d] = true
			return d
		}
	}
}

func writeDigit(sb *strings.Builder, d int) {
	if d > 9 {
		sb.WriteByte('%')
	}
	sb.WriteString(strconv.Itoa(d))
}

func bondSymbol(b BondType) string {
	switch b {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondAromatic:
		return ":"
	}
	return ""
}

func (w *smilesWriter) emit(sb *strings.Builder, u int) {
	sb.WriteString(w.symbols[u])

	var freed []int
	for _, rb := range w.closes[u] {
		key := pairKey(rb.lo, rb.hi)
		d := w.digits[key]
		sb.WriteString(bondSymbol(rb.bond))
		writeDigit(sb, d)
		freed = append(freed, d)
	}
	for _, rb := range w.opens[u] {
		d := w.allocDigit()
		w.digits[pairKey(rb.lo, rb.hi)] = d
		writeDigit(sb, d)
	}
	for _, d := range freed {
		delete(w.inUse, d)
	}

	last := len(w.children[u]) - 1
	for i, ch := range w.children[u] {
		if i < last {
			sb.WriteByte('(')
		}
		sb.WriteString(bondSymbol(ch.bond))
		w.emit(sb, ch.atom)
		if i < last {
			sb.WriteByte(')')
		}
	}
}

//Personal.AI order the ending
