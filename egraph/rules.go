package egraph

import "github.com/stsforge/stsmc/ir"

// ArrayOps names the three uninterpreted function symbols synthesized by
// package abstract for one (index, value) array instantiation — the
// symbols the three rewrite rules below pattern-match against.
type ArrayOps struct {
	Read, Write, ConstArr ir.Symbol
}

func readOf(g *EGraph, ops ArrayOps, id ClassID) (arr, idx ClassID, ok bool) {
	for _, n := range g.Nodes(id) {
		if !n.IsConst && n.Op == ops.Read && len(n.Children) == 2 {
			return n.Children[0], n.Children[1], true
		}
	}
	return 0, 0, false
}

func writeOf(g *EGraph, ops ArrayOps, id ClassID) (arr, idx, val ClassID, ok bool) {
	for _, n := range g.Nodes(id) {
		if !n.IsConst && n.Op == ops.Write && len(n.Children) == 3 {
			return n.Children[0], n.Children[1], n.Children[2], true
		}
	}
	return 0, 0, 0, false
}

func constArrOf(g *EGraph, ops ArrayOps, id ClassID) (fill ClassID, ok bool) {
	for _, n := range g.Nodes(id) {
		if !n.IsConst && n.Op == ops.ConstArr && len(n.Children) == 1 {
			return n.Children[0], true
		}
	}
	return 0, false
}

// findConstantArray implements Read(ConstArr(v), i) = v for any i (spec
// §4.6): every Read whose array argument is a constant array equals the
// constant's fill value, regardless of index.
func findConstantArray(g *EGraph, ops ArrayOps, ex *Extractor) ([]Candidate, error) {
	var out []Candidate
	for _, arrID := range g.Classes() {
		fill, ok := constArrOf(g, ops, arrID)
		if !ok {
			continue
		}
		for _, readID := range g.Classes() {
			arr, _, ok := readOf(g, ops, readID)
			if !ok || g.Find(arr) != g.Find(arrID) {
				continue
			}
			if g.Equal(readID, fill) {
				continue
			}
			lhs, err := ex.Extract(readID)
			if err != nil {
				return nil, err
			}
			rhs, err := ex.Extract(fill)
			if err != nil {
				return nil, err
			}
			out = append(out, Candidate{Rule: "constant-array", Term: ir.Eq(lhs, rhs)})
		}
	}
	return out, nil
}

// findReadAfterWrite implements Read(Write(a, i, v), i) = v (spec §4.6):
// reading back the index just written yields the written value.
func findReadAfterWrite(g *EGraph, ops ArrayOps, ex *Extractor) ([]Candidate, error) {
	var out []Candidate
	for _, writeID := range g.Classes() {
		_, wIdx, wVal, ok := writeOf(g, ops, writeID)
		if !ok {
			continue
		}
		for _, readID := range g.Classes() {
			arr, rIdx, ok := readOf(g, ops, readID)
			if !ok || g.Find(arr) != g.Find(writeID) {
				continue
			}
			if !g.Equal(wIdx, rIdx) {
				continue
			}
			if g.Equal(readID, wVal) {
				continue
			}
			lhs, err := ex.Extract(readID)
			if err != nil {
				return nil, err
			}
			rhs, err := ex.Extract(wVal)
			if err != nil {
				return nil, err
			}
			out = append(out, Candidate{Rule: "read-after-write", Term: ir.Eq(lhs, rhs)})
		}
	}
	return out, nil
}

// findWriteNoOverwrite implements the guarded rule
// (i != j) => Read(Write(a, i, v), j) = Read(a, j) (spec §4.6): writing
// index i never affects a read at a provably different index j. The guard
// is carried in the emitted lemma rather than discharged here — nothing in
// congruence closure can prove two index classes syntactically distinct,
// that is the solver's job once the lemma is instantiated.
func findWriteNoOverwrite(g *EGraph, ops ArrayOps, ex *Extractor) ([]Candidate, error) {
	var out []Candidate
	for _, writeID := range g.Classes() {
		a, wIdx, _, ok := writeOf(g, ops, writeID)
		if !ok {
			continue
		}
		for _, readID := range g.Classes() {
			arr, rIdx, ok := readOf(g, ops, readID)
			if !ok || g.Find(arr) != g.Find(writeID) {
				continue
			}
			if g.Equal(wIdx, rIdx) {
				continue // that's rule 2's territory, not this one's
			}
			otherRead := g.Add(appNode(ops.Read, a, rIdx))
			if g.Equal(readID, otherRead) {
				continue // already known equal, no new information
			}
			lhs, err := ex.Extract(readID)
			if err != nil {
				return nil, err
			}
			rhs, err := ex.Extract(otherRead)
			if err != nil {
				return nil, err
			}
			iTerm, err := ex.Extract(wIdx)
			if err != nil {
				return nil, err
			}
			jTerm, err := ex.Extract(rIdx)
			if err != nil {
				return nil, err
			}
			guard := ir.Not(ir.Eq(iTerm, jTerm))
			out = append(out, Candidate{Rule: "write-no-overwrite", Term: ir.Implies(guard, ir.Eq(lhs, rhs))})
		}
	}
	return out, nil
}
