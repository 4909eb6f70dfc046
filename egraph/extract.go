package egraph

import (
	"fmt"

	"github.com/stsforge/stsmc/ir"
)

// CostFunc scores one ENode given the already-computed costs of its
// children's cheapest extractions. Lower is cheaper.
type CostFunc func(n ENode, childCost []int) int

// literalCost is the cost tier for raw integer/boolean literal leaves (spec
// §4.7.a, §4.8): an instantiated lemma should talk about concrete program
// state or a derived expression over it, never a bare literal standing in
// for a variable, so literals are penalized above every compound term a
// realistic instantiation round would ever build.
const literalCost = 1 << 20

// DefaultCost favors frame-indexed leaf symbols over everything else (spec
// §4.8): an instantiated lemma should talk about concrete program state
// ("x@3") rather than an arbitrary internal alias of it, so bare
// frame-indexed occurrences are the cheapest possible leaf, other symbol
// leaves and compound terms rank above that, and raw literals are
// penalized highest of all.
func DefaultCost(delim byte) CostFunc {
	return func(n ENode, childCost []int) int {
		if n.IsConst {
			return literalCost
		}
		if len(n.Children) == 0 {
			if _, _, ok := n.Op.Frame(delim); ok {
				return 1
			}
			return 4
		}
		total := 1
		for _, c := range childCost {
			total += c
		}
		return total
	}
}

type extraction struct {
	node ENode
	cost int
}

// Extractor picks the cheapest ENode representative for each class,
// memoizing the result of a full fixpoint pass across every live class.
type Extractor struct {
	g        *EGraph
	costFn   CostFunc
	best     map[ClassID]extraction
	computed bool
}

// NewExtractor builds an Extractor over g using costFn.
func NewExtractor(g *EGraph, costFn CostFunc) *Extractor {
	return &Extractor{g: g, costFn: costFn}
}

func (e *Extractor) run() {
	e.best = map[ClassID]extraction{}
	changed := true
	for changed {
		changed = false
		for _, id := range e.g.Classes() {
			for _, n := range e.g.Nodes(id) {
				childCosts := make([]int, len(n.Children))
				ok := true
				for i, c := range n.Children {
					b, found := e.best[e.g.Find(c)]
					if !found {
						ok = false
						break
					}
					childCosts[i] = b.cost
				}
				if !ok {
					continue
				}
				cost := e.costFn(n, childCosts)
				cur, exists := e.best[id]
				if !exists || cost < cur.cost {
					e.best[id] = extraction{node: n, cost: cost}
					changed = true
				}
			}
		}
	}
	e.computed = true
}

func (e *Extractor) toTerm(id ClassID) (ir.Term, error) {
	root := e.g.Find(id)
	best, ok := e.best[root]
	if !ok {
		return nil, fmt.Errorf("egraph: class %d has no extractable representative", root)
	}
	if best.node.IsConst {
		return ir.Const{Value: best.node.Value}, nil
	}
	args := make([]ir.Term, len(best.node.Children))
	for i, c := range best.node.Children {
		t, err := e.toTerm(c)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	return ir.App{Fn: best.node.Op, Args: args}, nil
}

// Extract returns the cheapest ground term equal to id. Rule scans may call
// EGraph.Add between Extract calls to materialize a candidate's term (never
// Merge, which would invalidate in-flight candidates); Extract always
// recomputes the whole-graph fixpoint, so a newly added class is picked up
// on the next call rather than erroring.
func (e *Extractor) Extract(id ClassID) (ir.Term, error) {
	e.run()
	return e.toTerm(id)
}
