package egraph

import (
	"fmt"

	"github.com/stsforge/stsmc/ir"
)

// AddTerm inserts t (assumed already array-abstracted, let-flattened, and
// ground — no Let/Quant/Match survive to this stage) into the e-graph,
// returning the class of its root. Equal sub-terms are automatically
// shared via hashcons.
func AddTerm(g *EGraph, t ir.Term) (ClassID, error) {
	switch n := t.(type) {
	case ir.Const:
		return g.AddConst(n.Value), nil
	case ir.App:
		children := make([]ClassID, len(n.Args))
		for i, a := range n.Args {
			c, err := AddTerm(g, a)
			if err != nil {
				return 0, err
			}
			children[i] = c
		}
		return g.Add(appNode(n.Fn, children...)), nil
	default:
		return 0, fmt.Errorf("egraph: cannot add non-ground term %T (%s) to the e-graph", t, t)
	}
}
