package egraph

import "github.com/stsforge/stsmc/ir"

// Candidate is one ground lemma the conflict scheduler discovered: an
// equation the array theory's rewrite rules justify that the e-graph does
// not yet know, expressed as a term ready for the refine package's
// instantiator (spec §4.7). Term is either "(= lhs rhs)" (rules 1 and 2)
// or "(=> guard (= lhs rhs))" (rule 3's guarded no-overwrite case).
type Candidate struct {
	Rule string
	Term ir.Term
}

// ConflictScheduler finds e-graph conflicts — rewrites that would merge
// two currently-distinct classes — without applying them, across every
// array instantiation present in the model (spec §4.7: "records
// instantiation candidates instead of applying merges").
type ConflictScheduler struct {
	g   *EGraph
	ops []ArrayOps
	ex  *Extractor
}

// NewConflictScheduler builds a scheduler over g, scanning for conflicts
// against every array instantiation in ops, extracting ground terms with
// cost.
func NewConflictScheduler(g *EGraph, ops []ArrayOps, cost CostFunc) *ConflictScheduler {
	return &ConflictScheduler{g: g, ops: ops, ex: NewExtractor(g, cost)}
}

// Candidates runs all three rewrite rules against every array
// instantiation and returns every candidate found.
func (s *ConflictScheduler) Candidates() ([]Candidate, error) {
	var out []Candidate
	for _, ops := range s.ops {
		for _, find := range []func(*EGraph, ArrayOps, *Extractor) ([]Candidate, error){
			findConstantArray,
			findReadAfterWrite,
			findWriteNoOverwrite,
		} {
			cs, err := find(s.g, ops, s.ex)
			if err != nil {
				return nil, err
			}
			out = append(out, cs...)
		}
	}
	return out, nil
}

// ConstantArrayDiagnostics reports only the constant-array candidates,
// across every array instantiation: a cheap, unconditional-rule-only view
// for diagnostics, without paying for the read-after-write and
// no-overwrite scans. Nothing in this module calls it.
func (s *ConflictScheduler) ConstantArrayDiagnostics() ([]Candidate, error) {
	var out []Candidate
	for _, ops := range s.ops {
		cs, err := findConstantArray(s.g, ops, s.ex)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}
