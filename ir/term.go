package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// Term is the recursive algebraic representation of an expression in the
// command language. Every variant below implements it; the traversal
// framework in package visit recurses into Children and rebuilds a Term
// of the same variant via WithChildren.
//
// Term identity: two terms are considered equal iff their canonical
// pretty-printed forms (String) are equal. HashKey gives a cheap
// structural-hash proxy for that same notion, used as a dedup/hashcons key
// wherever recomputing String would be wasteful (spec §9 flags
// string-equality dedup as fragile under attribute reordering;
// Attributed.HashKey sorts attributes itself, see Attributed.canonAttrs).
type Term interface {
	fmt.Stringer

	// Children returns the immediate sub-terms, in order.
	Children() []Term

	// WithChildren returns a copy of this term with its children replaced.
	// len(children) must equal len(t.Children()).
	WithChildren(children []Term) Term

	// HashKey is a structural hash of this term, stable across equal terms.
	HashKey() uint64
}

// hashOf hashes the Go-syntax rendering of v rather than v itself:
// hashstructure skips unexported struct fields, and every key struct the
// HashKey methods pass in has only unexported fields.
func hashOf(v interface{}) uint64 {
	h, err := hashstructure.Hash(fmt.Sprintf("%#v", v), hashstructure.FormatV2, nil)
	if err != nil {
		// hashstructure only fails on unsupported types (channels, funcs);
		// every Term variant here is plain data, so this is unreachable.
		panic(fmt.Sprintf("ir: hash: %v", err))
	}
	return h
}

// Const is a constant literal: an integer, string, or boolean value carried
// as its Go representation; String renders it from that value.
type Const struct {
	// Value is one of int64, string, or bool.
	Value interface{}
}

func (c Const) Children() []Term                { return nil }
func (c Const) WithChildren(_ []Term) Term      { return c }
func (c Const) HashKey() uint64                 { return hashOf(struct{ k, v interface{} }{"const", c.Value}) }
func (c Const) String() string {
	switch v := c.Value.(type) {
	case string:
		return strconv_Quote(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func strconv_Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteString(`""`)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Id is a qualified identifier: a symbol, optionally annotated with the
// sort it is being used as (the "as" form, e.g. "(as nil (Array Int Int))").
type Id struct {
	Symbol Symbol
	As     *Sort // nil if unqualified
}

func (i Id) Children() []Term           { return nil }
func (i Id) WithChildren(_ []Term) Term { return i }
func (i Id) HashKey() uint64 {
	var as string
	if i.As != nil {
		as = i.As.String()
	}
	return hashOf(struct{ k, s, as string }{"id", string(i.Symbol), as})
}
func (i Id) String() string {
	if i.As == nil {
		return string(i.Symbol)
	}
	return fmt.Sprintf("(as %s %s)", i.Symbol, i.As.String())
}

// App is the application of an identifier to an ordered list of argument
// terms. A nullary application (len(Args) == 0) is printed bare, as a
// symbol, not as "(f)".
type App struct {
	Fn   Symbol
	Args []Term
}

func (a App) Children() []Term { return a.Args }
func (a App) WithChildren(children []Term) Term {
	return App{Fn: a.Fn, Args: children}
}
func (a App) HashKey() uint64 {
	ks := make([]uint64, len(a.Args))
	for i, c := range a.Args {
		ks[i] = c.HashKey()
	}
	return hashOf(struct {
		k    string
		fn   string
		args []uint64
	}{"app", string(a.Fn), ks})
}
func (a App) String() string {
	if len(a.Args) == 0 {
		return string(a.Fn)
	}
	parts := make([]string, len(a.Args))
	for i, c := range a.Args {
		parts[i] = c.String()
	}
	return fmt.Sprintf("(%s %s)", a.Fn, strings.Join(parts, " "))
}

// Binding is one name/term pair of a Let block.
type Binding struct {
	Name Symbol
	Term Term
}

// Let is a let-binding block: an ordered list of bindings, evaluated left
// to right (a later binding may reference an earlier one), plus a body.
type Let struct {
	Bindings []Binding
	Body     Term
}

func (l Let) Children() []Term {
	cs := make([]Term, 0, len(l.Bindings)+1)
	for _, b := range l.Bindings {
		cs = append(cs, b.Term)
	}
	cs = append(cs, l.Body)
	return cs
}
func (l Let) WithChildren(children []Term) Term {
	n := len(l.Bindings)
	bs := make([]Binding, n)
	for i := 0; i < n; i++ {
		bs[i] = Binding{Name: l.Bindings[i].Name, Term: children[i]}
	}
	return Let{Bindings: bs, Body: children[n]}
}
func (l Let) HashKey() uint64 {
	ks := make([]uint64, len(l.Bindings))
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		ks[i] = b.Term.HashKey()
		names[i] = string(b.Name)
	}
	return hashOf(struct {
		k     string
		names []string
		terms []uint64
		body  uint64
	}{"let", names, ks, l.Body.HashKey()})
}
func (l Let) String() string {
	parts := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		parts[i] = fmt.Sprintf("(%s %s)", b.Name, b.Term.String())
	}
	return fmt.Sprintf("(let (%s) %s)", strings.Join(parts, " "), l.Body.String())
}

// QuantifierKind distinguishes universal from existential binders.
type QuantifierKind int

const (
	Forall QuantifierKind = iota
	Exists
)

func (k QuantifierKind) String() string {
	if k == Forall {
		return "forall"
	}
	return "exists"
}

// SortedVar is one (name, sort) pair of a quantifier's binder list.
type SortedVar struct {
	Name Symbol
	Sort Sort
}

// Quant is a universally or existentially quantified term.
type Quant struct {
	Kind    QuantifierKind
	Binders []SortedVar
	Body    Term
}

func (q Quant) Children() []Term { return []Term{q.Body} }
func (q Quant) WithChildren(children []Term) Term {
	return Quant{Kind: q.Kind, Binders: q.Binders, Body: children[0]}
}
func (q Quant) HashKey() uint64 {
	names := make([]string, len(q.Binders))
	sorts := make([]string, len(q.Binders))
	for i, b := range q.Binders {
		names[i] = string(b.Name)
		sorts[i] = b.Sort.String()
	}
	return hashOf(struct {
		k       string
		kind    int
		names   []string
		sorts   []string
		body    uint64
	}{"quant", int(q.Kind), names, sorts, q.Body.HashKey()})
}
func (q Quant) String() string {
	parts := make([]string, len(q.Binders))
	for i, b := range q.Binders {
		parts[i] = fmt.Sprintf("(%s %s)", b.Name, b.Sort.String())
	}
	return fmt.Sprintf("(%s (%s) %s)", q.Kind, strings.Join(parts, " "), q.Body.String())
}

// MatchCase is one scrutinee pattern / result-term arm of a Match.
type MatchCase struct {
	Pattern Term
	Result  Term
}

// Match is a pattern match over a scrutinee term with an ordered list of
// cases.
type Match struct {
	Scrutinee Term
	Cases     []MatchCase
}

func (m Match) Children() []Term {
	cs := make([]Term, 0, 1+2*len(m.Cases))
	cs = append(cs, m.Scrutinee)
	for _, c := range m.Cases {
		cs = append(cs, c.Pattern, c.Result)
	}
	return cs
}
func (m Match) WithChildren(children []Term) Term {
	cases := make([]MatchCase, len(m.Cases))
	idx := 1
	for i := range cases {
		cases[i] = MatchCase{Pattern: children[idx], Result: children[idx+1]}
		idx += 2
	}
	return Match{Scrutinee: children[0], Cases: cases}
}
func (m Match) HashKey() uint64 {
	ks := make([]uint64, 0, 2*len(m.Cases))
	for _, c := range m.Cases {
		ks = append(ks, c.Pattern.HashKey(), c.Result.HashKey())
	}
	return hashOf(struct {
		k    string
		scr  uint64
		arms []uint64
	}{"match", m.Scrutinee.HashKey(), ks})
}
func (m Match) String() string {
	parts := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		parts[i] = fmt.Sprintf("(%s %s)", c.Pattern.String(), c.Result.String())
	}
	return fmt.Sprintf("(match %s (%s))", m.Scrutinee.String(), strings.Join(parts, " "))
}

// Attr is one keyword/value attribute annotation, e.g. ":init" or
// ":next x-next".
type Attr struct {
	Keyword string
	Value   string // empty if the attribute is bare (no value)
}

func (a Attr) String() string {
	if a.Value == "" {
		return a.Keyword
	}
	return fmt.Sprintf("%s %s", a.Keyword, a.Value)
}

// Attributed wraps a term with an ordered list of attribute annotations.
// This is how :init, :trans, :invar-property, :next, :action, and :axiom
// witnesses are attached to the term they annotate.
type Attributed struct {
	Term  Term
	Attrs []Attr
}

func (a Attributed) Children() []Term { return []Term{a.Term} }
func (a Attributed) WithChildren(children []Term) Term {
	return Attributed{Term: children[0], Attrs: a.Attrs}
}
func (a Attributed) HashKey() uint64 {
	// Canonicalize attribute order for hashing, per spec §9's note that
	// pretty-print identity is fragile under attribute ordering; the hash
	// key does not have that problem if we sort here.
	attrs := a.canonAttrs()
	strs := make([]string, len(attrs))
	for i, at := range attrs {
		strs[i] = at.String()
	}
	return hashOf(struct {
		k     string
		term  uint64
		attrs []string
	}{"attributed", a.Term.HashKey(), strs})
}
func (a Attributed) canonAttrs() []Attr {
	out := make([]Attr, len(a.Attrs))
	copy(out, a.Attrs)
	sort.Slice(out, func(i, j int) bool { return out[i].Keyword < out[j].Keyword })
	return out
}
func (a Attributed) String() string {
	parts := make([]string, len(a.Attrs))
	for i, at := range a.Attrs {
		parts[i] = at.String()
	}
	return fmt.Sprintf("(! %s %s)", a.Term.String(), strings.Join(parts, " "))
}

// Attr looks up the first attribute with the given keyword.
func (a Attributed) Attr(keyword string) (Attr, bool) {
	for _, at := range a.Attrs {
		if at.Keyword == keyword {
			return at, true
		}
	}
	return Attr{}, false
}
