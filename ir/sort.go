package ir

import "strings"

// Sort is a type in the command language: either a simple sort (a bare
// name, e.g. "Int") or a parameterized sort (a name plus ordered sort
// arguments, e.g. "(Array Int Int)").
type Sort struct {
	Name string
	Args []Sort
}

// Simple constructs a simple (unparameterized) sort.
func Simple(name string) Sort { return Sort{Name: name} }

// Param constructs a parameterized sort.
func Param(name string, args ...Sort) Sort { return Sort{Name: name, Args: args} }

// IsSimple reports whether the sort has no parameters.
func (s Sort) IsSimple() bool { return len(s.Args) == 0 }

// ArraySortName is the name the front-end recognizes as the built-in
// two-parameter parametric array sort.
const ArraySortName = "Array"

// IsArray reports whether s is the built-in Array sort, returning its index
// and value sort.
func (s Sort) IsArray() (index, value Sort, ok bool) {
	if s.Name != ArraySortName || len(s.Args) != 2 {
		return Sort{}, Sort{}, false
	}
	return s.Args[0], s.Args[1], true
}

// String renders the sort in command-language concrete syntax.
func (s Sort) String() string {
	if s.IsSimple() {
		return s.Name
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(s.Name)
	for _, a := range s.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports structural equality of two sorts.
func (s Sort) Equal(o Sort) bool {
	if s.Name != o.Name || len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if !s.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}
