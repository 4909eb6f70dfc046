package ir

// Convenience constructors, mirroring the flat NewXxx constructor style of
// a typical expression package: callers build terms without having to know
// the App/Args shape underneath.

// Sym builds a nullary application (a bare symbol occurrence).
func Sym(name Symbol) Term { return App{Fn: name} }

// Int builds an integer literal.
func Int(v int64) Term { return Const{Value: v} }

// Bool builds a boolean literal.
func Bool(v bool) Term { return Const{Value: v} }

// App2 builds a binary application.
func App2(fn Symbol, a, b Term) Term { return App{Fn: fn, Args: []Term{a, b}} }

// AppN builds an n-ary application.
func AppN(fn Symbol, args ...Term) Term { return App{Fn: fn, Args: args} }

// And builds a variadic "and" application (arity as given; canonicalized
// to binary by package passes, not here).
func And(args ...Term) Term {
	if len(args) == 1 {
		return args[0]
	}
	return App{Fn: "and", Args: args}
}

// Or builds a variadic "or" application.
func Or(args ...Term) Term {
	if len(args) == 1 {
		return args[0]
	}
	return App{Fn: "or", Args: args}
}

// Not builds a negation.
func Not(t Term) Term { return App{Fn: "not", Args: []Term{t}} }

// Eq builds an equality.
func Eq(a, b Term) Term { return App{Fn: "=", Args: []Term{a, b}} }

// Implies builds an implication.
func Implies(a, b Term) Term { return App{Fn: "=>", Args: []Term{a, b}} }

// IsAndOr reports whether t is an application of "and" or "or", and if so
// its symbol and arguments.
func IsAndOr(t Term) (fn Symbol, args []Term, ok bool) {
	a, isApp := t.(App)
	if !isApp {
		return "", nil, false
	}
	if a.Fn != "and" && a.Fn != "or" {
		return "", nil, false
	}
	return a.Fn, a.Args, true
}
