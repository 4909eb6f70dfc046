package smt

import "strings"

// parseModelResponse parses a complete "(get-model)" response (the "(model
// ...)" wrapper and everything inside it) into nullary symbol values and
// function tables. z3 emits one top-level define-fun per declared symbol:
// a one-liner for a nullary symbol, and a multi-line ite-chain over its
// arguments for anything else — exactly the shape the abstracted
// Read-I-V/Write-I-V/ConstArr-I-V functions take (spec §4.11).
func parseModelResponse(raw string) ModelResult {
	res := ModelResult{Nullary: map[string]string{}, Functions: map[string][]FunctionEntry{}}
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "(")
	body = strings.TrimSuffix(body, ")")
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "model")
	for _, def := range splitSExprs(body) {
		parseDefineFun(def, &res)
	}
	return res
}

// parseDefineFun parses one "(define-fun name (args) sort body)" element
// and records it in res as either a nullary value or a function table.
func parseDefineFun(def string, res *ModelResult) {
	def = strings.TrimSpace(def)
	if !strings.HasPrefix(def, "(") || !strings.HasSuffix(def, ")") {
		return
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(def, "("), ")")
	inner = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(inner), "define-fun"))
	fields := splitSExprs(inner)
	if len(fields) < 4 {
		return
	}
	name, argList, body := fields[0], fields[1], strings.Join(fields[3:], " ")

	argNames := argNamesOf(argList)
	if len(argNames) == 0 {
		res.Nullary[name] = strings.TrimSpace(body)
		return
	}
	res.Functions[name] = append(res.Functions[name], parseFunctionTable(body, argNames)...)
}

// argNamesOf parses a define-fun argument list, e.g. "((x!0 Int) (x!1
// Int))", into its argument names in declared order. "()" yields nil.
func argNamesOf(argList string) []string {
	argList = strings.TrimSpace(argList)
	inner := strings.TrimSuffix(strings.TrimPrefix(argList, "("), ")")
	var names []string
	for _, arg := range splitSExprs(inner) {
		parts := splitSExprs(strings.TrimSuffix(strings.TrimPrefix(arg, "("), ")"))
		if len(parts) > 0 {
			names = append(names, parts[0])
		}
	}
	return names
}

// parseFunctionTable walks a z3 ite-chain body — "(ite COND THEN ELSE)"
// nested arbitrarily deep — and extracts one FunctionEntry per branch. The
// final else-default has no concrete arguments to bind and is dropped:
// there is no ground application to seed the e-graph with.
func parseFunctionTable(body string, argNames []string) []FunctionEntry {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "(ite") {
		return nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(body, "(ite"), ")")
	parts := splitSExprs(inner)
	if len(parts) != 3 {
		return nil
	}
	cond, then, els := parts[0], parts[1], parts[2]

	entry, ok := condToEntry(cond, argNames, then)
	rest := parseFunctionTable(els, argNames)
	if !ok {
		return rest
	}
	return append([]FunctionEntry{entry}, rest...)
}

// condToEntry turns an ite guard — "(= x!0 V)" or "(and (= x!0 V0) (= x!1
// V1) ...)" — into a FunctionEntry whose Args align with argNames order.
func condToEntry(cond string, argNames []string, then string) (FunctionEntry, bool) {
	cond = strings.TrimSpace(cond)
	var clauses []string
	if strings.HasPrefix(cond, "(and") {
		clauses = splitSExprs(strings.TrimSuffix(strings.TrimPrefix(cond, "(and"), ")"))
	} else {
		clauses = []string{cond}
	}

	values := make([]string, len(argNames))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		inner := strings.TrimSuffix(strings.TrimPrefix(clause, "(="), ")")
		parts := splitSExprs(inner)
		if len(parts) != 2 {
			return FunctionEntry{}, false
		}
		idx := indexOf(argNames, parts[0])
		if idx < 0 {
			return FunctionEntry{}, false
		}
		values[idx] = parts[1]
	}
	for _, v := range values {
		if v == "" {
			return FunctionEntry{}, false
		}
	}
	return FunctionEntry{Args: values, Value: strings.TrimSpace(then)}, true
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// splitSExprs splits s into its top-level whitespace-separated elements,
// treating a parenthesized group as one element regardless of the
// whitespace or nested parens inside it.
func splitSExprs(s string) []string {
	var out []string
	depth := 0
	start := -1
	for i, r := range s {
		switch r {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, s[start:i+1])
				start = -1
			}
		default:
			if depth == 0 && !isSpace(r) {
				if start < 0 {
					start = i
				}
			} else if depth == 0 && isSpace(r) && start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		}
	}
	if depth == 0 && start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
