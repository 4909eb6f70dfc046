package sts

import (
	"fmt"
	"strings"

	"github.com/stsforge/stsmc/ir"
)

// parser is a recursive-descent reader over a buffered token stream,
// grounded on the teacher's hand-rolled recursive-descent command parser
// (sql/rdparser) rather than a generated one: the command language's
// grammar is small enough that a parser combinator or generated table adds
// more ceremony than it saves.
type parser struct {
	toks []token
	pos  int
}

// ParseCommands tokenizes and parses src into a command list, without yet
// validating STS-level structure (that is NewModel's job).
func ParseCommands(src string) ([]ir.Command, error) {
	lx := newLexer(src)
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	p := &parser{toks: toks}

	var cmds []ir.Command
	for p.peek().kind != tokEOF {
		c, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// ParseModel is the convenience entry point: parse then validate.
func ParseModel(src string, frameDelim byte) (*Model, error) {
	cmds, err := ParseCommands(src)
	if err != nil {
		return nil, err
	}
	return NewModel(cmds, frameDelim)
}

// ParseTerm parses a single bare term, with no surrounding command —
// used by callers that read terms back out of another tool's output
// (interp's interpolant responses) rather than a full command script.
func ParseTerm(src string) (ir.Term, error) {
	lx := newLexer(src)
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	p := &parser{toks: toks}
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("sts: line %d: unexpected trailing input %q after term", p.peek().line, p.peek().text)
	}
	return t, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.advance()
	if t.kind != k {
		return token{}, fmt.Errorf("sts: line %d: expected %s, got %q", t.line, what, t.text)
	}
	return t, nil
}

func (p *parser) expectAtom(text string) error {
	t := p.advance()
	if t.kind != tokAtom || t.text != text {
		return fmt.Errorf("sts: line %d: expected %q, got %q", t.line, text, t.text)
	}
	return nil
}

func (p *parser) parseCommand() (ir.Command, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	kw, err := p.expect(tokAtom, "command keyword")
	if err != nil {
		return nil, err
	}
	switch kw.text {
	case "declare-sort":
		name, err := p.expect(tokAtom, "sort name")
		if err != nil {
			return nil, err
		}
		arityTok, err := p.expect(tokAtom, "arity")
		if err != nil {
			return nil, err
		}
		arity, ok := parseIntLiteral(arityTok.text)
		if !ok {
			return nil, fmt.Errorf("sts: line %d: bad sort arity %q", arityTok.line, arityTok.text)
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return ir.DeclareSort{Name: name.text, Arity: int(arity)}, nil

	case "declare-fun":
		name, err := p.expect(tokAtom, "function name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		var params []ir.Sort
		for p.peek().kind != tokRParen {
			s, err := p.parseSort()
			if err != nil {
				return nil, err
			}
			params = append(params, s)
		}
		p.advance() // ')'
		result, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return ir.DeclareFun{Name: ir.Symbol(name.text), Params: params, Result: result}, nil

	case "define-fun":
		name, err := p.expect(tokAtom, "function name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		var params []ir.SortedVar
		for p.peek().kind != tokRParen {
			if _, err := p.expect(tokLParen, "("); err != nil {
				return nil, err
			}
			pname, err := p.expect(tokAtom, "param name")
			if err != nil {
				return nil, err
			}
			psort, err := p.parseSort()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			params = append(params, ir.SortedVar{Name: ir.Symbol(pname.text), Sort: psort})
		}
		p.advance() // ')'
		result, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return ir.DefineFun{Name: ir.Symbol(name.text), Params: params, Result: result, Body: body}, nil

	case "assert":
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return ir.Assert{Term: body}, nil

	default:
		return nil, fmt.Errorf("sts: line %d: unknown command %q", kw.line, kw.text)
	}
}

func (p *parser) parseSort() (ir.Sort, error) {
	t := p.peek()
	if t.kind == tokAtom {
		p.advance()
		return ir.Simple(t.text), nil
	}
	if t.kind != tokLParen {
		return ir.Sort{}, fmt.Errorf("sts: line %d: expected a sort, got %q", t.line, t.text)
	}
	p.advance()
	name, err := p.expect(tokAtom, "sort name")
	if err != nil {
		return ir.Sort{}, err
	}
	var args []ir.Sort
	for p.peek().kind != tokRParen {
		s, err := p.parseSort()
		if err != nil {
			return ir.Sort{}, err
		}
		args = append(args, s)
	}
	p.advance() // ')'
	return ir.Param(name.text, args...), nil
}

func (p *parser) parseTerm() (ir.Term, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.advance()
		return ir.Const{Value: t.text}, nil

	case tokAtom:
		p.advance()
		switch t.text {
		case "true":
			return ir.Bool(true), nil
		case "false":
			return ir.Bool(false), nil
		}
		if n, ok := parseIntLiteral(t.text); ok {
			return ir.Int(n), nil
		}
		return ir.Sym(ir.Symbol(t.text)), nil

	case tokLParen:
		return p.parseList()

	default:
		return nil, fmt.Errorf("sts: line %d: unexpected token %q in term position", t.line, t.text)
	}
}

func (p *parser) parseList() (ir.Term, error) {
	p.advance() // '('
	head, err := p.expect(tokAtom, "operator or function symbol")
	if err != nil {
		return nil, err
	}
	switch head.text {
	case "let":
		return p.parseLet()
	case "forall":
		return p.parseQuant(ir.Forall)
	case "exists":
		return p.parseQuant(ir.Exists)
	case "match":
		return p.parseMatch()
	case "!":
		return p.parseAttributed()
	case "as":
		return p.parseAs()
	default:
		var args []ir.Term
		for p.peek().kind != tokRParen {
			a, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		p.advance() // ')'
		return ir.App{Fn: ir.Symbol(head.text), Args: args}, nil
	}
}

func (p *parser) parseLet() (ir.Term, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	var bindings []ir.Binding
	for p.peek().kind != tokRParen {
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		name, err := p.expect(tokAtom, "binding name")
		if err != nil {
			return nil, err
		}
		val, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		bindings = append(bindings, ir.Binding{Name: ir.Symbol(name.text), Term: val})
	}
	p.advance() // ')'
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ir.Let{Bindings: bindings, Body: body}, nil
}

func (p *parser) parseQuant(kind ir.QuantifierKind) (ir.Term, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	var binders []ir.SortedVar
	for p.peek().kind != tokRParen {
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		name, err := p.expect(tokAtom, "binder name")
		if err != nil {
			return nil, err
		}
		sort, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		binders = append(binders, ir.SortedVar{Name: ir.Symbol(name.text), Sort: sort})
	}
	p.advance() // ')'
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ir.Quant{Kind: kind, Binders: binders, Body: body}, nil
}

func (p *parser) parseMatch() (ir.Term, error) {
	scrutinee, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	var cases []ir.MatchCase
	for p.peek().kind != tokRParen {
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		pattern, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		result, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		cases = append(cases, ir.MatchCase{Pattern: pattern, Result: result})
	}
	p.advance() // ')'
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ir.Match{Scrutinee: scrutinee, Cases: cases}, nil
}

func (p *parser) parseAttributed() (ir.Term, error) {
	inner, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	var attrs []ir.Attr
	for p.peek().kind == tokAtom && strings.HasPrefix(p.peek().text, ":") {
		kw := p.advance().text
		value := ""
		if p.peek().kind == tokAtom && !strings.HasPrefix(p.peek().text, ":") {
			value = p.advance().text
		}
		attrs = append(attrs, ir.Attr{Keyword: kw, Value: value})
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ir.Attributed{Term: inner, Attrs: attrs}, nil
}

func (p *parser) parseAs() (ir.Term, error) {
	name, err := p.expect(tokAtom, "symbol")
	if err != nil {
		return nil, err
	}
	sort, err := p.parseSort()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return ir.Id{Symbol: ir.Symbol(name.text), As: &sort}, nil
}
