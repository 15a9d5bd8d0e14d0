package parser

import (
	"fmt"

	"github.com/sergev/closures/lang"
)

// Parse translates source text in the Scheme dialect into an expression.
// A program of several top-level expressions becomes a Statements node.
func Parse(src string) (lang.Exp, error) {
	return ParseWith(src, Scheme)
}

// ParseWith translates source text using the keywords of dialect d.
func ParseWith(src string, d Dialect) (lang.Exp, error) {
	p := &parser{
		lx:    newLexer(src),
		kw:    d.Keywords,
		forms: make(map[int]formResult),
	}
	return p.parseProgram()
}

type parser struct {
	lx *lexer
	kw Keywords

	// forms memoizes parseForm by start offset, so a form reached again
	// by a later alternative is not parsed twice.
	forms map[int]formResult
}

type formResult struct {
	expr lang.Exp
	end  runeState
	err  *Error
}

func (p *parser) parseProgram() (lang.Exp, error) {
	var exprs []lang.Exp
	for {
		if err := p.lx.skipWhitespace(); err != nil {
			return lang.Exp{}, err
		}
		if p.lx.atEOF() {
			break
		}
		if r, _ := p.lx.peek(); r == ')' {
			return lang.Exp{}, errorf(p.lx.position(), "unbalanced parentheses: unexpected )")
		}
		expr, err := p.parseExpression()
		if err != nil {
			return lang.Exp{}, err
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 0 {
		return lang.Exp{}, errorf(p.lx.position(), "empty program")
	}
	return lang.Seq(exprs), nil
}

func (p *parser) parseExpression() (lang.Exp, error) {
	if err := p.lx.skipWhitespace(); err != nil {
		return lang.Exp{}, err
	}
	pos := p.lx.position()
	r, ok := p.lx.peek()
	switch {
	case !ok:
		return lang.Exp{}, newIncompleteError(pos, fmt.Errorf("unexpected end of input"))
	case r == '(':
		return p.parseForm()
	case r == ')':
		return lang.Exp{}, errorf(pos, "expected expression, found )")
	case r == '"':
		s, err := p.lx.scanString()
		if err != nil {
			return lang.Exp{}, err
		}
		return lang.String(s), nil
	case isDigit(r):
		n, err := p.lx.scanNumber()
		if err != nil {
			return lang.Exp{}, err
		}
		return lang.Number(n), nil
	default:
		name, ok := p.lx.scanIdentifier()
		if !ok {
			return lang.Exp{}, newFatalError(pos, fmt.Errorf("invalid input at byte %d", pos.Offset))
		}
		return lang.Symbol(name), nil
	}
}

// parseForm tries each parenthesised alternative in order, restoring the
// input position before every attempt. The application fallback comes last.
// When no alternative matches, the furthest-reaching failure is reported as
// fatal: any enclosing alternative would read this form as an expression
// again and fail the same way.
func (p *parser) parseForm() (lang.Exp, error) {
	start := p.lx.mark()
	if res, ok := p.forms[start.pos]; ok {
		p.lx.restore(res.end)
		if res.err != nil {
			return lang.Exp{}, res.err
		}
		return res.expr, nil
	}
	expr, err := p.tryAlternatives(start)
	res := formResult{expr: expr, end: p.lx.mark()}
	if err != nil {
		res.err = asError(err)
	}
	p.forms[start.pos] = res
	if res.err != nil {
		return lang.Exp{}, res.err
	}
	return expr, nil
}

func (p *parser) tryAlternatives(start runeState) (lang.Exp, error) {
	alternatives := []func() (lang.Exp, error){
		p.parseLambda,
		p.parseSet,
		p.parseDefine,
		p.parseIf,
		p.parseWhile,
		p.parseApplication,
	}
	var furthest *Error
	for _, alt := range alternatives {
		p.lx.restore(start)
		expr, err := alt()
		if err == nil {
			return expr, nil
		}
		perr := asError(err)
		if perr.fatal {
			return lang.Exp{}, perr
		}
		if furthest == nil || perr.Pos.Offset >= furthest.Pos.Offset {
			furthest = perr
		}
	}
	p.lx.restore(start)
	furthest.fatal = true
	return lang.Exp{}, furthest
}

func (p *parser) parseLambda() (lang.Exp, error) {
	if err := p.openKeyword(p.kw.Lambda); err != nil {
		return lang.Exp{}, err
	}
	params, err := p.parseParams()
	if err != nil {
		return lang.Exp{}, err
	}
	body, err := p.parseBody()
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.CreateFunction(params, lang.Seq(body)), nil
}

func (p *parser) parseSet() (lang.Exp, error) {
	name, value, err := p.parseBinding(p.kw.Set)
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.SetVar(name, value), nil
}

func (p *parser) parseDefine() (lang.Exp, error) {
	name, value, err := p.parseBinding(p.kw.Define)
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.Define(name, value), nil
}

func (p *parser) parseBinding(keyword string) (string, lang.Exp, error) {
	if err := p.openKeyword(keyword); err != nil {
		return "", lang.Exp{}, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return "", lang.Exp{}, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return "", lang.Exp{}, err
	}
	if err := p.expectClose(); err != nil {
		return "", lang.Exp{}, err
	}
	return name, value, nil
}

func (p *parser) parseIf() (lang.Exp, error) {
	if err := p.openKeyword(p.kw.If); err != nil {
		return lang.Exp{}, err
	}
	var parts [3]lang.Exp
	for i := range parts {
		expr, err := p.parseExpression()
		if err != nil {
			return lang.Exp{}, err
		}
		parts[i] = expr
	}
	if err := p.expectClose(); err != nil {
		return lang.Exp{}, err
	}
	return lang.If(parts[0], parts[1], parts[2]), nil
}

func (p *parser) parseWhile() (lang.Exp, error) {
	if err := p.openKeyword(p.kw.While); err != nil {
		return lang.Exp{}, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return lang.Exp{}, err
	}
	body, err := p.parseBody()
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.While(cond, lang.Seq(body)), nil
}

func (p *parser) parseApplication() (lang.Exp, error) {
	if err := p.expectOpen(); err != nil {
		return lang.Exp{}, err
	}
	exprs, err := p.parseBody()
	if err != nil {
		return lang.Exp{}, err
	}
	return lang.FunctionCall(exprs[0], exprs[1:]...), nil
}

// parseBody reads one or more expressions and the closing parenthesis.
func (p *parser) parseBody() ([]lang.Exp, error) {
	var exprs []lang.Exp
	for {
		if err := p.lx.skipWhitespace(); err != nil {
			return nil, err
		}
		r, ok := p.lx.peek()
		if !ok {
			return nil, newIncompleteError(p.lx.position(), fmt.Errorf("unbalanced parentheses: missing )"))
		}
		if r == ')' {
			break
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 0 {
		return nil, errorf(p.lx.position(), "expected expression, found )")
	}
	p.lx.readRune()
	return exprs, nil
}

func (p *parser) parseParams() ([]string, error) {
	if err := p.expectOpen(); err != nil {
		return nil, err
	}
	params := []string{}
	for {
		if err := p.lx.skipWhitespace(); err != nil {
			return nil, err
		}
		r, ok := p.lx.peek()
		if !ok {
			return nil, newIncompleteError(p.lx.position(), fmt.Errorf("unbalanced parentheses: missing )"))
		}
		if r == ')' {
			p.lx.readRune()
			return params, nil
		}
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		params = append(params, name)
	}
}

// openKeyword consumes an opening parenthesis followed by keyword as a
// whole identifier token.
func (p *parser) openKeyword(keyword string) error {
	if err := p.expectOpen(); err != nil {
		return err
	}
	pos := p.lx.position()
	name, ok := p.lx.scanIdentifier()
	if !ok || name != keyword {
		return errorf(pos, "expected %s", keyword)
	}
	return nil
}

func (p *parser) expectOpen() error {
	if err := p.lx.skipWhitespace(); err != nil {
		return err
	}
	pos := p.lx.position()
	if r, ok := p.lx.peek(); !ok || r != '(' {
		return errorf(pos, "expected (")
	}
	p.lx.readRune()
	return p.lx.skipWhitespace()
}

func (p *parser) expectClose() error {
	if err := p.lx.skipWhitespace(); err != nil {
		return err
	}
	pos := p.lx.position()
	r, ok := p.lx.peek()
	if !ok {
		return newIncompleteError(pos, fmt.Errorf("unbalanced parentheses: missing )"))
	}
	if r != ')' {
		return errorf(pos, "expected ), found %q", r)
	}
	p.lx.readRune()
	return nil
}

func (p *parser) expectIdentifier() (string, error) {
	if err := p.lx.skipWhitespace(); err != nil {
		return "", err
	}
	pos := p.lx.position()
	if p.lx.atEOF() {
		return "", newIncompleteError(pos, fmt.Errorf("unexpected end of input"))
	}
	name, ok := p.lx.scanIdentifier()
	if !ok {
		return "", errorf(pos, "expected identifier")
	}
	return name, nil
}
