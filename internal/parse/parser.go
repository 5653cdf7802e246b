package parse

import (
	"errors"
	"fmt"

	"letclone/internal/diagnostic"
	"letclone/internal/scan"
)

// segKind distinguishes the postfix operations hanging off a path.
type segKind int

const (
	segField segKind = iota
	segIndex
	segArgs
)

type segment struct {
	kind segKind
	name string
	span scan.Span
}

// Parser consumes the token stream of one invocation.
type Parser struct {
	src   string
	toks  []scan.Token
	pos   int
	diags diagnostic.Diagnostics
}

// Parse scans and parses invocation content. Every request that parses
// cleanly is returned; every rejected construct lands in the diagnostics,
// so one bad request does not hide the next. Spans are relative to the
// content string.
func Parse(content string) ([]Request, diagnostic.Diagnostics) {
	p := &Parser{src: content}

	toks, err := scan.NewLexer(content).Scan()
	if err != nil {
		var serr *scan.Error
		if errors.As(err, &serr) {
			p.diags.AddError(diagnostic.CodeUnterminated, serr.Msg, serr.Span)
		} else {
			p.diags.AddError(diagnostic.CodeUnterminated, err.Error(), scan.Span{})
		}

		return nil, p.diags
	}

	p.toks = toks

	if p.at(scan.KindEOF) {
		p.diags.AddError(diagnostic.CodeEmptyInvocation,
			"expected at least one expression to clone", p.cur().Span)

		return nil, p.diags
	}

	var reqs []Request

	for {
		if req, ok := p.parseRequest(); ok {
			reqs = append(reqs, req)
		}

		p.recover()

		if p.at(scan.KindEOF) {
			return reqs, p.diags
		}

		comma := p.cur()
		p.pos++

		if p.at(scan.KindEOF) {
			p.diags.AddError(diagnostic.CodeEmptyRequest,
				"trailing comma with no expression after it", comma.Span)

			return reqs, p.diags
		}
	}
}

// parseRequest parses one ["mut"] Expr entry.
func (p *Parser) parseRequest() (Request, bool) {
	if p.at(scan.KindComma) {
		p.diags.AddError(diagnostic.CodeEmptyRequest,
			"empty clone request", p.cur().Span)

		return Request{}, false
	}

	var req Request

	if p.cur().Is("mut") {
		mut := p.cur()
		p.pos++

		req.Mut = true

		if p.at(scan.KindComma) || p.at(scan.KindEOF) {
			p.diags.AddError(diagnostic.CodeEmptyRequest,
				"`mut` must be followed by an expression", mut.Span)

			return Request{}, false
		}

		if p.cur().Is("mut") {
			p.diags.AddError(diagnostic.CodeUnsupportedExpr,
				"duplicate `mut` marker", p.cur().Span)

			return Request{}, false
		}
	}

	expr, ok := p.parseExpr()
	if !ok {
		return Request{}, false
	}

	req.Expr = expr

	return req, true
}

// keywordConstructs maps expression-starting keywords to the construct
// they open, so rejections can name it instead of the first stray token.
var keywordConstructs = map[string]string{
	"if":     "an `if` expression",
	"match":  "a `match` expression",
	"move":   "a closure",
	"loop":   "a loop expression",
	"while":  "a loop expression",
	"for":    "a loop expression",
	"unsafe": "an unsafe block",
	"async":  "an async block",
	"return": "a `return` expression",
	"break":  "a `break` expression",
	"true":   "a boolean literal",
	"false":  "a boolean literal",
}

// parseExpr parses Path Postfix* and classifies it by the final operation.
func (p *Parser) parseExpr() (Expr, bool) {
	first := p.cur()

	if !p.at(scan.KindIdent) {
		p.unsupported(first)
		return Expr{}, false
	}

	if desc, ok := keywordConstructs[first.Text]; ok {
		p.diags.AddError(diagnostic.CodeUnsupportedExpr,
			fmt.Sprintf("%s is not cloneable here; use a path, a field access, or a method call", desc),
			first.Span)

		return Expr{}, false
	}

	last := first
	end := first.Span

	p.pos++

	for p.at(scan.KindPathSep) {
		p.pos++

		if !p.at(scan.KindIdent) {
			p.diags.AddError(diagnostic.CodeUnsupportedExpr,
				"expected identifier after `::`", p.cur().Span)

			return Expr{}, false
		}

		last = p.cur()
		end = last.Span
		p.pos++
	}

	var segs []segment

postfix:
	for {
		switch {
		case p.at(scan.KindDot):
			p.pos++

			switch {
			case p.cur().Is("await"):
				p.diags.AddError(diagnostic.CodeUnsupportedExpr,
					"an await expression is not cloneable here; use a path, a field access, or a method call",
					p.cur().Span)

				return Expr{}, false
			case p.at(scan.KindIdent):
				segs = append(segs, segment{kind: segField, name: p.cur().Text, span: p.cur().Span})
			case p.at(scan.KindNumber):
				segs = append(segs, segment{kind: segIndex, name: p.cur().Text, span: p.cur().Span})
			default:
				p.diags.AddError(diagnostic.CodeUnsupportedExpr,
					"expected field or method name after `.`", p.cur().Span)

				return Expr{}, false
			}

			end = p.cur().Span
			p.pos++

		case p.at(scan.KindLParen):
			span, ok := p.parseArgs()
			if !ok {
				return Expr{}, false
			}

			segs = append(segs, segment{kind: segArgs, span: span})
			end = span

		default:
			break postfix
		}
	}

	if !p.at(scan.KindComma) && !p.at(scan.KindEOF) {
		switch p.cur().Kind {
		case scan.KindRParen, scan.KindRBracket, scan.KindRBrace:
			p.diags.AddError(diagnostic.CodeUnbalanced,
				fmt.Sprintf("unmatched `%s`", p.cur().Text), p.cur().Span)
		case scan.KindPunct:
			// After a complete expression any punct reads as an operator,
			// so `a & b` is not misnamed a reference.
			p.diags.AddError(diagnostic.CodeUnsupportedExpr,
				fmt.Sprintf("an operator expression (`%s`) is not cloneable here; use a path, a field access, or a method call",
					p.cur().Text),
				p.cur().Span)
		default:
			p.unsupported(p.cur())
		}

		return Expr{}, false
	}

	expr := Expr{Span: first.Span.Join(end)}
	expr.Text = p.src[expr.Span.Start:expr.Span.End]

	if len(segs) == 0 {
		expr.Shape = ShapePath
		expr.Name = last.Text
		expr.NameSpan = last.Span

		return expr, true
	}

	fin := segs[len(segs)-1]

	switch fin.kind {
	case segField:
		expr.Shape = ShapeField
		expr.Name = fin.name
		expr.NameSpan = fin.span

	case segIndex:
		p.diags.AddError(diagnostic.CodeTupleIndex,
			fmt.Sprintf("tuple index access is not supported: `.%s` cannot name a binding; use a named field or a method", fin.name),
			fin.span)

		return Expr{}, false

	case segArgs:
		if len(segs) >= 2 && segs[len(segs)-2].kind == segField {
			m := segs[len(segs)-2]
			expr.Shape = ShapeMethod
			expr.Name = m.name
			expr.NameSpan = m.span

			return expr, true
		}

		if len(segs) >= 2 && segs[len(segs)-2].kind == segIndex {
			idx := segs[len(segs)-2]
			p.diags.AddError(diagnostic.CodeTupleIndex,
				fmt.Sprintf("tuple index access is not supported: `.%s` cannot name a binding; use a named field or a method", idx.name),
				idx.span)

			return Expr{}, false
		}

		p.diags.AddError(diagnostic.CodeUnsupportedExpr,
			"a function call has no receiver to take a name from; call a method instead or bind the value yourself",
			expr.Span)

		return Expr{}, false
	}

	return expr, true
}

// parseArgs consumes a balanced parenthesis group starting at the current
// token and returns its span. Commas inside the group never split
// requests.
func (p *Parser) parseArgs() (scan.Span, bool) {
	open := p.cur()
	depth := 0

	for !p.at(scan.KindEOF) {
		switch p.cur().Kind {
		case scan.KindLParen:
			depth++
		case scan.KindRParen:
			depth--
		}

		tok := p.cur()
		p.pos++

		if depth == 0 {
			return open.Span.Join(tok.Span), true
		}
	}

	p.diags.AddError(diagnostic.CodeUnbalanced,
		"missing closing parenthesis", open.Span)

	return scan.Span{}, false
}

// recover skips to the next top-level comma so later requests still parse.
func (p *Parser) recover() {
	depth := 0

	for !p.at(scan.KindEOF) {
		switch p.cur().Kind {
		case scan.KindLParen, scan.KindLBracket, scan.KindLBrace:
			depth++
		case scan.KindRParen, scan.KindRBracket, scan.KindRBrace:
			depth--
		case scan.KindComma:
			if depth <= 0 {
				return
			}
		}

		p.pos++
	}
}

func (p *Parser) cur() scan.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(k scan.Kind) bool {
	return p.toks[p.pos].Kind == k
}

// unsupported reports a construct the expander refuses, naming it.
func (p *Parser) unsupported(tok scan.Token) {
	p.diags.AddError(diagnostic.CodeUnsupportedExpr,
		fmt.Sprintf("%s is not cloneable here; use a path, a field access, or a method call",
			describe(tok)),
		tok.Span)
}

// describe names the construct a token opens, for diagnostics.
func describe(tok scan.Token) string {
	switch tok.Kind {
	case scan.KindNumber:
		return "a numeric literal"
	case scan.KindString:
		return "a string literal"
	case scan.KindChar:
		return "a char literal"
	case scan.KindLParen:
		return "a parenthesized expression"
	case scan.KindLBracket:
		return "an index or array expression"
	case scan.KindLBrace:
		return "a block expression"
	case scan.KindPunct:
		switch tok.Text {
		case "&":
			return "a reference expression"
		case "*":
			return "a dereference expression"
		case "|":
			return "a closure"
		}

		return fmt.Sprintf("an operator expression (`%s`)", tok.Text)
	default:
		return fmt.Sprintf("`%s`", tok.Text)
	}
}
