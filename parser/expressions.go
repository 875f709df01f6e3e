package parser

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/token"
)

// ParseExpression parses one expression. It implements strategy.Context.
func (p *Parser) ParseExpression() ast.NodeIndex {
	return p.parseExpression()
}

// ParseArguments parses a comma-separated argument list up to (but not
// including) the closing ')'. The caller is responsible for the
// surrounding parens. It implements strategy.Context.
func (p *Parser) ParseArguments() []ast.NodeIndex {
	var args []ast.NodeIndex
	for !p.Check(token.RParen) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		args = append(args, p.parseExpression())
		if !p.Match(token.Comma) {
			progress()
			break
		}
		progress()
	}
	return args
}

func (p *Parser) parseExpression() ast.NodeIndex {
	return p.parseAssignment()
}

var assignOps = map[token.Kind]bool{
	token.Assign: true, token.PlusAssign: true, token.MinusAssign: true,
	token.StarAssign: true, token.SlashAssign: true, token.PercentAssign: true,
	token.AndAssign: true, token.OrAssign: true, token.XorAssign: true,
	token.ShlAssign: true, token.ShrAssign: true, token.UShrAssign: true,
}

func (p *Parser) parseAssignment() ast.NodeIndex {
	if p.Check(token.LParen) && p.looksLikeLambdaParams() || p.Check(token.Ident) && p.PeekN(1).Kind == token.Arrow {
		return p.parseLambda()
	}

	start := p.Pos()
	left := p.parseTernary()
	if assignOps[p.peek().Kind] {
		p.Advance()
		right := p.parseAssignment()
		node := p.arena.Allocate(ast.KindAssignExpr, start, p.endOfPrevious())
		p.arena.AppendChild(node, left)
		p.arena.AppendChild(node, right)
		return node
	}
	return left
}

// looksLikeLambdaParams scans a parenthesized group without consuming the
// cursor, to tell "(a, b) -> ..." apart from a parenthesized expression.
func (p *Parser) looksLikeLambdaParams() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.PeekN(i).Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return p.PeekN(i + 1).Kind == token.Arrow
			}
		case token.EOF, token.Semicolon, token.LBrace:
			return false
		}
	}
}

func (p *Parser) parseLambda() ast.NodeIndex {
	start := p.Pos()
	node := p.arena.Allocate(ast.KindLambdaExpr, start, start)
	if p.Check(token.LParen) {
		p.arena.AppendChild(node, p.parseParameters())
	} else {
		name := p.peek().Literal()
		p.Advance()
		params := p.arena.Allocate(ast.KindParameters, start, p.endOfPrevious())
		p.arena.AppendChild(params, p.arena.AllocateWithAttr(ast.KindParameter, start, p.endOfPrevious(), ast.ParameterAttr{Name: name}))
		p.arena.AppendChild(node, params)
	}
	p.Expect(token.Arrow)
	if p.Check(token.LBrace) {
		p.arena.AppendChild(node, p.parseBlock())
	} else {
		p.arena.AppendChild(node, p.parseExpression())
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseTernary() ast.NodeIndex {
	start := p.Pos()
	cond := p.parseBinary(0)
	if p.Match(token.Question) {
		then := p.parseExpression()
		p.Expect(token.Colon)
		els := p.parseAssignment()
		node := p.arena.Allocate(ast.KindTernaryExpr, start, p.endOfPrevious())
		p.arena.AppendChild(node, cond)
		p.arena.AppendChild(node, then)
		p.arena.AppendChild(node, els)
		return node
	}
	return cond
}

// binaryPrecedence orders binary operators lowest to highest; index is
// the precedence level used by parseBinary's recursion.
var binaryPrecedence = [][]token.Kind{
	{token.OrOr},
	{token.AndAnd},
	{token.BitOr},
	{token.BitXor},
	{token.BitAnd},
	{token.EQ, token.NE},
	{token.LT, token.LE, token.GT, token.GE, token.Instanceof},
	{token.Shl, token.Shr, token.UShr},
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.Percent},
}

func (p *Parser) parseBinary(level int) ast.NodeIndex {
	if level >= len(binaryPrecedence) {
		return p.parseUnary()
	}
	start := p.Pos()
	left := p.parseBinary(level + 1)
	for p.matchAny(binaryPrecedence[level]...) {
		if p.Check(token.Instanceof) {
			left = p.finishInstanceof(start, left)
			continue
		}
		p.Advance()
		right := p.parseBinary(level + 1)
		node := p.arena.Allocate(ast.KindBinaryExpr, start, p.endOfPrevious())
		p.arena.AppendChild(node, left)
		p.arena.AppendChild(node, right)
		left = node
	}
	return left
}

func (p *Parser) finishInstanceof(start int, expr ast.NodeIndex) ast.NodeIndex {
	p.Advance() // "instanceof"
	node := p.arena.Allocate(ast.KindInstanceofExpr, start, start)
	p.arena.AppendChild(node, expr)
	if p.Check(token.Ident) && p.PeekN(1).Kind == token.LParen {
		p.arena.AppendChild(node, p.parsePattern())
	} else {
		typ := p.parseType()
		p.arena.AppendChild(node, typ)
		if p.Check(token.Ident) {
			name := p.peek().Literal()
			p.Advance()
			p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindTypePattern, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name}))
		}
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

var unaryOps = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Not: true, token.BitNot: true,
	token.Increment: true, token.Decrement: true,
}

func (p *Parser) parseUnary() ast.NodeIndex {
	start := p.Pos()
	if unaryOps[p.peek().Kind] {
		p.Advance()
		operand := p.parseUnary()
		node := p.arena.Allocate(ast.KindUnaryExpr, start, p.endOfPrevious())
		p.arena.AppendChild(node, operand)
		return node
	}
	if p.Check(token.LParen) && p.looksLikeCast() {
		p.Advance()
		typ := p.parseType()
		p.Expect(token.RParen)
		operand := p.parseUnary()
		node := p.arena.Allocate(ast.KindCastExpr, start, p.endOfPrevious())
		p.arena.AppendChild(node, typ)
		p.arena.AppendChild(node, operand)
		return node
	}
	return p.parsePostfix()
}

// looksLikeCast distinguishes "(Type) expr" from a parenthesized
// expression by requiring a primitive type, or a class type immediately
// followed by a token that cannot start an infix operator (so "(a) - b"
// isn't mistaken for a cast to type a).
func (p *Parser) looksLikeCast() bool {
	if primitiveKinds[p.PeekN(1).Kind] {
		return p.PeekN(2).Kind == token.RParen
	}
	if p.PeekN(1).Kind != token.Ident {
		return false
	}
	i := 2
	for p.PeekN(i).Kind == token.Dot && p.PeekN(i+1).Kind == token.Ident {
		i += 2
	}
	if p.PeekN(i).Kind == token.LT {
		depth := 0
		for {
			k := p.PeekN(i).Kind
			if k == token.LT {
				depth++
			} else if k == token.GT {
				depth--
				if depth == 0 {
					i++
					break
				}
			} else if k == token.Semicolon || k == token.EOF {
				return false
			}
			i++
		}
	}
	for p.PeekN(i).Kind == token.LBracket && p.PeekN(i+1).Kind == token.RBracket {
		i += 2
	}
	if p.PeekN(i).Kind != token.RParen {
		return false
	}
	after := p.PeekN(i + 1).Kind
	switch after {
	case token.Ident, token.This, token.Super, token.New, token.LParen,
		token.IntLiteral, token.LongLiteral, token.DoubleLiteral, token.FloatLiteral,
		token.StringLiteral, token.CharLiteral, token.True, token.False, token.Null, token.Not, token.BitNot:
		return true
	}
	return false
}

func (p *Parser) parsePostfix() ast.NodeIndex {
	start := p.Pos()
	expr := p.parsePrimary()
	for {
		switch {
		case p.Check(token.Dot) && p.PeekN(1).Kind == token.Ident && p.PeekN(2).Kind == token.LParen:
			p.Advance()
			name := p.peek().Literal()
			p.Advance()
			p.Expect(token.LParen)
			args := p.ParseArguments()
			p.Expect(token.RParen)
			node := p.arena.AllocateWithAttr(ast.KindCallExpr, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
			p.arena.AppendChild(node, expr)
			for _, a := range args {
				p.arena.AppendChild(node, a)
			}
			expr = node
		case p.Check(token.Dot) && p.PeekN(1).Kind == token.Ident:
			p.Advance()
			name := p.peek().Literal()
			p.Advance()
			node := p.arena.AllocateWithAttr(ast.KindFieldAccess, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
			p.arena.AppendChild(node, expr)
			expr = node
		case p.Check(token.Dot) && p.PeekN(1).Kind == token.Class:
			p.Advance()
			p.Advance()
			node := p.arena.Allocate(ast.KindClassLiteral, start, p.endOfPrevious())
			p.arena.AppendChild(node, expr)
			expr = node
		case p.Check(token.Dot) && p.PeekN(1).Kind == token.This:
			p.Advance()
			p.Advance()
			node := p.arena.Allocate(ast.KindThis, start, p.endOfPrevious())
			p.arena.AppendChild(node, expr)
			expr = node
		case p.Check(token.ColonColon):
			p.Advance()
			name := p.peek().Literal()
			p.Advance()
			node := p.arena.AllocateWithAttr(ast.KindMethodRef, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
			p.arena.AppendChild(node, expr)
			expr = node
		case p.Check(token.LBracket):
			p.Advance()
			index := p.parseExpression()
			p.Expect(token.RBracket)
			node := p.arena.Allocate(ast.KindArrayAccess, start, p.endOfPrevious())
			p.arena.AppendChild(node, expr)
			p.arena.AppendChild(node, index)
			expr = node
		case p.Check(token.Increment), p.Check(token.Decrement):
			p.Advance()
			node := p.arena.Allocate(ast.KindPostfixExpr, start, p.endOfPrevious())
			p.arena.AppendChild(node, expr)
			expr = node
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.NodeIndex {
	start := p.Pos()
	tok := p.peek()

	switch tok.Kind {
	case token.IntLiteral, token.LongLiteral, token.FloatLiteral, token.DoubleLiteral,
		token.CharLiteral, token.StringLiteral, token.TextBlock, token.True, token.False, token.Null:
		p.Advance()
		return p.arena.AllocateWithAttr(ast.KindLiteral, start, p.endOfPrevious(), ast.LiteralAttr{Text: tok.Literal()})
	case token.This:
		p.Advance()
		if p.Check(token.LParen) {
			p.Advance()
			args := p.ParseArguments()
			p.Expect(token.RParen)
			node := p.arena.Allocate(ast.KindExplicitConstructorInvocation, start, p.endOfPrevious())
			for _, a := range args {
				p.arena.AppendChild(node, a)
			}
			return node
		}
		return p.arena.Allocate(ast.KindThis, start, p.endOfPrevious())
	case token.Super:
		p.Advance()
		return p.arena.Allocate(ast.KindSuper, start, p.endOfPrevious())
	case token.New:
		return p.parseNewExpr()
	case token.Switch:
		return p.parseSwitchExpr()
	case token.LParen:
		p.Advance()
		inner := p.parseExpression()
		p.Expect(token.RParen)
		node := p.arena.Allocate(ast.KindParenExpr, start, p.endOfPrevious())
		p.arena.AppendChild(node, inner)
		return node
	case token.Ident:
		if p.PeekN(1).Kind == token.LParen {
			name := tok.Literal()
			p.Advance()
			p.Advance()
			args := p.ParseArguments()
			p.Expect(token.RParen)
			node := p.arena.AllocateWithAttr(ast.KindCallExpr, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
			for _, a := range args {
				p.arena.AppendChild(node, a)
			}
			return node
		}
		name := tok.Literal()
		p.Advance()
		return p.arena.AllocateWithAttr(ast.KindIdentifier, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
	default:
		if primitiveKinds[tok.Kind] {
			p.Advance()
			for p.Match(token.LBracket) {
				p.Expect(token.RBracket)
			}
			p.Expect(token.Dot)
			p.Expect(token.Class)
			return p.arena.AllocateWithAttr(ast.KindClassLiteral, start, p.endOfPrevious(), ast.IdentifierAttr{Name: tok.Literal()})
		}
		return p.errorNode("expected expression", []token.Kind{token.Semicolon, token.RParen, token.RBrace, token.Comma})
	}
}

func (p *Parser) parseNewExpr() ast.NodeIndex {
	start := p.Pos()
	p.Advance() // "new"
	typ := p.parseType()

	if p.Check(token.LBracket) {
		node := p.arena.Allocate(ast.KindNewArrayExpr, start, start)
		p.arena.AppendChild(node, typ)
		for p.Match(token.LBracket) {
			if !p.Check(token.RBracket) {
				p.arena.AppendChild(node, p.parseExpression())
			}
			p.Expect(token.RBracket)
		}
		if p.Check(token.LBrace) {
			p.arena.AppendChild(node, p.parseArrayInitializer())
		}
		p.arena.SetEnd(node, p.endOfPrevious())
		return node
	}

	p.Expect(token.LParen)
	args := p.ParseArguments()
	p.Expect(token.RParen)
	node := p.arena.Allocate(ast.KindNewExpr, start, start)
	p.arena.AppendChild(node, typ)
	for _, a := range args {
		p.arena.AppendChild(node, a)
	}
	if p.Check(token.LBrace) {
		// Anonymous class body.
		p.Expect(token.LBrace)
		for !p.Check(token.RBrace) && !p.Check(token.EOF) {
			progress := p.mustProgress()
			p.arena.AppendChild(node, p.parseClassMember())
			progress()
		}
		p.Expect(token.RBrace)
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseSwitchExpr() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)
	selector := p.parseExpression()
	p.Expect(token.RParen)
	node := p.arena.Allocate(ast.KindSwitchExpr, start, start)
	p.arena.AppendChild(node, selector)
	p.Expect(token.LBrace)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseSwitchCase())
		progress()
	}
	p.Expect(token.RBrace)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}
