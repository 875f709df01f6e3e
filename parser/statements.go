package parser

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/token"
)

// ParseBlock parses a brace-delimited block. It implements
// strategy.Context.
func (p *Parser) ParseBlock() ast.NodeIndex {
	return p.parseBlock()
}

// ParseStatement parses one statement. It implements strategy.Context.
func (p *Parser) ParseStatement() ast.NodeIndex {
	return p.parseStatement()
}

func (p *Parser) parseBlock() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.LBrace)
	node := p.arena.Allocate(ast.KindBlock, start, start)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseStatement())
		progress()
	}
	p.Expect(token.RBrace)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseStatement() ast.NodeIndex {
	start := p.Pos()
	switch {
	case p.Check(token.LBrace):
		return p.parseBlock()
	case p.Check(token.Semicolon):
		p.Advance()
		return p.arena.Allocate(ast.KindEmptyStmt, start, p.endOfPrevious())
	case p.Check(token.If):
		return p.parseIfStmt()
	case p.Check(token.For):
		return p.parseForStmt()
	case p.Check(token.While):
		return p.parseWhileStmt()
	case p.Check(token.Do):
		return p.parseDoStmt()
	case p.Check(token.Switch):
		return p.parseSwitchStmt()
	case p.Check(token.Return):
		return p.parseReturnStmt()
	case p.Check(token.Break):
		return p.parseBreakStmt()
	case p.Check(token.Continue):
		return p.parseContinueStmt()
	case p.Check(token.Throw):
		return p.parseThrowStmt()
	case p.Check(token.Try):
		return p.parseTryStmt()
	case p.Check(token.Synchronized):
		return p.parseSynchronizedStmt()
	case p.Check(token.Assert):
		return p.parseAssertStmt()
	case p.Check(token.Ident) && p.peek().Literal() == "yield" && !p.nextStartsExpressionAsInvocation():
		return p.parseYieldStmt()
	case p.Check(token.Class), p.Check(token.Interface), p.Check(token.Enum),
		p.Check(token.Abstract), p.Check(token.Final),
		p.Check(token.Ident) && p.peek().Literal() == "record" && p.PeekN(1).Kind == token.Ident:
		return p.parseLocalClassDecl()
	case p.Check(token.Ident) && p.PeekN(1).Kind == token.Colon:
		return p.parseLabeledStmt()
	case p.looksLikeLocalVarDecl():
		return p.parseLocalVarDecl()
	default:
		return p.parseExprStmt()
	}
}

// nextStartsExpressionAsInvocation guards against "yield" used as a plain
// identifier/method name rather than the yield-statement keyword.
func (p *Parser) nextStartsExpressionAsInvocation() bool {
	return p.PeekN(1).Kind == token.LParen || p.PeekN(1).Kind == token.Dot || p.PeekN(1).Kind == token.Assign
}

func (p *Parser) looksLikeLocalVarDecl() bool {
	if primitiveKinds[p.peek().Kind] {
		return true
	}
	if p.Check(token.Final) {
		return true
	}
	if p.Check(token.Ident) && p.peek().Literal() == "var" && p.PeekN(1).Kind == token.Ident {
		return true
	}
	if !p.Check(token.Ident) {
		return false
	}
	// Identifier-led: a local var decl looks like "Type name ..." or
	// "Type<Args> name ...". Scan ahead past a dotted/generic type to see
	// if an identifier (the variable name) follows before '=' or ';'.
	i := 1
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
	return p.PeekN(i).Kind == token.Ident
}

func (p *Parser) parseLocalVarDecl() ast.NodeIndex {
	start := p.Pos()
	final := p.Match(token.Final)
	typ := p.parseType()
	node := p.arena.Allocate(ast.KindLocalVarDecl, start, start)
	if final {
		mods := p.arena.AllocateWithAttr(ast.KindModifiers, start, start, ast.ModifiersAttr{Flags: ast.ModFinal})
		p.arena.AppendChild(node, mods)
	}
	p.arena.AppendChild(node, typ)
	for {
		declStart := p.Pos()
		name := p.peek().Literal()
		p.Expect(token.Ident)
		decl := p.arena.AllocateWithAttr(ast.KindParameter, declStart, declStart, ast.ParameterAttr{Name: name})
		if p.Match(token.Assign) {
			p.arena.AppendChild(decl, p.parseVariableInitializer())
		}
		p.arena.SetEnd(decl, p.endOfPrevious())
		p.arena.AppendChild(node, decl)
		if !p.Match(token.Comma) {
			break
		}
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseLocalClassDecl() ast.NodeIndex {
	start := p.Pos()
	inner := p.parseTypeDecl()
	node := p.arena.Allocate(ast.KindLocalClassDecl, start, p.endOfPrevious())
	p.arena.AppendChild(node, inner)
	return node
}

func (p *Parser) parseExprStmt() ast.NodeIndex {
	start := p.Pos()
	expr := p.parseExpression()
	p.Expect(token.Semicolon)
	node := p.arena.Allocate(ast.KindExprStmt, start, p.endOfPrevious())
	p.arena.AppendChild(node, expr)
	return node
}

func (p *Parser) parseIfStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)
	cond := p.parseExpression()
	p.Expect(token.RParen)
	then := p.parseStatement()
	node := p.arena.Allocate(ast.KindIfStmt, start, start)
	p.arena.AppendChild(node, cond)
	p.arena.AppendChild(node, then)
	if p.Match(token.Else) {
		p.arena.AppendChild(node, p.parseStatement())
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseWhileStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)
	cond := p.parseExpression()
	p.Expect(token.RParen)
	body := p.parseStatement()
	node := p.arena.Allocate(ast.KindWhileStmt, start, p.endOfPrevious())
	p.arena.AppendChild(node, cond)
	p.arena.AppendChild(node, body)
	return node
}

func (p *Parser) parseDoStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	body := p.parseStatement()
	p.Expect(token.While)
	p.Expect(token.LParen)
	cond := p.parseExpression()
	p.Expect(token.RParen)
	p.Expect(token.Semicolon)
	node := p.arena.Allocate(ast.KindDoStmt, start, p.endOfPrevious())
	p.arena.AppendChild(node, body)
	p.arena.AppendChild(node, cond)
	return node
}

func (p *Parser) parseForStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)

	if p.isEnhancedForHeader() {
		final := p.Match(token.Final)
		typ := p.parseType()
		name := p.peek().Literal()
		p.Expect(token.Ident)
		p.Expect(token.Colon)
		iterable := p.parseExpression()
		p.Expect(token.RParen)
		body := p.parseStatement()
		node := p.arena.Allocate(ast.KindEnhancedForStmt, start, p.endOfPrevious())
		if final {
			p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindModifiers, start, start, ast.ModifiersAttr{Flags: ast.ModFinal}))
		}
		p.arena.AppendChild(node, typ)
		p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindParameter, start, start, ast.ParameterAttr{Name: name}))
		p.arena.AppendChild(node, iterable)
		p.arena.AppendChild(node, body)
		return node
	}

	node := p.arena.Allocate(ast.KindForStmt, start, start)
	if !p.Check(token.Semicolon) {
		initStart := p.Pos()
		var inits []ast.NodeIndex
		if p.looksLikeLocalVarDecl() {
			inits = append(inits, p.parseLocalVarDeclNoSemi())
		} else {
			for {
				inits = append(inits, p.parseExpression())
				if !p.Match(token.Comma) {
					break
				}
			}
		}
		initNode := p.arena.Allocate(ast.KindForInit, initStart, p.endOfPrevious())
		for _, i := range inits {
			p.arena.AppendChild(initNode, i)
		}
		p.arena.AppendChild(node, initNode)
	}
	p.Expect(token.Semicolon)

	if !p.Check(token.Semicolon) {
		p.arena.AppendChild(node, p.parseExpression())
	}
	p.Expect(token.Semicolon)

	if !p.Check(token.RParen) {
		updateStart := p.Pos()
		var updates []ast.NodeIndex
		for {
			updates = append(updates, p.parseExpression())
			if !p.Match(token.Comma) {
				break
			}
		}
		updateNode := p.arena.Allocate(ast.KindForUpdate, updateStart, p.endOfPrevious())
		for _, u := range updates {
			p.arena.AppendChild(updateNode, u)
		}
		p.arena.AppendChild(node, updateNode)
	}
	p.Expect(token.RParen)
	p.arena.AppendChild(node, p.parseStatement())
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseLocalVarDeclNoSemi() ast.NodeIndex {
	start := p.Pos()
	final := p.Match(token.Final)
	typ := p.parseType()
	node := p.arena.Allocate(ast.KindLocalVarDecl, start, start)
	if final {
		p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindModifiers, start, start, ast.ModifiersAttr{Flags: ast.ModFinal}))
	}
	p.arena.AppendChild(node, typ)
	for {
		declStart := p.Pos()
		name := p.peek().Literal()
		p.Expect(token.Ident)
		decl := p.arena.AllocateWithAttr(ast.KindParameter, declStart, declStart, ast.ParameterAttr{Name: name})
		if p.Match(token.Assign) {
			p.arena.AppendChild(decl, p.parseVariableInitializer())
		}
		p.arena.SetEnd(decl, p.endOfPrevious())
		p.arena.AppendChild(node, decl)
		if !p.Match(token.Comma) {
			break
		}
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

// isEnhancedForHeader peeks past an optional "final Type name" and checks
// for a following ':' to disambiguate "for (T x : xs)" from classic
// "for (T x = ...; ...)".
func (p *Parser) isEnhancedForHeader() bool {
	i := 0
	if p.PeekN(i).Kind == token.Final {
		i++
	}
	if primitiveKinds[p.PeekN(i).Kind] {
		i++
	} else if p.PeekN(i).Kind == token.Ident {
		i++
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
	} else {
		return false
	}
	for p.PeekN(i).Kind == token.LBracket && p.PeekN(i+1).Kind == token.RBracket {
		i += 2
	}
	if p.PeekN(i).Kind != token.Ident {
		return false
	}
	i++
	return p.PeekN(i).Kind == token.Colon
}

func (p *Parser) parseSwitchStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)
	selector := p.parseExpression()
	p.Expect(token.RParen)
	node := p.arena.Allocate(ast.KindSwitchStmt, start, start)
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

func (p *Parser) parseSwitchCase() ast.NodeIndex {
	start := p.Pos()
	node := p.arena.Allocate(ast.KindSwitchCase, start, start)
	for p.Check(token.Case) || p.Check(token.Default) {
		labelStart := p.Pos()
		if p.Match(token.Default) {
			p.arena.AppendChild(node, p.arena.Allocate(ast.KindSwitchLabel, labelStart, p.endOfPrevious()))
		} else {
			p.Advance() // "case"
			label := p.arena.Allocate(ast.KindSwitchLabel, labelStart, labelStart)
			for {
				p.arena.AppendChild(label, p.parseCaseConstant())
				if !p.Match(token.Comma) {
					break
				}
			}
			if p.Check(token.Ident) && p.peek().Literal() == "when" {
				p.Advance()
				guard := p.arena.Allocate(ast.KindGuard, p.Pos(), p.Pos())
				p.arena.AppendChild(guard, p.parseExpression())
				p.arena.AppendChild(label, guard)
			}
			p.arena.SetEnd(label, p.endOfPrevious())
			p.arena.AppendChild(node, label)
		}
		if p.Match(token.Arrow) {
			if p.Check(token.LBrace) {
				p.arena.AppendChild(node, p.parseBlock())
			} else if p.Check(token.Throw) {
				p.arena.AppendChild(node, p.parseThrowStmt())
			} else {
				exprStart := p.Pos()
				expr := p.parseExpression()
				p.Expect(token.Semicolon)
				stmt := p.arena.Allocate(ast.KindExprStmt, exprStart, p.endOfPrevious())
				p.arena.AppendChild(stmt, expr)
				p.arena.AppendChild(node, stmt)
			}
			p.arena.SetEnd(node, p.endOfPrevious())
			return node
		}
		p.Expect(token.Colon)
	}
	for !p.Check(token.Case) && !p.Check(token.Default) && !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseStatement())
		progress()
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseCaseConstant() ast.NodeIndex {
	if p.Check(token.Ident) && (p.PeekN(1).Kind == token.LParen || p.isUpperTypePattern()) {
		return p.parsePattern()
	}
	return p.parseExpression()
}

func (p *Parser) isUpperTypePattern() bool {
	// "Type name" pattern: Ident Ident before ',' '-' '>' or ':'.
	return p.PeekN(1).Kind == token.Ident
}

func (p *Parser) parsePattern() ast.NodeIndex {
	start := p.Pos()
	if p.Check(token.Ident) && p.PeekN(1).Kind == token.LParen {
		typeName := p.peek().Literal()
		p.Advance()
		p.Expect(token.LParen)
		node := p.arena.AllocateWithAttr(ast.KindRecordPattern, start, start, ast.IdentifierAttr{Name: typeName})
		for !p.Check(token.RParen) && !p.Check(token.EOF) {
			progress := p.mustProgress()
			p.arena.AppendChild(node, p.parseCaseConstant())
			p.Match(token.Comma)
			progress()
		}
		p.Expect(token.RParen)
		p.arena.SetEnd(node, p.endOfPrevious())
		return node
	}
	typ := p.parseType()
	name := p.peek().Literal()
	p.Expect(token.Ident)
	node := p.arena.AllocateWithAttr(ast.KindTypePattern, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
	p.arena.AppendChild(node, typ)
	return node
}

func (p *Parser) parseReturnStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	node := p.arena.Allocate(ast.KindReturnStmt, start, start)
	if !p.Check(token.Semicolon) {
		p.arena.AppendChild(node, p.parseExpression())
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseYieldStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance() // "yield"
	node := p.arena.Allocate(ast.KindYieldStmt, start, start)
	p.arena.AppendChild(node, p.parseExpression())
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseBreakStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	node := p.arena.Allocate(ast.KindBreakStmt, start, start)
	if p.Check(token.Ident) {
		label := p.peek().Literal()
		p.Advance()
		p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindIdentifier, start, p.endOfPrevious(), ast.IdentifierAttr{Name: label}))
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseContinueStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	node := p.arena.Allocate(ast.KindContinueStmt, start, start)
	if p.Check(token.Ident) {
		label := p.peek().Literal()
		p.Advance()
		p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindIdentifier, start, p.endOfPrevious(), ast.IdentifierAttr{Name: label}))
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseThrowStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	expr := p.parseExpression()
	p.Expect(token.Semicolon)
	node := p.arena.Allocate(ast.KindThrowStmt, start, p.endOfPrevious())
	p.arena.AppendChild(node, expr)
	return node
}

func (p *Parser) parseSynchronizedStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)
	lock := p.parseExpression()
	p.Expect(token.RParen)
	body := p.parseBlock()
	node := p.arena.Allocate(ast.KindSynchronizedStmt, start, p.endOfPrevious())
	p.arena.AppendChild(node, lock)
	p.arena.AppendChild(node, body)
	return node
}

func (p *Parser) parseAssertStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	node := p.arena.Allocate(ast.KindAssertStmt, start, start)
	p.arena.AppendChild(node, p.parseExpression())
	if p.Match(token.Colon) {
		p.arena.AppendChild(node, p.parseExpression())
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseLabeledStmt() ast.NodeIndex {
	start := p.Pos()
	label := p.peek().Literal()
	p.Advance()
	p.Advance() // ':'
	node := p.arena.AllocateWithAttr(ast.KindLabeledStmt, start, start, ast.IdentifierAttr{Name: label})
	p.arena.AppendChild(node, p.parseStatement())
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseTryStmt() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	node := p.arena.Allocate(ast.KindTryStmt, start, start)

	if p.Match(token.LParen) {
		resStart := p.Pos()
		res := p.arena.Allocate(ast.KindForInit, resStart, resStart) // reuse as a generic resource list container
		for !p.Check(token.RParen) && !p.Check(token.EOF) {
			progress := p.mustProgress()
			p.arena.AppendChild(res, p.parseResource())
			if !p.Match(token.Semicolon) {
				progress()
				break
			}
			progress()
		}
		p.Expect(token.RParen)
		p.arena.SetEnd(res, p.endOfPrevious())
		p.arena.AppendChild(node, res)
	}

	p.arena.AppendChild(node, p.parseBlock())

	for p.Check(token.Catch) {
		p.arena.AppendChild(node, p.parseCatchClause())
	}
	if p.Check(token.Finally) {
		fStart := p.Pos()
		p.Advance()
		fin := p.arena.Allocate(ast.KindFinallyClause, fStart, fStart)
		p.arena.AppendChild(fin, p.parseBlock())
		p.arena.SetEnd(fin, p.endOfPrevious())
		p.arena.AppendChild(node, fin)
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseResource() ast.NodeIndex {
	if p.looksLikeLocalVarDecl() {
		return p.parseLocalVarDeclNoSemi()
	}
	return p.parseExpression()
}

func (p *Parser) parseCatchClause() ast.NodeIndex {
	start := p.Pos()
	p.Advance()
	p.Expect(token.LParen)
	final := p.Match(token.Final)
	node := p.arena.Allocate(ast.KindCatchClause, start, start)
	if final {
		p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindModifiers, start, start, ast.ModifiersAttr{Flags: ast.ModFinal}))
	}
	p.arena.AppendChild(node, p.parseType())
	for p.Match(token.BitOr) {
		p.arena.AppendChild(node, p.parseType())
	}
	name := p.peek().Literal()
	p.Expect(token.Ident)
	p.arena.AppendChild(node, p.arena.AllocateWithAttr(ast.KindParameter, start, start, ast.ParameterAttr{Name: name}))
	p.Expect(token.RParen)
	p.arena.AppendChild(node, p.parseBlock())
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}
