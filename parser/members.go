package parser

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/strategy"
	"github.com/dhamidi/javafmt/token"
)

func (p *Parser) parseClassMember() ast.NodeIndex {
	start := p.Pos()

	if p.Check(token.Semicolon) {
		p.Advance()
		return ast.NoNode
	}

	if p.Check(token.LBrace) {
		return p.parseBlock() // static or instance initializer
	}

	modifiers := p.parseModifiers()

	switch {
	case p.Check(token.Class), p.Check(token.Interface), p.Check(token.Enum),
		p.Check(token.At) && p.PeekN(1).Kind == token.Interface,
		p.Check(token.Ident) && p.peek().Literal() == "record" && p.PeekN(1).Kind == token.Ident:
		return p.reparseTypeDecl(start, modifiers)

	case p.Check(token.LT):
		// Generic method or constructor.
		typeParams := p.parseTypeParameters()
		return p.finishMethodOrConstructor(start, modifiers, typeParams)

	case p.Check(token.Ident) && p.PeekN(1).Kind == token.LParen:
		// Constructor: Name(...)
		return p.finishConstructor(start, modifiers, ast.NoNode)

	case p.isCompactConstructor():
		return p.finishCompactConstructor(start, modifiers)

	default:
		return p.finishFieldOrMethod(start, modifiers)
	}
}

func (p *Parser) isCompactConstructor() bool {
	return p.Check(token.Ident) && p.PeekN(1).Kind == token.LBrace
}

// reparseTypeDecl re-enters the type-declaration grammar for a nested
// type, given modifiers already consumed.
func (p *Parser) reparseTypeDecl(start int, modifiers ast.NodeIndex) ast.NodeIndex {
	switch {
	case p.Check(token.Class):
		return p.finishTypeDecl(start, modifiers, ast.KindClassDecl, true)
	case p.Check(token.Interface):
		return p.finishTypeDecl(start, modifiers, ast.KindInterfaceDecl, false)
	case p.Check(token.Enum):
		return p.finishTypeDecl(start, modifiers, ast.KindEnumDecl, false)
	case p.Check(token.At):
		p.Advance()
		return p.finishTypeDecl(start, modifiers, ast.KindAnnotationDecl, false)
	default:
		return p.finishRecordDecl(start, modifiers)
	}
}

func (p *Parser) finishMethodOrConstructor(start int, modifiers, typeParams ast.NodeIndex) ast.NodeIndex {
	if p.Check(token.Ident) && p.PeekN(1).Kind == token.LParen {
		return p.finishConstructor(start, modifiers, typeParams)
	}
	returnType := p.parseType()
	name := p.peek().Literal()
	p.Expect(token.Ident)
	node := p.arena.AllocateWithAttr(ast.KindMethodDecl, start, start, ast.IdentifierAttr{Name: name})
	if modifiers != ast.NoNode {
		p.arena.AppendChild(node, modifiers)
	}
	if typeParams != ast.NoNode {
		p.arena.AppendChild(node, typeParams)
	}
	p.arena.AppendChild(node, returnType)
	p.arena.AppendChild(node, p.parseParameters())
	p.finishMethodTail(node)
	return node
}

func (p *Parser) finishFieldOrMethod(start int, modifiers ast.NodeIndex) ast.NodeIndex {
	typ := p.parseType()
	name := p.peek().Literal()
	p.Expect(token.Ident)

	if p.Check(token.LParen) {
		// "void name(...)" style method (return type already consumed).
		node := p.arena.AllocateWithAttr(ast.KindMethodDecl, start, start, ast.IdentifierAttr{Name: name})
		if modifiers != ast.NoNode {
			p.arena.AppendChild(node, modifiers)
		}
		p.arena.AppendChild(node, typ)
		p.arena.AppendChild(node, p.parseParameters())
		p.finishMethodTail(node)
		return node
	}

	node := p.arena.AllocateWithAttr(ast.KindFieldDecl, start, start, ast.IdentifierAttr{Name: name})
	if modifiers != ast.NoNode {
		p.arena.AppendChild(node, modifiers)
	}
	p.arena.AppendChild(node, typ)
	if p.Match(token.Assign) {
		p.arena.AppendChild(node, p.parseVariableInitializer())
	}
	for p.Match(token.Comma) {
		p.Expect(token.Ident)
		if p.Match(token.Assign) {
			p.arena.AppendChild(node, p.parseVariableInitializer())
		}
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) finishMethodTail(node ast.NodeIndex) {
	if p.Check(token.LBracket) {
		// legacy C-style array return: int foo()[]
		for p.Match(token.LBracket) {
			p.Expect(token.RBracket)
		}
	}
	if p.Check(token.Throws) {
		p.arena.AppendChild(node, p.parseThrowsList())
	}
	if p.Check(token.LBrace) {
		p.arena.AppendChild(node, p.parseBlock())
	} else {
		p.Expect(token.Semicolon) // abstract/interface method, no body
	}
	p.arena.SetEnd(node, p.endOfPrevious())
}

func (p *Parser) finishConstructor(start int, modifiers, typeParams ast.NodeIndex) ast.NodeIndex {
	p.Advance() // constructor name
	node := p.arena.Allocate(ast.KindConstructorDecl, start, start)
	if modifiers != ast.NoNode {
		p.arena.AppendChild(node, modifiers)
	}
	if typeParams != ast.NoNode {
		p.arena.AppendChild(node, typeParams)
	}
	p.arena.AppendChild(node, p.parseParameters())
	if p.Check(token.Throws) {
		p.arena.AppendChild(node, p.parseThrowsList())
	}
	p.arena.AppendChild(node, p.parseConstructorBody())
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) finishCompactConstructor(start int, modifiers ast.NodeIndex) ast.NodeIndex {
	p.Advance() // constructor name
	node := p.arena.Allocate(ast.KindCompactConstructorDecl, start, start)
	if modifiers != ast.NoNode {
		p.arena.AppendChild(node, modifiers)
	}
	p.arena.AppendChild(node, p.parseBlock())
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseConstructorBody() ast.NodeIndex {
	p.Expect(token.LBrace)
	strat := p.strategies.FindStrategy(p.version, strategy.PhaseConstructorBody, p)
	var body ast.NodeIndex
	if strat != nil {
		body = strat.Parse(p)
	} else {
		body = p.parseStatementsUntilBrace()
	}
	p.Expect(token.RBrace)
	p.arena.SetEnd(body, p.endOfPrevious())
	return body
}

func (p *Parser) parseStatementsUntilBrace() ast.NodeIndex {
	start := p.Pos()
	node := p.arena.Allocate(ast.KindBlock, start, start)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseStatement())
		progress()
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseThrowsList() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.Throws)
	node := p.arena.Allocate(ast.KindThrowsList, start, start)
	p.arena.AppendChild(node, p.parseType())
	for p.Match(token.Comma) {
		p.arena.AppendChild(node, p.parseType())
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseParameters() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.LParen)
	node := p.arena.Allocate(ast.KindParameters, start, start)
	for !p.Check(token.RParen) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseParameter())
		p.Match(token.Comma)
		progress()
	}
	p.Expect(token.RParen)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseParameter() ast.NodeIndex {
	start := p.Pos()
	final := p.Match(token.Final)
	for p.Check(token.At) {
		p.parseAnnotation()
	}
	typ := p.parseType()
	varargs := p.Match(token.Ellipsis)

	if p.Check(token.This) {
		p.Advance()
		node := p.arena.AllocateWithAttr(ast.KindReceiverParameter, start, p.endOfPrevious(), ast.ParameterAttr{Receiver: true})
		p.arena.AppendChild(node, typ)
		return node
	}

	name := p.peek().Literal()
	p.Expect(token.Ident)
	for p.Match(token.LBracket) {
		p.Expect(token.RBracket)
	}
	node := p.arena.AllocateWithAttr(ast.KindParameter, start, p.endOfPrevious(), ast.ParameterAttr{
		Name: name, Final: final, Varargs: varargs,
	})
	p.arena.AppendChild(node, typ)
	return node
}

func (p *Parser) parseVariableInitializer() ast.NodeIndex {
	if p.Check(token.LBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.LBrace)
	node := p.arena.Allocate(ast.KindArrayInit, start, start)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseVariableInitializer())
		if !p.Match(token.Comma) {
			progress()
			break
		}
		progress()
	}
	p.Expect(token.RBrace)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}
