package parser

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/strategy"
	"github.com/dhamidi/javafmt/token"
)

func (p *Parser) parseCompilationUnit() ast.NodeIndex {
	start := p.Pos()
	var children []ast.NodeIndex

	if p.Check(token.At) || p.Check(token.Package) {
		children = append(children, p.parsePackageDecl())
	}

	for p.Check(token.Import) {
		children = append(children, p.parseImportDecl())
	}

	if p.Check(token.Ident) && p.peek().Literal() == "module" {
		children = append(children, p.parseModuleDecl())
	} else {
		for !p.Check(token.EOF) {
			progress := p.mustProgress()
			children = append(children, p.parseTypeDeclOrSemi())
			progress()
		}
	}

	node := p.arena.Allocate(ast.KindCompilationUnit, start, p.endOfPrevious())
	for _, c := range children {
		if c != ast.NoNode {
			p.arena.AppendChild(node, c)
		}
	}
	return node
}

func (p *Parser) parseTypeDeclOrSemi() ast.NodeIndex {
	if p.Match(token.Semicolon) {
		return ast.NoNode
	}
	return p.parseTypeDecl()
}

func (p *Parser) parsePackageDecl() ast.NodeIndex {
	start := p.Pos()
	var annotations []ast.NodeIndex
	for p.Check(token.At) {
		annotations = append(annotations, p.parseAnnotation())
	}
	p.Expect(token.Package)
	name := p.parseQualifiedName()
	p.Expect(token.Semicolon)
	node := p.arena.Allocate(ast.KindPackageDecl, start, p.endOfPrevious())
	for _, a := range annotations {
		p.arena.AppendChild(node, a)
	}
	p.arena.AppendChild(node, name)
	return node
}

func (p *Parser) parseImportDecl() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.Import)
	static := p.Match(token.Static)
	var path string
	for {
		path += p.peek().Literal()
		p.Advance()
		if p.Check(token.Dot) && p.PeekN(1).Kind == token.Star {
			p.Advance()
			p.Advance()
			path += ".*"
			break
		}
		if !p.Match(token.Dot) {
			break
		}
		path += "."
	}
	p.Expect(token.Semicolon)
	onDemand := len(path) >= 2 && path[len(path)-1] == '*'
	return p.arena.AllocateWithAttr(ast.KindImportDecl, start, p.endOfPrevious(), ast.ImportAttr{
		Path: path, Static: static, OnDemand: onDemand,
	})
}

func (p *Parser) parseQualifiedName() ast.NodeIndex {
	start := p.Pos()
	name := p.peek().Literal()
	p.Advance()
	for p.Check(token.Dot) && p.PeekN(1).Kind == token.Ident {
		p.Advance()
		name += "." + p.peek().Literal()
		p.Advance()
	}
	return p.arena.AllocateWithAttr(ast.KindQualifiedName, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
}

func (p *Parser) parseModuleDecl() ast.NodeIndex {
	start := p.Pos()
	p.Advance() // "module" (open modules not modeled separately)
	name := p.parseQualifiedName()
	node := p.arena.Allocate(ast.KindModuleDecl, start, start)
	p.arena.AppendChild(node, name)
	p.Expect(token.LBrace)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseModuleDirective())
		progress()
	}
	p.Expect(token.RBrace)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseModuleDirective() ast.NodeIndex {
	start := p.Pos()
	kw := p.peek().Literal()
	p.Advance()
	var kind ast.NodeKind
	switch kw {
	case "requires":
		kind = ast.KindRequiresDirective
		p.Match(token.Ident) // "transitive" or "static" qualifiers, skipped loosely
	case "exports":
		kind = ast.KindExportsDirective
	case "opens":
		kind = ast.KindOpensDirective
	case "uses":
		kind = ast.KindUsesDirective
	case "provides":
		kind = ast.KindProvidesDirective
	default:
		return p.errorNode("expected module directive", []token.Kind{token.Semicolon})
	}
	name := p.parseQualifiedName()
	node := p.arena.Allocate(kind, start, start)
	p.arena.AppendChild(node, name)
	for p.Check(token.Ident) && (p.peek().Literal() == "to" || p.peek().Literal() == "with") {
		p.Advance()
		for {
			p.arena.AppendChild(node, p.parseQualifiedName())
			if !p.Match(token.Comma) {
				break
			}
		}
	}
	p.Expect(token.Semicolon)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseTypeDecl() ast.NodeIndex {
	start := p.Pos()
	modifiers := p.parseModifiers()

	switch {
	case p.Check(token.Class):
		return p.finishTypeDecl(start, modifiers, ast.KindClassDecl, true)
	case p.Check(token.Interface):
		return p.finishTypeDecl(start, modifiers, ast.KindInterfaceDecl, false)
	case p.Check(token.Enum):
		return p.finishTypeDecl(start, modifiers, ast.KindEnumDecl, false)
	case p.Check(token.At) && p.PeekN(1).Kind == token.Interface:
		p.Advance() // '@'
		return p.finishTypeDecl(start, modifiers, ast.KindAnnotationDecl, false)
	case p.Check(token.Ident) && p.peek().Literal() == "record":
		return p.finishRecordDecl(start, modifiers)
	default:
		return p.errorNode("expected type declaration", []token.Kind{token.RBrace, token.Semicolon})
	}
}

func (p *Parser) finishTypeDecl(start int, modifiers ast.NodeIndex, kind ast.NodeKind, allowExtendsType bool) ast.NodeIndex {
	p.Advance() // class/interface/enum/@interface's "interface"
	name := p.peek().Literal()
	p.Expect(token.Ident)

	node := p.arena.AllocateWithAttr(kind, start, start, ast.TypeDeclAttr{Name: name})
	if modifiers != ast.NoNode {
		p.arena.AppendChild(node, modifiers)
	}

	if p.Check(token.LT) {
		p.arena.AppendChild(node, p.parseTypeParameters())
	}

	if allowExtendsType && p.Check(token.Extends) {
		p.arena.AppendChild(node, p.parseExtendsClause(false))
	}
	if kind == ast.KindInterfaceDecl && p.Check(token.Extends) {
		p.arena.AppendChild(node, p.parseExtendsClause(true))
	}
	if p.Check(token.Implements) {
		p.arena.AppendChild(node, p.parseImplementsClause())
	}
	if strat := p.strategies.FindStrategy(p.version, strategy.PhaseClassModifiers, p); strat != nil {
		p.arena.AppendChild(node, strat.Parse(p))
	}

	if kind == ast.KindEnumDecl {
		p.parseEnumBody(node)
	} else {
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

func (p *Parser) finishRecordDecl(start int, modifiers ast.NodeIndex) ast.NodeIndex {
	p.Advance() // "record"
	name := p.peek().Literal()
	p.Expect(token.Ident)
	node := p.arena.AllocateWithAttr(ast.KindRecordDecl, start, start, ast.TypeDeclAttr{Name: name})
	if modifiers != ast.NoNode {
		p.arena.AppendChild(node, modifiers)
	}
	if p.Check(token.LT) {
		p.arena.AppendChild(node, p.parseTypeParameters())
	}
	p.arena.AppendChild(node, p.parseParameters())
	if p.Check(token.Implements) {
		p.arena.AppendChild(node, p.parseImplementsClause())
	}
	p.Expect(token.LBrace)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseClassMember())
		progress()
	}
	p.Expect(token.RBrace)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseEnumBody(node ast.NodeIndex) {
	p.Expect(token.LBrace)
	for p.Check(token.Ident) || p.Check(token.At) {
		progress := p.mustProgress()
		for p.Check(token.At) {
			p.arena.AppendChild(node, p.parseAnnotation())
		}
		if !p.Check(token.Ident) {
			progress()
			break
		}
		constStart := p.Pos()
		name := p.peek().Literal()
		p.Advance()
		constNode := p.arena.AllocateWithAttr(ast.KindFieldDecl, constStart, constStart, ast.IdentifierAttr{Name: name})
		if p.Check(token.LParen) {
			p.Advance()
			args := p.ParseArguments()
			p.Expect(token.RParen)
			for _, a := range args {
				p.arena.AppendChild(constNode, a)
			}
		}
		if p.Check(token.LBrace) {
			p.arena.AppendChild(constNode, p.parseBlock())
		}
		p.arena.SetEnd(constNode, p.endOfPrevious())
		p.arena.AppendChild(node, constNode)
		if !p.Match(token.Comma) {
			progress()
			break
		}
		progress()
	}
	p.Match(token.Semicolon)
	for !p.Check(token.RBrace) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		p.arena.AppendChild(node, p.parseClassMember())
		progress()
	}
	p.Expect(token.RBrace)
}

func (p *Parser) parseExtendsClause(multi bool) ast.NodeIndex {
	start := p.Pos()
	p.Advance() // "extends"
	node := p.arena.Allocate(ast.KindExtendsClause, start, start)
	p.arena.AppendChild(node, p.parseType())
	for multi && p.Match(token.Comma) {
		p.arena.AppendChild(node, p.parseType())
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseImplementsClause() ast.NodeIndex {
	start := p.Pos()
	p.Advance() // "implements"
	node := p.arena.Allocate(ast.KindImplementsClause, start, start)
	p.arena.AppendChild(node, p.parseType())
	for p.Match(token.Comma) {
		p.arena.AppendChild(node, p.parseType())
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseModifiers() ast.NodeIndex {
	start := p.Pos()
	var flags ast.ModifierFlag
	var annotations []ast.NodeIndex
	found := false
	for {
		switch {
		case p.Check(token.At) && p.PeekN(1).Kind != token.Interface:
			annotations = append(annotations, p.parseAnnotation())
			found = true
			continue
		case p.Match(token.Public):
			flags |= ast.ModPublic
		case p.Match(token.Private):
			flags |= ast.ModPrivate
		case p.Match(token.Protected):
			flags |= ast.ModProtected
		case p.Match(token.Static):
			flags |= ast.ModStatic
		case p.Match(token.Final):
			flags |= ast.ModFinal
		case p.Match(token.Abstract):
			flags |= ast.ModAbstract
		case p.Match(token.Synchronized):
			flags |= ast.ModSynchronized
		case p.Match(token.Native):
			flags |= ast.ModNative
		case p.Match(token.Transient):
			flags |= ast.ModTransient
		case p.Match(token.Volatile):
			flags |= ast.ModVolatile
		case p.Match(token.Strictfp):
			flags |= ast.ModStrictfp
		case p.Check(token.Default) && p.PeekN(1).Kind != token.Colon:
			p.Advance()
			flags |= ast.ModDefault
		case p.Check(token.Ident) && p.peek().Literal() == "sealed":
			p.Advance()
			flags |= ast.ModSealed
		case p.Check(token.Ident) && p.peek().Literal() == "non-sealed":
			p.Advance()
			flags |= ast.ModNonSealed
		default:
			if !found && flags == 0 {
				return ast.NoNode
			}
			node := p.arena.AllocateWithAttr(ast.KindModifiers, start, p.endOfPrevious(), ast.ModifiersAttr{Flags: flags})
			for _, a := range annotations {
				p.arena.AppendChild(node, a)
			}
			return node
		}
		found = true
	}
}

func (p *Parser) parseAnnotation() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.At)
	name := p.parseQualifiedName()
	node := p.arena.Allocate(ast.KindAnnotation, start, start)
	p.arena.AppendChild(node, name)
	if p.Match(token.LParen) {
		for !p.Check(token.RParen) && !p.Check(token.EOF) {
			progress := p.mustProgress()
			p.arena.AppendChild(node, p.parseAnnotationElement())
			p.Match(token.Comma)
			progress()
		}
		p.Expect(token.RParen)
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseAnnotationElement() ast.NodeIndex {
	start := p.Pos()
	if p.Check(token.Ident) && p.PeekN(1).Kind == token.Assign {
		name := p.peek().Literal()
		p.Advance()
		p.Advance()
		value := p.parseExpression()
		node := p.arena.AllocateWithAttr(ast.KindAnnotationElement, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
		p.arena.AppendChild(node, value)
		return node
	}
	value := p.parseExpression()
	node := p.arena.Allocate(ast.KindAnnotationElement, start, p.endOfPrevious())
	p.arena.AppendChild(node, value)
	return node
}

func (p *Parser) parseTypeParameters() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.LT)
	node := p.arena.Allocate(ast.KindTypeParameters, start, start)
	for !p.Check(token.GT) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		tpStart := p.Pos()
		name := p.peek().Literal()
		p.Expect(token.Ident)
		tp := p.arena.AllocateWithAttr(ast.KindTypeParameter, tpStart, tpStart, ast.IdentifierAttr{Name: name})
		if p.Check(token.Extends) {
			p.arena.AppendChild(tp, p.parseExtendsClause(true))
		}
		p.arena.SetEnd(tp, p.endOfPrevious())
		p.arena.AppendChild(node, tp)
		p.Match(token.Comma)
		progress()
	}
	p.Expect(token.GT)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}
