package parser

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/token"
)

var primitiveKinds = map[token.Kind]bool{
	token.Boolean: true, token.Byte: true, token.Char: true, token.Short: true,
	token.Int: true, token.Long: true, token.Float: true, token.Double: true,
	token.Void: true,
}

// parseType parses a (possibly array, possibly generic, possibly
// wildcard) type reference.
func (p *Parser) parseType() ast.NodeIndex {
	start := p.Pos()
	var base ast.NodeIndex

	switch {
	case primitiveKinds[p.peek().Kind]:
		name := p.peek().Literal()
		p.Advance()
		base = p.arena.AllocateWithAttr(ast.KindType, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
	case p.Check(token.Ident) && p.peek().Literal() == "var":
		p.Advance()
		base = p.arena.AllocateWithAttr(ast.KindType, start, p.endOfPrevious(), ast.IdentifierAttr{Name: "var"})
	case p.Check(token.Question):
		base = p.parseWildcard()
	default:
		base = p.parseClassOrInterfaceType(start)
	}

	for p.Check(token.LBracket) && p.PeekN(1).Kind == token.RBracket {
		p.Advance()
		p.Advance()
		arr := p.arena.Allocate(ast.KindArrayType, start, p.endOfPrevious())
		p.arena.AppendChild(arr, base)
		base = arr
	}
	return base
}

func (p *Parser) parseWildcard() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.Question)
	node := p.arena.Allocate(ast.KindWildcard, start, start)
	if p.Match(token.Extends) {
		p.arena.AppendChild(node, p.parseType())
	} else if p.Match(token.Super) {
		p.arena.AppendChild(node, p.parseType())
	}
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}

func (p *Parser) parseClassOrInterfaceType(start int) ast.NodeIndex {
	name := p.peek().Literal()
	p.Expect(token.Ident)
	for p.Check(token.Dot) && p.PeekN(1).Kind == token.Ident {
		p.Advance()
		name += "." + p.peek().Literal()
		p.Advance()
	}

	var typeArgs ast.NodeIndex
	if p.Check(token.LT) && p.looksLikeTypeArguments() {
		typeArgs = p.parseTypeArguments()
	}

	if typeArgs == ast.NoNode {
		return p.arena.AllocateWithAttr(ast.KindType, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
	}
	base := p.arena.AllocateWithAttr(ast.KindType, start, p.endOfPrevious(), ast.IdentifierAttr{Name: name})
	node := p.arena.Allocate(ast.KindParameterizedType, start, p.endOfPrevious())
	p.arena.AppendChild(node, base)
	p.arena.AppendChild(node, typeArgs)
	return node
}

// looksLikeTypeArguments disambiguates "a < b" (comparison) from
// "Type<Arg>" by scanning ahead for a matching '>' before a statement
// boundary, without committing the cursor.
func (p *Parser) looksLikeTypeArguments() bool {
	depth := 0
	for i := 0; ; i++ {
		tok := p.PeekN(i)
		switch tok.Kind {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				return true
			}
		case token.Shr:
			depth -= 2
			if depth <= 0 {
				return true
			}
		case token.Ident, token.Dot, token.Comma, token.Question, token.Extends, token.Super, token.LBracket, token.RBracket:
			continue
		default:
			if primitiveKinds[tok.Kind] {
				continue
			}
			return false
		}
	}
}

func (p *Parser) parseTypeArguments() ast.NodeIndex {
	start := p.Pos()
	p.Expect(token.LT)
	node := p.arena.Allocate(ast.KindTypeArguments, start, start)
	for !p.Check(token.GT) && !p.Check(token.EOF) {
		progress := p.mustProgress()
		argStart := p.Pos()
		arg := p.arena.Allocate(ast.KindTypeArgument, argStart, argStart)
		p.arena.AppendChild(arg, p.parseType())
		p.arena.SetEnd(arg, p.endOfPrevious())
		p.arena.AppendChild(node, arg)
		p.Match(token.Comma)
		progress()
	}
	p.Expect(token.GT)
	p.arena.SetEnd(node, p.endOfPrevious())
	return node
}
