package strategy

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/token"
	"github.com/dhamidi/javafmt/version"
)

// flexibleConstructorBodyStrategy implements JEP 513 (Java 25): statements
// are allowed before an explicit constructor invocation (super(...) or
// this(...)). It does not check whether those statements reference the
// instance being constructed.
type flexibleConstructorBodyStrategy struct{}

func (flexibleConstructorBodyStrategy) CanHandle(v version.Java, phase Phase, ctx Context) bool {
	return phase == PhaseConstructorBody && v.AtLeast(version.Java25)
}

func (flexibleConstructorBodyStrategy) Priority() int32 { return 15 }

func (flexibleConstructorBodyStrategy) Description() string {
	return "flexible constructor bodies (JEP 513): statements may precede super()/this()"
}

func (flexibleConstructorBodyStrategy) Parse(ctx Context) ast.NodeIndex {
	start := ctx.Pos()
	var stmts []ast.NodeIndex
	for !ctx.Check(token.RBrace) && !ctx.Check(token.EOF) && !isExplicitConstructorInvocation(ctx) {
		stmts = append(stmts, ctx.ParseStatement())
	}
	if isExplicitConstructorInvocation(ctx) {
		stmts = append(stmts, parseExplicitConstructorInvocation(ctx))
	}
	for !ctx.Check(token.RBrace) && !ctx.Check(token.EOF) {
		stmts = append(stmts, ctx.ParseStatement())
	}
	end := ctx.Pos()
	block := ctx.Arena().Allocate(ast.KindBlock, start, end)
	for _, s := range stmts {
		ctx.Arena().AppendChild(block, s)
	}
	return block
}

// implicitSuperStrategy is the pre-JEP-513 fallback: an explicit
// constructor invocation, if present, must be the first statement. A
// statement preceding it is a recoverable ParseError, not a hard failure:
// the invocation still parses and the rest of the body continues.
type implicitSuperStrategy struct{}

func (implicitSuperStrategy) CanHandle(v version.Java, phase Phase, ctx Context) bool {
	return phase == PhaseConstructorBody
}

func (implicitSuperStrategy) Priority() int32 { return 10 }

func (implicitSuperStrategy) Description() string {
	return "classic constructor bodies: super()/this() must be the first statement"
}

func (implicitSuperStrategy) Parse(ctx Context) ast.NodeIndex {
	start := ctx.Pos()
	var stmts []ast.NodeIndex
	sawStatement := false
	if isExplicitConstructorInvocation(ctx) {
		stmts = append(stmts, parseExplicitConstructorInvocation(ctx))
	}
	for !ctx.Check(token.RBrace) && !ctx.Check(token.EOF) {
		if isExplicitConstructorInvocation(ctx) {
			invStart := ctx.Pos()
			inv := parseExplicitConstructorInvocation(ctx)
			if sawStatement {
				ctx.Error("super()/this() must be the first statement in a constructor body", invStart, ctx.Pos())
			}
			stmts = append(stmts, inv)
			continue
		}
		stmts = append(stmts, ctx.ParseStatement())
		sawStatement = true
	}
	end := ctx.Pos()
	block := ctx.Arena().Allocate(ast.KindBlock, start, end)
	for _, s := range stmts {
		ctx.Arena().AppendChild(block, s)
	}
	return block
}

func isExplicitConstructorInvocation(ctx Context) bool {
	if ctx.Check(token.This) && ctx.PeekN(1).Kind == token.LParen {
		return true
	}
	if ctx.Check(token.Super) && ctx.PeekN(1).Kind == token.LParen {
		return true
	}
	// Qualified: expr.super(...)
	if ctx.PeekN(0).Kind == token.Ident {
		for i := 1; ; i++ {
			k := ctx.PeekN(i).Kind
			if k == token.Dot {
				continue
			}
			if k == token.Super && ctx.PeekN(i+1).Kind == token.LParen {
				return true
			}
			break
		}
	}
	return false
}

func parseExplicitConstructorInvocation(ctx Context) ast.NodeIndex {
	start := ctx.Pos()
	// Skip any qualifying expression (expr.) before this/super; the
	// qualifier itself is parsed as a generic expression by callers that
	// need it. Here we consume tokens up to and including this/super.
	for !ctx.Check(token.This) && !ctx.Check(token.Super) {
		ctx.Advance()
	}
	ctx.Advance() // this / super
	ctx.Expect(token.LParen)
	args := ctx.ParseArguments()
	ctx.Expect(token.RParen)
	ctx.Match(token.Semicolon)
	end := ctx.Pos()
	node := ctx.Arena().Allocate(ast.KindExplicitConstructorInvocation, start, end)
	for _, a := range args {
		ctx.Arena().AppendChild(node, a)
	}
	return node
}

// sealedPermitsStrategy parses the `sealed ... permits A, B` clause
// introduced in Java 17.
type sealedPermitsStrategy struct{}

func (sealedPermitsStrategy) CanHandle(v version.Java, phase Phase, ctx Context) bool {
	return phase == PhaseClassModifiers && v.AtLeast(version.Java17) && ctx.Check(token.Ident) && ctx.PeekN(0).Literal() == "permits"
}

func (sealedPermitsStrategy) Priority() int32 { return 15 }

func (sealedPermitsStrategy) Description() string {
	return "sealed type permits clause (JEP 409)"
}

func (sealedPermitsStrategy) Parse(ctx Context) ast.NodeIndex {
	start := ctx.Pos()
	ctx.Advance() // "permits"
	node := ctx.Arena().Allocate(ast.KindPermitsClause, start, start)
	for {
		identStart := ctx.Pos()
		name := ctx.PeekN(0).Literal()
		ctx.Advance()
		end := ctx.Pos()
		child := ctx.Arena().AllocateWithAttr(ast.KindIdentifier, identStart, end, ast.IdentifierAttr{Name: name})
		ctx.Arena().AppendChild(node, child)
		if !ctx.Match(token.Comma) {
			break
		}
	}
	ctx.Arena().SetEnd(node, ctx.Pos())
	return node
}

// recordPatternStrategy parses deconstruction patterns introduced by
// JEP 440/441 in switch labels and instanceof: Type(Type a, Type b).
type recordPatternStrategy struct{}

func (recordPatternStrategy) CanHandle(v version.Java, phase Phase, ctx Context) bool {
	if phase != PhasePattern || !v.AtLeast(version.Java21) {
		return false
	}
	// Heuristic: Identifier followed eventually by '(' before the next
	// statement boundary signals a deconstruction pattern rather than a
	// plain type pattern ("Type name").
	return ctx.Check(token.Ident) && ctx.PeekN(1).Kind == token.LParen
}

func (recordPatternStrategy) Priority() int32 { return 15 }

func (recordPatternStrategy) Description() string {
	return "record deconstruction patterns (JEP 440/441)"
}

func (recordPatternStrategy) Parse(ctx Context) ast.NodeIndex {
	start := ctx.Pos()
	typeName := ctx.PeekN(0).Literal()
	ctx.Advance()
	ctx.Expect(token.LParen)
	node := ctx.Arena().AllocateWithAttr(ast.KindRecordPattern, start, start, ast.IdentifierAttr{Name: typeName})
	for !ctx.Check(token.RParen) {
		var component ast.NodeIndex
		if ctx.Check(token.Ident) && ctx.PeekN(1).Kind == token.LParen {
			component = recordPatternStrategy{}.Parse(ctx)
		} else {
			componentStart := ctx.Pos()
			ctx.Advance() // type
			name := ctx.PeekN(0).Literal()
			ctx.Advance() // binding name
			component = ctx.Arena().AllocateWithAttr(ast.KindTypePattern, componentStart, ctx.Pos(), ast.IdentifierAttr{Name: name})
		}
		ctx.Arena().AppendChild(node, component)
		if !ctx.Match(token.Comma) {
			break
		}
	}
	ctx.Expect(token.RParen)
	ctx.Arena().SetEnd(node, ctx.Pos())
	return node
}
