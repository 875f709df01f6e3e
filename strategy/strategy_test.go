package strategy

import (
	"testing"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/token"
	"github.com/dhamidi/javafmt/version"
)

// fakeContext is a minimal Context used to test registry selection logic
// without a real parser.
type fakeContext struct {
	toks []token.Token
	pos  int
	a    *ast.Arena
	v    version.Java
}

func (f *fakeContext) PeekN(n int) token.Token {
	idx := f.pos + n
	if idx >= len(f.toks) {
		return token.Token{Kind: token.EOF}
	}
	return f.toks[idx]
}
func (f *fakeContext) Advance() token.Token {
	t := f.PeekN(0)
	f.pos++
	return t
}
func (f *fakeContext) Check(kind token.Kind) bool { return f.PeekN(0).Kind == kind }
func (f *fakeContext) Match(kind token.Kind) bool {
	if f.Check(kind) {
		f.Advance()
		return true
	}
	return false
}
func (f *fakeContext) Expect(kind token.Kind) (token.Token, bool) {
	if f.Check(kind) {
		return f.Advance(), true
	}
	return token.Token{}, false
}
func (f *fakeContext) Arena() *ast.Arena      { return f.a }
func (f *fakeContext) Version() version.Java  { return f.v }
func (f *fakeContext) Pos() int               { return f.pos }
func (f *fakeContext) ParseBlock() ast.NodeIndex      { return ast.NoNode }
func (f *fakeContext) ParseStatement() ast.NodeIndex  { return ast.NoNode }
func (f *fakeContext) ParseExpression() ast.NodeIndex { return ast.NoNode }
func (f *fakeContext) ParseArguments() []ast.NodeIndex { return nil }
func (f *fakeContext) Error(message string, start, end int) {}

func ident(lit string) token.Token {
	return token.Token{Kind: token.Lookup(lit), Text: []byte(lit)}
}

func TestRegistryFindStrategyVersionGating(t *testing.T) {
	r := NewDefaultRegistry()
	ctx := &fakeContext{a: ast.NewArena(), v: version.Java21, toks: []token.Token{
		{Kind: token.Super}, {Kind: token.LParen}, {Kind: token.RParen},
	}}

	got := r.FindStrategy(version.Java21, PhaseConstructorBody, ctx)
	if got == nil {
		t.Fatal("FindStrategy returned nil, want implicitSuperStrategy")
	}
	if _, ok := got.(implicitSuperStrategy); !ok {
		t.Errorf("FindStrategy = %T, want implicitSuperStrategy (Java 25 not reached)", got)
	}
}

func TestRegistryFindStrategyPrefersHigherPriorityWhenBothMatch(t *testing.T) {
	r := NewDefaultRegistry()
	ctx := &fakeContext{a: ast.NewArena(), v: version.Java25, toks: []token.Token{
		{Kind: token.Super}, {Kind: token.LParen}, {Kind: token.RParen},
	}}

	got := r.FindStrategy(version.Java25, PhaseConstructorBody, ctx)
	if _, ok := got.(flexibleConstructorBodyStrategy); !ok {
		t.Errorf("FindStrategy = %T, want flexibleConstructorBodyStrategy at Java 25", got)
	}
}

func TestRegistryFindStrategyNoMatchReturnsNil(t *testing.T) {
	r := NewDefaultRegistry()
	ctx := &fakeContext{a: ast.NewArena(), v: version.Java21, toks: []token.Token{
		{Kind: token.Ident, Text: []byte("x")},
	}}
	got := r.FindStrategy(version.Java21, PhaseClassModifiers, ctx)
	if got != nil {
		t.Errorf("FindStrategy = %T, want nil (no permits clause present)", got)
	}
}

func TestSealedPermitsStrategyParses(t *testing.T) {
	ctx := &fakeContext{a: ast.NewArena(), v: version.Java21, toks: []token.Token{
		ident("permits"), ident("Circle"), {Kind: token.Comma}, ident("Square"),
	}}
	s := sealedPermitsStrategy{}
	if !s.CanHandle(version.Java21, PhaseClassModifiers, ctx) {
		t.Fatal("CanHandle = false, want true")
	}
	node := s.Parse(ctx)
	if ctx.Arena().Kind(node) != ast.KindPermitsClause {
		t.Fatalf("Parse() kind = %v, want KindPermitsClause", ctx.Arena().Kind(node))
	}
	children := ctx.Arena().Children(node)
	if len(children) != 2 {
		t.Fatalf("Parse() produced %d children, want 2", len(children))
	}
}

func TestRecordPatternStrategyCanHandle(t *testing.T) {
	ctx := &fakeContext{a: ast.NewArena(), v: version.Java21, toks: []token.Token{
		ident("Point"), {Kind: token.LParen},
	}}
	s := recordPatternStrategy{}
	if !s.CanHandle(version.Java21, PhasePattern, ctx) {
		t.Errorf("CanHandle = false, want true for Type(")
	}

	plain := &fakeContext{a: ast.NewArena(), v: version.Java21, toks: []token.Token{
		ident("Point"), ident("p"),
	}}
	if s.CanHandle(version.Java21, PhasePattern, plain) {
		t.Errorf("CanHandle = true, want false for plain type pattern")
	}
}
