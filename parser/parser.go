// Package parser implements a hand-written recursive-descent parser for
// Java source, producing an ast.Arena. It never panics on malformed
// input: unparseable spans become ast.KindError nodes and parsing resumes
// after resynchronizing on a recovery token, so a single syntax error
// does not abort the whole file.
package parser

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/lexer"
	"github.com/dhamidi/javafmt/strategy"
	"github.com/dhamidi/javafmt/token"
	"github.com/dhamidi/javafmt/version"
)

// Option configures a Parser before parsing starts.
type Option func(*Parser)

// WithVersion sets the Java language version used to gate
// version-specific strategies. The default is version.Default.
func WithVersion(v version.Java) Option {
	return func(p *Parser) { p.version = v }
}

// WithStrategies overrides the strategy registry consulted during
// parsing. The default is strategy.NewDefaultRegistry().
func WithStrategies(r *strategy.Registry) Option {
	return func(p *Parser) { p.strategies = r }
}

type parseFunc func(*Parser) ast.NodeIndex

// Error describes one recoverable or terminal parse failure.
type Error struct {
	Message     string
	Start       int
	End         int
	Recoverable bool
}

// Result is the outcome of a parse: a complete arena plus any errors
// encountered along the way. Errors does not imply failure: the arena is
// always populated, with ast.KindError nodes marking the spans that could
// not be parsed.
type Result struct {
	Arena *ast.Arena
	Root  ast.NodeIndex
	Errors []Error
}

// Parser holds all state for one parse: the token stream, cursor, arena
// under construction, and the registry of version-gated strategies.
type Parser struct {
	src        []byte
	tokens     []token.Token
	pos        int
	arena      *ast.Arena
	version    version.Java
	strategies *strategy.Registry
	entry      parseFunc
	errors     []Error
}

// New returns a Parser over src ready to parse a full compilation unit.
func New(src []byte, opts ...Option) *Parser {
	p := &Parser{
		src:        src,
		version:    version.Default,
		strategies: strategy.NewDefaultRegistry(),
		entry:      (*Parser).parseCompilationUnit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewExpression returns a Parser whose entry point parses a single
// expression, used by tests and REPL-like tools that don't have a full
// compilation unit.
func NewExpression(src []byte, opts ...Option) *Parser {
	p := New(src, opts...)
	p.entry = (*Parser).parseExpression
	return p
}

// Parse tokenizes src and runs the parser's entry production to
// completion.
func (p *Parser) Parse() *Result {
	p.arena = ast.NewArena()
	p.tokenize()
	root := p.entry(p)
	return &Result{Arena: p.arena, Root: root, Errors: p.errors}
}

func (p *Parser) tokenize() {
	for _, tok := range lexer.Tokenize(p.src) {
		if tok.Kind.IsTrivia() {
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
}

// --- cursor helpers, grounded on the teacher's peek/advance/expect idiom ---

func (p *Parser) peek() token.Token {
	return p.PeekN(0)
}

// PeekN returns the token n positions ahead of the cursor. It implements
// strategy.Context.
func (p *Parser) PeekN(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

// Advance consumes and returns the current token. It implements
// strategy.Context.
func (p *Parser) Advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// Check reports whether the current token has the given kind. It
// implements strategy.Context.
func (p *Parser) Check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// Match advances and returns true if the current token has the given
// kind, otherwise leaves the cursor untouched. It implements
// strategy.Context.
func (p *Parser) Match(kind token.Kind) bool {
	if p.Check(kind) {
		p.Advance()
		return true
	}
	return false
}

// Expect consumes the current token if it has the given kind. It
// implements strategy.Context.
func (p *Parser) Expect(kind token.Kind) (token.Token, bool) {
	if p.Check(kind) {
		return p.Advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.Check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	if p.Check(token.Ident) {
		return true
	}
	return false
}

// mustProgress returns a closure that, called at the bottom of a loop
// body, reports whether the cursor moved since the matching call; if not
// it force-advances one token so the loop can't spin forever on
// unparseable input.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.Check(token.EOF) {
				p.Advance()
			}
			return false
		}
		return true
	}
}

// Pos returns the current byte offset (the start of the current token,
// or the end of input at EOF). It implements strategy.Context.
func (p *Parser) Pos() int {
	return p.peek().Start
}

func (p *Parser) endOfPrevious() int {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1].End()
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].End()
	}
	return 0
}

// Arena returns the arena under construction. It implements
// strategy.Context.
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// Version returns the Java language version this parse targets. It
// implements strategy.Context.
func (p *Parser) Version() version.Java {
	return p.version
}

// Error records a recoverable parse diagnostic without touching the
// token stream or arena. It implements strategy.Context, letting a
// ParseStrategy report a violation (e.g. a misplaced super()/this() call)
// while continuing to parse the rest of the construct itself.
func (p *Parser) Error(message string, start, end int) {
	p.errors = append(p.errors, Error{
		Message:     message,
		Start:       start,
		End:         end,
		Recoverable: true,
	})
}

func (p *Parser) errorNode(msg string, recoverTo []token.Kind) ast.NodeIndex {
	tok := p.peek()
	p.errors = append(p.errors, Error{
		Message:     msg,
		Start:       tok.Start,
		End:         tok.End(),
		Recoverable: tok.Kind != token.EOF,
	})
	node := p.arena.AllocateWithAttr(ast.KindError, tok.Start, tok.End(), ast.ErrorAttr{
		Message:     msg,
		Recoverable: tok.Kind != token.EOF,
	})
	p.recoverTo(recoverTo)
	return node
}

func (p *Parser) recoverTo(kinds []token.Kind) {
	if !p.Check(token.EOF) {
		p.Advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.Check(token.EOF) {
		if p.matchAny(kinds...) {
			return
		}
		p.Advance()
	}
}
