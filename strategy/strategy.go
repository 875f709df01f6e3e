// Package strategy lets version-specific grammar productions be
// registered and selected at parse time, instead of being hard-coded into
// a single monolithic switch. It generalizes the kind-dispatch table the
// teacher's pretty-printer used for output into a priority-ordered,
// version-and-phase-aware dispatch table for parsing.
package strategy

import (
	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/token"
	"github.com/dhamidi/javafmt/version"
)

// Phase names the grammar position a strategy can claim.
type Phase int

const (
	PhaseConstructorBody Phase = iota
	PhaseClassModifiers
	PhaseStatement
	PhasePattern
)

// Context is the subset of parser state a strategy needs to decide
// whether it applies and, if selected, to parse. It is implemented by
// *parser.Parser; strategy only depends on this narrow interface to
// avoid an import cycle between strategy and parser.
type Context interface {
	// PeekN returns the token n positions ahead of the cursor (0 is the
	// current token).
	PeekN(n int) token.Token
	Advance() token.Token
	Check(kind token.Kind) bool
	Match(kind token.Kind) bool
	Expect(kind token.Kind) (token.Token, bool)

	// Arena is the arena strategies allocate nodes into.
	Arena() *ast.Arena
	Version() version.Java
	Pos() int

	// Error records a recoverable parse diagnostic at [start, end)
	// without altering the token stream or arena; the strategy remains
	// responsible for resuming parsing itself.
	Error(message string, start, end int)

	// Generic productions a strategy can delegate back to, for the parts
	// of a construct that don't differ between strategies.
	ParseBlock() ast.NodeIndex
	ParseStatement() ast.NodeIndex
	ParseExpression() ast.NodeIndex
	ParseArguments() []ast.NodeIndex
}

// ParseStrategy is a self-contained grammar production that claims
// responsibility for one parsing phase under specific version
// conditions.
type ParseStrategy interface {
	// CanHandle reports whether this strategy applies at the given Java
	// version, phase, and parser context (e.g. by peeking at upcoming
	// tokens).
	CanHandle(v version.Java, phase Phase, ctx Context) bool
	// Parse consumes input from ctx and returns the NodeIndex of the node
	// it produced.
	Parse(ctx Context) ast.NodeIndex
	// Priority breaks ties between multiple strategies that CanHandle the
	// same phase; higher runs first.
	Priority() int32
	// Description names the strategy for diagnostics and logging.
	Description() string
}

// Registry holds every registered strategy and finds the best match for
// a given version and phase.
type Registry struct {
	strategies []ParseStrategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a strategy. FindStrategy prefers the highest priority;
// among matching strategies of equal priority, the one registered first
// wins.
func (r *Registry) Register(s ParseStrategy) {
	r.strategies = append(r.strategies, s)
}

// FindStrategy scans registered strategies for the given phase in
// descending priority order and returns the first whose CanHandle
// matches the given version and context. It returns nil if no strategy
// claims the phase, meaning the parser should fall back to its default
// production for that construct.
func (r *Registry) FindStrategy(v version.Java, phase Phase, ctx Context) ParseStrategy {
	var best ParseStrategy
	var bestPriority int32
	first := true
	for _, s := range r.strategies {
		if !s.CanHandle(v, phase, ctx) {
			continue
		}
		if first || s.Priority() > bestPriority {
			best = s
			bestPriority = s.Priority()
			first = false
		}
	}
	return best
}

// NewDefaultRegistry returns a Registry with every built-in strategy
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(flexibleConstructorBodyStrategy{})
	r.Register(implicitSuperStrategy{})
	r.Register(sealedPermitsStrategy{})
	r.Register(recordPatternStrategy{})
	return r
}
