// Package javafmt is the single façade the CLI (or any other caller)
// drives: Parse, Lint, Rewrite and ProcessBatch are thin entry points
// delegating to the parser, rules, rewrite and batch packages
// respectively, grounded on the teacher's codebase.Codebase playing the
// same role for its LSP and CLI layers.
package javafmt

import (
	"context"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/batch"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/parser"
	"github.com/dhamidi/javafmt/rewrite"
	"github.com/dhamidi/javafmt/rules"
	"github.com/dhamidi/javafmt/source"
	"github.com/dhamidi/javafmt/version"
	"github.com/sirupsen/logrus"
)

// ParseResult is what Parse returns: a populated arena plus any
// recoverable syntax errors encountered along the way.
type ParseResult struct {
	Arena  *ast.Arena
	Root   ast.NodeIndex
	Errors []parser.Error
}

// ParseOption adjusts how Parse interprets its input.
type ParseOption func(*parseOptions)

type parseOptions struct {
	version version.Java
}

// WithJavaVersion gates version-specific parse strategies (for example
// JEP 513 flexible constructor bodies) to the given language version.
// The default is version.Default.
func WithJavaVersion(v version.Java) ParseOption {
	return func(o *parseOptions) { o.version = v }
}

// Parse lexes and parses sourceBytes into an AST arena. It never returns
// an error: malformed input becomes ast.KindError nodes and recoverable
// parser.Error diagnostics, matching the parser's "never aborts"
// contract.
func Parse(sourceBytes []byte, opts ...ParseOption) ParseResult {
	o := parseOptions{version: version.Default}
	for _, opt := range opts {
		opt(&o)
	}
	res := parser.New(sourceBytes, parser.WithVersion(o.version)).Parse()
	return ParseResult{Arena: res.Arena, Root: res.Root, Errors: res.Errors}
}

// Lint runs every enabled rule in cfg over the parsed tree rooted at
// root, returning violations ordered by source position then rule ID.
// path is attached to each Violation for multi-file callers; pass "" for
// in-memory-only callers.
func Lint(sourceBytes []byte, path string, arena *ast.Arena, root ast.NodeIndex, cfg *config.Config) []rules.Violation {
	if cfg == nil {
		cfg = config.Default()
	}
	text := source.New(path, sourceBytes)
	return rules.NewEngine(logrus.StandardLogger()).Lint(text, arena, root, cfg)
}

// Rewrite merges every auto-applicable fix attached to violations into
// source, normalizes line endings per cfg.LineEnding, and returns the
// transformed bytes plus how many fixes were applied. If any two fixes
// overlap the whole batch is rejected and source is returned unchanged.
// cfg may be nil, which leaves line endings untouched.
func Rewrite(src []byte, violations []rules.Violation, cfg *config.Config) ([]byte, int) {
	result := rewrite.Apply(src, violations, cfg)
	return result.Source, result.AppliedCount
}

// ProcessBatch runs the full read-parse-lint-rewrite-write pipeline over
// every path in files, scheduling work across a bounded worker pool. See
// batch.Config for concurrency, memory and error-handling knobs.
func ProcessBatch(ctx context.Context, files []string, cfg batch.Config, progress batch.ProgressFunc) batch.BatchResult {
	return batch.NewProcessor(logrus.StandardLogger()).Process(ctx, files, cfg, progress)
}
