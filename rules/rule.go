// Package rules implements the formatter's violation-detection layer: a
// Rule visits nodes in a parsed arena and reports Violation values,
// optionally carrying a FixStrategy the rewrite package can apply
// automatically.
package rules

import (
	"fmt"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/source"
)

// FixStrategy describes a single textual edit that resolves a Violation:
// replace the byte range [Start, End) with Replacement. AutoApplicable
// gates whether rewrite.Apply may apply it without user confirmation.
type FixStrategy struct {
	Start          int
	End            int
	Replacement    string
	AutoApplicable bool
	Description    string
}

// Violation is one reported formatting issue.
type Violation struct {
	RuleID   string
	Severity string
	Message  string
	File     string
	Line     int
	Column   int
	Start    int
	End      int
	Fixes    []FixStrategy
}

// Rule is a single formatting check. Rules are stateless across files:
// all per-file state lives in the arguments to Visit.
type Rule interface {
	// ID names the rule, used as the config key and Violation.RuleID.
	ID() string
	// Describe returns a short human-readable description, used by
	// documentation/listing commands.
	Describe() string
	// Visit inspects node (and, at the rule's discretion, its
	// descendants it owns the traversal for) and returns any violations
	// found. The engine calls Visit once per node in the arena for every
	// rule registered against that node's kind.
	Visit(text *source.Text, arena *ast.Arena, node ast.NodeIndex, cfg *config.Config) []Violation
	// DefaultConfig returns the rule's own default RuleConfig.Options,
	// merged in when a loaded config omits them. Rules with no
	// rule-specific options return nil.
	DefaultConfig() map[string]interface{}
	// ValidateConfig rejects a RuleConfig.Options value the rule cannot
	// act on. Called once per rule at config-load time, not per file.
	ValidateConfig(options map[string]interface{}) error
}

// noOptions is embedded by rules that take no rule-specific configuration:
// DefaultConfig returns nil and ValidateConfig rejects any stray keys.
type noOptions struct{}

func (noOptions) DefaultConfig() map[string]interface{} { return nil }

func (noOptions) ValidateConfig(options map[string]interface{}) error {
	if len(options) > 0 {
		for k := range options {
			return fmt.Errorf("unknown option %q", k)
		}
	}
	return nil
}

// RuleError wraps a panic recovered from a misbehaving Rule, isolating
// one bad rule from the rest of the engine.
type RuleError struct {
	RuleID string
	Node   ast.NodeIndex
	Cause  any
}

func (e *RuleError) Error() string {
	return "rule " + e.RuleID + " panicked"
}
