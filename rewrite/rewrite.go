// Package rewrite merges the FixStrategy values a rules.Engine produces
// into a single transformed source text, mirroring the teacher's
// pretty-printer's incremental byte accumulation (format/line.go's
// io.Writer-based builder) but copying verbatim source spans instead of
// re-deriving formatting.
package rewrite

import (
	"bytes"
	"sort"
	"strings"

	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/rules"
)

// Result is the outcome of merging and applying a batch of fixes.
type Result struct {
	Source       []byte
	AppliedCount int
	Rejected     bool
}

// Apply merges every auto-applicable fix attached to violations into src,
// normalizes line endings to cfg.LineEnding, and returns the transformed
// text. Apart from the same-range LineLength case resolved by
// consolidateLineLengthConflicts, if any two fixes overlap the whole
// batch is rejected and src is
// returned unchanged (Result.Rejected is true): the rewriter never applies
// a partial, inconsistent set of edits. cfg may be nil, in which case line
// endings are left untouched (byte-identical-when-no-fixes still holds).
func Apply(src []byte, violations []rules.Violation, cfg *config.Config) Result {
	fixes := collectAutoFixes(violations)
	if len(fixes) == 0 {
		return Result{Source: normalizeLineEndings(src, cfg)}
	}

	fixes = consolidateLineLengthConflicts(fixes)

	sort.Slice(fixes, func(i, j int) bool {
		return fixes[i].Start < fixes[j].Start
	})

	for i := 1; i < len(fixes); i++ {
		if fixes[i-1].End > fixes[i].Start {
			return Result{Source: src, Rejected: true}
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(src))
	cursor := 0
	for _, f := range fixes {
		buf.Write(src[cursor:f.Start])
		buf.WriteString(f.Replacement)
		cursor = f.End
	}
	buf.Write(src[cursor:])

	return Result{Source: normalizeLineEndings(buf.Bytes(), cfg), AppliedCount: len(fixes)}
}

// normalizeLineEndings rewrites every line terminator in src to
// cfg.LineEnding's terminator. A nil cfg, or a cfg requesting LF (the
// in-memory representation every other stage assumes), is a no-op so
// callers who never cared about line endings see src unchanged.
func normalizeLineEndings(src []byte, cfg *config.Config) []byte {
	if cfg == nil {
		return src
	}
	terminator := cfg.LineEnding.Terminator()
	if terminator == "\n" {
		return src
	}
	normalized := strings.ReplaceAll(string(src), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.ReplaceAll(normalized, "\n", terminator)
	return []byte(normalized)
}

type fix struct {
	Start, End  int
	Replacement string
	ruleID      string
}

func collectAutoFixes(violations []rules.Violation) []fix {
	var out []fix
	for _, v := range violations {
		for _, f := range v.Fixes {
			if !f.AutoApplicable {
				continue
			}
			out = append(out, fix{Start: f.Start, End: f.End, Replacement: f.Replacement, ruleID: v.RuleID})
		}
	}
	return out
}

// consolidateLineLengthConflicts implements spec step 5: when a
// LineLength fix and another auto-fix both touch the exact same byte
// range, the LineLength fix (which already wraps the line at a word
// boundary) wins outright rather than being rejected as an overlap,
// since re-running line-length wrapping after the other fix already
// edited the same span would double-apply the split. A same-range group
// with no LineLength fix in it is passed through whole, so the general
// overlap check in Apply decides it.
func consolidateLineLengthConflicts(fixes []fix) []fix {
	byRange := make(map[[2]int][]fix, len(fixes))
	var order [][2]int
	for _, f := range fixes {
		key := [2]int{f.Start, f.End}
		if _, ok := byRange[key]; !ok {
			order = append(order, key)
		}
		byRange[key] = append(byRange[key], f)
	}

	out := make([]fix, 0, len(fixes))
	for _, key := range order {
		group := byRange[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, pickConsolidated(group)...)
	}
	return out
}

func pickConsolidated(group []fix) []fix {
	for _, f := range group {
		if f.ruleID == "LineLength" {
			return []fix{f}
		}
	}
	return group
}
