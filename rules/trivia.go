package rules

import (
	"strings"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/source"
)

// TrailingWhitespaceRule flags lines with trailing space or tab
// characters, with an always-safe auto-fix that deletes them, when
// config.TrimTrailingWhitespace is set.
type TrailingWhitespaceRule struct{ noOptions }

func (*TrailingWhitespaceRule) ID() string { return "TrailingWhitespace" }

func (*TrailingWhitespaceRule) Describe() string {
	return "flags lines with trailing whitespace"
}

func (r *TrailingWhitespaceRule) Visit(text *source.Text, arena *ast.Arena, node ast.NodeIndex, cfg *config.Config) []Violation {
	if !cfg.TrimTrailingWhitespace {
		return nil
	}
	var out []Violation
	for i := 1; i <= text.LineCount(); i++ {
		line := text.Line(i)
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == line {
			continue
		}
		start, end := text.LineRange(i)
		out = append(out, Violation{
			RuleID:  r.ID(),
			Message: "line has trailing whitespace",
			Line:    i,
			Column:  len(trimmed) + 1,
			Start:   start + len(trimmed),
			End:     end,
			Fixes: []FixStrategy{{
				Start:          start + len(trimmed),
				End:            end,
				Replacement:    "",
				AutoApplicable: true,
				Description:    "remove trailing whitespace",
			}},
		})
	}
	return out
}

// FinalNewlineRule flags a file that does not end with exactly one
// newline, when config.InsertFinalNewline is set.
type FinalNewlineRule struct{ noOptions }

func (*FinalNewlineRule) ID() string { return "FinalNewline" }

func (*FinalNewlineRule) Describe() string {
	return "flags files missing (or with extra) a trailing newline"
}

func (r *FinalNewlineRule) Visit(text *source.Text, arena *ast.Arena, node ast.NodeIndex, cfg *config.Config) []Violation {
	if !cfg.InsertFinalNewline {
		return nil
	}
	data := text.Bytes()
	if len(data) == 0 {
		return nil
	}
	if data[len(data)-1] == '\n' {
		trailingBlank := len(data) >= 2 && data[len(data)-2] == '\n'
		if !trailingBlank {
			return nil
		}
		trimmed := len(data)
		for trimmed > 0 && data[trimmed-1] == '\n' {
			trimmed--
		}
		return []Violation{{
			RuleID:  r.ID(),
			Message: "file ends with multiple blank lines",
			Start:   trimmed,
			End:     len(data),
			Fixes: []FixStrategy{{
				Start:          trimmed,
				End:            len(data),
				Replacement:    "\n",
				AutoApplicable: true,
				Description:    "collapse trailing blank lines to a single trailing newline",
			}},
		}}
	}
	return []Violation{{
		RuleID:  r.ID(),
		Message: "file does not end with a newline",
		Start:   len(data),
		End:     len(data),
		Fixes: []FixStrategy{{
			Start:          len(data),
			End:            len(data),
			Replacement:    "\n",
			AutoApplicable: true,
			Description:    "append a trailing newline",
		}},
	}}
}
