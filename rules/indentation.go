package rules

import (
	"fmt"
	"strings"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/source"
)

// IndentationRule checks that each non-blank line's leading whitespace
// matches the configured indentation type and reports the first column
// at which a line diverges from policy.
//
// Under IndentMixed, a line is accepted if its leading run is tabs
// followed by spaces (the common "tab then align" style); a violation is
// reported for a space appearing before a tab in the same run, or for a
// trailing run of spaces that reaches cfg.TabWidth (see firstDivergence).
type IndentationRule struct{ noOptions }

func (*IndentationRule) ID() string { return "Indentation" }

func (*IndentationRule) Describe() string {
	return "checks that leading whitespace matches the configured indentation type"
}

func (r *IndentationRule) Visit(text *source.Text, arena *ast.Arena, node ast.NodeIndex, cfg *config.Config) []Violation {
	var out []Violation
	for i := 1; i <= text.LineCount(); i++ {
		line := text.Line(i)
		if strings.TrimSpace(line) == "" {
			continue
		}
		leading := leadingWhitespace(line)
		if leading == "" {
			continue
		}
		col, msg := r.firstDivergence(leading, cfg)
		if col == -1 {
			continue
		}
		start, _ := text.LineRange(i)
		out = append(out, Violation{
			RuleID:  r.ID(),
			Message: msg,
			Line:    i,
			Column:  col + 1,
			Start:   start + col,
			End:     start + col + 1,
		})
	}
	return out
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// firstDivergence returns the column (0-based, within the leading
// whitespace run) of the first character that violates cfg's indentation
// policy, or -1 if the run is compliant. Beyond the tab/space character
// policy, it also enforces the configured size: under SPACES the run's
// length must be a multiple of cfg.IndentationSize, and under MIXED the
// run of spaces trailing the tabs must be shorter than cfg.TabWidth (a
// full tabWidth's worth of trailing spaces should have been a tab).
func (r *IndentationRule) firstDivergence(leading string, cfg *config.Config) (int, string) {
	size := cfg.IndentationSize
	if size < 1 {
		size = 1
	}
	tabWidth := cfg.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	switch cfg.IndentationType {
	case config.IndentSpaces:
		for i, c := range []byte(leading) {
			if c == '\t' {
				return i, "tab character used where spaces are configured"
			}
		}
		if len(leading)%size != 0 {
			return len(leading) - (len(leading) % size), fmt.Sprintf("indentation is %d spaces, not a multiple of the configured size %d", len(leading), size)
		}
	case config.IndentTabs:
		for i, c := range []byte(leading) {
			if c == ' ' {
				return i, "space character used where tabs are configured"
			}
		}
	case config.IndentMixed:
		seenSpace := false
		trailingSpaces := 0
		for i, c := range []byte(leading) {
			if c == ' ' {
				seenSpace = true
				trailingSpaces++
			}
			if c == '\t' {
				if seenSpace {
					return i, "tab found after a space in mixed indentation"
				}
				trailingSpaces = 0
			}
		}
		if trailingSpaces >= tabWidth {
			return len(leading) - trailingSpaces, fmt.Sprintf("%d trailing spaces reach the configured tab width %d and should be a tab", trailingSpaces, tabWidth)
		}
	}
	return -1, ""
}
