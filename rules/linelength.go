package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/source"
)

// LineLengthRule flags physical lines longer than config.MaxLineLength.
// It avoids proposing an auto-fix for lines whose overflow is caused by
// an unbroken URL or filesystem path, since splitting those silently
// changes their meaning.
type LineLengthRule struct{ noOptions }

func (*LineLengthRule) ID() string { return "LineLength" }

func (*LineLengthRule) Describe() string {
	return "flags physical lines exceeding the configured maximum length"
}

var urlOrPathPattern = regexp.MustCompile(`https?://\S+|(?:[A-Za-z]:)?(?:[/\\][\w.\-]+){2,}`)

func (r *LineLengthRule) Visit(text *source.Text, arena *ast.Arena, node ast.NodeIndex, cfg *config.Config) []Violation {
	var out []Violation
	limit := cfg.MaxLineLength
	for i := 1; i <= text.LineCount(); i++ {
		line := text.Line(i)
		if len(line) <= limit {
			continue
		}
		start, end := text.LineRange(i)
		v := Violation{
			RuleID:  r.ID(),
			Message: lineTooLongMessage(len(line), limit),
			Line:    i,
			Column:  limit + 1,
			Start:   start,
			End:     end,
		}
		if !urlOrPathPattern.MatchString(line) {
			v.Fixes = []FixStrategy{{
				Start:          start,
				End:            end,
				Replacement:    wrapLine(line, limit),
				AutoApplicable: true,
				Description:    "wrap line at the nearest word boundary before the limit",
			}}
		}
		out = append(out, v)
	}
	return out
}

func lineTooLongMessage(length, limit int) string {
	return "line is " + strconv.Itoa(length) + " characters, exceeds the configured limit of " + strconv.Itoa(limit)
}

func wrapLine(line string, limit int) string {
	if len(line) <= limit {
		return line
	}
	breakAt := strings.LastIndex(line[:limit], " ")
	if breakAt <= 0 {
		return line
	}
	if lit := stringLiteralContaining(line, breakAt); lit != nil {
		return wrapInsideStringLiteral(line, limit, *lit)
	}
	return line[:breakAt] + "\n" + line[breakAt+1:]
}

// wrapInsideStringLiteral re-quotes and concatenates a string literal that
// would otherwise be split by a bare newline, per spec.md §4.E: the
// continuation closes the literal with `" +`, then reopens it on the next
// line so the result still parses as Java.
func wrapInsideStringLiteral(line string, limit int, lit [2]int) string {
	indent := leadingWhitespace(line)
	contentStart, contentEnd := lit[0]+1, lit[1]

	cutoff := limit
	if cutoff > contentEnd-1 {
		cutoff = contentEnd - 1
	}
	if cutoff <= contentStart {
		return line
	}

	breakIdx := contentStart
	if space := strings.LastIndex(line[contentStart:cutoff], " "); space >= 0 {
		breakIdx = contentStart + space
	} else {
		breakIdx = cutoff
	}
	if breakIdx > contentStart && line[breakIdx-1] == '\\' {
		breakIdx--
	}

	left := line[:breakIdx]
	right := strings.TrimPrefix(line[breakIdx:], " ")
	return left + "\" +\n" + indent + "\"" + right
}

// stringLiteralContaining scans line for double-quoted string literals
// (honoring backslash escapes) and returns the [start,end] indices of the
// literal's quote characters that contains idx, or nil if idx falls
// outside any string literal.
func stringLiteralContaining(line string, idx int) *[2]int {
	inString := false
	escaped := false
	start := -1
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString && escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case inString && c == '"':
			if idx >= start && idx <= i {
				return &[2]int{start, i}
			}
			inString = false
		case !inString && c == '"':
			inString = true
			start = i
		}
	}
	return nil
}
