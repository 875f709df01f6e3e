package rules

import (
	"sort"
	"strings"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/source"
)

// ImportOrganizationRule checks that import declarations are grouped
// java.*/javax.* first, then third-party packages, then same-project
// packages, each group sorted alphabetically and separated by a single
// blank line.
type ImportOrganizationRule struct{ noOptions }

func (*ImportOrganizationRule) ID() string { return "ImportOrganization" }

func (*ImportOrganizationRule) Describe() string {
	return "checks that imports are grouped java/javax, third-party, project, each sorted"
}

type importEntry struct {
	idx   ast.NodeIndex
	path  string
	group int
}

func importGroup(path string) int {
	switch {
	case strings.HasPrefix(path, "java.") || strings.HasPrefix(path, "javax."):
		return 0
	case strings.Count(path, ".") <= 1:
		return 2 // bare/short package names are treated as project-local
	default:
		return 1
	}
}

func (r *ImportOrganizationRule) Visit(text *source.Text, arena *ast.Arena, node ast.NodeIndex, cfg *config.Config) []Violation {
	var imports []ast.NodeIndex
	for _, c := range arena.Children(node) {
		if arena.Kind(c) == ast.KindImportDecl {
			imports = append(imports, c)
		}
	}
	if len(imports) < 2 {
		return nil
	}

	entries := make([]importEntry, len(imports))
	for i, idx := range imports {
		attr := arena.Attribute(idx).(ast.ImportAttr)
		entries[i] = importEntry{idx: idx, path: attr.Path, group: importGroup(attr.Path)}
	}

	sorted := make([]importEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].group != sorted[j].group {
			return sorted[i].group < sorted[j].group
		}
		return sorted[i].path < sorted[j].path
	})

	for i := range entries {
		if entries[i].path != sorted[i].path {
			start, _ := arena.Range(entries[0].idx)
			_, end := arena.Range(entries[len(entries)-1].idx)
			return []Violation{{
				RuleID:  r.ID(),
				Message: "imports are not grouped java/javax, third-party, project, each sorted alphabetically",
				Start:   start,
				End:     end,
			}}
		}
	}

	return blankLineViolations(text, arena, r.ID(), entries)
}

// blankLineViolations checks, for already-correctly-grouped-and-sorted
// imports, that groups are separated by exactly one blank line and that
// imports within a group are adjacent with none, per spec.md §4.E.
func blankLineViolations(text *source.Text, arena *ast.Arena, ruleID string, entries []importEntry) []Violation {
	var out []Violation
	for i := 0; i+1 < len(entries); i++ {
		_, prevEnd := arena.Range(entries[i].idx)
		nextStart, _ := arena.Range(entries[i+1].idx)

		prevLine, _ := text.LineColumn(prevEnd)
		nextLine, _ := text.LineColumn(nextStart)
		blankLines := nextLine - prevLine - 1

		wantBlank := 0
		if entries[i].group != entries[i+1].group {
			wantBlank = 1
		}
		if blankLines == wantBlank {
			continue
		}

		replacement := "\n"
		if wantBlank == 1 {
			replacement = "\n\n"
		}
		msg := "imports within a group must be adjacent with no blank line between them"
		if wantBlank == 1 {
			msg = "import groups must be separated by exactly one blank line"
		}
		out = append(out, Violation{
			RuleID:  ruleID,
			Message: msg,
			Start:   prevEnd,
			End:     nextStart,
			Fixes: []FixStrategy{{
				Start:          prevEnd,
				End:            nextStart,
				Replacement:    replacement,
				AutoApplicable: true,
				Description:    "normalize blank lines between imports",
			}},
		})
	}
	return out
}
