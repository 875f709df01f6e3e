package rules

import (
	"strings"
	"testing"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/source"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func compilationUnit(imports []string) (*ast.Arena, ast.NodeIndex) {
	arena := ast.NewArena()
	var children []ast.NodeIndex
	for _, path := range imports {
		children = append(children, arena.AllocateWithAttr(ast.KindImportDecl, 0, 0, ast.ImportAttr{Path: path}))
	}
	root := arena.Allocate(ast.KindCompilationUnit, 0, 0)
	for _, c := range children {
		arena.AppendChild(root, c)
	}
	return arena, root
}

func TestLineLengthRuleFlagsOverlongLine(t *testing.T) {
	long := "class A { void m() { int " + strings.Repeat("x", 100) + " = 1; } }"
	text := source.New("A.java", []byte(long+"\n"))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.MaxLineLength = 40

	got := (&LineLengthRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
	if got[0].Line != 1 {
		t.Errorf("want line 1, got %d", got[0].Line)
	}
	if len(got[0].Fixes) != 1 || !got[0].Fixes[0].AutoApplicable {
		t.Errorf("want one auto-applicable fix, got %+v", got[0].Fixes)
	}
}

func TestLineLengthRuleSkipsFixForURL(t *testing.T) {
	line := "// see https://example.com/" + strings.Repeat("a", 100) + "/docs for details"
	text := source.New("A.java", []byte(line+"\n"))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.MaxLineLength = 40

	got := (&LineLengthRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
	if len(got[0].Fixes) != 0 {
		t.Errorf("want no auto-fix for a URL-bearing line, got %+v", got[0].Fixes)
	}
}

func TestImportOrganizationRuleDetectsMisorderedImports(t *testing.T) {
	arena, root := compilationUnit([]string{
		"com.example.Widget",
		"java.util.List",
		"javax.annotation.Nonnull",
	})
	text := source.New("A.java", []byte("package p;\n"))
	got := (&ImportOrganizationRule{}).Visit(text, arena, root, config.Default())
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
}

func TestImportOrganizationRuleViolationShape(t *testing.T) {
	arena, root := compilationUnit([]string{
		"com.example.Widget",
		"java.util.List",
	})
	text := source.New("A.java", []byte("package p;\n"))
	got := (&ImportOrganizationRule{}).Visit(text, arena, root, config.Default())

	want := []Violation{{
		RuleID:  "ImportOrganization",
		Message: "imports are not grouped java/javax, third-party, project, each sorted alphabetically",
	}}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Violation{}, "Start", "End", "Severity", "File", "Line", "Column")); diff != "" {
		t.Errorf("violation shape mismatch (-want +got):\n%s", diff)
	}
}

func TestImportOrganizationRuleAcceptsOrderedImports(t *testing.T) {
	src := "import java.util.List;\n" +
		"import javax.annotation.Nonnull;\n" +
		"\n" +
		"import com.example.Widget;\n" +
		"import org.example.Helper;\n"
	text := source.New("A.java", []byte(src))
	arena := ast.NewArena()
	imports := []struct {
		path  string
		start int
		end   int
	}{
		{"java.util.List", 0, 22},
		{"javax.annotation.Nonnull", 23, 55},
		{"com.example.Widget", 57, 83},
		{"org.example.Helper", 84, 110},
	}
	var children []ast.NodeIndex
	for _, imp := range imports {
		children = append(children, arena.AllocateWithAttr(ast.KindImportDecl, imp.start, imp.end, ast.ImportAttr{Path: imp.path}))
	}
	root := arena.Allocate(ast.KindCompilationUnit, 0, len(src))
	for _, c := range children {
		arena.AppendChild(root, c)
	}

	got := (&ImportOrganizationRule{}).Visit(text, arena, root, config.Default())
	if len(got) != 0 {
		t.Fatalf("want no violations, got %+v", got)
	}
}

func TestImportOrganizationRuleFlagsMissingBlankLineBetweenGroups(t *testing.T) {
	src := "import java.util.List;\n" +
		"import com.example.Widget;\n"
	text := source.New("A.java", []byte(src))
	arena := ast.NewArena()
	first := arena.AllocateWithAttr(ast.KindImportDecl, 0, 22, ast.ImportAttr{Path: "java.util.List"})
	second := arena.AllocateWithAttr(ast.KindImportDecl, 23, 49, ast.ImportAttr{Path: "com.example.Widget"})
	root := arena.Allocate(ast.KindCompilationUnit, 0, len(src))
	arena.AppendChild(root, first)
	arena.AppendChild(root, second)

	got := (&ImportOrganizationRule{}).Visit(text, arena, root, config.Default())
	if len(got) != 1 {
		t.Fatalf("want 1 violation for the missing group separator, got %+v", got)
	}
	if len(got[0].Fixes) != 1 || got[0].Fixes[0].Replacement != "\n\n" {
		t.Errorf("want a fix inserting a blank line, got %+v", got[0].Fixes)
	}
}

func TestIndentationRuleFlagsTabUnderSpacesPolicy(t *testing.T) {
	src := "class A {\n\tint x;\n}\n"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.IndentationType = config.IndentSpaces

	got := (&IndentationRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
	if got[0].Line != 2 {
		t.Errorf("want line 2, got %d", got[0].Line)
	}
}

func TestIndentationRuleMixedAcceptsTabThenSpace(t *testing.T) {
	src := "class A {\n\t int x;\n}\n"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.IndentationType = config.IndentMixed

	got := (&IndentationRule{}).Visit(text, arena, root, cfg)
	if len(got) != 0 {
		t.Fatalf("want no violations, got %+v", got)
	}
}

func TestIndentationRuleMixedFlagsSpaceThenTab(t *testing.T) {
	src := "class A {\n \tint x;\n}\n"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.IndentationType = config.IndentMixed

	got := (&IndentationRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %+v", got)
	}
}

func TestIndentationRuleFlagsSizeNotMultiple(t *testing.T) {
	src := "class A {\n   int x;\n}\n" // 3 spaces, configured size is 4
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.IndentationType = config.IndentSpaces
	cfg.IndentationSize = 4

	got := (&IndentationRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %+v", got)
	}
	if got[0].Line != 2 {
		t.Errorf("want line 2, got %d", got[0].Line)
	}
}

func TestIndentationRuleAcceptsSizeMultiple(t *testing.T) {
	src := "class A {\n        int x;\n}\n" // 8 spaces, configured size is 4
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.IndentationType = config.IndentSpaces
	cfg.IndentationSize = 4

	got := (&IndentationRule{}).Visit(text, arena, root, cfg)
	if len(got) != 0 {
		t.Fatalf("want no violations, got %+v", got)
	}
}

func TestIndentationRuleMixedFlagsTrailingSpacesReachingTabWidth(t *testing.T) {
	src := "class A {\n\t    int x;\n}\n" // tab + 4 trailing spaces, tabWidth is 4
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.IndentationType = config.IndentMixed
	cfg.TabWidth = 4

	got := (&IndentationRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %+v", got)
	}
}

func TestTrailingWhitespaceRule(t *testing.T) {
	src := "class A {  \n  int x;\n}\n"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)

	got := (&TrailingWhitespaceRule{}).Visit(text, arena, root, config.Default())
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
	if !got[0].Fixes[0].AutoApplicable || got[0].Fixes[0].Replacement != "" {
		t.Errorf("want an auto-applicable delete fix, got %+v", got[0].Fixes[0])
	}
}

func TestTrailingWhitespaceRuleDisabled(t *testing.T) {
	src := "class A {  \n  int x;\n}\n"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.TrimTrailingWhitespace = false

	got := (&TrailingWhitespaceRule{}).Visit(text, arena, root, cfg)
	if len(got) != 0 {
		t.Fatalf("want no violations when disabled, got %+v", got)
	}
}

func TestFinalNewlineRuleMissing(t *testing.T) {
	text := source.New("A.java", []byte("class A {}"))
	arena, root := compilationUnit(nil)
	cfg := config.Default()

	got := (&FinalNewlineRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
	if got[0].Fixes[0].Replacement != "\n" {
		t.Errorf("want newline-appending fix, got %+v", got[0].Fixes[0])
	}
}

func TestFinalNewlineRuleExtraBlankLines(t *testing.T) {
	text := source.New("A.java", []byte("class A {}\n\n"))
	arena, root := compilationUnit(nil)
	cfg := config.Default()

	got := (&FinalNewlineRule{}).Visit(text, arena, root, cfg)
	if len(got) != 1 {
		t.Fatalf("want 1 violation, got %d", len(got))
	}
	if len(got[0].Fixes) != 1 || got[0].Fixes[0].Replacement != "\n" {
		t.Errorf("want a fix collapsing to a single trailing newline, got %+v", got[0].Fixes)
	}
}

func TestFinalNewlineRuleDisabled(t *testing.T) {
	text := source.New("A.java", []byte("class A {}"))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.InsertFinalNewline = false

	got := (&FinalNewlineRule{}).Visit(text, arena, root, cfg)
	if len(got) != 0 {
		t.Fatalf("want no violations when disabled, got %+v", got)
	}
}

// panicRule is a test double exercising Engine.runRule's panic isolation.
type panicRule struct{ noOptions }

func (*panicRule) ID() string       { return "Panic" }
func (*panicRule) Describe() string { return "always panics" }
func (*panicRule) Visit(*source.Text, *ast.Arena, ast.NodeIndex, *config.Config) []Violation {
	panic("boom")
}

func TestEngineLintIsolatesPanickingRule(t *testing.T) {
	src := "class A {  \nint x;\n}"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)

	engine := NewEngine(nil)
	engine.Register(ast.KindCompilationUnit, &panicRule{})

	cfg := config.Default()
	got := engine.Lint(text, arena, root, cfg)

	for _, v := range got {
		if v.RuleID == "Panic" {
			t.Fatalf("panicking rule should not contribute violations, got %+v", v)
		}
	}
	if len(got) == 0 {
		t.Fatal("want other rules' violations to survive the panic")
	}
}

func TestEngineLintOrdersByPositionThenRuleID(t *testing.T) {
	src := "class A {  \n\tint x;\n}"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()

	engine := NewEngine(nil)
	got := engine.Lint(text, arena, root, cfg)
	for i := 1; i < len(got); i++ {
		if got[i-1].Start > got[i].Start {
			t.Fatalf("violations not sorted by Start: %+v before %+v", got[i-1], got[i])
		}
		if got[i-1].Start == got[i].Start && got[i-1].RuleID > got[i].RuleID {
			t.Fatalf("violations with equal Start not sorted by RuleID: %+v before %+v", got[i-1], got[i])
		}
	}
	for _, v := range got {
		if v.File != "A.java" {
			t.Errorf("want File back-filled to %q, got %q", "A.java", v.File)
		}
		if v.Severity == "" {
			t.Errorf("want Severity back-filled, got empty for %+v", v)
		}
	}
}

func TestEngineLintDisabledRuleSkipped(t *testing.T) {
	src := strings.Repeat("x", 200) + "\n"
	text := source.New("A.java", []byte(src))
	arena, root := compilationUnit(nil)
	cfg := config.Default()
	cfg.Rules["LineLength"] = config.RuleConfig{Enabled: false, Severity: "warning"}

	engine := NewEngine(nil)
	got := engine.Lint(text, arena, root, cfg)
	for _, v := range got {
		if v.RuleID == "LineLength" {
			t.Fatalf("want LineLength skipped when disabled, got %+v", v)
		}
	}
}

func TestBuildEnvelopeEmpty(t *testing.T) {
	env := BuildEnvelope(nil)
	if env.Summary.Total != 0 {
		t.Fatalf("want zero total, got %d", env.Summary.Total)
	}
	if env.Violations == nil {
		t.Fatal("want a non-nil empty slice so JSON renders [] not null")
	}
}

func TestBuildEnvelopeAggregates(t *testing.T) {
	violations := []Violation{
		{RuleID: "LineLength", Severity: "warning"},
		{RuleID: "LineLength", Severity: "error"},
		{RuleID: "FinalNewline", Severity: "warning"},
	}
	env := BuildEnvelope(violations)
	if env.Summary.Total != 3 {
		t.Fatalf("want total 3, got %d", env.Summary.Total)
	}
	if env.Summary.ByRule["LineLength"] != 2 {
		t.Errorf("want 2 LineLength violations, got %d", env.Summary.ByRule["LineLength"])
	}
	if env.Summary.BySeverity["warning"] != 2 {
		t.Errorf("want 2 warning violations, got %d", env.Summary.BySeverity["warning"])
	}
}
