package javafmt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/javafmt/batch"
	"github.com/dhamidi/javafmt/config"
	"github.com/dhamidi/javafmt/version"
)

func TestParseProducesArena(t *testing.T) {
	res := Parse([]byte("class A {}\n"))
	if res.Arena == nil || res.Root == 0 {
		t.Fatalf("want a populated arena and root, got %+v", res)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("want no errors for valid source, got %+v", res.Errors)
	}
}

func TestParseRecoversFromSyntaxError(t *testing.T) {
	res := Parse([]byte("class A { void m( }\n"))
	if res.Arena == nil || res.Root == 0 {
		t.Fatal("want a populated arena even for malformed input")
	}
}

func TestParseWithJavaVersionGatesFlexibleConstructorBody(t *testing.T) {
	src := []byte(`
class A {
	A(int x) {
		validate(x);
		super();
	}
}
`)
	res := Parse(src, WithJavaVersion(version.Java25))
	if res.Arena == nil {
		t.Fatal("want a populated arena")
	}
}

func TestLintFindsViolations(t *testing.T) {
	src := []byte("class A {  \n}\n")
	res := Parse(src)
	violations := Lint(src, "A.java", res.Arena, res.Root, config.Default())
	found := false
	for _, v := range violations {
		if v.RuleID == "TrailingWhitespace" {
			found = true
		}
		if v.File != "A.java" {
			t.Errorf("want violation File set to A.java, got %q", v.File)
		}
	}
	if !found {
		t.Fatalf("want a TrailingWhitespace violation, got %+v", violations)
	}
}

func TestRewriteAppliesAutoFixes(t *testing.T) {
	src := []byte("class A {  \n}\n")
	res := Parse(src)
	violations := Lint(src, "A.java", res.Arena, res.Root, config.Default())

	out, applied := Rewrite(src, violations, config.Default())
	if applied == 0 {
		t.Fatal("want at least one fix applied")
	}
	if string(out) != "class A {\n}\n" {
		t.Fatalf("want trailing whitespace stripped, got %q", out)
	}
}

func TestRewriteNoFixesReturnsInputUnchanged(t *testing.T) {
	src := []byte("class A {}\n")
	out, applied := Rewrite(src, nil, nil)
	if applied != 0 {
		t.Fatalf("want 0 applied fixes, got %d", applied)
	}
	if string(out) != string(src) {
		t.Fatalf("want byte-identical output, got %q", out)
	}
}

func TestProcessBatchRunsFullPipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	if err := os.WriteFile(path, []byte("class A {  \n}\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	result := ProcessBatch(context.Background(), []string{path}, batch.Config{RuleConfig: config.Default()}, nil)
	if len(result.Results) != 1 {
		t.Fatalf("want 1 result, got %d", len(result.Results))
	}
}
