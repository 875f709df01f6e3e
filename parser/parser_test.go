package parser

import (
	"testing"

	"github.com/dhamidi/javafmt/ast"
	"github.com/dhamidi/javafmt/version"
)

func parse(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	return New([]byte(src), opts...).Parse()
}

func TestParseEmptyClass(t *testing.T) {
	result := parse(t, "class MyClass {}")
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	a := result.Arena
	children := a.Children(result.Root)
	if len(children) != 1 {
		t.Fatalf("CompilationUnit has %d children, want 1", len(children))
	}
	decl := children[0]
	if a.Kind(decl) != ast.KindClassDecl {
		t.Fatalf("child kind = %v, want KindClassDecl", a.Kind(decl))
	}
	attr, ok := a.Attribute(decl).(ast.TypeDeclAttr)
	if !ok || attr.Name != "MyClass" {
		t.Fatalf("ClassDecl attribute = %#v, want TypeDeclAttr{Name: MyClass}", a.Attribute(decl))
	}
}

func TestParseRecordDecl(t *testing.T) {
	result := parse(t, "record MyRecord(int x) {}")
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	a := result.Arena
	decl := a.Children(result.Root)[0]
	if a.Kind(decl) != ast.KindRecordDecl {
		t.Fatalf("kind = %v, want KindRecordDecl", a.Kind(decl))
	}
	attr := a.Attribute(decl).(ast.TypeDeclAttr)
	if attr.Name != "MyRecord" {
		t.Errorf("record name = %q, want MyRecord", attr.Name)
	}
	params := a.FirstChildOfKind(decl, ast.KindParameters)
	if params == ast.NoNode {
		t.Fatal("record has no Parameters node")
	}
	if len(a.Children(params)) != 1 {
		t.Errorf("record has %d components, want 1", len(a.Children(params)))
	}
}

func TestParseSealedPermits(t *testing.T) {
	src := `sealed interface Shape permits Circle, Square {}`
	result := parse(t, src, WithVersion(version.Java21))
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	a := result.Arena
	decl := a.Children(result.Root)[0]
	permits := a.FirstChildOfKind(decl, ast.KindPermitsClause)
	if permits == ast.NoNode {
		t.Fatal("missing PermitsClause")
	}
	if got := len(a.Children(permits)); got != 2 {
		t.Errorf("permits has %d entries, want 2", got)
	}
}

func TestParseFlexibleConstructorBody(t *testing.T) {
	src := `class Positive {
		int value;
		Positive(int v) {
			if (v <= 0) throw new IllegalArgumentException("not positive");
			super();
			this.value = v;
		}
	}`
	result := parse(t, src, WithVersion(version.Java25))
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	a := result.Arena
	decl := a.Children(result.Root)[0]
	ctor := a.FirstChildOfKind(decl, ast.KindConstructorDecl)
	if ctor == ast.NoNode {
		t.Fatal("missing ConstructorDecl")
	}
	body := a.FirstChildOfKind(ctor, ast.KindBlock)
	if body == ast.NoNode {
		t.Fatal("constructor has no body block")
	}
	stmts := a.Children(body)
	foundInvocation := false
	for _, s := range stmts {
		if a.Kind(s) == ast.KindExplicitConstructorInvocation {
			foundInvocation = true
		}
	}
	if !foundInvocation {
		t.Errorf("expected an ExplicitConstructorInvocation among %d statements", len(stmts))
	}
	if a.Kind(stmts[0]) == ast.KindExplicitConstructorInvocation {
		t.Errorf("expected a statement before super() under JEP 513, got invocation first")
	}
}

func TestParseImplicitSuperRejectsLeadingStatements(t *testing.T) {
	// Under the classic (pre-25) strategy, a statement before super() is a
	// recoverable diagnostic: the invocation still parses and the rest of
	// the body continues rather than aborting the whole parse.
	src := `class C {
		C() {
			int x = 1;
			super();
		}
	}`
	result := parse(t, src, WithVersion(version.Java21))
	if len(result.Errors) != 1 {
		t.Fatalf("want 1 recoverable error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !result.Errors[0].Recoverable {
		t.Errorf("want the misplaced super() diagnostic to be recoverable, got %+v", result.Errors[0])
	}
	a := result.Arena
	decl := a.Children(result.Root)[0]
	ctor := a.FirstChildOfKind(decl, ast.KindConstructorDecl)
	if ctor == ast.NoNode {
		t.Fatal("missing ConstructorDecl")
	}
	body := a.FirstChildOfKind(ctor, ast.KindBlock)
	foundInvocation := false
	for _, s := range a.Children(body) {
		if a.Kind(s) == ast.KindExplicitConstructorInvocation {
			foundInvocation = true
		}
	}
	if !foundInvocation {
		t.Errorf("expected the super() call to still parse as an ExplicitConstructorInvocation despite the diagnostic")
	}
}

func TestParseImportDecl(t *testing.T) {
	result := parse(t, "import java.util.List;\nclass C {}")
	a := result.Arena
	children := a.Children(result.Root)
	imp := children[0]
	if a.Kind(imp) != ast.KindImportDecl {
		t.Fatalf("kind = %v, want KindImportDecl", a.Kind(imp))
	}
	attr := a.Attribute(imp).(ast.ImportAttr)
	if attr.Path != "java.util.List" || attr.Static || attr.OnDemand {
		t.Errorf("ImportAttr = %#v, want {java.util.List false false}", attr)
	}
}

func TestParseImportOnDemand(t *testing.T) {
	result := parse(t, "import java.util.*;\nclass C {}")
	a := result.Arena
	attr := a.Attribute(a.Children(result.Root)[0]).(ast.ImportAttr)
	if !attr.OnDemand {
		t.Errorf("OnDemand = false, want true for java.util.*")
	}
}

func TestParseMethodWithBody(t *testing.T) {
	src := `class C {
		public int add(int a, int b) {
			return a + b;
		}
	}`
	result := parse(t, src)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	a := result.Arena
	decl := a.Children(result.Root)[0]
	method := a.FirstChildOfKind(decl, ast.KindMethodDecl)
	if method == ast.NoNode {
		t.Fatal("missing MethodDecl")
	}
	params := a.FirstChildOfKind(method, ast.KindParameters)
	if len(a.Children(params)) != 2 {
		t.Errorf("method has %d params, want 2", len(a.Children(params)))
	}
}

func TestParseIfElseStatement(t *testing.T) {
	src := `class C { void m() { if (x > 0) { return; } else { return; } } }`
	result := parse(t, src)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestParseForAndEnhancedFor(t *testing.T) {
	src := `class C {
		void m() {
			for (int i = 0; i < 10; i++) {}
			for (String s : names) {}
		}
	}`
	result := parse(t, src)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestParseSwitchExpressionWithArrow(t *testing.T) {
	src := `class C {
		int m(int x) {
			return switch (x) {
				case 1 -> 10;
				case 2, 3 -> 20;
				default -> 0;
			};
		}
	}`
	result := parse(t, src, WithVersion(version.Java21))
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestParseRecordPatternInSwitch(t *testing.T) {
	src := `class C {
		String m(Object o) {
			return switch (o) {
				case Point(int x, int y) -> "point";
				default -> "other";
			};
		}
	}`
	result := parse(t, src, WithVersion(version.Java21))
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	src := `class C { int x = ; int y = 2; }`
	result := parse(t, src)
	if len(result.Errors) == 0 {
		t.Fatal("expected at least one error")
	}
	a := result.Arena
	decl := a.Children(result.Root)[0]
	fields := a.ChildrenOfKind(decl, ast.KindFieldDecl)
	if len(fields) < 1 {
		t.Fatalf("expected parsing to continue and find field decls, got %d", len(fields))
	}
}

func TestParseLambda(t *testing.T) {
	src := `class C { Runnable r = () -> System.out.println("hi"); }`
	result := parse(t, src)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestParseTryWithResources(t *testing.T) {
	src := `class C {
		void m() {
			try (AutoCloseable c = open()) {
				use(c);
			} catch (Exception e) {
				handle(e);
			} finally {
				cleanup();
			}
		}
	}`
	result := parse(t, src)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}
