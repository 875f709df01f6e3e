package ast

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArenaAllocateAndChildren(t *testing.T) {
	a := NewArena()

	// class A {} — build post-order: identifier first, then the decl.
	ident := a.AllocateWithAttr(KindIdentifier, 6, 7, IdentifierAttr{Name: "A"})
	body := a.Allocate(KindBlock, 8, 10)
	decl := a.AllocateWithAttr(KindClassDecl, 0, 10, TypeDeclAttr{Name: "A"})
	a.AppendChild(decl, ident)
	a.AppendChild(decl, body)

	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if a.Kind(decl) != KindClassDecl {
		t.Errorf("Kind(decl) = %v, want KindClassDecl", a.Kind(decl))
	}
	children := a.Children(decl)
	if len(children) != 2 || children[0] != ident || children[1] != body {
		t.Errorf("Children(decl) = %v, want [%v %v]", children, ident, body)
	}
	start, end := a.Range(decl)
	if start != 0 || end != 10 {
		t.Errorf("Range(decl) = (%d,%d), want (0,10)", start, end)
	}
}

func TestArenaFirstChildOfKind(t *testing.T) {
	a := NewArena()
	field := a.Allocate(KindFieldDecl, 0, 1)
	method := a.Allocate(KindMethodDecl, 1, 2)
	decl := a.Allocate(KindClassDecl, 0, 2)
	a.AppendChild(decl, field)
	a.AppendChild(decl, method)

	if got := a.FirstChildOfKind(decl, KindMethodDecl); got != method {
		t.Errorf("FirstChildOfKind(MethodDecl) = %v, want %v", got, method)
	}
	if got := a.FirstChildOfKind(decl, KindRecordDecl); got != NoNode {
		t.Errorf("FirstChildOfKind(RecordDecl) = %v, want NoNode", got)
	}
}

func TestArenaChildrenOfKind(t *testing.T) {
	a := NewArena()
	f1 := a.Allocate(KindFieldDecl, 0, 1)
	f2 := a.Allocate(KindFieldDecl, 1, 2)
	m := a.Allocate(KindMethodDecl, 2, 3)
	decl := a.Allocate(KindClassDecl, 0, 3)
	a.AppendChild(decl, f1)
	a.AppendChild(decl, f2)
	a.AppendChild(decl, m)

	fields := a.ChildrenOfKind(decl, KindFieldDecl)
	if len(fields) != 2 || fields[0] != f1 || fields[1] != f2 {
		t.Errorf("ChildrenOfKind(FieldDecl) = %v, want [%v %v]", fields, f1, f2)
	}
}

func TestArenaWalk(t *testing.T) {
	a := NewArena()
	leaf1 := a.Allocate(KindIdentifier, 0, 1)
	leaf2 := a.Allocate(KindIdentifier, 1, 2)
	mid := a.Allocate(KindBlock, 0, 2)
	a.AppendChild(mid, leaf1)
	a.AppendChild(mid, leaf2)
	root := a.Allocate(KindClassDecl, 0, 2)
	a.AppendChild(root, mid)

	var visited []NodeKind
	a.Walk(root, func(idx NodeIndex) bool {
		visited = append(visited, a.Kind(idx))
		return true
	})

	want := []NodeKind{KindClassDecl, KindBlock, KindIdentifier, KindIdentifier}
	if len(visited) != len(want) {
		t.Fatalf("Walk visited %v, want %v", visited, want)
	}
	for i, k := range want {
		if visited[i] != k {
			t.Errorf("visited[%d] = %v, want %v", i, visited[i], k)
		}
	}
}

func TestArenaWalkSkipsSubtree(t *testing.T) {
	a := NewArena()
	skipped := a.Allocate(KindIdentifier, 0, 1)
	mid := a.Allocate(KindBlock, 0, 1)
	a.AppendChild(mid, skipped)
	root := a.Allocate(KindClassDecl, 0, 1)
	a.AppendChild(root, mid)

	var visited []NodeKind
	a.Walk(root, func(idx NodeIndex) bool {
		visited = append(visited, a.Kind(idx))
		return a.Kind(idx) != KindBlock
	})

	if len(visited) != 2 {
		t.Fatalf("Walk visited %v, want 2 nodes (root, mid)", visited)
	}
}

func TestArenaEqual(t *testing.T) {
	build := func() *Arena {
		a := NewArena()
		ident := a.AllocateWithAttr(KindIdentifier, 6, 7, IdentifierAttr{Name: "A"})
		decl := a.AllocateWithAttr(KindClassDecl, 0, 10, TypeDeclAttr{Name: "A"})
		a.AppendChild(decl, ident)
		return a
	}
	a, b := build(), build()
	if !Equal(a, b) {
		t.Errorf("Equal(identical arenas) = false, want true")
	}

	c := NewArena()
	c.AllocateWithAttr(KindIdentifier, 6, 7, IdentifierAttr{Name: "B"})
	if Equal(a, c) {
		t.Errorf("Equal(different arenas) = true, want false")
	}
}

func TestArenaIsError(t *testing.T) {
	a := NewArena()
	errNode := a.AllocateWithAttr(KindError, 0, 1, ErrorAttr{Message: "unexpected token"})
	okNode := a.Allocate(KindIdentifier, 1, 2)
	if !a.IsError(errNode) {
		t.Errorf("IsError(errNode) = false, want true")
	}
	if a.IsError(okNode) {
		t.Errorf("IsError(okNode) = true, want false")
	}
}

func TestArenaMarshalTree(t *testing.T) {
	a := NewArena()
	ident := a.AllocateWithAttr(KindIdentifier, 6, 7, IdentifierAttr{Name: "A"})
	decl := a.AllocateWithAttr(KindClassDecl, 0, 10, TypeDeclAttr{Name: "A"})
	a.AppendChild(decl, ident)

	raw, err := a.MarshalTree(decl)
	if err != nil {
		t.Fatalf("MarshalTree() error = %v", err)
	}

	var got jsonNode
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal MarshalTree() output: %v", err)
	}

	want := jsonNode{
		Kind:  "ClassDecl",
		Start: 0,
		End:   10,
		Children: []*jsonNode{
			{Kind: "Identifier", Start: 6, End: 7},
		},
	}
	if diff := cmp.Diff(want, got, cmpIgnoreRawAttr()); diff != "" {
		t.Errorf("MarshalTree() mismatch (-want +got):\n%s", diff)
	}
}

// cmpIgnoreRawAttr ignores jsonNode.Attr: its exact encoding (field order,
// presence of empty members) isn't part of the MarshalTree contract, only
// the tree shape and spans are.
func cmpIgnoreRawAttr() cmp.Option {
	return cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Attr"
	}, cmp.Ignore())
}
