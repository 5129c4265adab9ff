package scope

import (
	"testing"

	"github.com/glint-lang/glint/internal/types"
)

func TestDeclareVarAssignsDenseIDs(t *testing.T) {
	s := New()
	s.PushFrame(false)
	a := &VarInfo{Type: types.NewLong()}
	b := &VarInfo{Type: types.NewBool()}
	if err := s.DeclareVar("a", a); err != nil {
		t.Fatal(err)
	}
	if err := s.DeclareVar("b", b); err != nil {
		t.Fatal(err)
	}
	if a.ID != 0 || b.ID != 1 {
		t.Errorf("expected dense IDs 0,1; got %d,%d", a.ID, b.ID)
	}
	if s.TotalVarDecls() != 2 {
		t.Errorf("expected 2 total decls, got %d", s.TotalVarDecls())
	}
	if s.VarByID(0) != a || s.VarByID(1) != b {
		t.Error("VarByID did not resolve declared variables correctly")
	}
}

func TestDeclareVarRejectsRedeclaration(t *testing.T) {
	s := New()
	s.PushFrame(false)
	if err := s.DeclareVar("x", &VarInfo{Type: types.NewLong()}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeclareVar("x", &VarInfo{Type: types.NewLong()}); err != ErrRedeclared {
		t.Errorf("expected ErrRedeclared, got %v", err)
	}
}

func TestFindVarWalksParentChain(t *testing.T) {
	s := New()
	s.PushFrame(false)
	outer := &VarInfo{Type: types.NewLong()}
	if err := s.DeclareVar("outer", outer); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PushFrame(true); err != nil {
		t.Fatal(err)
	}
	if got := s.FindVar("outer"); got != outer {
		t.Error("nested block frame should see the enclosing frame's bindings")
	}
	if s.FindVar("nope") != nil {
		t.Error("expected nil for an undeclared name")
	}
}

// A name already visible through an enclosing frame cannot be redeclared in
// a nested one - FindVar walks the whole parent chain, so there is no
// shadowing, only a flat visible-names check scoped by frame lifetime.
func TestDeclareVarRejectsNameVisibleInEnclosingFrame(t *testing.T) {
	s := New()
	s.PushFrame(false)
	outer := &VarInfo{Type: types.NewLong()}
	if err := s.DeclareVar("x", outer); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PushFrame(true); err != nil {
		t.Fatal(err)
	}
	if err := s.DeclareVar("x", &VarInfo{Type: types.NewBool()}); err != ErrRedeclared {
		t.Errorf("expected ErrRedeclared, got %v", err)
	}
}

func TestDeclareVarInNestedFrameDisappearsWhenPopped(t *testing.T) {
	s := New()
	s.PushFrame(false)
	if _, err := s.PushFrame(true); err != nil {
		t.Fatal(err)
	}
	inner := &VarInfo{Type: types.NewBool()}
	if err := s.DeclareVar("y", inner); err != nil {
		t.Fatal(err)
	}
	if s.FindVar("y") != inner {
		t.Error("expected to find the inner binding while its frame is live")
	}
	if err := s.PopFrame(); err != nil {
		t.Fatal(err)
	}
	if s.FindVar("y") != nil {
		t.Error("popping the frame should make its bindings unreachable")
	}
}

func TestGlobalDeclarationOnlyAllowedAtTopLevel(t *testing.T) {
	s := New()
	s.PushFrame(false)
	if err := s.DeclareVar("g", &VarInfo{Type: types.NewLong(), IsGlobal: true}); err != nil {
		t.Fatalf("top-level global should be allowed: %v", err)
	}
	s.SetReturnType(types.NewNothing())
	if err := s.DeclareVar("h", &VarInfo{Type: types.NewLong(), IsGlobal: true}); err != ErrGlobalNotHere {
		t.Errorf("expected ErrGlobalNotHere once a return type is set, got %v", err)
	}
}

func TestNestedBlockFrameInheritsReturnType(t *testing.T) {
	s := New()
	s.PushFrame(false)
	s.SetReturnType(types.NewLong())
	if _, err := s.PushFrame(true); err != nil {
		t.Fatal(err)
	}
	rt, has := s.ReturnType()
	if !has || rt.Kind != types.Long {
		t.Error("nested block frame should inherit the procedure's return type")
	}
}

func TestGenericScopeRootIsolation(t *testing.T) {
	s := New()
	s.PushFrame(false)
	if err := s.DeclareGeneric("T"); err != nil {
		t.Fatal(err)
	}
	if idx := s.FindGeneric("T"); idx != 1 {
		t.Errorf("expected 1-based index 1 for the first generic, got %d", idx)
	}
	if _, err := s.PushFrame(false); err != nil {
		t.Fatal(err)
	}
	if idx := s.FindGeneric("T"); idx != 0 {
		t.Error("a fresh generic scope root should not see an outer procedure's generics")
	}
}

func TestDeclareGenericRejectsRedeclaration(t *testing.T) {
	s := New()
	s.PushFrame(false)
	if err := s.DeclareGeneric("T"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeclareGeneric("T"); err != ErrRedeclared {
		t.Errorf("expected ErrRedeclared, got %v", err)
	}
}

func TestPushFrameRespectsMaxDepth(t *testing.T) {
	s := New()
	for i := 0; i < MaxDepth; i++ {
		if _, err := s.PushFrame(i > 0); err != nil {
			t.Fatalf("unexpected error at depth %d: %v", i, err)
		}
	}
	if _, err := s.PushFrame(true); err != ErrMaxDepth {
		t.Errorf("expected ErrMaxDepth, got %v", err)
	}
}

func TestPopFrameOnEmptyStackErrors(t *testing.T) {
	s := New()
	if err := s.PopFrame(); err == nil {
		t.Error("expected an error popping an empty frame stack")
	}
}
