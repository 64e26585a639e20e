package superimpose

import (
	"testing"

	"github.com/odvcencio/synmerge/pkg/decltree"
)

func buildTree(body string, withMethod bool) *decltree.Tree {
	t := decltree.New()
	cls := t.AddContainer(t.Root, decltree.KindClass, "C")
	if withMethod {
		t.AddTerminal(cls, decltree.KindMethod, "C.a()", "void a()", body)
	}
	return t
}

func TestSuperimposeIdentity(t *testing.T) {
	base := buildTree("return;", true)
	res, err := Superimpose(base, base, base, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cls := res.Tree.Node(res.Tree.Root).Children[0]
	method := res.Tree.Node(cls).Children[0]
	if res.Tree.Node(method).Body != "return;" {
		t.Errorf("got body %q", res.Tree.Node(method).Body)
	}
	if len(res.AddedLeft) != 0 || len(res.AddedRight) != 0 {
		t.Errorf("identity merge should add nothing, got left=%v right=%v", res.AddedLeft, res.AddedRight)
	}
}

func TestSuperimposeFastForward(t *testing.T) {
	base := buildTree("return 1;", true)
	right := buildTree("return 2;", true)
	res, err := Superimpose(base, base, right, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cls := res.Tree.Node(res.Tree.Root).Children[0]
	method := res.Tree.Node(cls).Children[0]
	if got := res.Tree.Node(method).Body; got != "return 2;" {
		t.Errorf("got %q, want fast-forwarded body", got)
	}
}

func TestSuperimposeAddedOnBothSides(t *testing.T) {
	base := decltree.New()
	base.AddContainer(base.Root, decltree.KindClass, "C")

	left := decltree.New()
	lc := left.AddContainer(left.Root, decltree.KindClass, "C")
	left.AddTerminal(lc, decltree.KindField, "C.x", "int x", "int x = 1;")

	right := decltree.New()
	rc := right.AddContainer(right.Root, decltree.KindClass, "C")
	right.AddTerminal(rc, decltree.KindField, "C.x", "int x", "int x = 2;")

	res, err := Superimpose(left, base, right, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cls := res.Tree.Node(res.Tree.Root).Children[0]
	field := res.Tree.Node(cls).Children[0]
	if res.Tree.Node(field).Body == "" {
		t.Error("expected a non-empty field body")
	}
}

func TestSuperimposeAddedOnlyLeft(t *testing.T) {
	base := decltree.New()
	base.AddContainer(base.Root, decltree.KindClass, "C")

	left := decltree.New()
	lc := left.AddContainer(left.Root, decltree.KindClass, "C")
	left.AddTerminal(lc, decltree.KindField, "C.x", "int x", "int x = 1;")

	right := decltree.New()
	right.AddContainer(right.Root, decltree.KindClass, "C")

	res, err := Superimpose(left, base, right, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.AddedLeft) != 1 {
		t.Errorf("expected one added-left node, got %d", len(res.AddedLeft))
	}
	if len(res.AddedRight) != 0 {
		t.Errorf("expected no added-right nodes, got %d", len(res.AddedRight))
	}
}

func TestSuperimposeDeletedByOneSideKeepsOther(t *testing.T) {
	base := buildTree("return 1;", true)
	left := buildTree("", false) // left deleted the method
	right := buildTree("return 2;", true)

	res, err := Superimpose(left, base, right, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cls := res.Tree.Node(res.Tree.Root).Children[0]
	if len(res.Tree.Node(cls).Children) != 1 {
		t.Fatalf("expected right's surviving method to be kept")
	}
	method := res.Tree.Node(cls).Children[0]
	if got := res.Tree.Node(method).Body; got != "return 2;" {
		t.Errorf("got %q, want right's edited body", got)
	}
}
