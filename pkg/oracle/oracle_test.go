package oracle

import (
	"testing"

	"github.com/odvcencio/synmerge/pkg/decltree"
)

func declNames(t *decltree.Tree, id decltree.NodeID, out *[]string) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !n.IsContainer() && n.Kind != decltree.KindOther && n.Kind != decltree.KindImport {
		*out = append(*out, n.Identifier)
	}
	for _, c := range n.Children {
		declNames(t, c, out)
	}
}

func TestParseGoFileProducesTopLevelFunctions(t *testing.T) {
	src := "package main\n\nimport \"fmt\"\n\nfunc A() {}\n\nfunc B() {}\n"
	tree, err := Parse("main.go", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var names []string
	declNames(tree, tree.Root, &names)
	if len(names) != 2 {
		t.Fatalf("expected 2 declarations, got %d (%v)", len(names), names)
	}
}

func TestParseGoMethodNestsUnderReceiverNotType(t *testing.T) {
	src := "package main\n\ntype T struct{}\n\nfunc (t T) M() {}\n"
	tree, err := Parse("main.go", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var names []string
	declNames(tree, tree.Root, &names)
	foundMethod := false
	for _, n := range names {
		if n == "t T.M:(t T) M()" || (len(n) > 2 && n[:2] == "t ") {
			foundMethod = true
		}
	}
	if !foundMethod {
		t.Errorf("expected a method identifier derived from receiver+name, got %v", names)
	}
}

func TestParseEmptySourceYieldsEmptyTree(t *testing.T) {
	tree, err := Parse("main.go", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tree.Node(tree.Root).Children) != 0 {
		t.Errorf("expected no children for empty source")
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("file.unknownext12345", []byte("x"))
	if err == nil {
		t.Fatal("expected an error for an unrecognized extension")
	}
}
