// Package oracle is the parsing collaborator (spec §6): it hands a
// declaration tree to the rest of semistructured merge, the way
// gotreesitter/gts-suite hand a concrete syntax tree to the teacher's
// entity extractor. Where the extractor this is adapted from flattens
// nested declarations into a single ordered list plus synthesized
// container headers, Parse here builds the recursive decltree.Tree
// directly: a class's members become real children of the class's
// container node, not siblings re-stitched together after the fact.
package oracle

import (
	"fmt"
	"strings"

	gotreesitter "github.com/odvcencio/gotreesitter"
	"github.com/odvcencio/gotreesitter/grammars"
	classify "github.com/odvcencio/gts-suite/pkg/lang/treesitter"

	"github.com/odvcencio/synmerge/pkg/decltree"
)

var (
	importTypes         = classify.ImportNodeTypes
	declarationTypes    = classify.DeclarationNodeTypes
	nameIdentifierTypes = classify.NameIdentifierTypes
)

var containerDeclarationNodeTypes = map[string]bool{
	"class_definition":      true,
	"class_declaration":     true,
	"interface_declaration": true,
	"struct_declaration":    true,
	"struct_item":           true,
	"enum_declaration":      true,
	"enum_item":             true,
	"trait_declaration":     true,
	"trait_item":            true,
	"impl_item":             true,
	"object_declaration":    true,
	"record_declaration":    true,
	"protocol_declaration":  true,
}

var initializerBlockNodeTypes = map[string]bool{
	"static_initializer":   true,
	"instance_initializer": true,
}

var fieldDeclarationNodeTypes = map[string]bool{
	"field_declaration": true,
	"var_declaration":   true,
	"const_declaration": true,
	"var_spec":          true,
	"const_spec":        true,
}

// ErrUnsupportedLanguage is returned when the filename's extension has
// no registered grammar.
type ErrUnsupportedLanguage struct{ Filename string }

func (e *ErrUnsupportedLanguage) Error() string {
	return fmt.Sprintf("oracle: unsupported file type: %s", e.Filename)
}

// Parse parses source and returns the recursive declaration tree
// rooted at a CompilationUnit. An empty source parses to an empty
// tree (root with no children), never an error.
func Parse(filename string, source []byte) (*decltree.Tree, error) {
	entry := grammars.DetectLanguage(filename)
	if entry == nil {
		return nil, &ErrUnsupportedLanguage{Filename: filename}
	}

	t := decltree.New()
	if len(source) == 0 {
		return t, nil
	}

	bt, err := grammars.ParseFile(filename, source)
	if err != nil {
		return nil, fmt.Errorf("oracle: parse error: %w", err)
	}
	defer bt.Release()

	root := bt.RootNode()
	b := &builder{bt: bt, source: source, counters: map[string]int{}}
	b.fillChildren(t, t.Root, root, "")
	return t, nil
}

// builder tracks per-parent ordinal counters so that two structurally
// identical anonymous nodes (two "Other" regions, two initializer
// blocks) still get distinct, stable identifiers within their
// container — order-based disambiguation, same idea as the teacher's
// assignIdentityOrdinals but scoped per container instead of per file.
type builder struct {
	bt       *gotreesitter.BoundTree
	source   []byte
	counters map[string]int
}

func (b *builder) ordinal(scope, key string) int {
	k := scope + "\x00" + key
	n := b.counters[k]
	b.counters[k] = n + 1
	return n
}

// fillChildren walks node's direct children and adds them under parent
// in out, recursing into container declarations. enclosingName names
// the container being filled (used to recognize constructors by
// name-equals-enclosing-type).
func (b *builder) fillChildren(out *decltree.Tree, parent decltree.NodeID, node *gotreesitter.Node, enclosingName string) {
	childCount := node.ChildCount()
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		b.addNode(out, parent, child, enclosingName)
	}
}

func (b *builder) addNode(out *decltree.Tree, parent decltree.NodeID, node *gotreesitter.Node, enclosingName string) {
	nodeType := b.bt.NodeType(node)

	if importTypes[nodeType] {
		text := b.bt.NodeText(node)
		id := fmt.Sprintf("import:%s", strings.TrimSpace(text))
		out.AddTerminal(parent, decltree.KindImport, id, "", text)
		return
	}

	if containerDeclarationNodeTypes[nodeType] {
		name := extractFirstIdentifierName(b.bt, node)
		kind := containerKind(nodeType)
		scope := fmt.Sprintf("%d", parent)
		id := fmt.Sprintf("%s:%s#%d", kind, name, b.ordinal(scope, kind.String()+":"+name))
		containerID := out.AddContainer(parent, kind, id)
		b.fillChildren(out, containerID, node, name)
		return
	}

	if isDeclarationNode(b.bt, node) {
		b.addTerminalDeclaration(out, parent, node, enclosingName)
		return
	}

	// Anything else (preamble, comments, statements, punctuation) is
	// kept verbatim as an opaque Other leaf, so concatenating every
	// child's text still reproduces the source exactly.
	text := b.bt.NodeText(node)
	scope := fmt.Sprintf("%d", parent)
	id := fmt.Sprintf("other#%d", b.ordinal(scope, "other"))
	out.AddTerminal(parent, decltree.KindOther, id, "", text)
}

func (b *builder) addTerminalDeclaration(out *decltree.Tree, parent decltree.NodeID, node *gotreesitter.Node, enclosingName string) {
	nodeType := b.bt.NodeType(node)
	text := b.bt.NodeText(node)
	sig := declarationSignature(text)
	name, receiver := extractNameAndReceiver(b.bt, node)

	kind := decltree.KindMethod
	switch {
	case initializerBlockNodeTypes[nodeType]:
		kind = decltree.KindInitializerBlock
	case fieldDeclarationNodeTypes[nodeType]:
		kind = decltree.KindField
	case name != "" && enclosingName != "" && name == enclosingName:
		kind = decltree.KindConstructor
	}

	var id string
	switch kind {
	case decltree.KindField:
		id = fmt.Sprintf("field:%s", name)
	case decltree.KindInitializerBlock:
		scope := fmt.Sprintf("%d", parent)
		id = fmt.Sprintf("init#%d", b.ordinal(scope, "init"))
	case decltree.KindConstructor:
		id = fmt.Sprintf("ctor:%s", normalizeWhitespace(paramsOnly(sig)))
	default:
		if receiver != "" {
			id = fmt.Sprintf("%s.%s:%s", receiver, name, normalizeWhitespace(paramsOnly(sig)))
		} else {
			id = fmt.Sprintf("%s:%s", name, normalizeWhitespace(paramsOnly(sig)))
		}
	}

	out.AddTerminal(parent, kind, id, sig, text)
}

func containerKind(nodeType string) decltree.Kind {
	switch nodeType {
	case "interface_declaration", "protocol_declaration":
		return decltree.KindInterface
	case "enum_declaration", "enum_item":
		return decltree.KindEnum
	default:
		return decltree.KindClass
	}
}

func isDeclarationNode(bt *gotreesitter.BoundTree, node *gotreesitter.Node) bool {
	nodeType := bt.NodeType(node)
	if declarationTypes[nodeType] {
		return true
	}
	if nodeType == "method_definition" {
		return true
	}
	if fieldDeclarationNodeTypes[nodeType] || initializerBlockNodeTypes[nodeType] {
		return true
	}
	if !node.IsNamed() || !looksLikeDeclarationNodeType(nodeType) {
		return false
	}
	return hasNameIdentifierDescendant(bt, node)
}

func looksLikeDeclarationNodeType(nodeType string) bool {
	return strings.Contains(nodeType, "declaration") || strings.Contains(nodeType, "definition")
}

func hasNameIdentifierDescendant(bt *gotreesitter.BoundTree, node *gotreesitter.Node) bool {
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if nameIdentifierTypes[bt.NodeType(child)] {
			return true
		}
		if hasNameIdentifierDescendant(bt, child) {
			return true
		}
	}
	return false
}

// extractNameAndReceiver mirrors the grammar-specific dispatch the
// extractor this is adapted from uses; only the Go, C-family, and
// generic-fallback paths are kept since those cover everything the
// pack's oracle consumers exercise.
func extractNameAndReceiver(bt *gotreesitter.BoundTree, node *gotreesitter.Node) (name, receiver string) {
	switch bt.NodeType(node) {
	case "method_declaration":
		return extractGoMethodNameReceiver(bt, node)
	case "function_declaration", "function_definition", "function_item":
		name = extractFirstIdentifierName(bt, node)
		if name == "" {
			name = extractDeclaratorName(bt, node)
		}
		return name, ""
	case "type_declaration":
		return extractGoTypeName(bt, node), ""
	case "var_declaration", "const_declaration":
		return extractGoVarConstName(bt, node), ""
	default:
		return extractFirstIdentifierName(bt, node), ""
	}
}

func extractDeclaratorName(bt *gotreesitter.BoundTree, node *gotreesitter.Node) string {
	declaratorTypes := map[string]bool{"function_declarator": true, "init_declarator": true}
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if declaratorTypes[bt.NodeType(child)] {
			return extractFirstIdentifierName(bt, child)
		}
	}
	return ""
}

func extractFirstIdentifierName(bt *gotreesitter.BoundTree, node *gotreesitter.Node) string {
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if nameIdentifierTypes[bt.NodeType(child)] {
			return bt.NodeText(child)
		}
		if nested := extractFirstIdentifierName(bt, child); nested != "" {
			return nested
		}
	}
	return ""
}

func extractGoMethodNameReceiver(bt *gotreesitter.BoundTree, node *gotreesitter.Node) (name, receiver string) {
	seenFirstParamList := false
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		childType := bt.NodeType(child)
		if childType == "parameter_list" && !seenFirstParamList {
			receiver = extractReceiverText(bt, child)
			seenFirstParamList = true
			continue
		}
		if childType == "field_identifier" || nameIdentifierTypes[childType] {
			name = bt.NodeText(child)
			break
		}
	}
	return
}

func extractReceiverText(bt *gotreesitter.BoundTree, paramList *gotreesitter.Node) string {
	for i := 0; i < paramList.NamedChildCount(); i++ {
		child := paramList.NamedChild(i)
		if bt.NodeType(child) == "parameter_declaration" {
			return bt.NodeText(child)
		}
	}
	text := bt.NodeText(paramList)
	if len(text) >= 2 && text[0] == '(' && text[len(text)-1] == ')' {
		return text[1 : len(text)-1]
	}
	return text
}

func extractGoTypeName(bt *gotreesitter.BoundTree, node *gotreesitter.Node) string {
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if bt.NodeType(child) == "type_spec" {
			for j := 0; j < child.NamedChildCount(); j++ {
				gc := child.NamedChild(j)
				if bt.NodeType(gc) == "type_identifier" {
					return bt.NodeText(gc)
				}
			}
		}
	}
	return extractFirstIdentifierName(bt, node)
}

func extractGoVarConstName(bt *gotreesitter.BoundTree, node *gotreesitter.Node) string {
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		childType := bt.NodeType(child)
		if childType == "var_spec" || childType == "const_spec" {
			return extractFirstIdentifierName(bt, child)
		}
	}
	return extractFirstIdentifierName(bt, node)
}

func declarationSignature(body string) string {
	text := strings.TrimSpace(body)
	if text == "" {
		return ""
	}
	if idx := strings.Index(text, "{"); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	return strings.Join(strings.Fields(text), " ")
}

// paramsOnly trims a signature down to its parameter list (and
// anything after), dropping the return type/modifiers prefix, so a
// method's identifier doesn't change when only its return type is
// edited.
func paramsOnly(sig string) string {
	if idx := strings.IndexByte(sig, '('); idx >= 0 {
		return sig[idx:]
	}
	return sig
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
