// Package handler implements the conflict handlers that post-process
// a superimposed tree: type-ambiguity resolution, initialization-block
// matching, new-element/edited-element cross-references, duplicate
// declarations, and the method/constructor renaming-or-deletion
// handler. init registers the fixed-order default set with
// pkg/semimerge so RunFile can build it without an import cycle.
package handler

import (
	"strings"

	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/semimerge"
	"github.com/odvcencio/synmerge/pkg/similarity"
)

func init() {
	semimerge.RegisterDefaultHandlers(All)
}

// All returns every handler, in the fixed order spec'd by §4.5:
// TypeAmbiguity, InitializationBlocks, NewElementReferencingEditedOne,
// DuplicateDeclarations, MethodAndConstructorRenamingAndDeletion. cfg
// does not filter the list; each handler checks its own Config flag and
// does nothing when disabled.
func All(cfg semimerge.Config) []semimerge.Handler {
	var out []semimerge.Handler
	out = append(out, ImportAmbiguityHandler{})
	out = append(out, InitializationBlocksHandler{})
	out = append(out, NewElementReferencingEditedOneHandler{})
	out = append(out, DuplicateDeclarationsHandler{})
	out = append(out, RenamingDeletionHandler{})
	return out
}

func declOf(n *decltree.Node) similarity.Declaration {
	return similarity.Declaration{Signature: n.Signature, Body: n.Body}
}

// simpleName strips the oracle's qualifier prefixes (receiver, kind
// tag) from an identifier, leaving the bare name a reference in
// another declaration's body would actually spell out.
func simpleName(identifier string) string {
	name := strings.TrimPrefix(identifier, "field:")
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
