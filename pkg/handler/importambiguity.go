package handler

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/synmerge/pkg/decltree"
	"github.com/odvcencio/synmerge/pkg/diff3"
	"github.com/odvcencio/synmerge/pkg/semimerge"
)

// ImportAmbiguityHandler resolves the Configuration table's
// `handleTypeAmbiguityError` entry (§3, §4.9): it scans each
// superimposed KindImport node's body and flags import entries that
// share a simple (last-segment) name but resolve to different paths —
// the ambiguity a generic text merge would silently let through — by
// appending a comment line that names them. It does not re-merge the
// body, and entries in different import nodes are not compared.
type ImportAmbiguityHandler struct{}

func (ImportAmbiguityHandler) Name() string { return "TypeAmbiguity" }

func (h ImportAmbiguityHandler) Handle(ctx *semimerge.Context) error {
	if !ctx.Config.HandleTypeAmbiguityError {
		return nil
	}
	language := detectLanguage(ctx.Path)

	var walk func(id decltree.NodeID)
	walk = func(id decltree.NodeID) {
		n := ctx.SuperTree.Node(id)
		if n == nil {
			return
		}
		if n.Kind == decltree.KindImport {
			mergeImportNode(ctx, n, language)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(ctx.SuperTree.Root)
	return nil
}

// mergeImportNode scans a single import node's body as pkg/superimpose
// left it and appends an ambiguity annotation if warranted. The body
// itself is left unchanged; the raw left/base/right trees are not
// consulted.
func mergeImportNode(ctx *semimerge.Context, n *decltree.Node, language string) {
	entries := parseGenericImportEntries(n.Body, language)
	ambiguous := findAmbiguousImports(entries)
	if len(ambiguous) == 0 {
		return
	}
	ctx.Incr("import_ambiguity")
	var b strings.Builder
	b.WriteString(n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("// ambiguous import: multiple paths resolve to the simple name(s): ")
	names := make([]string, 0, len(ambiguous))
	for name := range ambiguous {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")
	n.Body = b.String()
}

type importEntry struct {
	path string // full import path/module as written
	name string // simple name other code would bind it under
}

// findAmbiguousImports groups entries by simple name and reports names
// bound to more than one distinct path.
func findAmbiguousImports(entries []importEntry) map[string]bool {
	byName := map[string]map[string]bool{}
	for _, e := range entries {
		if e.name == "" {
			continue
		}
		if byName[e.name] == nil {
			byName[e.name] = map[string]bool{}
		}
		byName[e.name][e.path] = true
	}
	out := map[string]bool{}
	for name, paths := range byName {
		if len(paths) > 1 {
			out[name] = true
		}
	}
	return out
}

func detectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".ts", ".tsx", ".js", ".jsx":
		return "javascript"
	case ".rs":
		return "rust"
	default:
		return ""
	}
}

// parseGenericImportEntries extracts (path, simpleName) pairs from an
// import block's merged text for ambiguity detection. It reads only the
// binding name and the path it resolves to, not the full per-language
// import grammar.
func parseGenericImportEntries(src, language string) []importEntry {
	switch language {
	case "go":
		return goImportEntries(src)
	case "python":
		return pythonImportEntries(src)
	case "javascript":
		return jsImportEntries(src)
	case "rust":
		return rustImportEntries(src)
	default:
		return nil
	}
}

func goImportEntries(src string) []importEntry {
	var out []importEntry
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "import" || line == "(" || line == ")" {
			continue
		}
		line = strings.TrimPrefix(line, "import ")
		line = strings.TrimSpace(line)
		quoted := extractQuoted(line)
		if len(quoted) == 0 {
			continue
		}
		path := quoted[0]
		fields := strings.Fields(line)
		simple := path[strings.LastIndexByte(path, '/')+1:]
		if len(fields) > 1 && !strings.HasPrefix(fields[0], "\"") {
			simple = fields[0] // explicit alias
		}
		out = append(out, importEntry{path: path, name: simple})
	}
	return out
}

func pythonImportEntries(src string) []importEntry {
	var out []importEntry
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "from ") {
			rest := strings.TrimPrefix(line, "from ")
			module, namesRaw, ok := strings.Cut(rest, " import ")
			if !ok {
				continue
			}
			for _, name := range splitCSV(namesRaw) {
				bound, alias, ok := strings.Cut(name, " as ")
				if ok {
					out = append(out, importEntry{path: strings.TrimSpace(module) + "." + strings.TrimSpace(bound), name: strings.TrimSpace(alias)})
				} else {
					out = append(out, importEntry{path: strings.TrimSpace(module) + "." + strings.TrimSpace(name), name: strings.TrimSpace(name)})
				}
			}
			continue
		}
		if strings.HasPrefix(line, "import ") {
			for _, seg := range splitCSV(strings.TrimPrefix(line, "import ")) {
				bound, alias, ok := strings.Cut(seg, " as ")
				if ok {
					out = append(out, importEntry{path: strings.TrimSpace(bound), name: strings.TrimSpace(alias)})
				} else {
					out = append(out, importEntry{path: strings.TrimSpace(seg), name: strings.TrimSpace(seg)})
				}
			}
		}
	}
	return out
}

func jsImportEntries(src string) []importEntry {
	var out []importEntry
	for _, stmt := range strings.Split(strings.ReplaceAll(src, "\n", ";"), ";") {
		stmt = strings.TrimSpace(stmt)
		if !strings.HasPrefix(stmt, "import ") || !strings.Contains(stmt, " from ") {
			continue
		}
		quoted := extractQuoted(stmt)
		if len(quoted) == 0 {
			continue
		}
		module := quoted[len(quoted)-1]
		clause := strings.TrimSpace(stmt[len("import "):strings.Index(stmt, " from ")])
		clause = strings.TrimPrefix(clause, "type ")
		for _, seg := range splitCSV(strings.TrimSuffix(strings.TrimPrefix(clause, "{"), "}")) {
			seg = strings.TrimSpace(seg)
			bound, alias, ok := strings.Cut(seg, " as ")
			if ok {
				out = append(out, importEntry{path: module, name: strings.TrimSpace(alias)})
			} else if seg != "" {
				out = append(out, importEntry{path: module, name: bound})
			}
		}
	}
	return out
}

func rustImportEntries(src string) []importEntry {
	var out []importEntry
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		prefix := ""
		switch {
		case strings.HasPrefix(line, "pub use "):
			prefix = "pub use "
		case strings.HasPrefix(line, "use "):
			prefix = "use "
		default:
			continue
		}
		path := strings.TrimSuffix(strings.TrimPrefix(line, prefix), ";")
		simple := path
		if idx := strings.LastIndex(path, "::"); idx >= 0 {
			simple = path[idx+2:]
		}
		out = append(out, importEntry{path: path, name: simple})
	}
	return out
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func extractQuoted(raw string) []string {
	var out []string
	for i := 0; i < len(raw); i++ {
		quote := raw[i]
		if quote != '"' && quote != '\'' && quote != '`' {
			continue
		}
		start := i + 1
		for j := start; j < len(raw); j++ {
			if raw[j] == '\\' {
				j++
				continue
			}
			if raw[j] == quote {
				out = append(out, raw[start:j])
				i = j
				break
			}
		}
	}
	return out
}

// fallbackMerge is the non-language-specific path mergeImportNode
// would use if a future language's import grammar isn't covered
// above: a plain diff3 merge of the raw text, conflicts and all.
func fallbackMerge(base, left, right string) string {
	result := diff3.Merge([]byte(base), []byte(left), []byte(right))
	return fmt.Sprintf("%s", result.Merged)
}
