package scan

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Directive kinds recognized on type declarations.
const (
	// DirIgnore excludes a type from discovery: //handlergen:ignore
	DirIgnore = "ignore"
)

// Directive is one parsed //handlergen: comment.
type Directive struct {
	Kind  string
	Value string
}

// parseDirectives extracts //handlergen: directives from a comment group.
func parseDirectives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}
	var out []Directive
	for _, comment := range doc.List {
		text := strings.TrimSpace(comment.Text)
		text = strings.TrimPrefix(text, "//")
		text = strings.TrimSpace(text)
		if !strings.HasPrefix(text, "handlergen:") {
			continue
		}
		text = strings.TrimPrefix(text, "handlergen:")

		parts := strings.SplitN(text, " ", 2)
		kind := strings.TrimSpace(parts[0])
		value := ""
		if len(parts) > 1 {
			value = strings.TrimSpace(parts[1])
		}
		switch kind {
		case DirIgnore:
			out = append(out, Directive{Kind: kind, Value: value})
		}
	}
	return out
}

func hasDirective(directives []Directive, kind string) bool {
	for _, d := range directives {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// ignoredTypes collects the names of declared types carrying an ignore
// directive, checking both the spec's own doc and the enclosing declaration's.
func ignoredTypes(pkg *packages.Package) map[string]bool {
	out := make(map[string]bool)
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil {
					doc = gd.Doc
				}
				if hasDirective(parseDirectives(doc), DirIgnore) {
					out[ts.Name.Name] = true
				}
			}
		}
	}
	return out
}
