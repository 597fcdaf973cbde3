package gen

import (
	"sort"
	"strconv"
	"strings"
)

// importSet assigns a stable, collision-free name to every imported package.
// Assignment order is sorted by import path, so the same set of paths always
// yields the same aliases.
type importSet struct {
	paths map[string]bool
	// resolved after finalize
	names map[string]string // path → name used in generated code
}

func newImportSet() *importSet {
	return &importSet{paths: make(map[string]bool)}
}

// add records a package path for import. Empty paths (universe types) are
// ignored.
func (s *importSet) add(path string) {
	if path == "" {
		return
	}
	s.paths[path] = true
}

// finalize assigns names. The default name is the package's short name; when
// two paths share a short name, later ones (in path order) get an alias built
// from parent path segments, the teacher convention for disambiguation.
func (s *importSet) finalize() {
	s.names = make(map[string]string, len(s.paths))
	taken := make(map[string]string) // name → path

	for _, path := range s.sortedPaths() {
		name := shortPkgName(path)
		if prev, ok := taken[name]; ok && prev != path {
			name = aliasFor(path, name, taken)
		}
		taken[name] = path
		s.names[path] = name
	}
}

// name returns the package name or alias to use for path in generated code.
// finalize must have been called.
func (s *importSet) name(path string) string {
	return s.names[path]
}

// sortedPaths returns all recorded paths in ordinal order.
func (s *importSet) sortedPaths() []string {
	paths := make([]string, 0, len(s.paths))
	for p := range s.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// render writes the import block lines, aliased entries spelled explicitly.
func (s *importSet) render(b *strings.Builder) {
	for _, path := range s.sortedPaths() {
		name := s.names[path]
		if name == shortPkgName(path) {
			b.WriteString("\t\"" + path + "\"\n")
			continue
		}
		b.WriteString("\t" + name + " \"" + path + "\"\n")
	}
}

// shortPkgName derives the default package name from an import path,
// skipping version suffixes like /v2.
func shortPkgName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(name) >= 2 && name[0] == 'v' && name[1] >= '0' && name[1] <= '9' && len(parts) >= 2 {
		name = parts[len(parts)-2]
		if idx := strings.LastIndex(name, "-"); idx >= 0 {
			name = name[idx+1:]
		}
	}
	return sanitizeIdent(name)
}

// aliasFor builds a collision-free alias from parent path segments.
func aliasFor(path, name string, taken map[string]string) string {
	parts := strings.Split(path, "/")
	for i := len(parts) - 2; i >= 0; i-- {
		candidate := sanitizeIdent(parts[i]) + name
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
	// Path segments exhausted; fall back to numeric suffixes.
	for n := 2; ; n++ {
		candidate := name + strconv.Itoa(n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}

// sanitizeIdent strips characters not valid in a Go identifier.
func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "pkg"
	}
	return b.String()
}
