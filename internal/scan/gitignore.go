package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// gitignorePattern is a single parsed .gitignore pattern.
type gitignorePattern struct {
	pattern  string
	negation bool
	dirOnly  bool
}

// loadGitignore parses .gitignore from the module root. Packages under
// ignored paths never reach the catalog.
func loadGitignore(root string) []gitignorePattern {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []gitignorePattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := gitignorePattern{}
		if strings.HasPrefix(line, "!") {
			p.negation = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		p.pattern = line
		patterns = append(patterns, p)
	}
	return patterns
}

// isGitignored checks a module-relative path against the parsed patterns,
// last match wins.
func isGitignored(relPath string, patterns []gitignorePattern) bool {
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, p := range patterns {
		if matchGitignore(relPath, p.pattern) {
			ignored = !p.negation
		}
	}
	return ignored
}

// matchGitignore performs simplified gitignore matching.
func matchGitignore(path, pattern string) bool {
	// Leading / anchors the pattern to the root.
	if strings.HasPrefix(pattern, "/") {
		matched, _ := filepath.Match(pattern[1:], path)
		return matched
	}

	// A / anywhere else still matches from the root.
	if strings.Contains(pattern, "/") {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		return strings.HasPrefix(path, pattern+"/") || strings.HasPrefix(path, pattern)
	}

	// No /: match the basename or any path segment.
	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	for _, part := range strings.Split(path, "/") {
		if matched, _ := filepath.Match(pattern, part); matched {
			return true
		}
	}
	return false
}
