// Package config resolves generator configuration: conventions from the host
// module's go.mod plus an optional handlergen.toml manifest next to it.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the optional configuration file looked up at the module
// root.
const ManifestName = "handlergen.toml"

// Config is the fully resolved generator configuration.
type Config struct {
	Module string // host module path from go.mod
	Root   string // host module root directory

	Scan     []string // package patterns relative to the module root
	Exclude  []string // package path prefixes to skip
	Contract Contract
	Output   Output
}

// Contract names the handler contract interface to discover.
type Contract struct {
	Package string `toml:"package"`
	Name    string `toml:"name"`
}

// Qualified returns the contract's fully-qualified name.
func (c Contract) Qualified() string {
	return c.Package + "." + c.Name
}

// Output says where the generated file goes.
type Output struct {
	Dir     string `toml:"dir"`     // directory relative to the module root
	Package string `toml:"package"` // package name of the generated file
	File    string `toml:"file"`    // file name; empty uses the generator default
}

// manifest mirrors the handlergen.toml layout.
type manifest struct {
	Scan struct {
		Paths   []string `toml:"paths"`
		Exclude []string `toml:"exclude"`
	} `toml:"scan"`
	Contract Contract `toml:"contract"`
	Output   Output   `toml:"output"`
}

// FindModuleRoot walks up from startDir to the directory containing go.mod.
func FindModuleRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat go.mod: %w", err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found in %s or any parent directory", startDir)
}

// Load builds the configuration for the module rooted at root: go.mod gives
// the module path, handlergen.toml (when present) overrides the defaults.
func Load(root string) (*Config, error) {
	module, err := parseModulePath(root)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Module: module,
		Root:   root,
		Scan:   []string{"./..."},
		Contract: Contract{
			Package: "handlergen/pkg/handler",
			Name:    "Handler",
		},
		Output: Output{
			Dir:     "internal/registrations",
			Package: "registrations",
		},
	}

	path := filepath.Join(root, ManifestName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("stat %s: %w", ManifestName, err)
	}

	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	if len(m.Scan.Paths) > 0 {
		cfg.Scan = m.Scan.Paths
	}
	cfg.Exclude = m.Scan.Exclude
	if m.Contract.Package != "" {
		cfg.Contract.Package = m.Contract.Package
	}
	if m.Contract.Name != "" {
		cfg.Contract.Name = m.Contract.Name
	}
	if m.Output.Dir != "" {
		cfg.Output.Dir = m.Output.Dir
	}
	if m.Output.Package != "" {
		cfg.Output.Package = m.Output.Package
	}
	if m.Output.File != "" {
		cfg.Output.File = m.Output.File
	}
	return cfg, nil
}

// OutputPkgPath returns the import path of the output package.
func (c *Config) OutputPkgPath() string {
	dir := filepath.ToSlash(strings.TrimPrefix(c.Output.Dir, "./"))
	if dir == "" || dir == "." {
		return c.Module
	}
	return c.Module + "/" + dir
}

// parseModulePath reads the module directive from go.mod.
func parseModulePath(root string) (string, error) {
	f, err := os.Open(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("open go.mod: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module ")), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}
	return "", fmt.Errorf("module directive not found in go.mod")
}
