// Package scan is the production catalog provider: it loads the host
// module's packages with full type information and builds one TypeDescriptor
// per declared named type, with the contract instantiations each type
// implements.
package scan

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"handlergen/internal/catalog"
	"handlergen/internal/config"
)

// Scanner loads and analyzes the host module. It implements
// catalog.Provider.
type Scanner struct {
	cfg       *config.Config
	gitignore []gitignorePattern
	fset      *token.FileSet
}

// New creates a scanner for the configured module.
func New(cfg *config.Config) *Scanner {
	return &Scanner{
		cfg:       cfg,
		gitignore: loadGitignore(cfg.Root),
	}
}

// Snapshot loads the configured packages and produces a complete catalog
// snapshot. A missing contract interface yields a snapshot with an empty
// ContractOrigin rather than an error; the pipeline degrades to "no handlers"
// with a warning.
func (s *Scanner) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	loadCfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedName |
			packages.NeedFiles | packages.NeedImports,
		Dir: s.cfg.Root,
	}

	pkgs, err := packages.Load(loadCfg, s.cfg.Scan...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var loadErrs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	}
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(loadErrs, "\n  "))
	}
	if len(pkgs) == 0 {
		return &catalog.Snapshot{}, nil
	}
	s.fset = pkgs[0].Fset

	contract := s.findContract(pkgs)
	snap := &catalog.Snapshot{}
	if contract != nil {
		snap.ContractOrigin = contract.origin
	}

	for _, pkg := range pkgs {
		if pkg.Types == nil || s.shouldExclude(pkg.PkgPath) {
			continue
		}
		snap.Types = append(snap.Types, s.describePackage(pkg, contract)...)
	}

	// Catalog order is part of the determinism contract: first-seen duplicate
	// semantics follow it.
	sort.Slice(snap.Types, func(i, j int) bool {
		return snap.Types[i].Name() < snap.Types[j].Name()
	})
	return snap, nil
}

// describePackage builds descriptors for every named type declared at the
// package's top level.
func (s *Scanner) describePackage(pkg *packages.Package, contract *contractInfo) []*catalog.TypeDescriptor {
	ignored := ignoredTypes(pkg)
	ctors := s.packageConstructors(pkg)

	var out []*catalog.TypeDescriptor
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		tn, ok := obj.(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		if ignored[name] {
			continue
		}
		out = append(out, s.describeType(pkg, tn, named, ctors[name], contract))
	}
	return out
}

// describeType maps one named type onto the catalog model.
func (s *Scanner) describeType(pkg *packages.Package, tn *types.TypeName, named *types.Named,
	ctors []catalog.Constructor, contract *contractInfo) *catalog.TypeDescriptor {

	access := accessibilityOf(pkg.PkgPath, tn.Exported())
	_, isIface := named.Underlying().(*types.Interface)

	d := &catalog.TypeDescriptor{
		Ref: catalog.TypeRef{
			PkgPath: pkg.PkgPath,
			Name:    tn.Name(),
		},
		Accessibility: access,
		Abstract:      isIface,
		TypeParams:    named.TypeParams().Len(),
		// Package scope only declares generic definitions, never
		// instantiations, so arity > 0 means unbound here.
		Unbound:   named.TypeParams().Len() > 0,
		BaseTypes: baseTypeCount(named, isIface),
		Loc:       s.locOf(tn.Pos()),
	}

	d.Constructors = ctors
	if !isIface && d.TypeParams == 0 {
		// Concrete non-generic types are always constructible by composite
		// literal in Go; record it as the implicit constructor.
		d.Constructors = append(d.Constructors, catalog.Constructor{Accessibility: access})
	}

	if contract != nil && !isIface {
		if c, pointer, ok := s.matchContract(named, contract); ok {
			d.Ref.Pointer = pointer
			d.Contracts = append(d.Contracts, c)
		}
	}
	return d
}

// baseTypeCount feeds the candidate pre-filter. Go declares no base lists,
// so the closest syntactic signal is the size of the type's method set
// (pointer receiver included, promotions included): a type with an empty
// method set cannot implement the contract.
func baseTypeCount(named *types.Named, isIface bool) int {
	if isIface {
		return named.Underlying().(*types.Interface).NumMethods()
	}
	return types.NewMethodSet(types.NewPointer(named)).Len()
}

// packageConstructors indexes New* package functions by the type they
// return, following the constructor convention.
func (s *Scanner) packageConstructors(pkg *packages.Package) map[string][]catalog.Constructor {
	out := make(map[string][]catalog.Constructor)
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		if !strings.HasPrefix(name, "New") && !strings.HasPrefix(name, "new") {
			continue
		}
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Results().Len() == 0 {
			continue
		}
		retType := sig.Results().At(0).Type()
		if ptr, ok := retType.(*types.Pointer); ok {
			retType = ptr.Elem()
		}
		ret, ok := retType.(*types.Named)
		if !ok || ret.Obj().Pkg() == nil || ret.Obj().Pkg().Path() != pkg.PkgPath {
			continue
		}
		out[ret.Obj().Name()] = append(out[ret.Obj().Name()], catalog.Constructor{
			Name:          name,
			Accessibility: accessibilityOf(pkg.PkgPath, fn.Exported()),
			Params:        sig.Params().Len(),
		})
	}
	return out
}

// findContract locates the configured contract interface in the loaded
// packages or their transitive imports. Returns nil when absent or when the
// named type is not a generic interface.
func (s *Scanner) findContract(pkgs []*packages.Package) *contractInfo {
	visited := make(map[string]bool)
	var find func(pkg *packages.Package) *contractInfo
	find = func(pkg *packages.Package) *contractInfo {
		if pkg.Types == nil || visited[pkg.PkgPath] {
			return nil
		}
		visited[pkg.PkgPath] = true

		if pkg.PkgPath == s.cfg.Contract.Package {
			obj := pkg.Types.Scope().Lookup(s.cfg.Contract.Name)
			if obj == nil {
				return nil
			}
			return newContractInfo(obj, s.cfg.Contract.Qualified())
		}
		for _, imp := range sortedImports(pkg) {
			if c := find(imp); c != nil {
				return c
			}
		}
		return nil
	}

	for _, pkg := range pkgs {
		if c := find(pkg); c != nil {
			return c
		}
	}
	return nil
}

// sortedImports returns a package's imports in deterministic order.
func sortedImports(pkg *packages.Package) []*packages.Package {
	paths := make([]string, 0, len(pkg.Imports))
	for p := range pkg.Imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	imps := make([]*packages.Package, 0, len(paths))
	for _, p := range paths {
		imps = append(imps, pkg.Imports[p])
	}
	return imps
}

// shouldExclude checks configured excludes and .gitignore.
func (s *Scanner) shouldExclude(pkgPath string) bool {
	rel := strings.TrimPrefix(pkgPath, s.cfg.Module)
	rel = strings.TrimPrefix(rel, "/")
	for _, exc := range s.cfg.Exclude {
		excPath := strings.TrimPrefix(exc, "./")
		excPath = strings.TrimSuffix(excPath, "/...")
		if rel == excPath || strings.HasPrefix(rel, excPath+"/") {
			return true
		}
	}
	return isGitignored(rel, s.gitignore)
}

// accessibilityOf maps Go visibility onto the catalog model: unexported is
// private, exported under internal/ is module-internal, everything else is
// public.
func accessibilityOf(pkgPath string, exported bool) catalog.Accessibility {
	if !exported {
		return catalog.Private
	}
	if isInternalPath(pkgPath) {
		return catalog.Internal
	}
	return catalog.Public
}

func isInternalPath(pkgPath string) bool {
	for _, seg := range strings.Split(pkgPath, "/") {
		if seg == "internal" {
			return true
		}
	}
	return false
}

func (s *Scanner) locOf(pos token.Pos) catalog.Location {
	if s.fset == nil || !pos.IsValid() {
		return catalog.Location{}
	}
	p := s.fset.Position(pos)
	return catalog.Location{File: p.Filename, Line: p.Line, Column: p.Column}
}
