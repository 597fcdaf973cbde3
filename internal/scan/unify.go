package scan

import (
	"go/types"

	"handlergen/internal/catalog"
)

// contractInfo is the resolved target contract: a generic interface whose
// type parameters get bound per implementing type.
type contractInfo struct {
	origin  string
	iface   *types.Interface
	tparams *types.TypeParamList
}

// newContractInfo validates that obj names a generic interface and wraps it.
func newContractInfo(obj types.Object, origin string) *contractInfo {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok || named.TypeParams().Len() == 0 {
		return nil
	}
	return &contractInfo{
		origin:  origin,
		iface:   iface,
		tparams: named.TypeParams(),
	}
}

// matchContract reports whether the type implements the contract, and with
// which type arguments. Go method sets hold at most one method per name, so
// a Go type yields at most one instantiation; multi-instantiation catalogs
// come from other providers.
//
// Matching is structural: every contract method must exist on the type (or
// its pointer form) with a signature that unifies against the generic one,
// binding each contract type parameter exactly once, consistently.
func (s *Scanner) matchContract(named *types.Named, contract *contractInfo) (catalog.Contract, bool, bool) {
	if c, ok := s.unifyMethodSet(types.NewMethodSet(named), contract); ok {
		return c, false, true
	}
	if c, ok := s.unifyMethodSet(types.NewMethodSet(types.NewPointer(named)), contract); ok {
		return c, true, true
	}
	return catalog.Contract{}, false, false
}

func (s *Scanner) unifyMethodSet(ms *types.MethodSet, contract *contractInfo) (catalog.Contract, bool) {
	bindings := make([]types.Type, contract.tparams.Len())
	loc := catalog.Location{}

	for i := 0; i < contract.iface.NumMethods(); i++ {
		gm := contract.iface.Method(i)
		sel := ms.Lookup(gm.Pkg(), gm.Name())
		if sel == nil {
			return catalog.Contract{}, false
		}
		cm, ok := sel.Obj().(*types.Func)
		if !ok {
			return catalog.Contract{}, false
		}
		gsig := gm.Type().(*types.Signature)
		csig := cm.Type().(*types.Signature)
		if !unifySignatures(gsig, csig, bindings) {
			return catalog.Contract{}, false
		}
		if loc.IsZero() {
			loc = s.locOf(cm.Pos())
		}
	}

	args := make([]catalog.TypeRef, len(bindings))
	for i, b := range bindings {
		if b == nil {
			// The implementation never pins this parameter down.
			return catalog.Contract{}, false
		}
		args[i] = typeRefOf(b)
	}
	return catalog.Contract{Origin: contract.origin, Args: args, Loc: loc}, true
}

// unifySignatures unifies a generic method signature against a concrete one.
func unifySignatures(generic, concrete *types.Signature, bindings []types.Type) bool {
	if generic.Variadic() != concrete.Variadic() {
		return false
	}
	if generic.Params().Len() != concrete.Params().Len() ||
		generic.Results().Len() != concrete.Results().Len() {
		return false
	}
	for i := 0; i < generic.Params().Len(); i++ {
		if !unify(generic.Params().At(i).Type(), concrete.Params().At(i).Type(), bindings) {
			return false
		}
	}
	for i := 0; i < generic.Results().Len(); i++ {
		if !unify(generic.Results().At(i).Type(), concrete.Results().At(i).Type(), bindings) {
			return false
		}
	}
	return true
}

// unify walks the generic type and the concrete type in parallel. Type
// parameters bind on first sight and must stay consistent afterwards; every
// other constructor must match structurally.
func unify(generic, concrete types.Type, bindings []types.Type) bool {
	if tp, ok := generic.(*types.TypeParam); ok {
		idx := tp.Index()
		if idx < 0 || idx >= len(bindings) {
			return false
		}
		if bindings[idx] == nil {
			bindings[idx] = concrete
			return true
		}
		return types.Identical(bindings[idx], concrete)
	}

	switch g := generic.(type) {
	case *types.Pointer:
		c, ok := concrete.(*types.Pointer)
		return ok && unify(g.Elem(), c.Elem(), bindings)
	case *types.Slice:
		c, ok := concrete.(*types.Slice)
		return ok && unify(g.Elem(), c.Elem(), bindings)
	case *types.Array:
		c, ok := concrete.(*types.Array)
		return ok && g.Len() == c.Len() && unify(g.Elem(), c.Elem(), bindings)
	case *types.Map:
		c, ok := concrete.(*types.Map)
		return ok && unify(g.Key(), c.Key(), bindings) && unify(g.Elem(), c.Elem(), bindings)
	case *types.Chan:
		c, ok := concrete.(*types.Chan)
		return ok && g.Dir() == c.Dir() && unify(g.Elem(), c.Elem(), bindings)
	case *types.Signature:
		c, ok := concrete.(*types.Signature)
		return ok && unifySignatures(g, c, bindings)
	case *types.Named:
		c, ok := concrete.(*types.Named)
		if !ok || g.Origin().Obj() != c.Origin().Obj() {
			return false
		}
		if g.TypeArgs().Len() != c.TypeArgs().Len() {
			return false
		}
		for i := 0; i < g.TypeArgs().Len(); i++ {
			if !unify(g.TypeArgs().At(i), c.TypeArgs().At(i), bindings) {
				return false
			}
		}
		return true
	default:
		return types.Identical(generic, concrete)
	}
}

// typeRefOf converts a bound type argument to a catalog reference.
func typeRefOf(t types.Type) catalog.TypeRef {
	switch t := t.(type) {
	case *types.Pointer:
		ref := typeRefOf(t.Elem())
		ref.Pointer = true
		return ref
	case *types.Named:
		obj := t.Obj()
		ref := catalog.TypeRef{Name: obj.Name()}
		if obj.Pkg() != nil {
			ref.PkgPath = obj.Pkg().Path()
		}
		for i := 0; i < t.TypeArgs().Len(); i++ {
			ref.Args = append(ref.Args, typeRefOf(t.TypeArgs().At(i)))
		}
		return ref
	case *types.Basic:
		return catalog.TypeRef{Name: t.Name()}
	default:
		return catalog.TypeRef{Name: types.TypeString(t, nil)}
	}
}
