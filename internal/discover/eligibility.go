package discover

import "handlergen/internal/catalog"

// Rejection says why a candidate was dropped. Rejections are silent by
// design: they produce no diagnostics and are only surfaced through verbose
// logging.
type Rejection uint8

const (
	// Accepted means the type passed every eligibility rule.
	Accepted Rejection = iota
	// RejectUnresolved: semantic resolution failed.
	RejectUnresolved
	// RejectAbstract: abstract or static types cannot be instantiated.
	RejectAbstract
	// RejectInaccessible: neither public nor internal.
	RejectInaccessible
	// RejectUnboundGeneric: a generic definition with free type parameters.
	RejectUnboundGeneric
	// RejectOpenArgs: an instantiation with a still-open type argument.
	RejectOpenArgs
	// RejectNoConstructor: no non-static public-or-internal constructor.
	RejectNoConstructor
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectUnresolved:
		return "unresolved symbol"
	case RejectAbstract:
		return "abstract or static"
	case RejectInaccessible:
		return "not public or internal"
	case RejectUnboundGeneric:
		return "unbound generic definition"
	case RejectOpenArgs:
		return "open type arguments"
	case RejectNoConstructor:
		return "no usable constructor"
	}
	return "unknown"
}

// Resolve applies the eligibility rules in order; the first failing rule
// wins. A type embedding an instantiated generic base is not rejected as
// open: the catalog provider already closed its parameters.
func Resolve(d *catalog.TypeDescriptor) Rejection {
	if d.Unresolved {
		return RejectUnresolved
	}
	if d.Abstract || d.Static {
		return RejectAbstract
	}
	if d.Accessibility != catalog.Public && d.Accessibility != catalog.Internal {
		return RejectInaccessible
	}
	if d.Unbound {
		return RejectUnboundGeneric
	}
	if d.OpenArgs {
		return RejectOpenArgs
	}
	if !hasUsableConstructor(d) {
		return RejectNoConstructor
	}
	return Accepted
}

// hasUsableConstructor reports whether the consuming container could build
// the type: at least one constructor that is non-static and public or
// internal.
func hasUsableConstructor(d *catalog.TypeDescriptor) bool {
	for _, c := range d.Constructors {
		if c.Static {
			continue
		}
		if c.Accessibility == catalog.Public || c.Accessibility == catalog.Internal {
			return true
		}
	}
	return false
}
