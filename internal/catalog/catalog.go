// Package catalog defines the type-catalog data model the generator consumes.
// A Provider delivers a complete, consistent Snapshot of the declared types of
// a host module before the pipeline begins; descriptors are read-only to every
// downstream stage.
package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Accessibility classifies how visible a declared type is to generated code.
type Accessibility uint8

const (
	// Public types are visible everywhere.
	Public Accessibility = iota
	// Internal types are visible within the declaring module only. For Go
	// this means an exported type under an internal/ path element.
	Internal
	// Protected exists for catalogs produced from languages with inheritance
	// visibility; the Go provider never produces it.
	Protected
	// Private types are invisible outside their declaring scope.
	Private
)

func (a Accessibility) String() string {
	switch a {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "unknown"
}

// Location is a source position inside the scanned module.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

func (l Location) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// TypeRef identifies one referenced type by package path and name.
type TypeRef struct {
	PkgPath string    // import path; empty for universe types like string
	Name    string    // type name within the package
	Pointer bool      // the pointer form of the type is the relevant one
	Args    []TypeRef // type arguments when the reference is an instantiated generic
}

// Qualified returns the fully-qualified name, e.g. "example.com/app/msg.Ping"
// or "example.com/app/msg.Box[example.com/app/msg.Ping]" for instantiations.
// The pointer flag is deliberately excluded: qualified names identify the
// declared type, pointers only matter for construction.
func (r TypeRef) Qualified() string {
	name := r.Name
	if r.PkgPath != "" {
		name = r.PkgPath + "." + r.Name
	}
	if len(r.Args) == 0 {
		return name
	}
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.Qualified()
	}
	return name + "[" + strings.Join(args, ", ") + "]"
}

// IsZero reports whether the reference is unset.
func (r TypeRef) IsZero() bool {
	return r.PkgPath == "" && r.Name == ""
}

// Constructor describes one way to build a value of a type.
type Constructor struct {
	Name          string // constructor function name; empty for the implicit literal
	Accessibility Accessibility
	Static        bool // factory owned by the type system, not callable by the container
	Params        int  // parameter count
}

// Contract is one implemented instantiation of the target contract: the
// identity of the contract's generic definition plus the ordered type
// arguments the implementing type supplied.
type Contract struct {
	Origin string // fully-qualified name of the generic definition
	Args   []TypeRef
	Loc    Location // the implementing clause when resolvable, else zero
}

// TypeDescriptor is the catalog's view of one declared type. Built by a
// Provider, never modified afterwards.
type TypeDescriptor struct {
	Ref           TypeRef
	Accessibility Accessibility

	Unresolved bool // semantic resolution failed; only the syntactic shell is known
	Abstract   bool // cannot be instantiated (Go: interface types)
	Static     bool // no instances at all; no Go analog, kept for foreign catalogs

	TypeParams int  // generic arity of the declaration
	Unbound    bool // generic definition with no type arguments supplied
	OpenArgs   bool // instantiation with at least one still-open type argument

	BaseTypes    int // declared base/interface entries (Go: method-set size)
	Contracts    []Contract
	Constructors []Constructor

	Loc Location // declaration site
}

// Name returns the descriptor's fully-qualified type name.
func (d *TypeDescriptor) Name() string {
	return d.Ref.Qualified()
}

// Snapshot is one complete, immutable view of the host module's types.
type Snapshot struct {
	// ContractOrigin is the fully-qualified name of the target contract's
	// generic definition, or empty when the contract could not be found.
	ContractOrigin string
	Types          []*TypeDescriptor
}

// Provider supplies catalog snapshots. Implementations must return a snapshot
// that is complete before the pipeline starts consuming it.
type Provider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
