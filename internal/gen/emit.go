package gen

import (
	"fmt"
	"strings"

	"handlergen/internal/catalog"
	"handlergen/internal/validate"
)

const (
	generatorName = "handlergen"

	// DefaultFileName is the stable identifying name of the generated unit.
	DefaultFileName = "handler_registrations.gen.go"

	registryPkgPath = "handlergen/pkg/registry"
	handlerPkgPath  = "handlergen/pkg/handler"
)

// Unit is the single generated source artifact.
type Unit struct {
	Name    string
	Content []byte
}

// Options configure the emitted file.
type Options struct {
	Package  string // package name of the generated file
	PkgPath  string // import path of that package; types living there are not qualified
	FileName string // defaults to DefaultFileName
	Version  string // generator version stamped into the header
}

// Emit renders the sorted records into one self-contained source unit. An
// empty record set produces no unit at all: finding no handlers is a silent
// no-op, not an error.
func Emit(records []validate.HandlerRecord, opts Options) *Unit {
	if len(records) == 0 {
		return nil
	}
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}

	imp := newImportSet()
	imp.add(registryPkgPath)
	imp.add(handlerPkgPath)
	for _, rec := range records {
		addRef(imp, rec.Handler.Ref, opts.PkgPath)
		addRef(imp, rec.Input, opts.PkgPath)
		addRef(imp, rec.Output, opts.PkgPath)
	}
	imp.finalize()

	registryName := imp.name(registryPkgPath)
	handlerName := imp.name(handlerPkgPath)

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by %s %s; DO NOT EDIT.\n", generatorName, opts.Version)
	b.WriteString("//\n")
	fmt.Fprintf(&b, "// %d handler registration(s) discovered.\n\n", len(records))
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)

	b.WriteString("import (\n")
	imp.render(&b)
	b.WriteString(")\n\n")

	b.WriteString("// RegisterHandlers adds a scoped registration for every discovered handler\n")
	b.WriteString("// and returns the registry for chaining.\n")
	fmt.Fprintf(&b, "func RegisterHandlers(r *%s.Registry) *%s.Registry {\n", registryName, registryName)
	for _, rec := range records {
		iface := fmt.Sprintf("%s.Handler[%s, %s]",
			handlerName,
			typeExpr(imp, rec.Input, opts.PkgPath),
			typeExpr(imp, rec.Output, opts.PkgPath))
		fmt.Fprintf(&b, "\t%s.Scoped(r, func() %s { return %s })\n",
			registryName, iface, ctorExpr(imp, rec.Handler, opts.PkgPath))
	}
	b.WriteString("\treturn r\n")
	b.WriteString("}\n")

	return &Unit{
		Name:    opts.FileName,
		Content: []byte(b.String()),
	}
}

// addRef records the reference's package for import unless it is a universe
// type or lives in the output package itself. Type arguments of instantiated
// generics are recorded too.
func addRef(imp *importSet, ref catalog.TypeRef, selfPkg string) {
	for _, arg := range ref.Args {
		addRef(imp, arg, selfPkg)
	}
	if ref.PkgPath == "" || ref.PkgPath == selfPkg {
		return
	}
	imp.add(ref.PkgPath)
}

// typeExpr renders a type reference as it must appear in the generated file.
func typeExpr(imp *importSet, ref catalog.TypeRef, selfPkg string) string {
	var b strings.Builder
	if ref.Pointer {
		b.WriteString("*")
	}
	if ref.PkgPath != "" && ref.PkgPath != selfPkg {
		b.WriteString(imp.name(ref.PkgPath))
		b.WriteString(".")
	}
	b.WriteString(ref.Name)
	if len(ref.Args) > 0 {
		b.WriteString("[")
		for i, arg := range ref.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(typeExpr(imp, arg, selfPkg))
		}
		b.WriteString("]")
	}
	return b.String()
}

// ctorExpr renders the construction expression for a handler. A usable
// niladic constructor is preferred; otherwise a composite literal, taking a
// pointer when the contract is implemented on *T.
func ctorExpr(imp *importSet, d *catalog.TypeDescriptor, selfPkg string) string {
	qualifier := ""
	if d.Ref.PkgPath != "" && d.Ref.PkgPath != selfPkg {
		qualifier = imp.name(d.Ref.PkgPath) + "."
	}
	for _, c := range d.Constructors {
		if c.Name == "" || c.Static || c.Params != 0 {
			continue
		}
		if c.Accessibility != catalog.Public && c.Accessibility != catalog.Internal {
			continue
		}
		return qualifier + c.Name + "()"
	}
	if d.Ref.Pointer {
		return "&" + qualifier + d.Ref.Name + "{}"
	}
	return qualifier + d.Ref.Name + "{}"
}
