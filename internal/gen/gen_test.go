package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlergen/internal/catalog"
	"handlergen/internal/validate"
)

func record(handlerPkg, handlerName, inPkg, inName, outName string) validate.HandlerRecord {
	return validate.HandlerRecord{
		Handler: &catalog.TypeDescriptor{
			Ref:          catalog.TypeRef{PkgPath: handlerPkg, Name: handlerName, Pointer: true},
			Constructors: []catalog.Constructor{{}},
		},
		Input:  catalog.TypeRef{PkgPath: inPkg, Name: inName},
		Output: catalog.TypeRef{Name: outName},
	}
}

//
// -----------------------------------------------------------------------------
// Sort
// -----------------------------------------------------------------------------

// TestSort_OrdinalByQualifiedName verifies the total order is a byte-wise
// comparison of the fully-qualified handler name.
func TestSort_OrdinalByQualifiedName(t *testing.T) {
	t.Parallel()

	records := []validate.HandlerRecord{
		record("example.com/b", "Zeta", "example.com/b", "Req", "string"),
		record("example.com/a", "Beta", "example.com/a", "Req", "string"),
		record("example.com/a", "Alpha", "example.com/a", "Req", "string"),
	}
	Sort(records)

	assert.Equal(t, "example.com/a.Alpha", records[0].Handler.Name())
	assert.Equal(t, "example.com/a.Beta", records[1].Handler.Name())
	assert.Equal(t, "example.com/b.Zeta", records[2].Handler.Name())
}

// TestSort_OrdinalNotCaseInsensitive verifies ordinal ordering: uppercase
// sorts before lowercase, no culture rules applied.
func TestSort_OrdinalNotCaseInsensitive(t *testing.T) {
	t.Parallel()

	records := []validate.HandlerRecord{
		record("example.com/p", "alpha", "example.com/p", "A", "string"),
		record("example.com/p", "Zeta", "example.com/p", "B", "string"),
	}
	Sort(records)

	assert.Equal(t, "example.com/p.Zeta", records[0].Handler.Name())
	assert.Equal(t, "example.com/p.alpha", records[1].Handler.Name())
}

//
// -----------------------------------------------------------------------------
// Emit
// -----------------------------------------------------------------------------

// TestEmit_SingleRegistration verifies the complete shape of the generated
// unit for one handler.
func TestEmit_SingleRegistration(t *testing.T) {
	t.Parallel()

	records := []validate.HandlerRecord{
		record("example.com/app/handlers", "PingHandler", "example.com/app/msg", "Ping", "string"),
	}
	unit := Emit(records, Options{
		Package: "registrations",
		PkgPath: "example.com/app/internal/registrations",
		Version: "v1.2.3",
	})
	require.NotNil(t, unit)
	assert.Equal(t, DefaultFileName, unit.Name)

	want := `// Code generated by handlergen v1.2.3; DO NOT EDIT.
//
// 1 handler registration(s) discovered.

package registrations

import (
	"example.com/app/handlers"
	"example.com/app/msg"
	"handlergen/pkg/handler"
	"handlergen/pkg/registry"
)

// RegisterHandlers adds a scoped registration for every discovered handler
// and returns the registry for chaining.
func RegisterHandlers(r *registry.Registry) *registry.Registry {
	registry.Scoped(r, func() handler.Handler[msg.Ping, string] { return &handlers.PingHandler{} })
	return r
}
`
	assert.Equal(t, want, string(unit.Content))
}

// TestEmit_EmptyIsNoOp verifies no unit is produced for an empty record set.
func TestEmit_EmptyIsNoOp(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Emit(nil, Options{Package: "registrations", Version: "v1"}))
	assert.Nil(t, Emit([]validate.HandlerRecord{}, Options{Package: "registrations", Version: "v1"}))
}

// TestEmit_Deterministic verifies repeated emission over the same records is
// byte-identical.
func TestEmit_Deterministic(t *testing.T) {
	t.Parallel()

	records := []validate.HandlerRecord{
		record("example.com/app/a", "H1", "example.com/app/msg", "ReqA", "string"),
		record("example.com/app/b", "H2", "example.com/app/msg", "ReqB", "int"),
	}
	opts := Options{Package: "registrations", Version: "v1.0.0"}

	first := Emit(records, opts)
	second := Emit(records, opts)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Content, second.Content)
}

// TestEmit_RegistrationOrderFollowsInput verifies the emitter renders
// records exactly in the order the sorter produced.
func TestEmit_RegistrationOrderFollowsInput(t *testing.T) {
	t.Parallel()

	records := Sort([]validate.HandlerRecord{
		record("example.com/app", "H2", "example.com/app", "ReqB", "int"),
		record("example.com/app", "H1", "example.com/app", "ReqA", "string"),
	})
	unit := Emit(records, Options{Package: "registrations", Version: "v1"})
	require.NotNil(t, unit)

	content := string(unit.Content)
	assert.Less(t, strings.Index(content, "H1{}"), strings.Index(content, "H2{}"))
}

// TestEmit_AliasesCollidingPackages verifies two packages with the same
// short name get deterministic, distinct aliases.
func TestEmit_AliasesCollidingPackages(t *testing.T) {
	t.Parallel()

	records := []validate.HandlerRecord{
		record("example.com/first/msg", "AHandler", "example.com/first/msg", "Req", "string"),
		record("example.com/second/msg", "BHandler", "example.com/second/msg", "Req", "string"),
	}
	unit := Emit(records, Options{Package: "registrations", Version: "v1"})
	require.NotNil(t, unit)

	content := string(unit.Content)
	assert.Contains(t, content, "\t\"example.com/first/msg\"\n")
	assert.Contains(t, content, "\tsecondmsg \"example.com/second/msg\"\n")
	assert.Contains(t, content, "secondmsg.Req")
	assert.Contains(t, content, "&secondmsg.BHandler{}")
}

// TestEmit_InstantiatedGenericArgument verifies a generic request type is
// rendered through the import set: its package imported and its type
// arguments qualified, never a raw import path inside the type expression.
func TestEmit_InstantiatedGenericArgument(t *testing.T) {
	t.Parallel()

	rec := record("example.com/app/handlers", "BoxHandler", "example.com/app/box", "Box", "string")
	rec.Input.Args = []catalog.TypeRef{{PkgPath: "example.com/app/msg", Name: "Ping"}}
	unit := Emit([]validate.HandlerRecord{rec}, Options{Package: "registrations", Version: "v1"})
	require.NotNil(t, unit)

	content := string(unit.Content)
	assert.Contains(t, content, "\t\"example.com/app/box\"\n")
	assert.Contains(t, content, "\t\"example.com/app/msg\"\n")
	assert.Contains(t, content, "handler.Handler[box.Box[msg.Ping], string]")
	assert.NotContains(t, content, "example.com/app/box.Box")
}

// TestEmit_SelfPackageUnqualified verifies types living in the output
// package are neither imported nor qualified.
func TestEmit_SelfPackageUnqualified(t *testing.T) {
	t.Parallel()

	records := []validate.HandlerRecord{
		record("example.com/app", "PingHandler", "example.com/app", "Ping", "string"),
	}
	unit := Emit(records, Options{Package: "app", PkgPath: "example.com/app", Version: "v1"})
	require.NotNil(t, unit)

	content := string(unit.Content)
	assert.NotContains(t, content, "\"example.com/app\"")
	assert.Contains(t, content, "handler.Handler[Ping, string]")
	assert.Contains(t, content, "return &PingHandler{}")
}

// TestEmit_PrefersNiladicConstructor verifies a usable New* constructor wins
// over the composite literal.
func TestEmit_PrefersNiladicConstructor(t *testing.T) {
	t.Parallel()

	rec := record("example.com/app", "PingHandler", "example.com/app", "Ping", "string")
	rec.Handler.Constructors = []catalog.Constructor{
		{Name: "NewPingHandlerWithDeps", Params: 2},
		{Name: "NewPingHandler"},
	}
	unit := Emit([]validate.HandlerRecord{rec}, Options{Package: "registrations", Version: "v1"})
	require.NotNil(t, unit)

	assert.Contains(t, string(unit.Content), "return app.NewPingHandler()")
	assert.NotContains(t, string(unit.Content), "PingHandler{}")
}

// TestEmit_ValueReceiverLiteral verifies non-pointer implementers are built
// by value.
func TestEmit_ValueReceiverLiteral(t *testing.T) {
	t.Parallel()

	rec := record("example.com/app", "ValHandler", "example.com/app", "Req", "string")
	rec.Handler.Ref.Pointer = false
	unit := Emit([]validate.HandlerRecord{rec}, Options{Package: "registrations", Version: "v1"})
	require.NotNil(t, unit)

	assert.Contains(t, string(unit.Content), "return app.ValHandler{}")
}
