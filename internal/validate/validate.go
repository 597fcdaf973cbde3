// Package validate turns matched contract instantiations into accepted
// handler records, enforcing the two type-argument shape and warning about
// duplicate (request, response) signatures.
package validate

import (
	"handlergen/internal/catalog"
	"handlergen/internal/diag"
)

// HandlerRecord is one accepted registration: a handler type together with
// the request and response types of the contract instantiation it
// implements. Immutable once created.
type HandlerRecord struct {
	Handler *catalog.TypeDescriptor
	Input   catalog.TypeRef
	Output  catalog.TypeRef
}

// Signature returns the duplicate-detection key for the record's
// (request, response) pair.
func (r HandlerRecord) Signature() string {
	return r.Input.Qualified() + " -> " + r.Output.Qualified()
}

// Validator accepts records one at a time, tracking the signatures already
// seen in this pass. It is single-use: create one per pipeline run.
type Validator struct {
	reporter diag.Reporter
	seen     map[string]bool
}

// New creates a validator reporting diagnostics to r.
func New(r diag.Reporter) *Validator {
	return &Validator{
		reporter: r,
		seen:     make(map[string]bool),
	}
}

// Accept validates one matched instantiation for an eligible type.
//
// An instantiation without exactly two type arguments is structurally
// malformed: a warning is emitted and no record is produced. A duplicate
// signature is only ambiguous, not malformed: a warning is emitted and the
// record is still accepted, because deciding which of several registrations
// wins belongs to the downstream container, not the generator.
func (v *Validator) Accept(d *catalog.TypeDescriptor, c catalog.Contract) (HandlerRecord, bool) {
	if len(c.Args) != 2 {
		diag.Warningf(v.reporter, diag.CodeArityMismatch, contractLoc(d, c),
			"handler %s implements the contract with %d type arguments, expected 2",
			d.Name(), len(c.Args))
		return HandlerRecord{}, false
	}

	rec := HandlerRecord{
		Handler: d,
		Input:   c.Args[0],
		Output:  c.Args[1],
	}

	sig := rec.Signature()
	if v.seen[sig] {
		diag.Warningf(v.reporter, diag.CodeDuplicateHandler, contractLoc(d, c),
			"duplicate handler for request %s and response %s: %s",
			rec.Input.Qualified(), rec.Output.Qualified(), d.Name())
		return rec, true
	}
	v.seen[sig] = true
	return rec, true
}

// contractLoc prefers the specific implementing clause over the declaration
// site for diagnostic precision.
func contractLoc(d *catalog.TypeDescriptor, c catalog.Contract) catalog.Location {
	if !c.Loc.IsZero() {
		return c.Loc
	}
	return d.Loc
}
