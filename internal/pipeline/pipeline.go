// Package pipeline runs the whole discovery pass: one catalog snapshot in,
// one optional generated unit plus diagnostics out. A run is a pure function
// of its snapshot; rerunning over unchanged input yields byte-identical
// output.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"handlergen/internal/catalog"
	"handlergen/internal/diag"
	"handlergen/internal/discover"
	"handlergen/internal/gen"
	"handlergen/internal/validate"
)

// Options configure a pipeline run.
type Options struct {
	Emit gen.Options

	// Log receives verbose progress output; nil disables it.
	Log io.Writer

	// Parallelism bounds the per-type stage; 0 means GOMAXPROCS.
	Parallelism int
}

// Result is the outcome of a completed run.
type Result struct {
	// Unit is the generated source, nil when no handlers were accepted.
	Unit *gen.Unit
	// Diagnostics in deterministic emission order (catalog order).
	Diagnostics []diag.Diagnostic
	// Handlers is the number of accepted registrations.
	Handlers int
}

// Run executes the pipeline over the provider's snapshot. On cancellation it
// returns the context error and nothing else: an abandoned run must not emit
// partial output or diagnostics.
//
// Filtering, eligibility and matching are independent per type and run in
// parallel; the validator's duplicate set and the sorter need the complete
// accepted set, so validation happens sequentially in catalog order after
// the join. Catalog order is stable, which keeps first-seen duplicate
// semantics deterministic.
func Run(ctx context.Context, provider catalog.Provider, opts Options) (*Result, error) {
	snap, err := provider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bag := diag.NewBag()

	if snap.ContractOrigin == "" {
		diag.Warningf(bag, diag.CodeMissingContract, catalog.Location{},
			"handler contract interface not found in the scanned packages; no handlers will be registered")
		return &Result{Diagnostics: bag.Items()}, nil
	}

	type outcome struct {
		candidate bool
		rejection discover.Rejection
		matches   []catalog.Contract
	}
	outcomes := make([]outcome, len(snap.Types))

	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, d := range snap.Types {
		i, d := i, d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !discover.IsCandidate(d) {
				return nil
			}
			outcomes[i].candidate = true
			if rej := discover.Resolve(d); rej != discover.Accepted {
				outcomes[i].rejection = rej
				return nil
			}
			outcomes[i].matches = discover.Match(d, snap.ContractOrigin)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	validator := validate.New(bag)
	var records []validate.HandlerRecord
	for i, d := range snap.Types {
		out := outcomes[i]
		switch {
		case !out.candidate:
			continue
		case out.rejection != discover.Accepted:
			logf(opts.Log, "skip %s: %s\n", d.Name(), out.rejection)
			continue
		}
		for _, m := range out.matches {
			if rec, ok := validator.Accept(d, m); ok {
				records = append(records, rec)
			}
		}
	}

	gen.Sort(records)
	logf(opts.Log, "accepted %d handler registration(s)\n", len(records))
	if bag.HasWarnings() {
		logf(opts.Log, "completed with %d diagnostic(s)\n", bag.Len())
	}

	return &Result{
		Unit:        gen.Emit(records, opts.Emit),
		Diagnostics: bag.Items(),
		Handlers:    len(records),
	}, nil
}

func logf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "handlergen: "+format, args...)
}
