// Package gen orders accepted handler records and renders the generated
// registration source. Output is a pure function of the sorted record set:
// no clocks, no process-dependent data, byte-identical across runs.
package gen

import (
	"sort"

	"handlergen/internal/validate"
)

// Sort totally orders records by ordinal (byte-wise) comparison of the
// fully-qualified handler name. Qualified names are unique per declared type,
// so no secondary key is needed. The input slice is sorted in place and
// returned for convenience.
func Sort(records []validate.HandlerRecord) []validate.HandlerRecord {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Handler.Name() < records[j].Handler.Name()
	})
	return records
}
