// Package discover finds handler candidates in a catalog snapshot: a cheap
// syntactic pre-filter, the ordered eligibility rules, and the contract
// matcher that extracts (request, response) pairs per implementation.
package discover

import "handlergen/internal/catalog"

// IsCandidate is the syntactic pre-filter applied before any semantic work.
// A type with no declared base/interface entries cannot implement the
// contract, so it is skipped without resolving anything. False negatives here
// would silently drop real handlers; false positives only cost extra work.
func IsCandidate(d *catalog.TypeDescriptor) bool {
	return d.BaseTypes > 0
}
