package discover

import "handlergen/internal/catalog"

// Match returns every contract instantiation of origin the eligible type
// implements, transitively. One type may match multiple times when it
// implements the contract with different type arguments; each match becomes
// an independent registration candidate.
func Match(d *catalog.TypeDescriptor, origin string) []catalog.Contract {
	if origin == "" {
		return nil
	}
	var matches []catalog.Contract
	for _, c := range d.Contracts {
		if c.Origin == origin {
			matches = append(matches, c)
		}
	}
	return matches
}
