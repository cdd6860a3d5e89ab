// Package namespace registers XML namespace prefixes used when compiling
// XPath expressions.
package namespace

import "maps"

// Store maps namespace prefixes to URIs. Re-adding a prefix overwrites
// the stored URI, matching the other stores' registration contract.
type Store struct {
	entries map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Add registers uri under prefix.
func (s *Store) Add(prefix, uri string) {
	s.entries[prefix] = uri
}

// Resolve returns the URI registered under prefix.
func (s *Store) Resolve(prefix string) (string, bool) {
	uri, ok := s.entries[prefix]
	return uri, ok
}

// Len reports the number of registered prefixes.
func (s *Store) Len() int {
	return len(s.entries)
}

// Map returns a defensive copy of the registered prefixes.
func (s *Store) Map() map[string]string {
	return maps.Clone(s.entries)
}

// Merged returns the registered prefixes overlaid with overrides.
// Overrides win on conflicting prefixes; neither input is modified.
func (s *Store) Merged(overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return s.Map()
	}

	out := make(map[string]string, len(s.entries)+len(overrides))
	maps.Copy(out, s.entries)
	maps.Copy(out, overrides)
	return out
}
