// Package jsonquery implements a registry of named, precompiled JSONPath
// expressions evaluated against JSON payloads.
package jsonquery

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theory/jsonpath"
)

var (
	// ErrUnknownName indicates an operation referenced a name that was
	// never registered with Add.
	ErrUnknownName = errors.New("unknown expression name")

	// ErrNotFound indicates an expression matched no values and the
	// caller asked for missing matches to fail.
	ErrNotFound = errors.New("expression matched no values")
)

// Entry is one registered expression together with its precompiled form.
type Entry struct {
	Name       string
	Expression string

	compiled *jsonpath.Path
}

// Store maps user-chosen names to precompiled JSONPath expressions.
// Same lifecycle as the pointer and xmlpath stores: register once,
// evaluate repeatedly, overwrite-on-duplicate.
type Store struct {
	entries map[string]*Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Add compiles expression and registers it under name. Re-adding a name
// replaces the entry, compiled form included. Syntax errors surface here.
func (s *Store) Add(name, expression string) error {
	compiled, err := jsonpath.Parse(expression)
	if err != nil {
		return fmt.Errorf("compile %s (%s): %w", name, expression, err)
	}

	s.entries[name] = &Entry{
		Name:       name,
		Expression: expression,
		compiled:   compiled,
	}

	return nil
}

// Lookup returns the entry registered under name.
func (s *Store) Lookup(name string) (*Entry, bool) {
	entry, ok := s.entries[name]
	return entry, ok
}

// Len reports the number of registered entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Invoke unmarshals payload and returns every value matched by the
// expression registered under name. An empty result is an error only
// when failOnMissing is set.
func (s *Store) Invoke(payload []byte, name string, failOnMissing bool) ([]any, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("parse payload for %s: %w", name, err)
	}

	results := entry.compiled.Select(data)
	if len(results) == 0 && failOnMissing {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, name, entry.Expression)
	}

	return []any(results), nil
}

// Get returns the first match against an already-decoded document.
// No match and an explicit null both yield fallback; present falsy
// values are returned as-is.
func (s *Store) Get(name string, doc any, fallback any) (any, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	results := entry.compiled.Select(doc)
	if len(results) == 0 || results[0] == nil {
		return fallback, nil
	}

	return results[0], nil
}
