// Package pointer implements a registry of named pointer paths resolved
// against decoded JSON documents (map[string]any / []any trees).
//
// Paths are /-delimited; each segment is either a mapping key or a
// non-negative sequence index. There are no escaping rules; segments are
// taken verbatim.
package pointer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownName indicates an operation referenced a name that was
	// never registered with Add.
	ErrUnknownName = errors.New("unknown pointer name")

	// ErrNotContainer indicates a path segment landed on a scalar where a
	// mapping or sequence was required.
	ErrNotContainer = errors.New("value is not a container")

	// ErrIndexOutOfRange indicates a sequence write outside the existing
	// bounds. Sequences are never auto-extended.
	ErrIndexOutOfRange = errors.New("sequence index out of range")
)

// Entry is one registered pointer path.
type Entry struct {
	Name string
	Path string
}

// Store maps user-chosen names to pointer paths. Paths are stored as
// plain text; malformed paths surface only at resolution time.
//
// Registration is not safe for concurrent use; read-only resolution
// against a fully-registered store is.
type Store struct {
	entries map[string]Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Add registers path under name. Re-adding an existing name replaces the
// stored entry; overwrite-on-duplicate is part of the contract, not an
// accident of map insertion.
func (s *Store) Add(name, path string) {
	s.entries[name] = Entry{Name: name, Path: path}
}

// Lookup returns the entry registered under name.
func (s *Store) Lookup(name string) (Entry, bool) {
	entry, ok := s.entries[name]
	return entry, ok
}

// Len reports the number of registered entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get resolves the path registered under name against doc.
//
// Paths that cannot be followed and paths that land on an explicit null
// both yield fallback with a nil error; absent and null are deliberately
// the same outcome. Present falsy values (0, "", false) are returned
// as-is, never conflated with absent.
func (s *Store) Get(name string, doc any, fallback any) (any, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	value, found := resolve(doc, segments(entry.Path))
	if !found || value == nil {
		return fallback, nil
	}

	return value, nil
}

// Set assigns value at the path registered under name, creating missing
// intermediate mapping nodes along the way. Sequence segments must
// already be in range; out-of-range writes fail with ErrIndexOutOfRange.
//
// When inPlace is false the document is deep-copied first and the copy is
// returned with the original untouched. When inPlace is true the document
// itself is mutated and returned.
func (s *Store) Set(name string, doc any, value any, inPlace bool) (any, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	segs := segments(entry.Path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("cannot set through empty path for %s", name)
	}

	target := doc
	if !inPlace {
		target = deepCopy(doc)
	}

	if err := assign(target, segs, value); err != nil {
		return nil, fmt.Errorf("set %s at %s: %w", name, entry.Path, err)
	}

	return target, nil
}

// segments splits a /-delimited path into its literal segments. A leading
// slash is ignored; an empty path addresses the document itself.
func segments(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// resolve walks doc segment by segment. The boolean result distinguishes
// present from absent so that a present null can be reported separately
// from a falsy value such as 0.
func resolve(node any, segs []string) (any, bool) {
	for _, seg := range segs {
		switch current := node.(type) {
		case map[string]any:
			child, ok := current[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			index, err := strconv.Atoi(seg)
			if err != nil || index < 0 || index >= len(current) {
				return nil, false
			}
			node = current[index]
		default:
			return nil, false
		}
	}
	return node, true
}

// assign walks to the parent of the final segment, creating missing
// mapping nodes, and stores value at the final key or index.
func assign(node any, segs []string, value any) error {
	for _, seg := range segs[:len(segs)-1] {
		switch current := node.(type) {
		case map[string]any:
			child, ok := current[seg]
			if !ok || child == nil {
				child = make(map[string]any)
				current[seg] = child
			}
			node = child
		case []any:
			index, err := strconv.Atoi(seg)
			if err != nil || index < 0 || index >= len(current) {
				return fmt.Errorf("%w: segment %q", ErrIndexOutOfRange, seg)
			}
			node = current[index]
		default:
			return fmt.Errorf("%w: segment %q addresses %T", ErrNotContainer, seg, node)
		}
	}

	last := segs[len(segs)-1]
	switch current := node.(type) {
	case map[string]any:
		current[last] = value
	case []any:
		index, err := strconv.Atoi(last)
		if err != nil || index < 0 || index >= len(current) {
			return fmt.Errorf("%w: segment %q", ErrIndexOutOfRange, last)
		}
		current[index] = value
	default:
		return fmt.Errorf("%w: segment %q addresses %T", ErrNotContainer, last, node)
	}

	return nil
}

// deepCopy duplicates the mapping/sequence spine of a decoded JSON
// document. Scalars are shared; JSON scalar types are immutable.
func deepCopy(node any) any {
	switch current := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(current))
		for key, child := range current {
			out[key] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(current))
		for i, child := range current {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return current
	}
}
