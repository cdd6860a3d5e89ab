// Package xmlpath implements a registry of named, precompiled XPath
// expressions evaluated against XML payloads.
package xmlpath

import (
	"bytes"
	"errors"
	"fmt"
	"maps"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	// ErrUnknownName indicates an operation referenced a name that was
	// never registered with Add.
	ErrUnknownName = errors.New("unknown expression name")

	// ErrNotFound indicates an expression matched no nodes and the caller
	// asked for missing matches to fail.
	ErrNotFound = errors.New("expression matched no nodes")
)

// Entry is one registered expression together with its precompiled form.
type Entry struct {
	Name       string
	Expression string
	Namespaces map[string]string

	compiled *xpath.Expr
}

// Store maps user-chosen names to precompiled XPath expressions.
// Expressions are compiled once at registration; evaluation reuses the
// compiled form on every payload.
//
// Registration is not safe for concurrent use; read-only evaluation
// against a fully-registered store is.
type Store struct {
	entries map[string]*Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Add compiles expression, resolving namespace prefixes through the
// namespaces map (prefix to URI), and registers it under name. Re-adding
// a name replaces the whole entry, compiled form included, so evaluation
// never observes stale compiled state. Compilation errors surface here,
// not at evaluation time.
func (s *Store) Add(name, expression string, namespaces map[string]string) error {
	compiled, err := xpath.CompileWithNS(expression, namespaces)
	if err != nil {
		return fmt.Errorf("compile %s (%s): %w", name, expression, err)
	}

	s.entries[name] = &Entry{
		Name:       name,
		Expression: expression,
		Namespaces: maps.Clone(namespaces),
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

// Invoke parses payload and returns every node matched by the expression
// registered under name. An empty result is an error only when
// failOnMissing is set; otherwise the empty slice is returned as-is.
func (s *Store) Invoke(payload []byte, name string, failOnMissing bool) ([]*xmlquery.Node, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	doc, err := xmlquery.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse payload for %s: %w", name, err)
	}

	nodes := xmlquery.QuerySelectorAll(doc, entry.compiled)
	if len(nodes) == 0 && failOnMissing {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, name, entry.Expression)
	}

	return nodes, nil
}

// Replace sets the text content of every node matched by the expression
// registered under name to value and returns the reserialized document.
// The input buffer is never modified; parsing produces a fresh tree.
func (s *Store) Replace(payload []byte, name, value string) ([]byte, error) {
	entry, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	doc, err := xmlquery.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse payload for %s: %w", name, err)
	}

	for _, node := range xmlquery.QuerySelectorAll(doc, entry.compiled) {
		setText(node, value)
	}

	return []byte(doc.OutputXML(true)), nil
}

// setText updates the first text child in place, or prepends one when the
// element has none. Child elements are left untouched.
func setText(n *xmlquery.Node, value string) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.TextNode {
			child.Data = value
			return
		}
	}

	text := &xmlquery.Node{Type: xmlquery.TextNode, Data: value}
	text.Parent = n
	text.NextSibling = n.FirstChild
	if n.FirstChild != nil {
		n.FirstChild.PrevSibling = text
	} else {
		n.LastChild = text
	}
	n.FirstChild = text
}
