// Package transform wires the expression stores together: it registers a
// rules definition once and applies the registered expressions and
// transforms to message payloads.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/jacoelho/msgpath/internal/jsonquery"
	"github.com/jacoelho/msgpath/internal/namespace"
	"github.com/jacoelho/msgpath/internal/pointer"
	"github.com/jacoelho/msgpath/internal/rules"
	"github.com/jacoelho/msgpath/internal/template"
	"github.com/jacoelho/msgpath/internal/xmlpath"
)

// ErrDecode indicates a payload is not valid JSON.
var ErrDecode = errors.New("decode payload")

// Engine owns one store of each kind, populated once from a rules
// definition. Registration happens in New; everything afterwards is
// read-only evaluation and safe to share across goroutines as long as
// documents are not shared mutably.
type Engine struct {
	pointers   *pointer.Store
	queries    *jsonquery.Store
	paths      *xmlpath.Store
	namespaces *namespace.Store
	transforms []rules.Transform
	variables  map[string]any
}

// New registers every expression in def and returns a ready engine.
// Variables are exposed to transform value templates.
func New(def *rules.Definition, variables map[string]any) (*Engine, error) {
	e := &Engine{
		pointers:   pointer.NewStore(),
		queries:    jsonquery.NewStore(),
		paths:      xmlpath.NewStore(),
		namespaces: namespace.NewStore(),
		transforms: def.Transforms,
		variables:  variables,
	}

	for prefix, uri := range def.Namespaces {
		e.namespaces.Add(prefix, uri)
	}

	for _, entry := range def.Pointers {
		e.pointers.Add(entry.Name, entry.Expression)
	}

	for _, entry := range def.JSONPath {
		if err := e.queries.Add(entry.Name, entry.Expression); err != nil {
			return nil, err
		}
	}

	for _, entry := range def.XPath {
		if err := e.paths.Add(entry.Name, entry.Expression, e.namespaces.Merged(entry.Namespaces)); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ApplyJSON runs every transform rule against payload in declaration
// order; later rules observe earlier writes. Value templates render once
// per payload, so generated identifiers are fresh for every message.
func (e *Engine) ApplyJSON(payload []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	for _, rule := range e.transforms {
		value, err := e.ruleValue(rule, doc)
		if err != nil {
			return nil, err
		}

		doc, err = e.pointers.Set(rule.Target, doc, value, true)
		if err != nil {
			return nil, err
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %v", err)
	}

	return out, nil
}

// ruleValue produces the value a transform writes: a rendered template
// when the rule carries one, otherwise the source pointer resolution
// with the rule's default as fallback.
func (e *Engine) ruleValue(rule rules.Transform, doc any) (any, error) {
	if rule.Value != "" {
		rendered, err := template.Apply(rule.Value, e.variables)
		if err != nil {
			return nil, fmt.Errorf("render value for %s: %w", rule.Target, err)
		}
		return rendered, nil
	}

	var fallback any
	if rule.Default != "" {
		fallback = rule.Default
	}

	return e.pointers.Get(rule.Source, doc, fallback)
}

// GetJSON resolves a registered pointer name against a decoded document.
func (e *Engine) GetJSON(name string, doc any, fallback any) (any, error) {
	return e.pointers.Get(name, doc, fallback)
}

// QueryJSON evaluates a registered JSONPath name against a JSON payload.
func (e *Engine) QueryJSON(payload []byte, name string, failOnMissing bool) ([]any, error) {
	return e.queries.Invoke(payload, name, failOnMissing)
}

// QueryXML evaluates a registered XPath name against an XML payload.
func (e *Engine) QueryXML(payload []byte, name string, failOnMissing bool) ([]*xmlquery.Node, error) {
	return e.paths.Invoke(payload, name, failOnMissing)
}

// ReplaceXML sets the text of every node matched by a registered XPath
// name and returns the reserialized payload.
func (e *Engine) ReplaceXML(payload []byte, name, value string) ([]byte, error) {
	return e.paths.Replace(payload, name, value)
}
