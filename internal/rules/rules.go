// Package rules parses YAML rules documents. A rules document declares
// the named expressions (pointers, JSONPath, XPath) a message pipeline
// registers once at load, plus the ordered transforms applied to each
// message.
package rules

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

var (
	// ErrParser indicates the document is not valid rules YAML.
	ErrParser = errors.New("rules parser")

	// ErrValidation indicates the document parsed but its entries are
	// inconsistent (missing fields, unregistered references).
	ErrValidation = errors.New("rules validation")
)

// Definition is one parsed rules document.
type Definition struct {
	Namespaces map[string]string `yaml:"namespaces,omitempty"`
	Pointers   NamedExpressions  `yaml:"pointers,omitempty"`
	JSONPath   NamedExpressions  `yaml:"jsonpath,omitempty"`
	XPath      []XPathEntry      `yaml:"xpath,omitempty"`
	Transforms []Transform       `yaml:"transforms,omitempty"`
}

// XPathEntry optionally carries per-entry namespace overrides merged over
// the document-level namespaces at registration.
type XPathEntry struct {
	Name       string            `yaml:"name"`
	Expression string            `yaml:"expression"`
	Namespaces map[string]string `yaml:"namespaces,omitempty"`
}

// Transform writes one value into a message: either the value read by the
// source pointer name (with an optional default when absent), or a
// rendered value template. Exactly one of source/value must be set.
type Transform struct {
	Source  string `yaml:"source,omitempty"`
	Target  string `yaml:"target"`
	Value   string `yaml:"value,omitempty"`
	Default string `yaml:"default,omitempty"`
}

// Parse decodes a rules document and validates cross-references.
func Parse(r io.Reader) (*Definition, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %v", ErrParser, err)
	}

	var def Definition
	if err := yaml.Unmarshal(payload, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParser, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Validate checks that every entry is complete and every transform
// references registered pointer names.
func (d *Definition) Validate() error {
	pointers := make(map[string]bool, len(d.Pointers))
	for index, entry := range d.Pointers {
		if entry.Name == "" || entry.Expression == "" {
			return fmt.Errorf("%w: pointer at index %d missing name or path", ErrValidation, index)
		}
		pointers[entry.Name] = true
	}

	for index, entry := range d.JSONPath {
		if entry.Name == "" || entry.Expression == "" {
			return fmt.Errorf("%w: jsonpath at index %d missing name or expression", ErrValidation, index)
		}
	}

	for index, entry := range d.XPath {
		if entry.Name == "" || entry.Expression == "" {
			return fmt.Errorf("%w: xpath at index %d missing name or expression", ErrValidation, index)
		}
	}

	for index, transform := range d.Transforms {
		if transform.Target == "" {
			return fmt.Errorf("%w: transform at index %d missing target", ErrValidation, index)
		}
		if (transform.Source == "") == (transform.Value == "") {
			return fmt.Errorf("%w: transform at index %d needs exactly one of source or value", ErrValidation, index)
		}
		if !pointers[transform.Target] {
			return fmt.Errorf("%w: transform at index %d targets unregistered pointer %q", ErrValidation, index, transform.Target)
		}
		if transform.Source != "" && !pointers[transform.Source] {
			return fmt.Errorf("%w: transform at index %d reads unregistered pointer %q", ErrValidation, index, transform.Source)
		}
	}

	return nil
}
