package rules

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml/ast"
)

// NamedExpression pairs a user-chosen name with an expression string.
type NamedExpression struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// NamedExpressions preserves declaration order for named expressions.
type NamedExpressions []NamedExpression

// UnmarshalYAML supports both mapping and sequence forms:
//
// pointers:
//
//	user-id: /user/id
//
// or:
// pointers:
//   - name: user-id
//     path: /user/id
//
// The sequence form accepts either "path" or "expression" for the
// expression field.
func (entries *NamedExpressions) UnmarshalYAML(node ast.Node) error {
	switch n := node.(type) {
	case *ast.MappingNode:
		out := make(NamedExpressions, 0, len(n.Values))
		for _, pair := range n.Values {
			keyNode, ok := pair.Key.(*ast.StringNode)
			if !ok {
				return fmt.Errorf("%w: expression name must be string", ErrParser)
			}

			expression, err := nodeToString(pair.Value)
			if err != nil {
				return fmt.Errorf("%w: invalid expression for %q: %v", ErrParser, keyNode.Value, err)
			}

			out = append(out, NamedExpression{
				Name:       keyNode.Value,
				Expression: expression,
			})
		}
		*entries = out
		return nil
	case *ast.SequenceNode:
		out := make(NamedExpressions, 0, len(n.Values))
		for index, item := range n.Values {
			mapNode, ok := item.(*ast.MappingNode)
			if !ok {
				return fmt.Errorf("%w: expression entry at index %d must be mapping", ErrParser, index)
			}

			var (
				name          string
				expression    string
				hasName       bool
				hasExpression bool
			)

			for _, pair := range mapNode.Values {
				fieldNode, ok := pair.Key.(*ast.StringNode)
				if !ok {
					return fmt.Errorf("%w: expression entry field key must be string", ErrParser)
				}

				switch fieldNode.Value {
				case "name":
					strNode, ok := pair.Value.(*ast.StringNode)
					if !ok {
						return fmt.Errorf("%w: expression entry name must be string", ErrParser)
					}
					name = strNode.Value
					hasName = true
				case "path", "expression":
					parsed, err := nodeToString(pair.Value)
					if err != nil {
						return fmt.Errorf("%w: invalid expression entry value: %v", ErrParser, err)
					}
					expression = parsed
					hasExpression = true
				default:
					return fmt.Errorf("%w: expression entry unknown field %q", ErrParser, fieldNode.Value)
				}
			}

			if !hasName {
				return fmt.Errorf("%w: expression entry at index %d missing name", ErrParser, index)
			}
			if !hasExpression {
				return fmt.Errorf("%w: expression entry at index %d missing path", ErrParser, index)
			}

			out = append(out, NamedExpression{
				Name:       name,
				Expression: expression,
			})
		}
		*entries = out
		return nil
	default:
		return fmt.Errorf("%w: expression field must be mapping or sequence", ErrParser)
	}
}

// nodeToString renders scalar YAML nodes as their literal string form.
func nodeToString(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, nil
	case *ast.IntegerNode:
		return fmt.Sprintf("%v", n.Value), nil
	case *ast.FloatNode:
		return strconv.FormatFloat(n.Value, 'f', -1, 64), nil
	case *ast.BoolNode:
		return strconv.FormatBool(n.Value), nil
	default:
		return "", fmt.Errorf("unsupported node type %T", node)
	}
}
