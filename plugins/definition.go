package plugins

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/composer-fixer/internal/document"
)

// Op names the transformation a plugin rule performs at its path.
type Op string

const (
	// OpDefault sets the value only when the path is absent.
	OpDefault Op = "default"
	// OpSet always sets the value.
	OpSet Op = "set"
	// OpRemove deletes the path.
	OpRemove Op = "remove"
	// OpSortList sorts the list at the path.
	OpSortList Op = "sort-list"
	// OpSortKeys sorts the object at the path by key.
	OpSortKeys Op = "sort-keys"
)

func (op Op) needsValue() bool {
	return op == OpDefault || op == OpSet
}

func (op Op) known() bool {
	switch op {
	case OpDefault, OpSet, OpRemove, OpSortList, OpSortKeys:
		return true
	}
	return false
}

// RuleDefinition describes a declarative rule loaded from
// .composer-fixer/rules/*.yaml or from a Go plugin file.
//
//	id: require-phpunit
//	description: every package tests with phpunit 7
//	op: default
//	path: require-dev.phpunit/phpunit
//	value: ^7.5
//
// Paths are dot separated, so keys containing dots cannot be addressed.
type RuleDefinition struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description,omitempty"`
	Op          Op         `yaml:"op"`
	Path        string     `yaml:"path"`
	Value       *yaml.Node `yaml:"value,omitempty"`
}

// Normalized returns a trimmed, copy-on-write variant of the definition.
func (def RuleDefinition) Normalized() RuleDefinition {
	return RuleDefinition{
		ID:          strings.ToLower(strings.TrimSpace(def.ID)),
		Description: strings.TrimSpace(def.Description),
		Op:          Op(strings.ToLower(strings.TrimSpace(string(def.Op)))),
		Path:        strings.Join(document.SplitPath(def.Path), "."),
		Value:       def.Value,
	}
}

// Validate ensures the definition can be turned into a rule.
func (def RuleDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("plugin: id is required")
	}
	if strings.ContainsAny(normalized.ID, " \t\n") {
		return fmt.Errorf("plugin: id %q must not contain whitespace", normalized.ID)
	}
	if !normalized.Op.known() {
		return fmt.Errorf("plugin %s: unknown op %q", normalized.ID, normalized.Op)
	}
	if normalized.Path == "" {
		return fmt.Errorf("plugin %s: path is required", normalized.ID)
	}
	hasValue := normalized.Value != nil && normalized.Value.Kind != 0
	if normalized.Op.needsValue() && !hasValue {
		return fmt.Errorf("plugin %s: op %s requires a value", normalized.ID, normalized.Op)
	}
	if !normalized.Op.needsValue() && hasValue {
		return fmt.Errorf("plugin %s: op %s does not take a value", normalized.ID, normalized.Op)
	}
	if hasValue {
		if _, err := nodeValue(normalized.Value); err != nil {
			return fmt.Errorf("plugin %s: value: %w", normalized.ID, err)
		}
	}
	return nil
}

// nodeValue converts a YAML node into a document value, keeping mapping
// key order.
func nodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, fmt.Errorf("expected a single document value")
		}
		return nodeValue(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("dangling alias")
		}
		return nodeValue(node.Alias)
	case yaml.SequenceNode:
		list := make(document.List, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		obj := document.NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := nodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}

func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		var n any
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		raw, err := document.Compact(document.Number(fmt.Sprint(n)))
		if err != nil {
			return nil, fmt.Errorf("line %d: %q is not a JSON number", node.Line, node.Value)
		}
		return document.Number(raw), nil
	default:
		return node.Value, nil
	}
}
