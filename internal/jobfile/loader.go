package jobfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Filename is the name of the jobs_done document in a repository root.
const Filename = ".jobs_done.yaml"

const (
	// maxDepth bounds nesting (aliases included) while converting YAML nodes.
	maxDepth = 256
	// maxNodes bounds the size of the converted tree. Aliases are copied, so a
	// small document can otherwise expand exponentially.
	maxNodes = 1_000_000
)

// LoadFile loads and parses a jobs_done document from the given path.
// A missing file is not an error: it yields a nil (absent) document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read jobs_done file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Document. Every scalar is kept as its literal
// text. Nil data yields a nil (absent) document; empty or comment-only data
// yields an empty document. The stream must hold at most one YAML document.
func Parse(data []byte) (*Document, error) {
	if data == nil {
		return nil, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node

	err := dec.Decode(&root)
	if errors.Is(err, io.EOF) {
		return &Document{}, nil
	}

	if err != nil {
		return nil, &DocumentSyntaxError{Message: "failed to parse YAML", Err: err}
	}

	var next yaml.Node

	err = dec.Decode(&next)
	switch {
	case err == nil:
		return nil, &DocumentSyntaxError{Line: next.Line, Message: "expected a single document in the stream"}
	case !errors.Is(err, io.EOF):
		return nil, &DocumentSyntaxError{Message: "failed to parse YAML", Err: err}
	}

	top := &root
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return &Document{}, nil
		}

		top = top.Content[0]
	}

	top = resolveAlias(top)

	switch {
	case top.Kind == 0:
		return &Document{}, nil
	case top.Kind == yaml.ScalarNode && top.Tag == "!!null":
		return &Document{}, nil
	case top.Kind != yaml.MappingNode:
		return nil, &DocumentSyntaxError{
			Line:    top.Line,
			Message: fmt.Sprintf("top level must be a mapping, got %s", nodeKindName(top.Kind)),
		}
	}

	var c converter

	v, err := c.convert(top, 0)
	if err != nil {
		return nil, err
	}

	return &Document{Entries: v.Entries}, nil
}

// Marshal serializes a value to YAML.
func Marshal(v Value) ([]byte, error) {
	return yaml.Marshal(v.Node())
}

// converter turns YAML nodes into Values, keeping scalars as raw text.
type converter struct {
	// nodes counts converted nodes, alias copies included.
	nodes int
}

func (c *converter) convert(node *yaml.Node, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, &DocumentSyntaxError{Line: node.Line, Message: "document nesting is too deep"}
	}

	c.nodes++
	if c.nodes > maxNodes {
		return Value{}, &DocumentSyntaxError{Line: node.Line, Message: "document expands to too many nodes"}
	}

	node = resolveAlias(node)

	switch node.Kind {
	case yaml.ScalarNode:
		return Scalar(node.Value), nil

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))

		for _, child := range node.Content {
			item, err := c.convert(child, depth+1)
			if err != nil {
				return Value{}, err
			}

			items = append(items, item)
		}

		return List(items...), nil

	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		seen := make(map[string]struct{}, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := resolveAlias(node.Content[i])
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, &DocumentSyntaxError{
					Line:    keyNode.Line,
					Message: fmt.Sprintf("mapping keys must be scalars, got %s", nodeKindName(keyNode.Kind)),
				}
			}

			if _, dup := seen[keyNode.Value]; dup {
				return Value{}, &DocumentSyntaxError{
					Line:    keyNode.Line,
					Message: fmt.Sprintf("duplicate key %q", keyNode.Value),
				}
			}

			seen[keyNode.Value] = struct{}{}

			val, err := c.convert(node.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}

			entries = append(entries, Entry{Key: keyNode.Value, Value: val})
		}

		return Mapping(entries...), nil

	default:
		return Value{}, &DocumentSyntaxError{
			Line:    node.Line,
			Message: fmt.Sprintf("unexpected %s node", nodeKindName(node.Kind)),
		}
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for i := 0; node.Kind == yaml.AliasNode && node.Alias != nil && i < maxDepth; i++ {
		node = node.Alias
	}

	return node
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty node"
	}
}
