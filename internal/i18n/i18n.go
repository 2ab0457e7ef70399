// Package i18n holds the fixed Hebrew prompts the bot replies with.
package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed locales/he.yaml
var hebrew []byte

// Translator resolves a dot-separated message key.
type Translator interface {
	T(key string) string
}

// Catalog is a flat key to message map read from nested YAML sections.
type Catalog struct {
	messages map[string]string
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(hebrew)
}

// Parse reads a catalog where nested mappings become dotted keys: {search: {no_podcasts: x}}
// is "search.no_podcasts".
func Parse(data []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("i18n: parse catalog: %w", err)
	}

	messages := make(map[string]string)
	if err := flatten("", &root, messages); err != nil {
		return nil, fmt.Errorf("i18n: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("i18n: catalog has no messages")
	}

	return &Catalog{messages: messages}, nil
}

// T returns the message for key, or the key itself when the catalog lacks it.
func (c *Catalog) T(key string) string {
	if c == nil {
		return key
	}
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Missing lists the keys the catalog cannot resolve.
func (c *Catalog) Missing(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if c.T(key) == key {
			missing = append(missing, key)
		}
	}
	return missing
}

func flatten(prefix string, node *yaml.Node, out map[string]string) error {
	switch node.Kind {
	case 0:
		return nil
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := flatten(prefix, child, out); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if err := flatten(key, node.Content[i+1], out); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("line %d: message %q has no key", node.Line, node.Value)
		}
		out[prefix] = node.Value
	default:
		return fmt.Errorf("line %d: %q must be a message or a section", node.Line, prefix)
	}

	return nil
}
