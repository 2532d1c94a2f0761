package flatpak

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errNullItem = errors.New("list item cannot be null")

// Item is an element of a module list or a source list. It is either a path
// to a separate manifest file, to be loaded and merged by the caller, or an
// inline description.
//
// Exactly one of Path and Inline is set on a decoded Item. A null element
// is an error in every format. yaml.v3 never hands a null node to
// UnmarshalYAML, so Format.Decode rejects those before decoding.
type Item[T any] struct {
	Path   string
	Inline *T
}

// ModuleItem is an element of a module list
type ModuleItem = Item[Module]

// SourceItem is an element of a source list
type SourceItem = Item[Source]

// PathItem returns an Item referencing an external manifest file
func PathItem[T any](path string) Item[T] {
	return Item[T]{Path: path}
}

// InlineItem returns an Item holding an inline description
func InlineItem[T any](v *T) Item[T] {
	return Item[T]{Inline: v}
}

// IsPath reports whether the item references an external file
func (i Item[T]) IsPath() bool {
	return i.Inline == nil
}

// IsZero reports whether the item holds neither a path nor an inline value
func (i Item[T]) IsZero() bool {
	return i.Inline == nil && i.Path == ""
}

// UnmarshalJSON decodes either a JSON string or a JSON object
func (i *Item[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return errNullItem
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var path string
		if err := json.Unmarshal(trimmed, &path); err != nil {
			return err
		}
		*i = Item[T]{Path: path}
		return nil
	}

	v := new(T)
	if err := json.Unmarshal(trimmed, v); err != nil {
		return err
	}
	*i = Item[T]{Inline: v}
	return nil
}

// MarshalJSON writes the path as a string or the inline description as an object
func (i Item[T]) MarshalJSON() ([]byte, error) {
	if i.Inline != nil {
		return json.Marshal(i.Inline)
	}
	return json.Marshal(i.Path)
}

// UnmarshalYAML decodes either a string scalar or a mapping
func (i *Item[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch tag := node.ShortTag(); tag {
		case "!!str":
		case "!!null":
			return errNullItem
		default:
			return fmt.Errorf("line %d: list item must be a path or a mapping, got %s", node.Line, tag)
		}
		var path string
		if err := node.Decode(&path); err != nil {
			return err
		}
		*i = Item[T]{Path: path}
		return nil
	}

	v := new(T)
	if err := node.Decode(v); err != nil {
		return err
	}
	*i = Item[T]{Inline: v}
	return nil
}

// MarshalYAML writes the path as a scalar or the inline description as a mapping
func (i Item[T]) MarshalYAML() (any, error) {
	if i.Inline != nil {
		return i.Inline, nil
	}
	return i.Path, nil
}
