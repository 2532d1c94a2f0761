package flatpak

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the serialization format of a manifest.
// All denominations of Flatpak manifests (application, module and source
// manifests) can use any of the supported formats.
type Format int

const (
	// FormatUnknown means no format has been established yet
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatTOML
)

var formatNames = map[Format]string{
	FormatYAML: "yaml",
	FormatJSON: "json",
	FormatTOML: "toml",
}

// String returns the canonical name of the format
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Ext returns the preferred file extension, including the leading dot
func (f Format) Ext() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// ParseFormat parses a format name such as "yaml", "yml", "json" or "toml"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	}
	return FormatUnknown, newValueError("format", name)
}

// FormatFromPath detects the manifest format from a file extension.
// The match is case-insensitive.
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, nil
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(lower, ".toml"):
		return FormatTOML, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedExt, path)
}

// Decode decodes manifest text into v.
// JSON content has its comments stripped first (see StripJSONComments).
func (f Format) Decode(content string, v any) error {
	var err error
	switch f {
	case FormatYAML:
		var doc yaml.Node
		if err = yaml.Unmarshal([]byte(content), &doc); err == nil {
			if err = checkNullItems(&doc); err == nil {
				err = yaml.Unmarshal([]byte(content), v)
			}
		}
	case FormatJSON:
		err = json.Unmarshal([]byte(StripJSONComments(content)), v)
	case FormatTOML:
		err = decodeTOML(content, v)
	default:
		return ErrNoFormat
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// checkNullItems rejects null elements of module and source lists, which
// yaml.v3 would otherwise drop without an error.
func checkNullItems(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if child.Kind == yaml.SequenceNode {
				if err := nullElement(child); err != nil {
					return err
				}
			}
			if err := checkNullItems(child); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind == yaml.SequenceNode && (key.Value == "sources" || key.Value == "modules") {
				if err := nullElement(value); err != nil {
					return err
				}
			}
			if err := checkNullItems(value); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, child := range node.Content {
			if err := checkNullItems(child); err != nil {
				return err
			}
		}
	}
	return nil
}

func nullElement(seq *yaml.Node) error {
	for _, child := range seq.Content {
		if child.Kind == yaml.ScalarNode && child.ShortTag() == "!!null" {
			return fmt.Errorf("line %d: %w", child.Line, errNullItem)
		}
	}
	return nil
}

// Encode serializes v into manifest text
func (f Format) Encode(v any) (string, error) {
	var (
		out string
		err error
	)
	switch f {
	case FormatYAML:
		out, err = encodeYAML(v)
	case FormatJSON:
		out, err = encodeJSON(v)
	case FormatTOML:
		out, err = encodeTOML(v)
	default:
		return "", ErrNoFormat
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out, nil
}

func encodeYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TOML goes through the JSON representation so that the custom marshalers
// of Item and BuildEnv only have to exist for JSON and YAML.
func decodeTOML(content string, v any) error {
	var raw map[string]any
	if err := toml.Unmarshal([]byte(content), &raw); err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func encodeTOML(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return "", err
	}
	out, err := toml.Marshal(normalizeNumbers(raw))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// normalizeNumbers turns json.Number leaves back into int64 or float64 so
// that integers are not written as TOML floats.
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalizeNumbers(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = normalizeNumbers(child)
		}
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}
