package flatpak

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestItem_JSON(t *testing.T) {
	var items []SourceItem
	err := json.Unmarshal([]byte(`["shared/foo.json", {"type": "file", "path": "a.txt"}]`), &items)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, items[0].IsPath())
	assert.Equal(t, "shared/foo.json", items[0].Path)
	assert.False(t, items[1].IsPath())
	assert.Equal(t, "a.txt", items[1].Inline.Path)

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `["shared/foo.json", {"type": "file", "path": "a.txt"}]`, string(out))
}

func TestItem_YAML(t *testing.T) {
	var items []ModuleItem
	err := yaml.Unmarshal([]byte("- shared/foo.json\n- name: m\n  sources: [a.json]\n"), &items)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, PathItem[Module]("shared/foo.json"), items[0])
	require.NotNil(t, items[1].Inline)
	assert.Equal(t, "m", items[1].Inline.Name)
	assert.Equal(t, "a.json", items[1].Inline.Sources[0].Path)

	out, err := yaml.Marshal(items)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- shared/foo.json\n")
	assert.Contains(t, string(out), "name: m\n")
}

func TestItem_Null(t *testing.T) {
	var items []SourceItem
	assert.Error(t, json.Unmarshal([]byte(`[null]`), &items))

	err := FormatYAML.Decode("- a.json\n- ~\n", &items)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "line 2: list item cannot be null")

	_, err = ParseModule(FormatYAML, "name: m\nsources:\n  - a.json\n  - null\n")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseApplication("app.yaml", "app-id: a\nruntime: r\nruntime-version: '1'\nsdk: s\nmodules:\n  - ~\n")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	var item SourceItem
	assert.ErrorIs(t, item.UnmarshalYAML(&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}), errNullItem)

	module := &Module{Name: "m", Sources: []SourceItem{PathItem[Source]("a.json"), {}}}
	assert.True(t, module.Sources[1].IsZero())
	assert.ErrorIs(t, module.Validate(), ErrInvalidFormat)
}

func TestItem_WrongShape(t *testing.T) {
	var items []SourceItem
	assert.Error(t, json.Unmarshal([]byte(`[42]`), &items))
	assert.Error(t, json.Unmarshal([]byte(`[true]`), &items))
	assert.Error(t, yaml.Unmarshal([]byte("- [a, b]\n"), &items))
	assert.Error(t, yaml.Unmarshal([]byte("- 42\n"), &items))
	assert.Error(t, yaml.Unmarshal([]byte("- true\n"), &items))

	_, err := ParseModule(FormatYAML, "name: m\nsources: [42, ~, true]\n")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseModule(FormatYAML, "name: m\nsources: [\"42\"]\n")
	assert.NoError(t, err)
}
