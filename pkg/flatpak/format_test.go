package flatpak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"org.example.App.yaml", FormatYAML},
		{"org.example.App.yml", FormatYAML},
		{"org.example.App.YML", FormatYAML},
		{"modules/lib.json", FormatJSON},
		{"org.example.App.toml", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath_Unsupported(t *testing.T) {
	_, err := FormatFromPath("README.md")
	assert.ErrorIs(t, err, ErrUnsupportedExt)
	assert.Contains(t, err.Error(), "README.md")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	assert.Equal(t, ".yaml", f.Ext())

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
	assert.Empty(t, FormatUnknown.Ext())
}

func TestFormat_Decode_InvalidYAML(t *testing.T) {
	var v map[string]any
	err := FormatYAML.Decode("key: [unclosed", &v)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "failed to parse the Flatpak manifest: ")
}

func TestFormat_Decode_JSONWithComments(t *testing.T) {
	content := `{
    /* the runtime */
    "runtime": "org.gnome.Platform",
    /*
     * pinned
     */
    "runtime-version": "44"
}`
	var v map[string]string
	require.NoError(t, FormatJSON.Decode(content, &v))
	assert.Equal(t, "org.gnome.Platform", v["runtime"])
	assert.Equal(t, "44", v["runtime-version"])
}

func TestFormat_UnknownFormat(t *testing.T) {
	var v map[string]any
	assert.ErrorIs(t, FormatUnknown.Decode("{}", &v), ErrNoFormat)

	_, err := FormatUnknown.Encode(v)
	assert.ErrorIs(t, err, ErrNoFormat)
}

func TestFormat_Encode(t *testing.T) {
	v := map[string]any{"url": "https://example.com/a?b=1&c=2", "size": 3}

	out, err := FormatJSON.Encode(v)
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "https://example.com/a?b=1&c=2"`)
	assert.Contains(t, out, "\n    \"size\": 3")

	out, err = FormatYAML.Encode(v)
	require.NoError(t, err)
	assert.Contains(t, out, "size: 3\n")

	out, err = FormatTOML.Encode(v)
	require.NoError(t, err)
	assert.Contains(t, out, "size = 3")
	assert.NotContains(t, out, "3.0")
}

func TestFormat_TOMLDecode(t *testing.T) {
	content := `
name = "lib"
count = 2

[[sources]]
type = "git"
url = "https://example.com/lib.git"
`
	var v struct {
		Name    string `json:"name"`
		Count   int    `json:"count"`
		Sources []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"sources"`
	}
	require.NoError(t, FormatTOML.Decode(content, &v))
	assert.Equal(t, "lib", v.Name)
	assert.Equal(t, 2, v.Count)
	require.Len(t, v.Sources, 1)
	assert.Equal(t, "https://example.com/lib.git", v.Sources[0].URL)
}

func TestStripJSONComments(t *testing.T) {
	t.Run("comment free input is unchanged", func(t *testing.T) {
		content := "{\n  \"a\": 1\n}\n"
		once := StripJSONComments(content)
		// every kept line gets a newline, including the empty last one
		assert.Equal(t, content+"\n", once)
		assert.Equal(t, "{\n  \"a\": 1\n}", trimTrailingNewlines(StripJSONComments(trimTrailingNewlines(once))))
	})

	t.Run("three line block is removed", func(t *testing.T) {
		content := "{\n/*\n  note\n*/\n\"a\": 1\n}"
		assert.Equal(t, "{\n\"a\": 1\n}\n", StripJSONComments(content))
	})

	t.Run("single line comment is removed", func(t *testing.T) {
		content := "{\n    /* one line */\n\"a\": 1\n}"
		assert.Equal(t, "{\n\"a\": 1\n}\n", StripJSONComments(content))
	})

	t.Run("markers inside content are kept", func(t *testing.T) {
		content := `"cflags": "-O2 /* keep */"`
		assert.Equal(t, content+"\n", StripJSONComments(content))
	})
}

func trimTrailingNewlines(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}
