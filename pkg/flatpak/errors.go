package flatpak

import (
	"errors"
	"fmt"
)

// Sentinel errors for the flatpak package
var (
	// ErrInvalidFormat indicates the manifest text could not be decoded
	ErrInvalidFormat = errors.New("failed to parse the Flatpak manifest")

	// ErrUnsupportedExt indicates no manifest format matches a file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, .json or .toml)")

	// ErrNoFormat indicates a dump was requested before a format was established
	ErrNoFormat = errors.New("no format set for Flatpak manifest")

	// ErrEncode indicates the manifest could not be serialized
	ErrEncode = errors.New("failed to dump the Flatpak manifest")

	// ErrMissingField indicates a required field is empty or absent
	ErrMissingField = errors.New("required field is missing")

	// ErrInvalidValue indicates a field holds a value outside its closed set
	ErrInvalidValue = errors.New("invalid value")

	// ErrSourceURLString indicates a string source item is a URL
	ErrSourceURLString = errors.New("sources provided as strings cannot be URLs")

	// ErrSourceNotActionable indicates a source has none of url, path or commands
	ErrSourceNotActionable = errors.New("source must define at least one of url, path or commands")

	// ErrNoSources indicates a standalone source manifest holds an empty array
	ErrNoSources = errors.New("source manifest contains no sources")

	// ErrSourceManifest indicates a source manifest is neither one source nor an array of sources
	ErrSourceManifest = errors.New("failed to parse Flatpak source manifest")
)

// FieldError reports a required field that is empty after decoding.
// Entity is "manifest" for the application root, whose fields are top-level.
type FieldError struct {
	Entity string
	Field  string
}

func (e *FieldError) Error() string {
	if e.Entity == "manifest" {
		return fmt.Sprintf("required top-level field %s is missing from Flatpak manifest", e.Field)
	}
	return fmt.Sprintf("required field %s is missing from Flatpak %s", e.Field, e.Entity)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// ValueError reports a recognized field holding an unrecognized value.
type ValueError struct {
	Field string
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ValueError) Unwrap() error {
	return ErrInvalidValue
}

func newValueError(field, value string) *ValueError {
	return &ValueError{Field: field, Value: value}
}
