package flatpak

import (
	"errors"
	"fmt"
)

// Application is the root of a Flatpak manifest. It describes an
// application, a runtime or an extension.
type Application struct {
	format Format

	// Name of the application, informational only
	AppName string `json:"app-name,omitempty" yaml:"app-name,omitempty"`

	// Application id (preferred key)
	AppID string `json:"app-id,omitempty" yaml:"app-id,omitempty" validate:"required_without=ID"`

	// Application id (legacy key)
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Branch to use when exporting. Usually overridden on the command line.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// Branch used when none is given on the command line
	DefaultBranch string `json:"default-branch,omitempty" yaml:"default-branch,omitempty"`

	// Collection ID of the repository, defaults to none
	CollectionID string `json:"collection-id,omitempty" yaml:"collection-id,omitempty"`

	Runtime        string `json:"runtime" yaml:"runtime" validate:"required"`
	RuntimeVersion string `json:"runtime-version" yaml:"runtime-version" validate:"required"`
	SDK            string `json:"sdk" yaml:"sdk" validate:"required"`

	// SDK extensions installed into the build environment
	SDKExtensions []string `json:"sdk-extensions,omitempty" yaml:"sdk-extensions,omitempty"`

	// Initialize /var from this runtime
	Var string `json:"var,omitempty" yaml:"var,omitempty"`

	// Use this file as the base metadata file when finishing
	Metadata string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Build a new runtime instead of an application
	BuildRuntime *bool `json:"build-runtime,omitempty" yaml:"build-runtime,omitempty"`

	// Build an extension
	BuildExtension *bool `json:"build-extension,omitempty" yaml:"build-extension,omitempty"`

	// Start with the files from this base application
	Base           string   `json:"base,omitempty" yaml:"base,omitempty"`
	BaseVersion    string   `json:"base-version,omitempty" yaml:"base-version,omitempty"`
	BaseExtensions []string `json:"base-extensions,omitempty" yaml:"base-extensions,omitempty"`

	// Extension points inherited from the base application or runtime
	InheritExtensions    []string `json:"inherit-extensions,omitempty" yaml:"inherit-extensions,omitempty"`
	InheritSDKExtensions []string `json:"inherit-sdk-extensions,omitempty" yaml:"inherit-sdk-extensions,omitempty"`

	BuildOptions *BuildOptions `json:"build-options,omitempty" yaml:"build-options,omitempty"`

	// Filename or path to the main binary. Not required for extensions.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Extension points provided by the application, keyed by extension name
	AddExtensions map[string]*ExtensionPoint `json:"add-extensions,omitempty" yaml:"add-extensions,omitempty"`

	// Extension points available at build time only
	AddBuildExtensions map[string]*ExtensionPoint `json:"add-build-extensions,omitempty" yaml:"add-build-extensions,omitempty"`

	// Files removed from the build after all modules are installed
	Cleanup         []string `json:"cleanup,omitempty" yaml:"cleanup,omitempty"`
	CleanupCommands []string `json:"cleanup-commands,omitempty" yaml:"cleanup-commands,omitempty"`

	// Files removed from the platform when building a runtime
	CleanupPlatform         []string `json:"cleanup-platform,omitempty" yaml:"cleanup-platform,omitempty"`
	CleanupPlatformCommands []string `json:"cleanup-platform-commands,omitempty" yaml:"cleanup-platform-commands,omitempty"`

	// Commands run in the platform before cleanup-platform-commands
	PreparePlatformCommands []string `json:"prepare-platform-commands,omitempty" yaml:"prepare-platform-commands,omitempty"`

	// Arguments passed to flatpak build-finish
	FinishArgs []string `json:"finish-args,omitempty" yaml:"finish-args,omitempty"`

	// Files renamed to match the application id during cleanup
	RenameDesktopFile string `json:"rename-desktop-file,omitempty" yaml:"rename-desktop-file,omitempty"`
	RenameAppdataFile string `json:"rename-appdata-file,omitempty" yaml:"rename-appdata-file,omitempty"`
	RenameIcon        string `json:"rename-icon,omitempty" yaml:"rename-icon,omitempty"`

	// License written into the appdata file
	AppdataLicense string `json:"appdata-license,omitempty" yaml:"appdata-license,omitempty"`

	// Keep a copy of the icon when rename-icon is set
	CopyIcon *bool `json:"copy-icon,omitempty" yaml:"copy-icon,omitempty"`

	DesktopFileNamePrefix string `json:"desktop-file-name-prefix,omitempty" yaml:"desktop-file-name-prefix,omitempty"`
	DesktopFileNameSuffix string `json:"desktop-file-name-suffix,omitempty" yaml:"desktop-file-name-suffix,omitempty"`

	// Modules to build, in order. A string item is the path of a separate
	// JSON/YAML file holding a module.
	Modules []ModuleItem `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// ParseApplication parses an application manifest, taking the format from
// the extension of pathHint.
func ParseApplication(pathHint, content string) (*Application, error) {
	format, err := FormatFromPath(pathHint)
	if err != nil {
		return nil, err
	}
	return ParseApplicationFormat(format, content)
}

// ParseApplicationFormat parses an application manifest in the given format.
// Every missing required field is reported; the error matches
// ErrMissingField once per field.
func ParseApplicationFormat(format Format, content string) (*Application, error) {
	var app Application
	if err := format.Decode(content, &app); err != nil {
		return nil, err
	}
	app.format = format

	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

// Validate checks the required top-level fields, then validates every inline
// module as ParseModule would. All failing modules are reported.
func (a *Application) Validate() error {
	if err := requiredFields("manifest", a); err != nil {
		return err
	}
	if err := a.BuildOptions.checkValues(); err != nil {
		return err
	}
	var errs []error
	for i, item := range a.Modules {
		switch {
		case item.IsZero():
			errs = append(errs, fmt.Errorf("%w: module %d: %v", ErrInvalidFormat, i, errNullItem))
		case item.Inline != nil:
			if err := item.Inline.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("module %q: %w", item.Inline.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Format returns the format the manifest was parsed from
func (a *Application) Format() Format {
	return a.format
}

// SetFormat sets the format used by Dump
func (a *Application) SetFormat(format Format) {
	a.format = format
}

// Dump serializes the manifest in the format it was parsed from. It fails
// with ErrNoFormat when no format was established.
func (a *Application) Dump() (string, error) {
	return a.DumpAs(a.format)
}

// DumpAs serializes the manifest in the given format
func (a *Application) DumpAs(format Format) (string, error) {
	return format.Encode(a)
}

// Identifier returns app-id, or id when app-id is not set
func (a *Application) Identifier() string {
	if a.AppID != "" {
		return a.AppID
	}
	return a.ID
}

// IsExtension reports whether build-extension is explicitly true
func (a *Application) IsExtension() bool {
	return a.BuildExtension != nil && *a.BuildExtension
}

// InlineModules returns the top-level modules described inline
func (a *Application) InlineModules() []*Module {
	return inlineOf(a.Modules)
}

// MaxDepth returns the depth of the deepest top-level module, and at least 1
func (a *Application) MaxDepth() int {
	deepest := 1
	for _, module := range a.InlineModules() {
		if d := module.MaxDepth(); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// AllModuleURLs returns every url and mirror url of every inline module, in
// declaration order.
func (a *Application) AllModuleURLs() []string {
	urls := []string{}
	for _, module := range a.InlineModules() {
		urls = append(urls, module.AllURLs()...)
	}
	return urls
}

// MainModuleURL returns the main url of the last module. The main module is
// conventionally listed last, after its dependencies.
func (a *Application) MainModuleURL() (string, bool) {
	if len(a.Modules) == 0 {
		return "", false
	}
	last := a.Modules[len(a.Modules)-1]
	if last.Inline == nil {
		return "", false
	}
	return last.Inline.MainURL()
}

// AllModules returns every module item of the manifest in pre-order (see
// Module.AllModules), top-level items included.
func (a *Application) AllModules() []ModuleItem {
	var out []ModuleItem
	for _, item := range a.Modules {
		out = append(out, item)
		if item.Inline != nil {
			out = append(out, item.Inline.AllModules()...)
		}
	}
	return out
}
