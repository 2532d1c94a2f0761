package flatpak

import (
	"fmt"
	"strings"
)

// Module is one independently buildable component of an application.
// Modules can be nested to express build-order groups of dependencies.
type Module struct {
	format Format

	// Name of the module, used in status messages. Also used as the
	// directory name for the sources.
	Name string `json:"name" yaml:"name" validate:"required"`

	// If true, skip this module
	Disabled *bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Sources used to build this module. A string item is the path of a
	// separate JSON/YAML file holding one source or an array of sources.
	Sources []SourceItem `json:"sources" yaml:"sources" validate:"min=1"`

	// Options passed to configure
	ConfigOpts []string `json:"config-opts,omitempty" yaml:"config-opts,omitempty"`

	// Arguments passed to make
	MakeArgs []string `json:"make-args,omitempty" yaml:"make-args,omitempty"`

	// Arguments passed to make install
	MakeInstallArgs []string `json:"make-install-args,omitempty" yaml:"make-install-args,omitempty"`

	// If true, remove the configure script before starting the build
	RmConfigure *bool `json:"rm-configure,omitempty" yaml:"rm-configure,omitempty"`

	// Ignore the existence of an autogen script
	NoAutogen *bool `json:"no-autogen,omitempty" yaml:"no-autogen,omitempty"`

	// Don't call make with arguments to build in parallel
	NoParallelMake *bool `json:"no-parallel-make,omitempty" yaml:"no-parallel-make,omitempty"`

	// Name of the rule passed to make for the install phase, default is install
	InstallRule string `json:"install-rule,omitempty" yaml:"install-rule,omitempty"`

	// Don't run the make install (or equivalent) stage
	NoMakeInstall *bool `json:"no-make-install,omitempty" yaml:"no-make-install,omitempty"`

	// Don't fix up the *.py[oc] header timestamps for ostree use
	NoPythonTimestampFix *bool `json:"no-python-timestamp-fix,omitempty" yaml:"no-python-timestamp-fix,omitempty"`

	// Use cmake instead of configure (deprecated: use Buildsystem instead)
	CMake *bool `json:"cmake,omitempty" yaml:"cmake,omitempty"`

	// Build system to use
	Buildsystem BuildSystem `json:"buildsystem,omitempty" yaml:"buildsystem,omitempty"`

	// Use a build directory that is separate from the source directory
	Builddir *bool `json:"builddir,omitempty" yaml:"builddir,omitempty"`

	// Build inside this subdirectory of the extracted sources
	Subdir string `json:"subdir,omitempty" yaml:"subdir,omitempty"`

	BuildOptions *BuildOptions `json:"build-options,omitempty" yaml:"build-options,omitempty"`

	// Commands run during the build process, after the build system
	BuildCommands []string `json:"build-commands,omitempty" yaml:"build-commands,omitempty"`

	// Commands run after installing
	PostInstall []string `json:"post-install,omitempty" yaml:"post-install,omitempty"`

	// Files or directories to remove after installing, in addition to the
	// application-wide cleanup. Patterns starting with / match full paths.
	Cleanup []string `json:"cleanup,omitempty" yaml:"cleanup,omitempty"`

	// Paths made writable only during the build of this module
	EnsureWritable []string `json:"ensure-writable,omitempty" yaml:"ensure-writable,omitempty"`

	OnlyArches []string `json:"only-arches,omitempty" yaml:"only-arches,omitempty"`
	SkipArches []string `json:"skip-arches,omitempty" yaml:"skip-arches,omitempty"`

	// Extra files to clean up in the platform
	CleanupPlatform []string `json:"cleanup-platform,omitempty" yaml:"cleanup-platform,omitempty"`

	// If true, run the tests after installing
	RunTests *bool `json:"run-tests,omitempty" yaml:"run-tests,omitempty"`

	// Target to build when running the tests, default is "check" for make
	// and "test" for ninja
	TestRule string `json:"test-rule,omitempty" yaml:"test-rule,omitempty"`

	// Commands run during the tests
	TestCommands []string `json:"test-commands,omitempty" yaml:"test-commands,omitempty"`

	// Modules built before this one. A string item is the path of a
	// separate JSON/YAML file holding a module.
	Modules []ModuleItem `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// ParseModule parses a module manifest in the given format and validates it
// together with its inline sources and nested modules.
func ParseModule(format Format, content string) (*Module, error) {
	var module Module
	if err := format.Decode(content, &module); err != nil {
		return nil, err
	}
	module.format = format

	if err := module.Validate(); err != nil {
		return nil, err
	}
	return &module, nil
}

// ParseModuleFile parses a module manifest, taking the format from the
// extension of pathHint.
func ParseModuleFile(pathHint, content string) (*Module, error) {
	format, err := FormatFromPath(pathHint)
	if err != nil {
		return nil, err
	}
	return ParseModule(format, content)
}

// Validate checks the required fields of the module, that no string source
// item is a URL, that every inline source is actionable, and the same rules
// for every inline descendant. Closed-set values are checked throughout.
func (m *Module) Validate() error {
	if err := requiredFields("module", m); err != nil {
		return err
	}
	if err := m.checkValues(); err != nil {
		return err
	}
	for i, item := range m.Sources {
		switch {
		case item.IsZero():
			return fmt.Errorf("%w: source %d: %v", ErrInvalidFormat, i, errNullItem)
		case item.Inline != nil:
			if err := item.Inline.Validate(); err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
		case looksLikeURL(item.Path):
			return fmt.Errorf("%w: %s", ErrSourceURLString, item.Path)
		}
	}
	for i, item := range m.Modules {
		if item.IsZero() {
			return fmt.Errorf("%w: module %d: %v", ErrInvalidFormat, i, errNullItem)
		}
		if item.Inline != nil {
			if err := item.Inline.Validate(); err != nil {
				return fmt.Errorf("module %q: %w", item.Inline.Name, err)
			}
		}
	}
	return nil
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// checkValues rejects unknown enum tokens in the module's own fields
func (m *Module) checkValues() error {
	if m.Buildsystem != "" && !m.Buildsystem.IsValid() {
		return newValueError("buildsystem", string(m.Buildsystem))
	}
	if err := checkArches("only-arches", m.OnlyArches); err != nil {
		return err
	}
	if err := checkArches("skip-arches", m.SkipArches); err != nil {
		return err
	}
	return m.BuildOptions.checkValues()
}

// Format returns the format the module was parsed from
func (m *Module) Format() Format {
	return m.format
}

// Dump serializes the module in the format it was parsed from
func (m *Module) Dump() (string, error) {
	return m.DumpAs(m.format)
}

// DumpAs serializes the module in the given format
func (m *Module) DumpAs(format Format) (string, error) {
	return format.Encode(m)
}

// BuildSystem returns the effective build system. An explicit buildsystem
// wins; otherwise the legacy cmake flag selects cmake. ok is false when
// neither is set.
func (m *Module) BuildSystem() (bs BuildSystem, ok bool) {
	if m.Buildsystem != "" {
		return m.Buildsystem, true
	}
	if m.CMake != nil && *m.CMake {
		return BuildCMake, true
	}
	return "", false
}

// InlineSources returns the sources described inline, skipping path items
func (m *Module) InlineSources() []*Source {
	return inlineOf(m.Sources)
}

// InlineModules returns the nested modules described inline, skipping path items
func (m *Module) InlineModules() []*Module {
	return inlineOf(m.Modules)
}

func inlineOf[T any](items []Item[T]) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if item.Inline != nil {
			out = append(out, item.Inline)
		}
	}
	return out
}

// IsPatched reports whether any inline source is a patch
func (m *Module) IsPatched() bool {
	for _, source := range m.InlineSources() {
		if source.Type == SourcePatch {
			return true
		}
	}
	return false
}

// IsComposite reports whether the module is built from more than one code
// source (archive, git, bzr, svn or dir).
func (m *Module) IsComposite() bool {
	code := 0
	for _, source := range m.InlineSources() {
		if source.Type.IsCode() {
			code++
		}
	}
	return code > 1
}

// MaxDepth returns the height of the inline module tree rooted at m: 1 plus
// the largest depth of the nested modules, so a module without nested
// modules has depth 1.
func (m *Module) MaxDepth() int {
	deepest := 0
	for _, child := range m.InlineModules() {
		if d := child.MaxDepth(); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// AllModules returns every nested module item below m in pre-order: each
// item is followed by its own descendants before its next sibling. Path
// items are included but not descended into. m itself is not included.
func (m *Module) AllModules() []ModuleItem {
	var out []ModuleItem
	for _, item := range m.Modules {
		out = append(out, item)
		if item.Inline != nil {
			out = append(out, item.Inline.AllModules()...)
		}
	}
	return out
}

// MainURL returns the url of the first source. By convention the first
// source is the module's main one; later ones are patches or extra files.
// A first source given as a path has no url.
func (m *Module) MainURL() (string, bool) {
	if len(m.Sources) == 0 {
		return "", false
	}
	first := m.Sources[0].Inline
	if first == nil || first.URL == "" {
		return "", false
	}
	return first.URL, true
}

// URLs returns the url of every inline source of m and of its inline
// descendants, without mirrors.
func (m *Module) URLs() []string {
	return m.collectURLs(func(s *Source) []string {
		if s.URL == "" {
			return nil
		}
		return []string{s.URL}
	})
}

// AllURLs returns every url and mirror url of m, followed by those of its
// inline descendants.
func (m *Module) AllURLs() []string {
	return m.collectURLs((*Source).AllURLs)
}

// AllMirrorURLs returns the mirror urls of m and of its inline descendants
func (m *Module) AllMirrorURLs() []string {
	return m.collectURLs((*Source).AllMirrorURLs)
}

// ArchiveURLs returns the urls of archive sources, recursively
func (m *Module) ArchiveURLs() []string {
	return m.urlsOfType(SourceArchive)
}

// GitURLs returns the urls of git sources, recursively
func (m *Module) GitURLs() []string {
	return m.urlsOfType(SourceGit)
}

func (m *Module) urlsOfType(t SourceType) []string {
	return m.collectURLs(func(s *Source) []string {
		if s.Type != t || s.URL == "" {
			return nil
		}
		return []string{s.URL}
	})
}

func (m *Module) collectURLs(fn func(*Source) []string) []string {
	urls := []string{}
	for _, source := range m.InlineSources() {
		urls = append(urls, fn(source)...)
	}
	for _, child := range m.InlineModules() {
		urls = append(urls, child.collectURLs(fn)...)
	}
	return urls
}

// UsesExternalDataChecker reports whether any inline source of the module
// carries x-checker-data.
func (m *Module) UsesExternalDataChecker() bool {
	for _, source := range m.InlineSources() {
		if source.XCheckerData != nil {
			return true
		}
	}
	return false
}
