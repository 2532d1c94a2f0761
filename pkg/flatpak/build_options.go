package flatpak

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BuildOptions are used to override the default build options of a module
// or of the whole application. They apply to every module unless a module
// overrides them with its own build-options.
type BuildOptions struct {
	// Appended to CFLAGS. Clear the inherited value first with CFlagsOverride.
	CFlags         string `json:"cflags,omitempty" yaml:"cflags,omitempty"`
	CFlagsOverride *bool  `json:"cflags-override,omitempty" yaml:"cflags-override,omitempty"`

	CPPFlags         string `json:"cppflags,omitempty" yaml:"cppflags,omitempty"`
	CPPFlagsOverride *bool  `json:"cppflags-override,omitempty" yaml:"cppflags-override,omitempty"`

	CXXFlags         string `json:"cxxflags,omitempty" yaml:"cxxflags,omitempty"`
	CXXFlagsOverride *bool  `json:"cxxflags-override,omitempty" yaml:"cxxflags-override,omitempty"`

	LDFlags         string `json:"ldflags,omitempty" yaml:"ldflags,omitempty"`
	LDFlagsOverride *bool  `json:"ldflags-override,omitempty" yaml:"ldflags-override,omitempty"`

	// The build prefix for the modules (defaults to /app for applications
	// and /usr for runtimes).
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// The build libdir (defaults to /app/lib for applications and /usr/lib
	// for runtimes).
	Libdir string `json:"libdir,omitempty" yaml:"libdir,omitempty"`

	AppendPath           string `json:"append-path,omitempty" yaml:"append-path,omitempty"`
	PrependPath          string `json:"prepend-path,omitempty" yaml:"prepend-path,omitempty"`
	AppendLDLibraryPath  string `json:"append-ld-library-path,omitempty" yaml:"append-ld-library-path,omitempty"`
	PrependLDLibraryPath string `json:"prepend-ld-library-path,omitempty" yaml:"prepend-ld-library-path,omitempty"`
	AppendPkgConfigPath  string `json:"append-pkg-config-path,omitempty" yaml:"append-pkg-config-path,omitempty"`
	PrependPkgConfigPath string `json:"prepend-pkg-config-path,omitempty" yaml:"prepend-pkg-config-path,omitempty"`
	AppendPythonPath     string `json:"append-python-path,omitempty" yaml:"append-python-path,omitempty"`
	PrependPythonPath    string `json:"prepend-python-path,omitempty" yaml:"prepend-python-path,omitempty"`

	// Environment variables set during the build
	Env *BuildEnv `json:"env,omitempty" yaml:"env,omitempty"`

	// Extra arguments passed to flatpak build
	BuildArgs []string `json:"build-args,omitempty" yaml:"build-args,omitempty"`

	// Extra arguments passed to flatpak build when running tests
	TestArgs []string `json:"test-args,omitempty" yaml:"test-args,omitempty"`

	ConfigOpts      []string `json:"config-opts,omitempty" yaml:"config-opts,omitempty"`
	MakeArgs        []string `json:"make-args,omitempty" yaml:"make-args,omitempty"`
	MakeInstallArgs []string `json:"make-install-args,omitempty" yaml:"make-install-args,omitempty"`

	// Strip the binaries instead of splitting out debuginfo
	Strip *bool `json:"strip,omitempty" yaml:"strip,omitempty"`

	NoDebuginfo            *bool `json:"no-debuginfo,omitempty" yaml:"no-debuginfo,omitempty"`
	NoDebuginfoCompression *bool `json:"no-debuginfo-compression,omitempty" yaml:"no-debuginfo-compression,omitempty"`

	// Per-architecture overrides, keyed by architecture token
	Arch map[string]*BuildOptions `json:"arch,omitempty" yaml:"arch,omitempty"`
}

func (o *BuildOptions) checkValues() error {
	if o == nil {
		return nil
	}
	for _, name := range sortedKeys(o.Arch) {
		if !Architecture(name).IsValid() {
			return newValueError("build-options arch", name)
		}
		if err := o.Arch[name].checkValues(); err != nil {
			return err
		}
	}
	return nil
}

// EnvForm records which encoding a BuildEnv was written in
type EnvForm int

const (
	// EnvMap is the `KEY: VALUE` mapping form
	EnvMap EnvForm = iota
	// EnvList is the `["KEY=VALUE", ...]` array form
	EnvList
)

// BuildEnv holds the build environment. Manifests write it either as a
// mapping or as an array of KEY=VALUE strings; the form is kept so a dump
// writes it back the same way.
type BuildEnv struct {
	Form EnvForm
	Map  map[string]string
	List []string
}

// EnvFromMap returns a BuildEnv in mapping form
func EnvFromMap(m map[string]string) *BuildEnv {
	return &BuildEnv{Form: EnvMap, Map: m}
}

// EnvFromList returns a BuildEnv in array form
func EnvFromList(l []string) *BuildEnv {
	return &BuildEnv{Form: EnvList, List: l}
}

// Vars returns the environment as a map, whichever form it was written in.
// In array form, entries without '=' map to an empty value and later entries
// win.
func (e *BuildEnv) Vars() map[string]string {
	if e == nil {
		return map[string]string{}
	}
	vars := make(map[string]string, len(e.Map)+len(e.List))
	if e.Form == EnvMap {
		for k, v := range e.Map {
			vars[k] = v
		}
		return vars
	}
	for _, entry := range e.List {
		key, value, _ := strings.Cut(entry, "=")
		vars[key] = value
	}
	return vars
}

func (e *BuildEnv) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*e = BuildEnv{Form: EnvList, List: list}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*e = BuildEnv{Form: EnvMap, Map: m}
	return nil
}

func (e BuildEnv) MarshalJSON() ([]byte, error) {
	if e.Form == EnvList {
		return json.Marshal(e.List)
	}
	return json.Marshal(e.Map)
}

func (e *BuildEnv) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*e = BuildEnv{Form: EnvList, List: list}
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err != nil {
			return err
		}
		*e = BuildEnv{Form: EnvMap, Map: m}
	default:
		return fmt.Errorf("env must be a mapping or a list, got %s", node.ShortTag())
	}
	return nil
}

func (e BuildEnv) MarshalYAML() (any, error) {
	if e.Form == EnvList {
		return e.List, nil
	}
	return e.Map, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
