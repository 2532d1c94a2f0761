package loader

import (
	"context"
	"fmt"

	"github.com/quantmind-br/flatpakman/internal/discovery"
	"github.com/quantmind-br/flatpakman/internal/domain"
	"github.com/quantmind-br/flatpakman/internal/utils"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
)

// Manifest is a parsed manifest file of any kind. Exactly one of
// Application, Module or Sources is set, matching Kind.
type Manifest struct {
	Path        string
	Kind        flatpak.ManifestKind
	Application *flatpak.Application
	Module      *flatpak.Module
	Sources     []flatpak.Source
}

// ParseAny parses content as the kind of manifest path most likely holds.
// A reverse-DNS file name is read as an application first; other names are
// tried as a module, then as a source file, then as an application. When
// nothing fits, the error of the first reading is returned.
func ParseAny(path, content string) (*Manifest, error) {
	if _, err := flatpak.FormatFromPath(path); err != nil {
		return nil, err
	}

	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	rdns := discovery.IsReverseDNS(path)
	if rdns {
		app, err := flatpak.ParseApplication(path, content)
		if err == nil {
			return &Manifest{Path: path, Kind: flatpak.KindApplication, Application: app}, nil
		}
		record(err)
	}

	module, err := flatpak.ParseModuleFile(path, content)
	if err == nil {
		return &Manifest{Path: path, Kind: flatpak.KindModule, Module: module}, nil
	}
	record(err)

	sources, err := flatpak.ParseSourceFile(path, content)
	if err == nil {
		return &Manifest{Path: path, Kind: flatpak.KindSource, Sources: sources}, nil
	}

	if !rdns {
		app, err := flatpak.ParseApplication(path, content)
		if err == nil {
			return &Manifest{Path: path, Kind: flatpak.KindApplication, Application: app}, nil
		}
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrNotAManifest, firstErr)
}

// Validate runs the structural checks of the manifest kind over its inline tree
func (m *Manifest) Validate() error {
	switch m.Kind {
	case flatpak.KindApplication:
		return m.Application.Validate()
	case flatpak.KindModule:
		return m.Module.Validate()
	case flatpak.KindSource:
		for i := range m.Sources {
			if err := m.Sources[i].Validate(); err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
		}
	}
	return nil
}

// ID returns the application identifier or the module name
func (m *Manifest) ID() string {
	switch m.Kind {
	case flatpak.KindApplication:
		return m.Application.Identifier()
	case flatpak.KindModule:
		return m.Module.Name
	}
	return ""
}

// Modules returns every module of the manifest in pre-order
func (m *Manifest) Modules() []flatpak.ModuleItem {
	switch m.Kind {
	case flatpak.KindApplication:
		return m.Application.AllModules()
	case flatpak.KindModule:
		return append([]flatpak.ModuleItem{flatpak.InlineItem(m.Module)}, m.Module.AllModules()...)
	}
	return nil
}

// MaxDepth returns the nesting depth of the module tree
func (m *Manifest) MaxDepth() int {
	switch m.Kind {
	case flatpak.KindApplication:
		return m.Application.MaxDepth()
	case flatpak.KindModule:
		return m.Module.MaxDepth()
	}
	return 0
}

// URLs returns the source URLs of the manifest. With mirrors set, the
// mirror URLs of each source follow its main URL.
func (m *Manifest) URLs(mirrors bool) []string {
	switch m.Kind {
	case flatpak.KindApplication:
		var urls []string
		for _, module := range m.Application.InlineModules() {
			urls = append(urls, moduleURLs(module, mirrors)...)
		}
		return urls
	case flatpak.KindModule:
		return moduleURLs(m.Module, mirrors)
	}

	var urls []string
	for i := range m.Sources {
		if mirrors {
			urls = append(urls, m.Sources[i].AllURLs()...)
		} else if m.Sources[i].URL != "" {
			urls = append(urls, m.Sources[i].URL)
		}
	}
	return urls
}

func moduleURLs(m *flatpak.Module, mirrors bool) []string {
	if mirrors {
		return m.AllURLs()
	}
	return m.URLs()
}

// HasReferences reports whether the manifest names other files as modules
// or sources, so that its validity depends on more than its own content
func (m *Manifest) HasReferences() bool {
	var modules []*flatpak.Module
	for _, item := range m.Modules() {
		if item.IsPath() {
			return true
		}
		if item.Inline != nil {
			modules = append(modules, item.Inline)
		}
	}
	for _, module := range modules {
		for _, source := range module.Sources {
			if source.IsPath() {
				return true
			}
		}
	}
	return false
}

// Format returns the format the manifest was read in
func (m *Manifest) Format() flatpak.Format {
	switch m.Kind {
	case flatpak.KindApplication:
		return m.Application.Format()
	case flatpak.KindModule:
		return m.Module.Format()
	}
	if len(m.Sources) > 0 {
		return m.Sources[0].Format()
	}
	return flatpak.FormatUnknown
}

// DumpAs serializes the manifest in format. A source file holding several
// sources is written as an array.
func (m *Manifest) DumpAs(format flatpak.Format) (string, error) {
	switch m.Kind {
	case flatpak.KindApplication:
		return m.Application.DumpAs(format)
	case flatpak.KindModule:
		return m.Module.DumpAs(format)
	}
	if len(m.Sources) == 1 {
		return m.Sources[0].DumpAs(format)
	}
	return format.Encode(m.Sources)
}

// Loader reads manifest files through a Reader and parses them
type Loader struct {
	reader domain.Reader
	logger *utils.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(reader domain.Reader, logger *utils.Logger) *Loader {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Loader{
		reader: reader,
		logger: logger.WithComponent("loader"),
	}
}

// ReadText reads path and decodes it to text
func (l *Loader) ReadText(ctx context.Context, path string) (string, error) {
	data, err := l.reader.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	return DecodeText(data)
}

// LoadApplication loads an application manifest
func (l *Loader) LoadApplication(ctx context.Context, path string) (*flatpak.Application, error) {
	return load(ctx, l, path, flatpak.ParseApplication)
}

// LoadModule loads a module manifest
func (l *Loader) LoadModule(ctx context.Context, path string) (*flatpak.Module, error) {
	return load(ctx, l, path, flatpak.ParseModuleFile)
}

// LoadSources loads a source manifest holding one source or an array
func (l *Loader) LoadSources(ctx context.Context, path string) ([]flatpak.Source, error) {
	return load(ctx, l, path, flatpak.ParseSourceFile)
}

// LoadAny loads a manifest of whichever kind path holds
func (l *Loader) LoadAny(ctx context.Context, path string) (*Manifest, error) {
	return load(ctx, l, path, ParseAny)
}

func load[T any](ctx context.Context, l *Loader, path string, parse func(string, string) (T, error)) (T, error) {
	var zero T

	content, err := l.ReadText(ctx, path)
	if err != nil {
		return zero, domain.NewLoadError(path, err)
	}

	v, err := parse(path, content)
	if err != nil {
		return zero, domain.NewLoadError(path, err)
	}

	l.logger.Debug().Str("path", path).Msg("Loaded manifest")
	return v, nil
}
