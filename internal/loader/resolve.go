package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/quantmind-br/flatpakman/internal/domain"
	"github.com/quantmind-br/flatpakman/internal/utils"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
)

// DefaultMaxDepth bounds how deeply module files may be nested
const DefaultMaxDepth = 16

// Resolver replaces path items of a manifest with the content of the files
// they name
type Resolver struct {
	loader   *Loader
	workers  int
	maxDepth int
	logger   *utils.Logger
}

// ResolverOptions contains options for creating a Resolver
type ResolverOptions struct {
	Workers  int
	MaxDepth int
	Logger   *utils.Logger
}

// NewResolver creates a resolver loading referenced files through loader
func NewResolver(loader *Loader, opts ResolverOptions) *Resolver {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	return &Resolver{
		loader:   loader,
		workers:  opts.Workers,
		maxDepth: opts.MaxDepth,
		logger:   opts.Logger.WithComponent("resolver"),
	}
}

// Resolve returns a copy of app in which every module and source given as a
// file path is replaced by the loaded content. Paths are relative to the
// directory of the file that references them, and a source file holding an
// array contributes all of its sources in place. The input is not modified.
func (r *Resolver) Resolve(ctx context.Context, app *flatpak.Application, manifestPath string) (*flatpak.Application, error) {
	manifestPath = filepath.Clean(manifestPath)

	modules, err := r.resolveModules(ctx, app.Modules, manifestPath, []string{manifestPath}, 1)
	if err != nil {
		return nil, err
	}

	resolved := *app
	resolved.Modules = modules
	return &resolved, nil
}

// ResolveModule is Resolve for a module manifest loaded from modulePath
func (r *Resolver) ResolveModule(ctx context.Context, module *flatpak.Module, modulePath string) (*flatpak.Module, error) {
	modulePath = filepath.Clean(modulePath)
	return r.resolveModule(ctx, module, modulePath, []string{modulePath}, 1)
}

// ResolveManifest returns a copy of m with its file references resolved.
// Source manifests are returned unchanged.
func (r *Resolver) ResolveManifest(ctx context.Context, m *Manifest) (*Manifest, error) {
	resolved := *m
	switch m.Kind {
	case flatpak.KindApplication:
		app, err := r.Resolve(ctx, m.Application, m.Path)
		if err != nil {
			return nil, err
		}
		resolved.Application = app
	case flatpak.KindModule:
		module, err := r.ResolveModule(ctx, m.Module, m.Path)
		if err != nil {
			return nil, err
		}
		resolved.Module = module
	}
	return &resolved, nil
}

// resolveModules resolves the items of one level concurrently. chain holds
// the module files currently being resolved, outermost first.
func (r *Resolver) resolveModules(ctx context.Context, items []flatpak.ModuleItem, file string, chain []string, depth int) ([]flatpak.ModuleItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	if depth > r.maxDepth {
		return nil, fmt.Errorf("%w: %s (limit %d)", domain.ErrMaxDepth, file, r.maxDepth)
	}

	resolved, errs := utils.ParallelMap(ctx, items, r.workers, func(ctx context.Context, item flatpak.ModuleItem) (flatpak.ModuleItem, error) {
		switch {
		case item.IsZero():
			return item, nil
		case !item.IsPath():
			m, err := r.resolveModule(ctx, item.Inline, file, chain, depth)
			return flatpak.InlineItem(m), err
		}

		ref := referencedPath(file, item.Path)
		if slices.Contains(chain, ref) {
			return item, fmt.Errorf("%w: %s is included from %s", domain.ErrCycle, ref, file)
		}

		m, err := r.loader.LoadModule(ctx, ref)
		if err != nil {
			return item, err
		}
		r.logger.Debug().Str("path", ref).Str("from", file).Msg("Resolved module file")

		m, err = r.resolveModule(ctx, m, ref, append(slices.Clone(chain), ref), depth)
		return flatpak.InlineItem(m), err
	})

	if err := utils.FirstError(errs); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *Resolver) resolveModule(ctx context.Context, module *flatpak.Module, file string, chain []string, depth int) (*flatpak.Module, error) {
	sources, err := r.resolveSources(ctx, module.Sources, file)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", module.Name, err)
	}

	children, err := r.resolveModules(ctx, module.Modules, file, chain, depth+1)
	if err != nil {
		return nil, err
	}

	resolved := *module
	resolved.Sources = sources
	resolved.Modules = children
	return &resolved, nil
}

func (r *Resolver) resolveSources(ctx context.Context, items []flatpak.SourceItem, file string) ([]flatpak.SourceItem, error) {
	if items == nil {
		return nil, nil
	}

	resolved := make([]flatpak.SourceItem, 0, len(items))
	for _, item := range items {
		switch {
		case item.IsZero():
			resolved = append(resolved, item)
			continue
		case !item.IsPath():
			source := *item.Inline
			resolved = append(resolved, flatpak.InlineItem(&source))
			continue
		}

		ref := referencedPath(file, item.Path)
		sources, err := r.loader.LoadSources(ctx, ref)
		if err != nil {
			return nil, err
		}
		r.logger.Debug().Str("path", ref).Int("sources", len(sources)).Msg("Resolved source file")

		for i := range sources {
			resolved = append(resolved, flatpak.InlineItem(&sources[i]))
		}
	}
	return resolved, nil
}

// referencedPath returns the path of ref as seen from the file that names it
func referencedPath(file, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(file), ref)
}
