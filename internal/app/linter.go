package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quantmind-br/flatpakman/internal/cache"
	"github.com/quantmind-br/flatpakman/internal/domain"
	"github.com/quantmind-br/flatpakman/internal/loader"
	"github.com/quantmind-br/flatpakman/internal/utils"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
)

// Linter validates many manifest files concurrently
type Linter struct {
	loader   *loader.Loader
	resolver *loader.Resolver
	store    *cache.ResultStore
	logger   *utils.Logger
	workers  int
	strict   bool
	progress io.Writer
}

// LinterOptions contains options for creating a linter
type LinterOptions struct {
	Reader domain.Reader
	// Store caches results between runs; nil disables caching
	Store   *cache.ResultStore
	Logger  *utils.Logger
	Workers int
	// Strict applies the per-module and per-source checks and loads every
	// file a manifest references
	Strict   bool
	MaxDepth int
	// Progress receives a progress bar; nil draws none
	Progress io.Writer
}

// NewLinter creates a linter
func NewLinter(opts LinterOptions) (*Linter, error) {
	if opts.Reader == nil {
		return nil, errors.New("reader is required")
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	l := loader.NewLoader(opts.Reader, opts.Logger)
	return &Linter{
		loader: l,
		resolver: loader.NewResolver(l, loader.ResolverOptions{
			Workers:  opts.Workers,
			MaxDepth: opts.MaxDepth,
			Logger:   opts.Logger,
		}),
		store:    opts.Store,
		logger:   opts.Logger.WithComponent("linter"),
		workers:  opts.Workers,
		strict:   opts.Strict,
		progress: opts.Progress,
	}, nil
}

// Lint validates every path and reports one result per path, in input
// order. A failing file does not stop the run; only cancellation does.
func (l *Linter) Lint(ctx context.Context, paths []string) (*domain.Report, error) {
	start := time.Now()

	l.logger.Info().
		Int("files", len(paths)).
		Int("workers", l.workers).
		Bool("strict", l.strict).
		Msg("Starting lint")

	bar := utils.NewProgressBar(len(paths), utils.DescLinting, l.progress)
	results, _ := utils.ParallelMap(ctx, paths, l.workers, func(ctx context.Context, path string) (domain.LintResult, error) {
		res := l.LintFile(ctx, path)
		_ = bar.Add(1)
		return res, nil
	})
	_ = bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		Results:   results,
		StartedAt: start,
		Duration:  time.Since(start),
		Strict:    l.strict,
	}

	summary := report.Summary()
	l.logger.Info().
		Int("valid", summary.Valid).
		Int("invalid", summary.Invalid).
		Int("cached", summary.Cached).
		Dur("duration", report.Duration).
		Msg("Lint completed")

	return report, nil
}

// LintFile validates a single file
func (l *Linter) LintFile(ctx context.Context, path string) domain.LintResult {
	logger := l.logger.WithPath(path)

	content, err := l.loader.ReadText(ctx, path)
	if err != nil {
		return failed(path, flatpak.KindUnknown, err)
	}

	var key string
	if l.store != nil {
		key = cache.LintKey(path, content, l.strict)
		if res, ok := l.store.Get(ctx, key); ok {
			logger.Debug().Msg("Cache hit")
			res.Path = path
			res.Cached = true
			return res
		}
	}

	res, cacheable := l.check(ctx, path, content)
	if !res.Valid {
		l.logger.WithManifest(path, res.Kind).Debug().Str("error", res.Error).Msg("Invalid manifest")
	}

	if l.store != nil && cacheable {
		if err := l.store.Put(ctx, key, res); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache lint result")
		}
	}
	return res
}

// check validates content. The second return value is false when the
// result depends on files other than path.
func (l *Linter) check(ctx context.Context, path, content string) (domain.LintResult, bool) {
	m, err := loader.ParseAny(path, content)
	if err != nil {
		return failed(path, flatpak.KindUnknown, err), true
	}
	if err := m.Validate(); err != nil {
		return failed(path, m.Kind, err), true
	}

	cacheable := true
	if l.strict && m.HasReferences() {
		cacheable = false
		resolved, err := l.resolver.ResolveManifest(ctx, m)
		if err != nil {
			return failed(path, m.Kind, err), false
		}
		if err := resolved.Validate(); err != nil {
			return failed(path, m.Kind, err), false
		}
		m = resolved
	}

	return domain.LintResult{
		Path:     path,
		Kind:     m.Kind.String(),
		Valid:    true,
		ID:       m.ID(),
		Modules:  len(m.Modules()),
		MaxDepth: m.MaxDepth(),
		URLs:     m.URLs(false),
	}, cacheable
}

func failed(path string, kind flatpak.ManifestKind, err error) domain.LintResult {
	return domain.LintResult{
		Path:  path,
		Kind:  kind.String(),
		Error: reason(path, err),
	}
}

// reason drops the LoadError wrapper of path itself, which only repeats it
func reason(path string, err error) string {
	var loadErr *domain.LoadError
	if errors.As(err, &loadErr) && loadErr.Path == path {
		return loadErr.Err.Error()
	}
	return fmt.Sprint(err)
}
