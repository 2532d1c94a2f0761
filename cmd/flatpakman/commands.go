package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/quantmind-br/flatpakman/internal/app"
	"github.com/quantmind-br/flatpakman/internal/cache"
	"github.com/quantmind-br/flatpakman/internal/discovery"
	"github.com/quantmind-br/flatpakman/internal/domain"
	"github.com/quantmind-br/flatpakman/internal/loader"
	"github.com/quantmind-br/flatpakman/internal/output"
	"github.com/quantmind-br/flatpakman/internal/utils"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func (c *cli) newLintCmd() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
		gitRev  string
		repo    string
	)

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Validate manifest files",
		Long: `Validate manifest files. Directories are searched for application
manifests (reverse-DNS file names), or for every manifest with --all.

With --git-rev the files are read from that revision of the repository
instead of the working tree, and paths are relative to the repository root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := discovery.Options{All: c.cfg.Lint.AllFiles, Exclude: c.cfg.Lint.Exclude}

			var (
				reader domain.Reader
				paths  []string
				err    error
			)
			if gitRev != "" {
				gitReader, err := loader.OpenGitReader(repo, gitRev)
				if err != nil {
					return err
				}
				c.log.WithRevision(gitRev, gitReader.Hash()).Debug().Msg("Reading from git")
				reader = gitReader
				paths, err = gitPaths(ctx, gitReader, args, opts)
				if err != nil {
					return err
				}
			} else {
				reader = loader.NewFSReader(c.newRetrier())
				paths, err = fsPaths(args, opts)
				if err != nil {
					return err
				}
			}

			store := c.openStore(noCache)
			if store != nil {
				defer store.Close()
			}

			var progress io.Writer
			if !asJSON && utils.IsTerminal(cmd.ErrOrStderr()) {
				progress = cmd.ErrOrStderr()
			}

			linter, err := app.NewLinter(app.LinterOptions{
				Reader:   reader,
				Store:    store,
				Logger:   c.log,
				Workers:  c.cfg.Concurrency.Workers,
				Strict:   c.cfg.Lint.Strict,
				MaxDepth: c.cfg.Loader.MaxDepth,
				Progress: progress,
			})
			if err != nil {
				return err
			}

			report, err := linter.Lint(ctx, paths)
			if err != nil {
				return err
			}
			if err := output.WriteReport(cmd.OutOrStdout(), report, asJSON); err != nil {
				return err
			}
			if !report.OK() {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().Bool("strict", false, "Also check every module and source, loading referenced files")
	cmd.Flags().Bool("all", false, "Lint every manifest file, not only reverse-DNS application manifests")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns of paths to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not read or store cached results")
	cmd.Flags().StringVar(&gitRev, "git-rev", "", "Lint the manifests of a git revision")
	cmd.Flags().StringVar(&repo, "repo", ".", "Repository used with --git-rev")

	_ = viper.BindPFlag("lint.strict", cmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("lint.all_files", cmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("lint.exclude", cmd.Flags().Lookup("exclude"))

	return cmd
}

func (c *cli) newDumpCmd() *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a manifest as it is understood",
		Long: `Parse a manifest and print it again, in its own format or the one given
with --format. Comments and unknown fields are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newLoader().LoadAny(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format, err := c.targetFormat(formatName, m.Format())
			if err != nil {
				return err
			}

			out, err := m.DumpAs(format)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format (yaml, json or toml)")
	return cmd
}

func (c *cli) newConvertCmd() *cobra.Command {
	var (
		to     string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert manifests to another format",
		Long: `Convert manifests to another format. Each file is written next to its
source with the extension of the new format, or into --output.
Existing files are kept unless --force is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.targetFormat(to, flatpak.FormatUnknown)
			if err != nil {
				return err
			}
			if format == flatpak.FormatUnknown {
				return fmt.Errorf("no target format: use --to")
			}

			ldr := c.newLoader()
			writer := output.NewWriter(output.WriterOptions{
				BaseDir: c.cfg.Output.Directory,
				Force:   c.cfg.Output.Overwrite,
				DryRun:  dryRun,
			})

			var progress io.Writer
			if utils.IsTerminal(cmd.ErrOrStderr()) {
				progress = cmd.ErrOrStderr()
			}
			bar := utils.NewProgressBar(len(args), utils.DescConverting, progress)

			messages := make([]string, len(args))
			errs := utils.ParallelForEach(cmd.Context(), indexes(len(args)), c.cfg.Concurrency.Workers, func(ctx context.Context, i int) error {
				defer bar.Add(1)
				src := args[i]
				m, err := ldr.LoadAny(ctx, src)
				if err != nil {
					return err
				}
				out, err := m.DumpAs(format)
				if err != nil {
					return fmt.Errorf("%s: %w", src, err)
				}

				dst := writer.OutputPath(src, format)
				written, err := writer.WriteManifest(dst, out)
				if err != nil {
					return err
				}
				switch {
				case !written:
					messages[i] = fmt.Sprintf("%s: skipped, %s exists", src, dst)
				case dryRun:
					messages[i] = fmt.Sprintf("%s: would write %s", src, dst)
				default:
					messages[i] = fmt.Sprintf("%s: wrote %s", src, dst)
				}
				return nil
			})

			_ = bar.Finish()

			failed := false
			for i := range args {
				if errs[i] != nil {
					failed = true
					fmt.Fprintln(cmd.ErrOrStderr(), errs[i])
					continue
				}
				if messages[i] != "" {
					fmt.Fprintln(cmd.OutOrStdout(), messages[i])
				}
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Target format (yaml, json or toml)")
	cmd.Flags().StringP("output", "o", "", "Directory receiving the converted files")
	cmd.Flags().Bool("force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")

	_ = viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.overwrite", cmd.Flags().Lookup("force"))

	return cmd
}

func (c *cli) newURLsCmd() *cobra.Command {
	var (
		mirrors bool
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "urls <file>",
		Short: "List the source URLs of a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest(cmd.Context(), args[0], resolve)
			if err != nil {
				return err
			}
			for _, url := range m.URLs(mirrors) {
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&mirrors, "mirrors", false, "Include mirror URLs")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Load module and source files the manifest references")
	return cmd
}

func (c *cli) newInfoCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest(cmd.Context(), args[0], resolve)
			if err != nil {
				return err
			}
			writeInfo(cmd.OutOrStdout(), m)
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Load module and source files the manifest references")
	return cmd
}

func (c *cli) newModulesCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "modules <file>",
		Short: "Print the module tree of a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadManifest(cmd.Context(), args[0], resolve)
			if err != nil {
				return err
			}

			switch m.Kind {
			case flatpak.KindApplication:
				writeModules(cmd.OutOrStdout(), m.Application.Modules, 0)
			case flatpak.KindModule:
				writeModules(cmd.OutOrStdout(), []flatpak.ModuleItem{flatpak.InlineItem(m.Module)}, 0)
			default:
				return fmt.Errorf("%s: a %s manifest has no modules", args[0], m.Kind)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Load module files the manifest references")
	return cmd
}

func (c *cli) newFindCmd() *cobra.Command {
	var (
		all     bool
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "find [dir]",
		Short: "List the manifests under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			opts := discovery.Options{All: c.cfg.Lint.AllFiles, Exclude: c.cfg.Lint.Exclude}
			if cmd.Flags().Changed("all") {
				opts.All = all
			}
			if cmd.Flags().Changed("exclude") {
				if err := discovery.ValidatePatterns(exclude); err != nil {
					return err
				}
				opts.Exclude = exclude
			}

			found, err := discovery.Find(root, opts)
			if err != nil {
				return err
			}
			for _, p := range found {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every manifest file, not only application manifests")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns of paths to skip")
	return cmd
}

func (c *cli) newRetrier() *loader.Retrier {
	return loader.NewRetrier(loader.RetrierOptions{MaxRetries: c.cfg.Loader.MaxRetries})
}

func (c *cli) newLoader() *loader.Loader {
	return loader.NewLoader(loader.NewFSReader(c.newRetrier()), c.log)
}

// loadManifest loads path and, when resolve is set, the files it references
func (c *cli) loadManifest(ctx context.Context, path string, resolve bool) (*loader.Manifest, error) {
	ldr := c.newLoader()
	m, err := ldr.LoadAny(ctx, path)
	if err != nil || !resolve {
		return m, err
	}

	resolver := loader.NewResolver(ldr, loader.ResolverOptions{
		Workers:  c.cfg.Concurrency.Workers,
		MaxDepth: c.cfg.Loader.MaxDepth,
		Logger:   c.log,
	})
	resolved, err := resolver.ResolveManifest(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resolved, nil
}

// targetFormat picks the flag value, then the configured output format,
// then fallback
func (c *cli) targetFormat(name string, fallback flatpak.Format) (flatpak.Format, error) {
	if name != "" {
		return flatpak.ParseFormat(name)
	}
	if format := c.cfg.OutputFormat(); format != flatpak.FormatUnknown {
		return format, nil
	}
	return fallback, nil
}

// openStore opens the lint cache. A cache that cannot be opened, for
// example because another process holds it, is skipped.
func (c *cli) openStore(noCache bool) *cache.ResultStore {
	if noCache || !c.cfg.Cache.Enabled {
		return nil
	}

	bc, err := cache.NewBadgerCache(cache.Options{Directory: utils.ExpandPath(c.cfg.Cache.Directory)})
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		return nil
	}
	store, err := cache.NewResultStore(bc, c.cfg.Cache.TTL)
	if err != nil {
		_ = bc.Close()
		c.log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		return nil
	}
	return store
}

// fsPaths expands directory arguments into the manifests they contain.
// Other arguments are kept so that missing files are reported by the linter.
func fsPaths(args []string, opts discovery.Options) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := discovery.Find(arg, opts)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// gitPaths selects files of the tree. A file argument is taken as is and a
// directory argument selects the manifests below it.
func gitPaths(ctx context.Context, lister domain.Lister, args []string, opts discovery.Options) ([]string, error) {
	files, err := lister.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	manifests := discovery.Filter(files, opts)
	if len(args) == 0 {
		return manifests, nil
	}

	inTree := make(map[string]bool, len(files))
	for _, f := range files {
		inTree[f] = true
	}

	var paths []string
	for _, arg := range args {
		arg = strings.TrimPrefix(path.Clean(arg), "/")
		if inTree[arg] {
			paths = append(paths, arg)
			continue
		}

		matched := false
		for _, m := range manifests {
			if arg == "." || strings.HasPrefix(m, arg+"/") {
				paths = append(paths, m)
				matched = true
			}
		}
		if !matched {
			paths = append(paths, arg)
		}
	}
	return paths, nil
}

func writeInfo(w io.Writer, m *loader.Manifest) {
	fmt.Fprintf(w, "path:      %s\n", m.Path)
	fmt.Fprintf(w, "kind:      %s\n", m.Kind)
	fmt.Fprintf(w, "format:    %s\n", m.Format())

	switch m.Kind {
	case flatpak.KindApplication:
		a := m.Application
		fmt.Fprintf(w, "id:        %s\n", a.Identifier())
		fmt.Fprintf(w, "runtime:   %s//%s\n", a.Runtime, a.RuntimeVersion)
		fmt.Fprintf(w, "sdk:       %s\n", a.SDK)
		if a.Command != "" {
			fmt.Fprintf(w, "command:   %s\n", a.Command)
		}
		if a.IsExtension() {
			fmt.Fprintln(w, "extension: yes")
		}
		if url, ok := a.MainModuleURL(); ok {
			fmt.Fprintf(w, "main url:  %s\n", url)
		}
	case flatpak.KindModule:
		fmt.Fprintf(w, "name:      %s\n", m.Module.Name)
		if bs, ok := m.Module.BuildSystem(); ok {
			fmt.Fprintf(w, "build:     %s\n", bs)
		}
	case flatpak.KindSource:
		fmt.Fprintf(w, "sources:   %d\n", len(m.Sources))
		return
	}

	fmt.Fprintf(w, "modules:   %d\n", len(m.Modules()))
	fmt.Fprintf(w, "depth:     %d\n", m.MaxDepth())
	fmt.Fprintf(w, "urls:      %d\n", len(m.URLs(false)))
}

func writeModules(w io.Writer, items []flatpak.ModuleItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		switch {
		case item.Path != "":
			fmt.Fprintf(w, "%s%s (file)\n", indent, item.Path)
		case item.Inline != nil:
			m := item.Inline
			line := m.Name
			if bs, ok := m.BuildSystem(); ok {
				line += " [" + bs.String() + "]"
			}
			fmt.Fprintf(w, "%s%s\n", indent, line)
			writeModules(w, m.Modules, depth+1)
		}
	}
}

func indexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
