package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// manifestGlob selects every file with a manifest extension
const manifestGlob = "**/*.{json,yaml,yml,toml}"

// DefaultExclude skips build state and vendored trees
var DefaultExclude = []string{
	".git/**",
	"**/.flatpak-builder/**",
	"**/node_modules/**",
}

// Options controls which files are reported as manifests
type Options struct {
	// All reports every file with a manifest extension instead of only
	// reverse-DNS application manifests
	All bool
	// Exclude holds doublestar patterns matched against slash paths
	// relative to the search root
	Exclude []string
}

// Find returns the manifests under root in lexical order
func Find(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), manifestGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}

	var found []string
	for _, rel := range Filter(matches, opts) {
		found = append(found, filepath.Join(root, filepath.FromSlash(rel)))
	}
	return found, nil
}

// Filter keeps the slash paths that Find would report. It is used for file
// lists that do not come from the filesystem, such as a git tree.
func Filter(paths []string, opts Options) []string {
	var kept []string
	for _, p := range paths {
		if !HasManifestExtension(p) {
			continue
		}
		if !opts.All && !IsReverseDNS(p) {
			continue
		}
		if excluded(p, opts.Exclude) {
			continue
		}
		kept = append(kept, p)
	}
	sort.Strings(kept)
	return kept
}

func excluded(path string, patterns []string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, path); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidatePatterns checks that every exclude pattern is well formed
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return nil
}
