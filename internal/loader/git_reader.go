package loader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/quantmind-br/flatpakman/internal/domain"
)

// GitReader reads manifests from the tree of one commit in a local git
// repository. Paths are slash paths relative to the repository root.
type GitReader struct {
	tree     *object.Tree
	hash     plumbing.Hash
	revision string
}

// OpenGitReader opens the repository containing dir and pins it to revision.
// An empty revision means HEAD.
func OpenGitReader(dir, revision string) (*GitReader, error) {
	if revision == "" {
		revision = "HEAD"
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRevisionNotFound, revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", hash, err)
	}

	return &GitReader{tree: tree, hash: *hash, revision: revision}, nil
}

// Revision returns the revision the reader was opened at
func (g *GitReader) Revision() string {
	return g.revision
}

// Hash returns the commit the revision resolved to
func (g *GitReader) Hash() string {
	return g.hash.String()
}

// ReadFile returns the content of the file at p in the pinned commit
func (g *GitReader) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := g.tree.File(treePath(p))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s@%s", domain.ErrNotFound, p, g.revision)
	}
	if err != nil {
		return nil, err
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(contents), nil
}

// ListFiles returns the path of every file in the pinned commit
func (g *GitReader) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := g.tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// treePath normalizes p to the form tree lookups expect
func treePath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimLeft(p, "/")
}
