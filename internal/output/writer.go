package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/flatpakman/internal/domain"
	"github.com/quantmind-br/flatpakman/internal/utils"
	"github.com/quantmind-br/flatpakman/pkg/flatpak"
)

// Writer writes dumped and converted manifests to the filesystem
type Writer struct {
	baseDir string
	force   bool
	dryRun  bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// BaseDir receives the written files. Empty keeps each file next to
	// the manifest it was produced from.
	BaseDir string
	Force   bool
	DryRun  bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	return &Writer{
		baseDir: opts.BaseDir,
		force:   opts.Force,
		dryRun:  opts.DryRun,
	}
}

// ConvertedPath returns path with its extension swapped for the one of format
func ConvertedPath(path string, format flatpak.Format) string {
	return utils.ReplaceExt(path, format.Ext())
}

// OutputPath returns where the conversion of src to format is written
func (w *Writer) OutputPath(src string, format flatpak.Format) string {
	converted := ConvertedPath(src, format)
	if w.baseDir == "" {
		return converted
	}
	return filepath.Join(w.baseDir, filepath.Base(converted))
}

// WriteManifest writes content to path. An existing file is kept unless the
// writer forces overwrites; the first return value reports whether the file
// was (or, in a dry run, would have been) written.
func (w *Writer) WriteManifest(path, content string) (bool, error) {
	if !w.force && w.Exists(path) {
		return false, nil
	}
	if w.dryRun {
		return true, nil
	}

	if err := utils.WriteFileAtomic(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	return true, nil
}

// Exists checks if a file already exists at path
func (w *Writer) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
