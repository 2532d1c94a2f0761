package flatpak

import (
	"errors"
	"fmt"
)

// Source is a pointer to content that is extracted into the build directory
// before a module is built. Most fields only apply to some source types; the
// applicable types are listed next to each field.
type Source struct {
	format Format

	// Type of the source. Not required by flatpak-builder, but a source
	// without one is very rare.
	Type SourceType `json:"type,omitempty" yaml:"type,omitempty"`

	// Shell commands. types: script, shell
	Commands []string `json:"commands,omitempty" yaml:"commands,omitempty"`

	// Filename to use inside the source dir. types: script, archive, file
	DestFilename string `json:"dest-filename,omitempty" yaml:"dest-filename,omitempty"`

	// Name to use for the downloaded extra data. types: extra-data
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`

	// types: extra-data, svn, bzr, git, archive, file
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Alternative urls used if the main url fails. types: archive, file
	MirrorURLs []string `json:"mirror-urls,omitempty" yaml:"mirror-urls,omitempty"`

	// Checksums, verified after download. md5 and sha1 are no longer
	// considered safe. types: archive, file (sha256 also extra-data)
	MD5    string `json:"md5,omitempty" yaml:"md5,omitempty"`
	SHA1   string `json:"sha1,omitempty" yaml:"sha1,omitempty"`
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	SHA512 string `json:"sha512,omitempty" yaml:"sha512,omitempty"`

	// Size of the extra data in bytes. types: extra-data
	Size *int64 `json:"size,omitempty" yaml:"size,omitempty"`

	// Initialise the extracted archive as a git repository. types: archive
	GitInit *bool `json:"git-init,omitempty" yaml:"git-init,omitempty"`

	// Extra installed size this adds to the app. types: extra-data
	InstalledSize *int64 `json:"installed-size,omitempty" yaml:"installed-size,omitempty"`

	// types: svn, bzr
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`

	// types: git
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// Type of archive if it cannot be guessed from the path. types: archive
	ArchiveType ArchiveType `json:"archive-type,omitempty" yaml:"archive-type,omitempty"`

	// When branch is also set, the branch must point at this commit. types: git
	Commit string `json:"commit,omitempty" yaml:"commit,omitempty"`

	// types: git
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`

	// types: git, archive, dir, patch, file
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Patch files applied in order. types: patch
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Apply with "git apply" / "git am" instead of "patch". types: patch
	UseGit   *bool `json:"use-git,omitempty" yaml:"use-git,omitempty"`
	UseGitAm *bool `json:"use-git-am,omitempty" yaml:"use-git-am,omitempty"`

	// Extra options for the patch command. types: patch
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// types: git
	DisableFsckobjects  *bool `json:"disable-fsckobjects,omitempty" yaml:"disable-fsckobjects,omitempty"`
	DisableShallowClone *bool `json:"disable-shallow-clone,omitempty" yaml:"disable-shallow-clone,omitempty"`
	DisableSubmodules   *bool `json:"disable-submodules,omitempty" yaml:"disable-submodules,omitempty"`

	// Number of leading path components to strip, defaults to 1. types: archive, patch
	StripComponents *int64 `json:"strip-components,omitempty" yaml:"strip-components,omitempty"`

	// Files to ignore in the directory. types: dir
	Skip []string `json:"skip,omitempty" yaml:"skip,omitempty"`

	OnlyArches []string `json:"only-arches,omitempty" yaml:"only-arches,omitempty"`
	SkipArches []string `json:"skip-arches,omitempty" yaml:"skip-arches,omitempty"`

	// Directory inside the source dir where the source is extracted
	Dest string `json:"dest,omitempty" yaml:"dest,omitempty"`

	XCheckerData *CheckerData `json:"x-checker-data,omitempty" yaml:"x-checker-data,omitempty"`
}

// CheckerData configures flatpak-external-data-checker for a source.
// See https://github.com/flathub/flatpak-external-data-checker
type CheckerData struct {
	Type           string `json:"type,omitempty" yaml:"type,omitempty"`
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`
	VersionPattern string `json:"version-pattern,omitempty" yaml:"version-pattern,omitempty"`
	URLPattern     string `json:"url-pattern,omitempty" yaml:"url-pattern,omitempty"`
	IsMainSource   *bool  `json:"is-main-source,omitempty" yaml:"is-main-source,omitempty"`
}

// ParseSource parses a manifest holding a single source. The format is
// derived from the extension of pathHint.
func ParseSource(pathHint, content string) (*Source, error) {
	format, err := FormatFromPath(pathHint)
	if err != nil {
		return nil, err
	}
	return ParseSourceFormat(format, content)
}

// ParseSourceFormat parses a single source in the given format
func ParseSourceFormat(format Format, content string) (*Source, error) {
	var source Source
	if err := format.Decode(content, &source); err != nil {
		return nil, err
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	source.format = format
	return &source, nil
}

// ParseSources parses a manifest holding an array of sources. An empty
// array is rejected.
func ParseSources(pathHint, content string) ([]Source, error) {
	format, err := FormatFromPath(pathHint)
	if err != nil {
		return nil, err
	}

	var sources []Source
	if err := format.Decode(content, &sources); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	for i := range sources {
		if err := sources[i].Validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		sources[i].format = format
	}
	return sources, nil
}

// ParseSourceFile parses a standalone source manifest, which may hold one
// source or an array of sources. When both readings fail, the error of the
// reading that got past decoding is returned.
func ParseSourceFile(pathHint, content string) ([]Source, error) {
	single, singleErr := ParseSource(pathHint, content)
	if singleErr == nil {
		return []Source{*single}, nil
	}
	if errors.Is(singleErr, ErrUnsupportedExt) {
		return nil, singleErr
	}

	sources, manyErr := ParseSources(pathHint, content)
	if manyErr == nil {
		return sources, nil
	}

	best := singleErr
	if errors.Is(singleErr, ErrInvalidFormat) && !errors.Is(manyErr, ErrInvalidFormat) {
		best = manyErr
	}
	return nil, fmt.Errorf("%w: %w", ErrSourceManifest, best)
}

// Validate checks that the source is actionable and that its closed-set
// fields hold recognized values.
func (s *Source) Validate() error {
	if s.URL == "" && s.Path == "" && len(s.Commands) == 0 {
		return ErrSourceNotActionable
	}
	return s.checkValues()
}

func (s *Source) checkValues() error {
	if s.Type != "" && !s.Type.IsValid() {
		return newValueError("source type", string(s.Type))
	}
	if s.ArchiveType != "" && !s.ArchiveType.IsValid() {
		return newValueError("archive-type", string(s.ArchiveType))
	}
	if err := checkArches("only-arches", s.OnlyArches); err != nil {
		return err
	}
	return checkArches("skip-arches", s.SkipArches)
}

// Format returns the format the source was parsed from
func (s *Source) Format() Format {
	return s.format
}

// Dump serializes the source in the format it was parsed from
func (s *Source) Dump() (string, error) {
	return s.DumpAs(s.format)
}

// DumpAs serializes the source in the given format
func (s *Source) DumpAs(format Format) (string, error) {
	return format.Encode(s)
}

// Kind returns the source type when it is set and recognized
func (s *Source) Kind() (SourceType, bool) {
	if s.Type == "" || !s.Type.IsValid() {
		return "", false
	}
	return s.Type, true
}

// TypeName returns the type token, or "empty" when the type is not set
func (s *Source) TypeName() string {
	if s.Type == "" {
		return "empty"
	}
	return string(s.Type)
}

func (s *Source) HasCommit() bool { return s.Commit != "" }
func (s *Source) HasTag() bool    { return s.Tag != "" }
func (s *Source) HasBranch() bool { return s.Branch != "" }

// SupportsMirrorURLs reports whether mirror-urls may be used with this source
func (s *Source) SupportsMirrorURLs() bool {
	return s.Type.SupportsMirrorURLs()
}

// AllURLs returns the url followed by every mirror url
func (s *Source) AllURLs() []string {
	urls := make([]string, 0, 1+len(s.MirrorURLs))
	if s.URL != "" {
		urls = append(urls, s.URL)
	}
	return append(urls, s.MirrorURLs...)
}

// AllMirrorURLs returns a copy of the mirror urls
func (s *Source) AllMirrorURLs() []string {
	return append([]string{}, s.MirrorURLs...)
}

// DetectArchiveType returns the explicit archive-type, or guesses it from the
// url and then the path.
func (s *Source) DetectArchiveType() (ArchiveType, bool) {
	if s.ArchiveType != "" {
		return s.ArchiveType, s.ArchiveType.IsValid()
	}
	if t, ok := DetectArchiveType(s.URL); ok {
		return t, true
	}
	return DetectArchiveType(s.Path)
}
