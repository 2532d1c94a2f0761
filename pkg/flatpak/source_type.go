package flatpak

// SourceType is the value of a source's type field
type SourceType string

const (
	SourceArchive   SourceType = "archive"
	SourceGit       SourceType = "git"
	SourceBzr       SourceType = "bzr"
	SourceSvn       SourceType = "svn"
	SourceDir       SourceType = "dir"
	SourceFile      SourceType = "file"
	SourceScript    SourceType = "script"
	SourceShell     SourceType = "shell"
	SourcePatch     SourceType = "patch"
	SourceExtraData SourceType = "extra-data"
)

// SourceTypes lists every recognized source type
var SourceTypes = []SourceType{
	SourceArchive,
	SourceGit,
	SourceBzr,
	SourceSvn,
	SourceDir,
	SourceFile,
	SourceScript,
	SourceShell,
	SourcePatch,
	SourceExtraData,
}

// ParseSourceType converts a string into a SourceType
func ParseSourceType(s string) (SourceType, error) {
	t := SourceType(s)
	if !t.IsValid() {
		return "", newValueError("source type", s)
	}
	return t, nil
}

// String returns the manifest token
func (t SourceType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the recognized source types
func (t SourceType) IsValid() bool {
	for _, known := range SourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsCode reports whether the source is a checkout or extraction of an
// actual software project, as opposed to auxiliary content.
func (t SourceType) IsCode() bool {
	switch t {
	case SourceArchive, SourceGit, SourceBzr, SourceSvn, SourceDir:
		return true
	}
	return false
}

// IsVCS reports whether the source is a version control checkout
func (t SourceType) IsVCS() bool {
	switch t {
	case SourceGit, SourceBzr, SourceSvn:
		return true
	}
	return false
}

// SupportsMirrorURLs reports whether mirror-urls is legal for the type
func (t SourceType) SupportsMirrorURLs() bool {
	return t == SourceArchive || t == SourceFile
}
