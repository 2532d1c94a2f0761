package flatpak

import "strings"

// ArchiveType is the value of an archive source's archive-type field
type ArchiveType string

const (
	ArchiveRpm         ArchiveType = "rpm"
	ArchiveTar         ArchiveType = "tar"
	ArchiveTarGzip     ArchiveType = "tar-gzip"
	ArchiveTarCompress ArchiveType = "tar-compress"
	ArchiveTarBzip2    ArchiveType = "tar-bzip2"
	ArchiveTarLzip     ArchiveType = "tar-lzip"
	ArchiveTarLzma     ArchiveType = "tar-lzma"
	ArchiveTarLzop     ArchiveType = "tar-lzop"
	ArchiveTarXz       ArchiveType = "tar-xz"
	ArchiveZip         ArchiveType = "zip"
	Archive7z          ArchiveType = "7z"
)

// ArchiveTypes lists every recognized archive type
var ArchiveTypes = []ArchiveType{
	ArchiveRpm,
	ArchiveTar,
	ArchiveTarGzip,
	ArchiveTarCompress,
	ArchiveTarBzip2,
	ArchiveTarLzip,
	ArchiveTarLzma,
	ArchiveTarLzop,
	ArchiveTarXz,
	ArchiveZip,
	Archive7z,
}

// archiveSuffixes is checked in order, first match wins. Compound suffixes
// come before anything they could be confused with.
var archiveSuffixes = []struct {
	suffix string
	kind   ArchiveType
}{
	{".tar.gz", ArchiveTarGzip},
	{".tgz", ArchiveTarGzip},
	{".tar.z", ArchiveTarCompress},
	{".taz", ArchiveTarCompress},
	{".tar.bz2", ArchiveTarBzip2},
	{".tbz2", ArchiveTarBzip2},
	{".tbz", ArchiveTarBzip2},
	{".tz2", ArchiveTarBzip2},
	{".tar.lzma", ArchiveTarLzma},
	{".tlz", ArchiveTarLzma},
	{".tar.lzo", ArchiveTarLzop},
	{".tar.lz", ArchiveTarLzip},
	{".tar.xz", ArchiveTarXz},
	{".txz", ArchiveTarXz},
	{".tar", ArchiveTar},
	{".zip", ArchiveZip},
	{".rpm", ArchiveRpm},
	{".7z", Archive7z},
}

// ParseArchiveType converts a string into an ArchiveType
func ParseArchiveType(s string) (ArchiveType, error) {
	t := ArchiveType(s)
	if !t.IsValid() {
		return "", newValueError("archive type", s)
	}
	return t, nil
}

// String returns the manifest token
func (t ArchiveType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the recognized archive types
func (t ArchiveType) IsValid() bool {
	for _, known := range ArchiveTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DetectArchiveType guesses the archive type from the trailing components of
// a path or URL, the same way flatpak-builder does when archive-type is not
// set. The second return value is false when nothing matches.
func DetectArchiveType(path string) (ArchiveType, bool) {
	lower := strings.ToLower(path)
	for _, entry := range archiveSuffixes {
		if strings.HasSuffix(lower, entry.suffix) {
			return entry.kind, true
		}
	}
	return "", false
}
