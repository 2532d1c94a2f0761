package flatpak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectArchiveType(t *testing.T) {
	tests := []struct {
		path   string
		want   ArchiveType
		wantOK bool
	}{
		{"foo.tar.gz", ArchiveTarGzip, true},
		{"foo.tgz", ArchiveTarGzip, true},
		{"foo.TAR.GZ", ArchiveTarGzip, true},
		{"foo.tar.bz2", ArchiveTarBzip2, true},
		{"foo.tbz2", ArchiveTarBzip2, true},
		{"foo.tbz", ArchiveTarBzip2, true},
		{"https://ftp.gnu.org/gnu/gcc/gcc-7.5.0/gcc-7.5.0.tar.xz", ArchiveTarXz, true},
		{"foo.tar.lzo", ArchiveTarLzop, true},
		{"foo.tar.lz", ArchiveTarLzip, true},
		{"foo.tar", ArchiveTar, true},
		{"foo.zip", ArchiveZip, true},
		{"foo.rpm", ArchiveRpm, true},
		{"foo.7z", Archive7z, true},
		{"foo.unknownext", "", false},
		{"foo.gz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := DetectArchiveType(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArchiveType(t *testing.T) {
	got, err := ParseArchiveType("tar-gzip")
	require.NoError(t, err)
	assert.Equal(t, ArchiveTarGzip, got)

	_, err = ParseArchiveType("tar-gz")
	var verr *ValueError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tar-gz", verr.Value)
}

func TestSourceType(t *testing.T) {
	for _, st := range SourceTypes {
		parsed, err := ParseSourceType(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := ParseSourceType("hg")
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.True(t, SourceDir.IsCode())
	assert.False(t, SourcePatch.IsCode())
	assert.True(t, SourceSvn.IsVCS())
	assert.False(t, SourceArchive.IsVCS())
	assert.True(t, SourceArchive.SupportsMirrorURLs())
	assert.True(t, SourceFile.SupportsMirrorURLs())
	assert.False(t, SourceGit.SupportsMirrorURLs())
}

func TestBuildSystem(t *testing.T) {
	for _, bs := range BuildSystems {
		assert.True(t, bs.IsValid(), bs)
	}
	got, err := ParseBuildSystem("cmake-ninja")
	require.NoError(t, err)
	assert.Equal(t, BuildCMakeNinja, got)

	_, err = ParseBuildSystem("scons")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestArchitecture(t *testing.T) {
	got, err := ParseArchitecture("x86_64")
	require.NoError(t, err)
	assert.Equal(t, ArchX86_64, got)

	_, err = ParseArchitecture("sparc")
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.NoError(t, checkArches("only-arches", []string{"x86_64", "aarch64"}))
	assert.EqualError(t, checkArches("skip-arches", []string{"i386", "ppc"}), `invalid skip-arches "ppc"`)
}
