package flatpak

// Architecture is a CPU architecture token used by only-arches, skip-arches
// and per-arch build options.
type Architecture string

// There is no authoritative list of the architectures flatpak-builder
// accepts; these are the ones seen in published manifests.
const (
	ArchI386     Architecture = "i386"
	ArchX86_64   Architecture = "x86_64"
	ArchAarch64  Architecture = "aarch64"
	ArchArm      Architecture = "arm"
	ArchArmeb    Architecture = "armeb"
	ArchMipsel   Architecture = "mipsel"
	ArchMips64el Architecture = "mips64el"
)

// Architectures lists every recognized architecture
var Architectures = []Architecture{
	ArchI386,
	ArchX86_64,
	ArchAarch64,
	ArchArm,
	ArchArmeb,
	ArchMipsel,
	ArchMips64el,
}

// ParseArchitecture converts a string into an Architecture
func ParseArchitecture(s string) (Architecture, error) {
	a := Architecture(s)
	if !a.IsValid() {
		return "", newValueError("architecture", s)
	}
	return a, nil
}

func (a Architecture) String() string {
	return string(a)
}

// IsValid reports whether a is one of the recognized architectures
func (a Architecture) IsValid() bool {
	for _, known := range Architectures {
		if a == known {
			return true
		}
	}
	return false
}

func checkArches(field string, arches []string) error {
	for _, arch := range arches {
		if _, err := ParseArchitecture(arch); err != nil {
			return newValueError(field, arch)
		}
	}
	return nil
}
