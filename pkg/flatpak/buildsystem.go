package flatpak

// BuildSystem is the value of a module's buildsystem field
type BuildSystem string

const (
	BuildAutotools  BuildSystem = "autotools"
	BuildCMake      BuildSystem = "cmake"
	BuildCMakeNinja BuildSystem = "cmake-ninja"
	BuildMeson      BuildSystem = "meson"
	BuildQMake      BuildSystem = "qmake"
	BuildSimple     BuildSystem = "simple"
)

// BuildSystems lists every recognized build system
var BuildSystems = []BuildSystem{
	BuildAutotools,
	BuildCMake,
	BuildCMakeNinja,
	BuildMeson,
	BuildQMake,
	BuildSimple,
}

// ParseBuildSystem converts a string into a BuildSystem
func ParseBuildSystem(s string) (BuildSystem, error) {
	b := BuildSystem(s)
	if !b.IsValid() {
		return "", newValueError("build system", s)
	}
	return b, nil
}

func (b BuildSystem) String() string {
	return string(b)
}

// IsValid reports whether b is one of the recognized build systems
func (b BuildSystem) IsValid() bool {
	for _, known := range BuildSystems {
		if b == known {
			return true
		}
	}
	return false
}
