package flatpak

// ManifestKind is the denomination of a manifest file
type ManifestKind int

const (
	KindUnknown ManifestKind = iota
	KindApplication
	KindModule
	KindSource
)

func (k ManifestKind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindModule:
		return "module"
	case KindSource:
		return "source"
	}
	return "unknown"
}
