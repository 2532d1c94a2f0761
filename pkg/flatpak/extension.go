package flatpak

// ExtensionPoint declares a named slot that separately packaged extensions
// can fill. Extension points are declared under add-extensions (installed
// with the application) or add-build-extensions (available at build time).
type ExtensionPoint struct {
	// Directory where the extension is mounted, relative to the app or
	// runtime prefix
	Directory string `json:"directory" yaml:"directory"`

	// Create the extension as part of the build and bundle it with the app
	Bundle *bool `json:"bundle,omitempty" yaml:"bundle,omitempty"`

	// Remove the extension point content after the build
	RemoveAfterBuild *bool `json:"remove-after-build,omitempty" yaml:"remove-after-build,omitempty"`

	// Uninstall the extension when the application is uninstalled
	Autodelete *bool `json:"autodelete,omitempty" yaml:"autodelete,omitempty"`

	// Don't install the extension automatically with the application
	NoAutodownload *bool `json:"no-autodownload,omitempty" yaml:"no-autodownload,omitempty"`

	// Allow several extensions to be mounted in subdirectories of Directory
	Subdirectories *bool `json:"subdirectories,omitempty" yaml:"subdirectories,omitempty"`

	// Path added to the ld.so search path, relative to the extension
	AddLDPath string `json:"add-ld-path,omitempty" yaml:"add-ld-path,omitempty"`

	// Semicolon separated conditions, e.g. "active-gl-driver;have-intel-gpu"
	DownloadIf string `json:"download-if,omitempty" yaml:"download-if,omitempty"`
	EnableIf   string `json:"enable-if,omitempty" yaml:"enable-if,omitempty"`

	// Semicolon separated directories merged from all subdirectory extensions
	MergeDirs string `json:"merge-dirs,omitempty" yaml:"merge-dirs,omitempty"`

	SubdirectorySuffix string `json:"subdirectory-suffix,omitempty" yaml:"subdirectory-suffix,omitempty"`

	// Only download the locales matching the user's configured languages
	LocaleSubset *bool `json:"locale-subset,omitempty" yaml:"locale-subset,omitempty"`

	// Branch of the extension to use
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Semicolon separated branches; takes precedence over Version
	Versions string `json:"versions,omitempty" yaml:"versions,omitempty"`
}
