// Package flatpak parses, validates and serializes Flatpak build manifests.
//
// Three kinds of manifests are supported: application manifests (the root of
// a build), module manifests and source manifests. Each can be written in
// YAML, JSON (with line-bounded /* */ comments) or TOML.
//
// # Path or inline
//
// Module lists and source lists accept two shapes for every element: an
// inline description, or a string naming a separate manifest file that is
// loaded later. Both shapes are represented by Item:
//
//	modules:
//	  - shared-modules/libsecret/libsecret.json
//	  - name: app
//	    sources:
//	      - type: git
//	        url: https://example.com/app.git
//
// Loading the referenced files is the caller's job; this package never does
// any I/O.
//
// # Usage
//
//	app, err := flatpak.ParseApplication("org.example.App.yaml", content)
//	if err != nil {
//	    return err
//	}
//	for _, url := range app.AllModuleURLs() {
//	    fmt.Println(url)
//	}
//
// # Error Handling
//
// Parsing is all-or-nothing. Failures can be matched with errors.Is:
//   - ErrInvalidFormat: the text is not valid YAML/JSON/TOML for the entity
//   - ErrMissingField: a required field is empty (see FieldError)
//   - ErrInvalidValue: a field holds a value outside its closed set (see ValueError)
//   - ErrSourceURLString: a string source item is a URL instead of a path
//   - ErrSourceNotActionable: a source has none of url, path or commands
package flatpak
