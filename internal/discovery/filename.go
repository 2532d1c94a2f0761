package discovery

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// reverseDNSPattern matches manifest file names such as
// org.example.App.yaml. It is applied to the lower-cased path.
var reverseDNSPattern = regexp.MustCompile(
	`[a-z][a-z][a-z]*\.[a-z][0-9a-zA-Z_\-]+\.[a-z][0-9a-zA-Z_\-]+(\.[a-z][0-9a-zA-Z_\-]+)*\.(json|yaml|yml)$`,
)

// manifestExtensions are the file extensions a manifest can have
var manifestExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// IsReverseDNS reports whether the file name of path follows the reverse-DNS
// naming used by application manifests.
func IsReverseDNS(path string) bool {
	return reverseDNSPattern.MatchString(strings.ToLower(path))
}

// HasManifestExtension reports whether path ends in an extension a manifest
// can be written in
func HasManifestExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range manifestExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// ReverseDNSFromURL turns a repository URL into a reverse-DNS identifier:
// https://gitlab.com/user/project.git becomes com.gitlab.user.project.
// Only https URLs are supported.
func ReverseDNSFromURL(rawURL string) (string, error) {
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		return "", fmt.Errorf("only https URLs are supported: %s", rawURL)
	}
	rest = strings.TrimSuffix(rest, ".git")

	parts := strings.Split(rest, "/")
	host := strings.Split(parts[0], ".")
	for i, j := 0, len(host)-1; i < j; i, j = i+1, j-1 {
		host[i], host[j] = host[j], host[i]
	}

	return strings.Join(append(host, parts[1:]...), "."), nil
}
