package flatpak

import "strings"

// StripJSONComments removes /* */ comments from JSON manifest content.
//
// This is a line-oriented filter, not a lexer. A line whose trimmed text
// starts with "/*" and ends with "*/" is dropped. A line that starts with
// "/*" without ending with "*/" opens a comment block; every following line
// is dropped up to and including the first line ending with "*/". Markers
// anywhere else in a line (after real content, inside string literals) are
// left untouched. Kept lines are emitted with a trailing newline.
func StripJSONComments(content string) string {
	var b strings.Builder
	b.Grow(len(content) + 1)

	inComment := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		opens := strings.HasPrefix(trimmed, "/*")
		closes := strings.HasSuffix(trimmed, "*/")

		if opens && closes {
			continue
		}
		if opens && !inComment {
			inComment = true
			continue
		}
		if closes && inComment {
			inComment = false
			continue
		}
		if inComment {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
