package scripture

import "strings"

// Slugify derives the URL-safe slug for a book name: lowercase, any run of
// characters outside [a-z0-9] collapses to a single hyphen, leading and
// trailing hyphens trimmed. The result is stable and idempotent, e.g.
// Slugify("Song of Solomon") == "song-of-solomon".
func Slugify(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
