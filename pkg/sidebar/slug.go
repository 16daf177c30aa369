package sidebar

import "strings"

// Slugify converts a display name into a stable identifier usable as a
// session-state key: lowercased, spaces replaced by underscores, everything
// outside [a-z_] dropped. The derivation is deterministic, so the same name
// always yields the same key across sessions.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ReplaceAll(strings.ToLower(name), " ", "_") {
		if (r >= 'a' && r <= 'z') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
