package plan

import "strings"

// BranchName derives a slug-safe branch name from a prefix and a group name.
// The prefix passes through unchanged (a "user/feature" hierarchy is valid in
// git); the name part is slugified and joined with a hyphen.
func BranchName(prefix, name string) string {
	slug := slugify(name)
	if prefix == "" {
		return slug
	}
	if slug == "" {
		return prefix
	}
	return prefix + "-" + slug
}

// slugify converts a group name into a valid git branch segment. Spaces,
// underscores and path separators become hyphens, disallowed characters are
// stripped, runs of hyphens collapse, and the result is lowercased and
// trimmed of leading/trailing hyphens and dots.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '/':
			b.WriteRune('-')
		default:
			// drop disallowed characters (&, ~, ^, :, ?, *, [, etc.)
		}
	}
	s := b.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-.")
}
