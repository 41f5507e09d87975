package redis

import "strings"

// KeyPrefixView is the prefix of every cached view render.
const KeyPrefixView = "converso:view:"

// ViewKey returns the key of one render of path for user with the given raw query.
func ViewKey(path, user, query string) string {
	return KeyPrefixView + path + ":" + user + ":" + query
}

// ViewPatterns returns the SCAN patterns matching every render of path and
// of the views nested under it.
func ViewPatterns(path string) []string {
	p := KeyPrefixView + escapeGlob(strings.TrimSuffix(path, "/"))
	return []string{p + ":*", p + "/*"}
}

// escapeGlob quotes the characters Redis treats as glob syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
