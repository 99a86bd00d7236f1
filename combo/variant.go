package combo

import (
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
)

// Expand returns the surface forms of name using DefaultLeet
func Expand(name string) []string {
	return ExpandWith(name, DefaultLeet)
}

// ExpandWith returns name, one leetspeak form per matching rule, and the
// lower/upper/capitalized form of each of those. Order is first-seen and
// duplicates (exact string equality) are collapsed.
func ExpandWith(name string, rules []LeetRule) []string {
	base := []string{name}

	lower := strings.ToLower(name)
	for _, r := range rules {
		if strings.ContainsRune(lower, r.From) {
			base = append(base, strings.ReplaceAll(lower, string(r.From), r.To))
		}
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(base)*4)
	add := func(v string) {
		if seen.Add(v) {
			out = append(out, v)
		}
	}

	for _, v := range base {
		add(v)
	}
	for _, v := range base {
		add(strings.ToLower(v))
		add(strings.ToUpper(v))
		add(capitalize(v))
	}

	return out
}

// capitalize uppercases the first rune and lowercases the rest
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}
