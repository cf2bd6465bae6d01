package repository

import (
	"path"
	"strings"
)

// nameMatches applies a '*' wildcard filter case-insensitively.
func nameMatches(pattern, name string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(name))
	return err == nil && ok
}

// likePattern turns a '*' wildcard filter into a SQL LIKE pattern.
func likePattern(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "*", "%")
	return strings.ToLower(r.Replace(pattern))
}
