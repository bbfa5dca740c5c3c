package helpers

import (
	"net/url"
	"strings"
)

// ResolveURL turns href into an absolute URL against base. Absolute hrefs
// are returned untouched; unresolvable input yields "".
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if IsAbsoluteURL(href) {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// IsAbsoluteURL reports whether s starts with an http(s) scheme
func IsAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// CollapseSpaces trims s and squeezes internal whitespace runs into one space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
