// Package slug derives canonical URL path segments for handbook pages.
package slug

import (
	"regexp"
	"strings"
)

var (
	quotePattern    = regexp.MustCompile(`['"]`)
	separatorRun    = regexp.MustCompile(`[^a-z0-9]+`)
	validSlugFormat = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Normalize lowercases and trims the input, strips quote characters, and
// collapses every run of non-alphanumeric characters to a single hyphen.
// The result never starts or ends with a hyphen.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = quotePattern.ReplaceAllString(s, "")
	s = separatorRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Derive computes the slug of a new node. A non-empty override wins over the
// title. When parent is set the result is prefixed with "parent-" unless it
// already carries that prefix. An empty result means both title and override
// normalized to nothing and must be rejected by the caller.
func Derive(title, parent, override string) string {
	s := Normalize(override)
	if s == "" {
		s = Normalize(title)
	}
	if s == "" {
		return ""
	}
	parent = Normalize(parent)
	if parent != "" && !strings.HasPrefix(s, parent+"-") {
		s = parent + "-" + s
	}
	return s
}

// HasPrefix reports whether s sits under the parent slug.
func HasPrefix(s, parent string) bool {
	if parent == "" {
		return true
	}
	return strings.HasPrefix(s, parent+"-")
}

// Valid reports whether s is already in normalized form.
func Valid(s string) bool {
	return validSlugFormat.MatchString(s)
}
