// Package setting holds the site-wide CMS settings.
package setting

import (
	"context"
	"slices"
)

// Key names a CMS setting.
type Key string

// Known setting keys.
const (
	KeySiteTitle      Key = "site_title"
	KeyFooterText     Key = "footer_text"
	KeySocialFacebook Key = "social_facebook"
	KeySocialTwitter  Key = "social_twitter"
)

// Keys lists every setting that may be read or written.
var Keys = []Key{KeySiteTitle, KeyFooterText, KeySocialFacebook, KeySocialTwitter}

// ParseKey returns the key and true if s names a known setting.
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	return k, slices.Contains(Keys, k)
}

// Values maps every known key to its value. Unset keys map to "".
type Values map[Key]string

// Split separates a raw update into known values and rejected key names.
// Rejected names are sorted.
func Split(raw map[string]string) (Values, []string) {
	known := make(Values, len(raw))
	var rejected []string
	for k, v := range raw {
		key, ok := ParseKey(k)
		if !ok {
			rejected = append(rejected, k)
			continue
		}
		known[key] = v
	}
	slices.Sort(rejected)
	return known, rejected
}

// Store persists settings.
type Store interface {
	All(ctx context.Context) (Values, error)
	Set(ctx context.Context, values Values) error
}
