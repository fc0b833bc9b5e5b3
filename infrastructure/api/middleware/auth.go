package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader carries an admin API key. A bearer token is accepted too.
const APIKeyHeader = "X-API-KEY"

// AuthConfig holds the accepted API keys. The zero value accepts everything.
type AuthConfig struct {
	keys []string
}

// NewAuthConfigWithKeys creates an AuthConfig from the configured keys.
// Blank keys are ignored; with no keys left authentication is disabled.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	var keys []string
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return AuthConfig{keys: keys}
}

// Enabled returns true if at least one key is configured.
func (c AuthConfig) Enabled() bool { return len(c.keys) > 0 }

func (c AuthConfig) check(r *http.Request) error {
	presented := presentedKey(r)
	if presented == "" {
		return NewAuthenticationError(APIKeyHeader + " header or bearer token is required")
	}
	for _, k := range c.keys {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(k)) == 1 {
			return nil
		}
	}
	return NewAuthenticationError("invalid API key")
}

func presentedKey(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// guard rejects requests without a valid key when protected reports true.
func guard(config AuthConfig, protected func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Enabled() && protected(r) {
				if err := config.check(r); err != nil {
					WriteError(w, r, err, nil)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIKey requires a valid key on every request except CORS preflights.
func APIKey(config AuthConfig) func(http.Handler) http.Handler {
	return guard(config, func(r *http.Request) bool {
		return r.Method != http.MethodOptions
	})
}

// WriteProtect requires a valid key only for mutating methods.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return guard(config, func(r *http.Request) bool {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return false
		}
		return true
	})
}
